package store

import (
	"context"
	"strings"

	"github.com/clientscore/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

var businessOrder = map[string]string{
	"rating":  "average_rating DESC, total_reviews DESC",
	"reviews": "total_reviews DESC, average_rating DESC",
	"name":    "name ASC",
	"newest":  "created_at DESC",
}

// SortKeys lists the accepted BusinessFilter.SortBy values.
func SortKeys() []string {
	return []string{"rating", "reviews", "name", "newest"}
}

func (s *Store) CreateBusiness(ctx context.Context, business *models.Business) error {
	return s.conn(ctx).Create(business).Error
}

func (s *Store) BusinessByID(ctx context.Context, id uuid.UUID) (*models.Business, error) {
	var business models.Business
	if err := s.conn(ctx).First(&business, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &business, nil
}

// LockBusiness reads the business with SELECT ... FOR UPDATE. Concurrent
// writers on the same business queue behind the lock until commit.
func (s *Store) LockBusiness(ctx context.Context, id uuid.UUID) (*models.Business, error) {
	var business models.Business
	err := s.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&business, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &business, nil
}

func (s *Store) UpdateAggregates(ctx context.Context, id uuid.UUID, agg models.Aggregates) error {
	result := s.conn(ctx).Model(&models.Business{}).Where("id = ?", id).Updates(agg.Columns())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SearchBusinesses applies filter and returns one page plus the total match
// count. Page and Limit must already be normalized.
func (s *Store) SearchBusinesses(ctx context.Context, filter models.BusinessFilter) ([]models.Business, int64, error) {
	query := s.conn(ctx).Model(&models.Business{})

	if q := strings.TrimSpace(filter.Query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if filter.Industry != "" {
		query = query.Where("industry = ?", filter.Industry)
	}
	if filter.Country != "" {
		query = query.Where("country = ?", filter.Country)
	}
	if filter.MinRating > 0 {
		query = query.Where("average_rating >= ?", filter.MinRating)
	}
	if filter.MinReviews > 0 {
		query = query.Where("total_reviews >= ?", filter.MinReviews)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order, ok := businessOrder[filter.SortBy]
	if !ok {
		order = businessOrder["rating"]
	}

	var businesses []models.Business
	err := query.
		Order(order).
		Order("id").
		Offset(offset(filter.Page, filter.Limit)).
		Limit(filter.Limit).
		Find(&businesses).Error
	if err != nil {
		return nil, 0, err
	}
	return businesses, total, nil
}

// BusinessIDs returns every business id, oldest first.
func (s *Store) BusinessIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.conn(ctx).Model(&models.Business{}).Order("created_at").Pluck("id", &ids).Error
	return ids, err
}
