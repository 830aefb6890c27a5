package store

import (
	"context"

	"github.com/clientscore/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (s *Store) CreateReview(ctx context.Context, review *models.Review) error {
	return s.conn(ctx).Create(review).Error
}

func (s *Store) ReviewByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := s.conn(ctx).First(&review, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &review, nil
}

// UpdateReview writes the given columns, zero values included.
func (s *Store) UpdateReview(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	result := s.conn(ctx).Model(&models.Review{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// VisibleRatings reads the rating columns of every visible review of a business.
func (s *Store) VisibleRatings(ctx context.Context, businessID uuid.UUID) ([]models.VisibleRating, error) {
	var rows []models.VisibleRating
	err := s.conn(ctx).
		Model(&models.Review{}).
		Select(models.RatingColumns).
		Scopes(models.VisibleReviewScope).
		Where("business_id = ?", businessID).
		Find(&rows).Error
	return rows, err
}

// ListVisibleReviews pages through a business's visible reviews, newest first.
func (s *Store) ListVisibleReviews(ctx context.Context, businessID uuid.UUID, page, limit int) ([]models.Review, int64, error) {
	query := s.conn(ctx).
		Model(&models.Review{}).
		Scopes(models.VisibleReviewScope).
		Where("business_id = ?", businessID)
	return pageReviews(query, page, limit)
}

func (s *Store) ListReviewsByAccount(ctx context.Context, accountID uuid.UUID, page, limit int) ([]models.Review, int64, error) {
	query := s.conn(ctx).Model(&models.Review{}).Where("account_id = ?", accountID)
	return pageReviews(query, page, limit)
}

func (s *Store) ListReviewsByStatus(ctx context.Context, status models.ModerationStatus, page, limit int) ([]models.Review, int64, error) {
	query := s.conn(ctx).Model(&models.Review{}).Where("moderation_status = ?", status)
	return pageReviews(query, page, limit)
}

func pageReviews(query *gorm.DB, page, limit int) ([]models.Review, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []models.Review
	err := query.
		Order("created_at DESC").
		Order("id").
		Offset(offset(page, limit)).
		Limit(limit).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}
