package services

import (
	"context"
	"strings"

	"github.com/clientscore/backend/internal/apperrors"
	"github.com/clientscore/backend/internal/cache"
	"github.com/clientscore/backend/internal/metrics"
	"github.com/clientscore/backend/internal/models"
	"github.com/clientscore/backend/internal/store"
	"github.com/clientscore/backend/internal/utils"
	"github.com/clientscore/backend/pkg/logger"
	"github.com/google/uuid"
)

const recentReviewCount = 10

type BusinessService struct {
	store *store.Store
	cache *cache.BusinessCache
}

func NewBusinessService(s *store.Store, c *cache.BusinessCache) *BusinessService {
	return &BusinessService{store: s, cache: c}
}

func (s *BusinessService) Create(ctx context.Context, req models.CreateBusinessRequest) (*models.Business, error) {
	req.Name = utils.SanitizeString(req.Name)
	req.Industry = utils.SanitizeString(req.Industry)
	req.Country = utils.SanitizeString(req.Country)
	req.Description = utils.SanitizeString(req.Description)
	req.Website = utils.SanitizeString(req.Website)

	if fields := utils.ValidateStruct(req); len(fields) > 0 {
		return nil, apperrors.Validation(fields)
	}

	business := &models.Business{
		Name:        req.Name,
		Industry:    req.Industry,
		Country:     req.Country,
		Description: req.Description,
		Website:     req.Website,
	}
	if err := s.store.CreateBusiness(ctx, business); err != nil {
		return nil, apperrors.Internal(err)
	}

	logger.WithFields(logger.Fields{"business_id": business.ID, "name": business.Name}).Info("business created")
	return business, nil
}

// Get returns the business with its aggregates and most recent visible
// reviews, served from the cache when possible.
func (s *BusinessService) Get(ctx context.Context, id uuid.UUID) (*models.BusinessDetail, error) {
	cached, err := s.cache.Get(ctx, id)
	if err != nil {
		logger.WithFields(logger.Fields{"business_id": id}).WithError(err).Warn("business cache read failed")
	}
	if s.cache.Enabled() {
		metrics.CacheLookup(cached != nil)
	}
	if cached != nil {
		return cached, nil
	}

	version, versionErr := s.cache.Version(ctx, id)
	if versionErr != nil {
		logger.WithFields(logger.Fields{"business_id": id}).WithError(versionErr).Warn("business cache version read failed")
	}

	business, err := s.store.BusinessByID(ctx, id)
	if err != nil {
		return nil, businessLookupError(err)
	}

	reviews, _, err := s.store.ListVisibleReviews(ctx, id, 1, recentReviewCount)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	detail := &models.BusinessDetail{Business: *business, RecentReviews: make([]models.PublicReview, 0, len(reviews))}
	for i := range reviews {
		detail.RecentReviews = append(detail.RecentReviews, reviews[i].Public())
	}

	if versionErr == nil {
		if err := s.cache.Set(ctx, detail, version); err != nil {
			logger.WithFields(logger.Fields{"business_id": id}).WithError(err).Warn("business cache write failed")
		}
	}
	return detail, nil
}

func (s *BusinessService) Search(ctx context.Context, filter models.BusinessFilter) (*models.BusinessPage, error) {
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)
	filter.Query = strings.TrimSpace(filter.Query)

	if filter.SortBy != "" && !validSort(filter.SortBy) {
		return nil, apperrors.InvalidInput("sortBy", "must be one of: "+strings.Join(store.SortKeys(), " "))
	}
	if filter.MinRating < 0 || filter.MinRating > 5 {
		return nil, apperrors.InvalidInput("minRating", "must be between 0 and 5")
	}

	businesses, total, err := s.store.SearchBusinesses(ctx, filter)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if businesses == nil {
		businesses = []models.Business{}
	}
	return &models.BusinessPage{Businesses: businesses, Pagination: models.NewPagination(filter.Page, filter.Limit, total)}, nil
}

func validSort(key string) bool {
	for _, k := range store.SortKeys() {
		if k == key {
			return true
		}
	}
	return false
}
