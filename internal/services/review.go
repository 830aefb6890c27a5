package services

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/clientscore/backend/internal/apperrors"
	"github.com/clientscore/backend/internal/cache"
	"github.com/clientscore/backend/internal/config"
	"github.com/clientscore/backend/internal/metrics"
	"github.com/clientscore/backend/internal/models"
	"github.com/clientscore/backend/internal/store"
	"github.com/clientscore/backend/internal/utils"
	"github.com/clientscore/backend/pkg/logger"
	"github.com/google/uuid"
)

// recomputer is the part of AggregationEngine that review writes depend on.
type recomputer interface {
	RecomputeTx(ctx context.Context, tx *store.Store, businessID uuid.UUID) (models.Aggregates, error)
}

// ReviewPolicy holds the configurable submission rules.
type ReviewPolicy struct {
	MinLength            int
	MaxLength            int
	ModerationMode       string
	AutoApproveMinLength int
}

func ReviewPolicyFromConfig(cfg *config.Config) ReviewPolicy {
	return ReviewPolicy{
		MinLength:            cfg.ReviewMinLength,
		MaxLength:            cfg.ReviewMaxLength,
		ModerationMode:       cfg.ModerationMode,
		AutoApproveMinLength: cfg.AutoApproveMinLength,
	}
}

// InitialStatus decides the moderation status of a new review.
func (p ReviewPolicy) InitialStatus(content string) models.ModerationStatus {
	if p.ModerationMode == config.ModerationAuto && utf8.RuneCountInString(content) >= p.AutoApproveMinLength {
		return models.ModerationApproved
	}
	return models.ModerationPending
}

type ReviewService struct {
	store      *store.Store
	aggregates recomputer
	cache      *cache.BusinessCache
	policy     ReviewPolicy
}

func NewReviewService(s *store.Store, aggregates recomputer, c *cache.BusinessCache, policy ReviewPolicy) *ReviewService {
	return &ReviewService{
		store:      s,
		aggregates: aggregates,
		cache:      c,
		policy:     policy,
	}
}

// Submit records one review and refreshes the business aggregates in the same
// transaction. Either both are committed or neither is.
func (s *ReviewService) Submit(ctx context.Context, identity *Identity, req models.SubmitReviewRequest) (*models.PublicReview, *models.Business, error) {
	if identity == nil {
		return nil, nil, apperrors.AuthenticationRequired()
	}

	req.Title = utils.SanitizeString(req.Title)
	req.Content = utils.SanitizeString(req.Content)
	req.ProjectType = utils.SanitizeString(req.ProjectType)

	fields := utils.MergeFields(req.DecodeErrors(), utils.ValidateStruct(req))
	fields = utils.MergeFields(fields, utils.CheckLength(nil, "content", req.Content, s.policy.MinLength, s.policy.MaxLength))
	if len(fields) > 0 {
		metrics.ReviewSubmitted(metrics.OutcomeRejected)
		return nil, nil, apperrors.Validation(fields)
	}

	businessID := uuid.MustParse(req.BusinessID)
	if _, err := s.store.BusinessByID(ctx, businessID); err != nil {
		metrics.ReviewSubmitted(metrics.OutcomeRejected)
		return nil, nil, businessLookupError(err)
	}

	anonymousID, err := utils.NewAnonymousID()
	if err != nil {
		return nil, nil, apperrors.Internal(err)
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	review := &models.Review{
		AnonymousID:      anonymousID,
		Title:            req.Title,
		Content:          req.Content,
		ProjectType:      req.ProjectType,
		BudgetRange:      req.BudgetRange,
		Ratings:          req.Ratings,
		ProjectStatus:    req.ProjectStatus,
		IsPublic:         isPublic,
		ModerationStatus: s.policy.InitialStatus(req.Content),
		AccountID:        identity.AccountID,
		BusinessID:       businessID,
	}

	var business *models.Business
	err = s.store.Transaction(ctx, func(tx *store.Store) error {
		locked, err := tx.LockBusiness(ctx, businessID)
		if err != nil {
			return err
		}
		if err := tx.CreateReview(ctx, review); err != nil {
			return err
		}
		agg, err := s.aggregates.RecomputeTx(ctx, tx, businessID)
		if err != nil {
			return err
		}
		locked.Aggregates = agg
		business = locked
		return nil
	})
	if err != nil {
		metrics.ReviewSubmitted(metrics.OutcomeFailed)
		return nil, nil, businessLookupError(err)
	}

	s.invalidate(ctx, businessID)
	metrics.ReviewSubmitted(metrics.OutcomeAccepted)
	logger.WithFields(logger.Fields{
		"review_id":         review.ID,
		"business_id":       businessID,
		"moderation_status": review.ModerationStatus,
	}).Info("review submitted")

	public := review.Public()
	return &public, business, nil
}

// SetVisibility lets an author hide or re-publish their own review.
func (s *ReviewService) SetVisibility(ctx context.Context, identity *Identity, reviewID uuid.UUID, isPublic bool) (*models.AuthoredReview, error) {
	if identity == nil {
		return nil, apperrors.AuthenticationRequired()
	}

	var review *models.Review
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		var err error
		review, err = tx.ReviewByID(ctx, reviewID)
		if err != nil {
			return err
		}
		if review.AccountID != identity.AccountID {
			return apperrors.Forbidden("You can only change your own reviews")
		}
		if err := tx.UpdateReview(ctx, reviewID, map[string]interface{}{"is_public": isPublic}); err != nil {
			return err
		}
		review.IsPublic = isPublic
		_, err = s.aggregates.RecomputeTx(ctx, tx, review.BusinessID)
		return err
	})
	if err != nil {
		return nil, reviewLookupError(err)
	}

	s.invalidate(ctx, review.BusinessID)
	authored := review.Authored()
	return &authored, nil
}

// ListForBusiness pages through the visible reviews of a business.
func (s *ReviewService) ListForBusiness(ctx context.Context, businessID uuid.UUID, page, limit int) (*models.ReviewPage, error) {
	if _, err := s.store.BusinessByID(ctx, businessID); err != nil {
		return nil, businessLookupError(err)
	}

	page, limit = normalizePage(page, limit)
	reviews, total, err := s.store.ListVisibleReviews(ctx, businessID, page, limit)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	out := make([]models.PublicReview, 0, len(reviews))
	for i := range reviews {
		out = append(out, reviews[i].Public())
	}
	return &models.ReviewPage{Reviews: out, Pagination: models.NewPagination(page, limit, total)}, nil
}

// ListMine returns the caller's reviews with their moderation state.
func (s *ReviewService) ListMine(ctx context.Context, identity *Identity, page, limit int) (*models.AuthoredReviewPage, error) {
	if identity == nil {
		return nil, apperrors.AuthenticationRequired()
	}

	page, limit = normalizePage(page, limit)
	reviews, total, err := s.store.ListReviewsByAccount(ctx, identity.AccountID, page, limit)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	out := make([]models.AuthoredReview, 0, len(reviews))
	for i := range reviews {
		out = append(out, reviews[i].Authored())
	}
	return &models.AuthoredReviewPage{Reviews: out, Pagination: models.NewPagination(page, limit, total)}, nil
}

func (s *ReviewService) invalidate(ctx context.Context, businessID uuid.UUID) {
	if err := s.cache.Invalidate(ctx, businessID); err != nil {
		logger.WithFields(logger.Fields{"business_id": businessID}).WithError(err).Warn("business cache invalidation failed")
	}
}

func businessLookupError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.NotFound("Business")
	}
	return apperrors.From(err)
}

func reviewLookupError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.NotFound("Review")
	}
	return apperrors.From(err)
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}
