package services

import (
	"context"

	"github.com/clientscore/backend/internal/apperrors"
	"github.com/clientscore/backend/internal/cache"
	"github.com/clientscore/backend/internal/models"
	"github.com/clientscore/backend/internal/store"
	"github.com/clientscore/backend/pkg/logger"
	"github.com/google/uuid"
)

// ModerationService is the admin side of the review lifecycle. Every status
// change recomputes the business aggregates in the same transaction.
type ModerationService struct {
	store      *store.Store
	aggregates recomputer
	cache      *cache.BusinessCache
}

func NewModerationService(s *store.Store, aggregates recomputer, c *cache.BusinessCache) *ModerationService {
	return &ModerationService{store: s, aggregates: aggregates, cache: c}
}

type SetModerationRequest struct {
	Status models.ModerationStatus `json:"status" validate:"required,oneof=PENDING APPROVED REJECTED FLAGGED"`
	Notes  string                  `json:"notes" validate:"max=1000"`
}

func (s *ModerationService) SetStatus(ctx context.Context, reviewID uuid.UUID, status models.ModerationStatus, notes string) (*models.Review, error) {
	if !status.Valid() {
		return nil, apperrors.InvalidInput("status", "must be one of: PENDING APPROVED REJECTED FLAGGED")
	}

	var review *models.Review
	var agg models.Aggregates
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		var err error
		review, err = tx.ReviewByID(ctx, reviewID)
		if err != nil {
			return err
		}

		err = tx.UpdateReview(ctx, reviewID, map[string]interface{}{
			"moderation_status": status,
			"moderation_notes":  notes,
		})
		if err != nil {
			return err
		}
		review.ModerationStatus = status
		review.ModerationNotes = notes

		agg, err = s.aggregates.RecomputeTx(ctx, tx, review.BusinessID)
		return err
	})
	if err != nil {
		return nil, reviewLookupError(err)
	}

	if err := s.cache.Invalidate(ctx, review.BusinessID); err != nil {
		logger.WithFields(logger.Fields{"business_id": review.BusinessID}).WithError(err).Warn("business cache invalidation failed")
	}
	logger.WithFields(logger.Fields{
		"review_id":     review.ID,
		"business_id":   review.BusinessID,
		"status":        status,
		"total_reviews": agg.TotalReviews,
	}).Info("review moderated")
	return review, nil
}

// Pending lists reviews awaiting a moderation decision.
func (s *ModerationService) Pending(ctx context.Context, page, limit int) (*models.ModerationQueuePage, error) {
	page, limit = normalizePage(page, limit)
	reviews, total, err := s.store.ListReviewsByStatus(ctx, models.ModerationPending, page, limit)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &models.ModerationQueuePage{Reviews: reviews, Pagination: models.NewPagination(page, limit, total)}, nil
}
