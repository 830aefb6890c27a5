package services

import (
	"context"
	"errors"
	"time"

	"github.com/clientscore/backend/internal/apperrors"
	"github.com/clientscore/backend/internal/cache"
	"github.com/clientscore/backend/internal/metrics"
	"github.com/clientscore/backend/internal/models"
	"github.com/clientscore/backend/internal/store"
	"github.com/clientscore/backend/pkg/logger"
	"github.com/google/uuid"
)

// AggregationEngine derives a business's aggregates from its visible reviews.
// It always re-reads the full visible set, so running it twice on unchanged
// data writes the same values.
type AggregationEngine struct {
	store *store.Store
	cache *cache.BusinessCache
}

func NewAggregationEngine(s *store.Store, c *cache.BusinessCache) *AggregationEngine {
	return &AggregationEngine{store: s, cache: c}
}

// Recompute runs RecomputeTx in its own transaction. Moderation and backfill
// callers use it whenever the visible set changes outside a submission.
func (e *AggregationEngine) Recompute(ctx context.Context, businessID uuid.UUID) (models.Aggregates, error) {
	var agg models.Aggregates
	err := e.store.Transaction(ctx, func(tx *store.Store) error {
		var err error
		agg, err = e.RecomputeTx(ctx, tx, businessID)
		return err
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Aggregates{}, apperrors.NotFound("Business")
		}
		return models.Aggregates{}, apperrors.Internal(err)
	}

	e.invalidate(ctx, businessID)
	return agg, nil
}

// RecomputeTx locks the business row, summarizes the visible set and writes
// the result, all on tx.
func (e *AggregationEngine) RecomputeTx(ctx context.Context, tx *store.Store, businessID uuid.UUID) (agg models.Aggregates, err error) {
	start := time.Now()
	defer func() { metrics.RecomputeObserved(start, err) }()

	if _, err = tx.LockBusiness(ctx, businessID); err != nil {
		return models.Aggregates{}, err
	}

	rows, err := tx.VisibleRatings(ctx, businessID)
	if err != nil {
		return models.Aggregates{}, err
	}

	agg = models.Summarize(rows)
	if err = tx.UpdateAggregates(ctx, businessID, agg); err != nil {
		return models.Aggregates{}, err
	}

	logger.WithFields(logger.Fields{
		"business_id":   businessID,
		"total_reviews": agg.TotalReviews,
		"average":       agg.AverageRating,
	}).Debug("aggregates recomputed")
	return agg, nil
}

// RecomputeAll walks every business. It keeps going past individual failures
// and returns how many succeeded plus the first error seen.
func (e *AggregationEngine) RecomputeAll(ctx context.Context) (int, error) {
	ids, err := e.store.BusinessIDs(ctx)
	if err != nil {
		return 0, apperrors.Internal(err)
	}

	var firstErr error
	done := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return done, err
		}
		if _, err := e.Recompute(ctx, id); err != nil {
			logger.WithFields(logger.Fields{"business_id": id}).WithError(err).Error("recompute failed")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		done++
	}
	return done, firstErr
}

func (e *AggregationEngine) invalidate(ctx context.Context, businessID uuid.UUID) {
	if err := e.cache.Invalidate(ctx, businessID); err != nil {
		logger.WithFields(logger.Fields{"business_id": businessID}).WithError(err).Warn("business cache invalidation failed")
	}
}
