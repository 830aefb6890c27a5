package services

import (
	"context"
	"testing"

	"github.com/clientscore/backend/internal/apperrors"
	"github.com/clientscore/backend/internal/models"
	"github.com/clientscore/backend/internal/store/storetest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetStatus_ApproveThenFlag(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	business := storetest.Business(t, env.store, "Acme")
	_, account := env.identity(t, "a@studio.io")
	review := storetest.Review(t, env.store, account, business, 4, models.ModerationPending, true)

	moderated, err := env.moderation.SetStatus(ctx, review.ID, models.ModerationApproved, "looks genuine")
	require.NoError(t, err)
	assert.Equal(t, models.ModerationApproved, moderated.ModerationStatus)
	assert.Equal(t, "looks genuine", moderated.ModerationNotes)
	assert.Equal(t, 1, env.reload(t, business).TotalReviews)

	_, err = env.moderation.SetStatus(ctx, review.ID, models.ModerationFlagged, "")
	require.NoError(t, err)
	assert.Zero(t, env.reload(t, business).TotalReviews)
}

func TestSetStatus_Errors(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.moderation.SetStatus(ctx, uuid.New(), "MAYBE", "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = env.moderation.SetStatus(ctx, uuid.New(), models.ModerationApproved, "")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestPending(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	business := storetest.Business(t, env.store, "Acme")
	_, account := env.identity(t, "a@studio.io")

	storetest.Review(t, env.store, account, business, 4, models.ModerationPending, true)
	storetest.Review(t, env.store, account, business, 3, models.ModerationPending, false)
	storetest.Review(t, env.store, account, business, 2, models.ModerationApproved, true)

	page, err := env.moderation.Pending(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, page.Reviews, 2)
	assert.Equal(t, 1, page.Pagination.Page)
	assert.Equal(t, 20, page.Pagination.Limit)
}
