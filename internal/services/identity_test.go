package services

import (
	"context"
	"testing"
	"time"

	"github.com/clientscore/backend/internal/apperrors"
	"github.com/clientscore/backend/internal/models"
	"github.com/clientscore/backend/internal/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	_, account := env.identity(t, "a@studio.io")

	pair, err := env.tokens.GenerateTokenPair(account)
	require.NoError(t, err)

	t.Run("valid access token", func(t *testing.T) {
		identity, err := env.gate.Verify(ctx, pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, account.ID, identity.AccountID)
		assert.Equal(t, models.RoleAgency, identity.Role)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := env.gate.Verify(ctx, "")
		assert.ErrorIs(t, err, apperrors.ErrAuthenticationRequired)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := env.gate.Verify(ctx, "not.a.token")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredential)
	})

	t.Run("refresh token is not an access credential", func(t *testing.T) {
		_, err := env.gate.Verify(ctx, pair.RefreshToken)
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredential)
	})

	t.Run("expired", func(t *testing.T) {
		expired := *env.tokens
		expired.AccessTTL = -time.Minute
		token, _, err := expired.GenerateAccessToken(account)
		require.NoError(t, err)

		_, err = env.gate.Verify(ctx, token)
		assert.ErrorIs(t, err, apperrors.ErrExpiredCredential)
	})

	t.Run("unknown account", func(t *testing.T) {
		token, _, err := env.tokens.GenerateAccessToken(&models.Account{ID: uuid.New(), Role: models.RoleAdmin})
		require.NoError(t, err)

		_, err = env.gate.Verify(ctx, token)
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredential)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := &utils.TokenIssuer{AccessSecret: "other", RefreshSecret: "other", AccessTTL: env.tokens.AccessTTL}
		token, _, err := other.GenerateAccessToken(account)
		require.NoError(t, err)

		_, err = env.gate.Verify(ctx, token)
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredential)
	})
}

func TestVerify_SuspendedAccount(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	_, account := env.identity(t, "a@studio.io")
	token, _, err := env.tokens.GenerateAccessToken(account)
	require.NoError(t, err)

	_, err = env.auth.SetSuspended(ctx, account.ID, true)
	require.NoError(t, err)

	_, err = env.gate.Verify(ctx, token)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestVerify_RoleComesFromAccount(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	_, account := env.identity(t, "a@studio.io")

	// a token claiming ADMIN for an AGENCY account
	forged := *account
	forged.Role = models.RoleAdmin
	token, _, err := env.tokens.GenerateAccessToken(&forged)
	require.NoError(t, err)

	identity, err := env.gate.Verify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAgency, identity.Role)
	assert.False(t, identity.IsAdmin())
}
