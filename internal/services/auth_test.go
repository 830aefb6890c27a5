package services

import (
	"context"
	"errors"
	"testing"

	"github.com/clientscore/backend/internal/apperrors"
	"github.com/clientscore/backend/internal/models"
	"github.com/clientscore/backend/internal/store/storetest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registration() RegisterRequest {
	return RegisterRequest{
		Email:       "  Hello@Studio.IO ",
		Password:    "password123",
		CompanyName: "Studio",
		WebsiteURL:  "https://studio.io",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	registered, err := env.auth.Register(ctx, registration())
	require.NoError(t, err)
	assert.Equal(t, "hello@studio.io", registered.Account.Email)
	assert.Equal(t, models.RoleAgency, registered.Account.Role)
	assert.NotEmpty(t, registered.Tokens.AccessToken)

	identity, err := env.gate.Verify(ctx, registered.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.Account.ID, identity.AccountID)

	loggedIn, err := env.auth.Login(ctx, LoginRequest{Email: "HELLO@studio.io", Password: "password123"})
	require.NoError(t, err)
	require.NotNil(t, loggedIn.Account.LastLoginAt)

	_, err = env.auth.Login(ctx, LoginRequest{Email: "hello@studio.io", Password: "wrong-password"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredential)

	_, err = env.auth.Login(ctx, LoginRequest{Email: "nobody@studio.io", Password: "password123"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredential)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.auth.Register(ctx, registration())
	require.NoError(t, err)

	_, err = env.auth.Register(ctx, registration())
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestRegister_Validation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.Register(context.Background(), RegisterRequest{Email: "nope", Password: "short"})

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	fields := map[string]bool{}
	for _, f := range appErr.Fields {
		fields[f.Field] = true
	}
	assert.True(t, fields["email"])
	assert.True(t, fields["password"])
	assert.True(t, fields["companyName"])
}

func TestLogin_Suspended(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	registered, err := env.auth.Register(ctx, registration())
	require.NoError(t, err)

	_, err = env.auth.SetSuspended(ctx, registered.Account.ID, true)
	require.NoError(t, err)

	_, err = env.auth.Login(ctx, LoginRequest{Email: "hello@studio.io", Password: "password123"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	restored, err := env.auth.SetSuspended(ctx, registered.Account.ID, false)
	require.NoError(t, err)
	assert.False(t, restored.IsSuspended)

	_, err = env.auth.SetSuspended(ctx, uuid.New(), true)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	registered, err := env.auth.Register(ctx, registration())
	require.NoError(t, err)

	refreshed, err := env.auth.Refresh(ctx, registered.Tokens.RefreshToken)
	require.NoError(t, err)
	_, err = env.gate.Verify(ctx, refreshed.Tokens.AccessToken)
	require.NoError(t, err)

	_, err = env.auth.Refresh(ctx, registered.Tokens.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredential)

	_, err = env.auth.Refresh(ctx, "")
	assert.ErrorIs(t, err, apperrors.ErrAuthenticationRequired)

	_, err = env.auth.SetActive(ctx, registered.Account.ID, false)
	require.NoError(t, err)
	_, err = env.auth.Refresh(ctx, registered.Tokens.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestMe_CountsReviews(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	identity, account := env.identity(t, "a@studio.io")
	business := storetest.Business(t, env.store, "Acme")
	storetest.Review(t, env.store, account, business, 3, models.ModerationPending, true)

	profile, err := env.auth.Me(ctx, identity)
	require.NoError(t, err)
	assert.Equal(t, "a@studio.io", profile.Email)
	assert.EqualValues(t, 1, profile.ReviewCount)
}
