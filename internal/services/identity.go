package services

import (
	"context"
	"errors"

	"github.com/clientscore/backend/internal/apperrors"
	"github.com/clientscore/backend/internal/models"
	"github.com/clientscore/backend/internal/store"
	"github.com/clientscore/backend/internal/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Identity is a verified principal. The role is read from the account row.
type Identity struct {
	AccountID uuid.UUID
	Role      models.Role
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == models.RoleAdmin
}

// IdentityGate turns a bearer credential into an Identity.
type IdentityGate struct {
	store  *store.Store
	tokens *utils.TokenIssuer
}

func NewIdentityGate(s *store.Store, tokens *utils.TokenIssuer) *IdentityGate {
	return &IdentityGate{store: s, tokens: tokens}
}

// Verify has no side effects; it never refreshes or rotates the credential.
func (g *IdentityGate) Verify(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, apperrors.AuthenticationRequired()
	}

	claims, err := g.tokens.ValidateToken(token, utils.AccessToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ExpiredCredential()
		}
		return nil, apperrors.InvalidCredential("")
	}

	account, err := g.checkAccount(ctx, claims.AccountID)
	if err != nil {
		return nil, err
	}
	return &Identity{AccountID: account.ID, Role: account.Role}, nil
}

// checkAccount applies the account rules shared by Verify and Refresh.
func (g *IdentityGate) checkAccount(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	account, err := g.store.AccountByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.InvalidCredential("")
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if !account.CanAuthenticate() {
		return nil, apperrors.Forbidden("Account is suspended or inactive")
	}
	return account, nil
}
