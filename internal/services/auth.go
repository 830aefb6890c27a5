package services

import (
	"context"
	"errors"
	"time"

	"github.com/clientscore/backend/internal/apperrors"
	"github.com/clientscore/backend/internal/models"
	"github.com/clientscore/backend/internal/store"
	"github.com/clientscore/backend/internal/utils"
	"github.com/clientscore/backend/pkg/logger"
	"github.com/google/uuid"
)

type AuthService struct {
	store      *store.Store
	gate       *IdentityGate
	tokens     *utils.TokenIssuer
	bcryptCost int
}

func NewAuthService(s *store.Store, gate *IdentityGate, tokens *utils.TokenIssuer, bcryptCost int) *AuthService {
	return &AuthService{
		store:      s,
		gate:       gate,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	CompanyName string `json:"companyName" validate:"required,max=200"`
	WebsiteURL  string `json:"websiteUrl" validate:"omitempty,url"`
	Industry    string `json:"industry" validate:"max=100"`
	Country     string `json:"country" validate:"max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type AuthResponse struct {
	Tokens  *utils.TokenPair `json:"tokens"`
	Account *models.Account  `json:"account"`
}

type Profile struct {
	*models.Account
	ReviewCount int64 `json:"reviewCount"`
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	req.Email = models.NormalizeEmail(req.Email)
	req.CompanyName = utils.SanitizeString(req.CompanyName)
	req.WebsiteURL = utils.SanitizeString(req.WebsiteURL)

	if fields := utils.ValidateStruct(req); len(fields) > 0 {
		return nil, apperrors.Validation(fields)
	}

	account := &models.Account{
		Email:       req.Email,
		CompanyName: req.CompanyName,
		WebsiteURL:  req.WebsiteURL,
		Industry:    utils.SanitizeString(req.Industry),
		Country:     utils.SanitizeString(req.Country),
		Role:        models.RoleAgency,
		IsActive:    true,
	}
	if err := account.SetPassword(req.Password, s.bcryptCost); err != nil {
		return nil, apperrors.Internal(err)
	}

	if err := s.store.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, apperrors.Conflict("An account with this email already exists")
		}
		return nil, apperrors.Internal(err)
	}

	logger.WithFields(logger.Fields{"account_id": account.ID}).Info("account registered")
	return s.issue(account)
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	req.Email = models.NormalizeEmail(req.Email)
	if fields := utils.ValidateStruct(req); len(fields) > 0 {
		return nil, apperrors.Validation(fields)
	}

	account, err := s.store.AccountByEmail(ctx, req.Email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.InvalidCredential("Invalid email or password")
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if !account.CheckPassword(req.Password) {
		return nil, apperrors.InvalidCredential("Invalid email or password")
	}
	if !account.CanAuthenticate() {
		return nil, apperrors.Forbidden("Account is suspended or inactive")
	}

	now := time.Now().UTC()
	if err := s.store.UpdateAccount(ctx, account.ID, map[string]interface{}{"last_login_at": now}); err != nil {
		return nil, apperrors.Internal(err)
	}
	account.LastLoginAt = &now

	return s.issue(account)
}

// Refresh exchanges a refresh token for a new pair. The account is re-checked
// with the same rules the gate applies to access tokens.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	if refreshToken == "" {
		return nil, apperrors.AuthenticationRequired()
	}

	claims, err := s.tokens.ValidateToken(refreshToken, utils.RefreshToken)
	if err != nil {
		return nil, apperrors.InvalidCredential("Invalid refresh token")
	}

	account, err := s.gate.checkAccount(ctx, claims.AccountID)
	if err != nil {
		return nil, err
	}
	return s.issue(account)
}

func (s *AuthService) Me(ctx context.Context, identity *Identity) (*Profile, error) {
	if identity == nil {
		return nil, apperrors.AuthenticationRequired()
	}

	account, err := s.store.AccountByID(ctx, identity.AccountID)
	if err != nil {
		return nil, accountLookupError(err)
	}
	count, err := s.store.CountReviewsByAccount(ctx, account.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &Profile{Account: account, ReviewCount: count}, nil
}

// SetSuspended blocks or restores an account. Suspended accounts fail the
// identity gate immediately; their reviews stay in place.
func (s *AuthService) SetSuspended(ctx context.Context, accountID uuid.UUID, suspended bool) (*models.Account, error) {
	return s.setFlag(ctx, accountID, "is_suspended", suspended)
}

// SetActive deactivates or reactivates an account. Accounts are never
// hard-deleted so every review keeps a resolvable author.
func (s *AuthService) SetActive(ctx context.Context, accountID uuid.UUID, active bool) (*models.Account, error) {
	return s.setFlag(ctx, accountID, "is_active", active)
}

func (s *AuthService) setFlag(ctx context.Context, accountID uuid.UUID, column string, value bool) (*models.Account, error) {
	if err := s.store.UpdateAccount(ctx, accountID, map[string]interface{}{column: value}); err != nil {
		return nil, accountLookupError(err)
	}

	account, err := s.store.AccountByID(ctx, accountID)
	if err != nil {
		return nil, accountLookupError(err)
	}

	logger.WithFields(logger.Fields{"account_id": accountID, column: value}).Info("account status changed")
	return account, nil
}

func (s *AuthService) issue(account *models.Account) (*AuthResponse, error) {
	pair, err := s.tokens.GenerateTokenPair(account)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &AuthResponse{Tokens: pair, Account: account}, nil
}

func accountLookupError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.NotFound("Account")
	}
	return apperrors.From(err)
}
