package utils

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/clientscore/backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

var ErrWrongTokenType = errors.New("wrong token type")

type Claims struct {
	AccountID uuid.UUID   `json:"account_id"`
	Role      models.Role `json:"role"`
	Type      TokenType   `json:"type"`
	jwt.RegisteredClaims
}

// TokenIssuer signs access and refresh tokens with separate secrets.
type TokenIssuer struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type TokenPair struct {
	AccessToken           string `json:"accessToken"`
	RefreshToken          string `json:"refreshToken"`
	AccessTokenExpiresAt  int64  `json:"accessTokenExpiresAt"`
	RefreshTokenExpiresAt int64  `json:"refreshTokenExpiresAt"`
}

func (i *TokenIssuer) secret(tokenType TokenType) []byte {
	if tokenType == RefreshToken {
		return []byte(i.RefreshSecret)
	}
	return []byte(i.AccessSecret)
}

func (i *TokenIssuer) sign(account *models.Account, tokenType TokenType, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expirationTime := now.Add(ttl)

	claims := &Claims{
		AccountID: account.ID,
		Role:      account.Role,
		Type:      tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   account.ID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(i.secret(tokenType))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expirationTime, nil
}

func (i *TokenIssuer) GenerateAccessToken(account *models.Account) (string, time.Time, error) {
	return i.sign(account, AccessToken, i.AccessTTL)
}

func (i *TokenIssuer) GenerateTokenPair(account *models.Account) (*TokenPair, error) {
	accessToken, accessExp, err := i.sign(account, AccessToken, i.AccessTTL)
	if err != nil {
		return nil, err
	}

	refreshToken, refreshExp, err := i.sign(account, RefreshToken, i.RefreshTTL)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		AccessTokenExpiresAt:  accessExp.Unix(),
		RefreshTokenExpiresAt: refreshExp.Unix(),
	}, nil
}

// ValidateToken checks signature, expiry and token type. Expiry surfaces as
// jwt.ErrTokenExpired so callers can tell it apart from a bad token.
func (i *TokenIssuer) ValidateToken(tokenString string, tokenType TokenType) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return i.secret(tokenType), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Type != tokenType {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

// Generate random string for additional security
func GenerateRandomString(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// NewAnonymousID returns a fresh public handle for a review.
func NewAnonymousID() (string, error) {
	suffix, err := GenerateRandomString(12)
	if err != nil {
		return "", err
	}
	return "anon-" + suffix, nil
}
