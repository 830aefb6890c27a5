package utils

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/clientscore/backend/internal/apperrors"
	"github.com/clientscore/backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIssuer() *TokenIssuer {
	return &TokenIssuer{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	}
}

func TestTokenPair_RoundTrip(t *testing.T) {
	issuer := testIssuer()
	account := &models.Account{ID: uuid.New(), Role: models.RoleAdmin}

	pair, err := issuer.GenerateTokenPair(account)
	require.NoError(t, err)

	claims, err := issuer.ValidateToken(pair.AccessToken, AccessToken)
	require.NoError(t, err)
	assert.Equal(t, account.ID, claims.AccountID)
	assert.Equal(t, models.RoleAdmin, claims.Role)

	claims, err = issuer.ValidateToken(pair.RefreshToken, RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, RefreshToken, claims.Type)
}

func TestValidateToken_RejectsSwappedTypes(t *testing.T) {
	issuer := testIssuer()
	account := &models.Account{ID: uuid.New(), Role: models.RoleAgency}
	pair, err := issuer.GenerateTokenPair(account)
	require.NoError(t, err)

	// a refresh token is signed with the other secret
	_, err = issuer.ValidateToken(pair.RefreshToken, AccessToken)
	assert.Error(t, err)

	same := &TokenIssuer{AccessSecret: "s", RefreshSecret: "s", AccessTTL: time.Minute, RefreshTTL: time.Minute}
	pair, err = same.GenerateTokenPair(account)
	require.NoError(t, err)
	_, err = same.ValidateToken(pair.RefreshToken, AccessToken)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestValidateToken_Expired(t *testing.T) {
	issuer := testIssuer()
	issuer.AccessTTL = -time.Minute

	token, _, err := issuer.GenerateAccessToken(&models.Account{ID: uuid.New()})
	require.NoError(t, err)

	_, err = issuer.ValidateToken(token, AccessToken)
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))
}

func TestValidateToken_RejectsNoneAlg(t *testing.T) {
	claims := &Claims{AccountID: uuid.New(), Type: AccessToken, RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = testIssuer().ValidateToken(token, AccessToken)
	assert.Error(t, err)
}

func TestNewAnonymousID(t *testing.T) {
	a, err := NewAnonymousID()
	require.NoError(t, err)
	b, err := NewAnonymousID()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(a, "anon-"))
	assert.Len(t, a, len("anon-")+24)
	assert.NotEqual(t, a, b)
}

func TestValidateStruct_ReportsEveryField(t *testing.T) {
	req := models.SubmitReviewRequest{
		BusinessID:  "not-a-uuid",
		BudgetRange: "HUGE",
		Ratings:     models.Ratings{OverallRating: 0, PaymentRating: 6, CommunicationRating: 3, ScopeRating: 3, CreativeFreedomRating: 3, TimelinessRating: 3},
	}

	fields := ValidateStruct(req)
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Field)
	}

	assert.ElementsMatch(t, []string{"businessId", "projectType", "budgetRange", "overallRating", "paymentRating", "projectStatus"}, names)
}

func TestMergeFields_KeepsFirstEntryPerField(t *testing.T) {
	first := []apperrors.FieldError{{Field: "overallRating", Message: "must be an integer between 1 and 5"}}
	later := []apperrors.FieldError{
		{Field: "overallRating", Message: "must be at least 1"},
		{Field: "budgetRange", Message: "must be one of: UNDER_5K"},
	}

	merged := MergeFields(first, later)
	require.Len(t, merged, 2)
	assert.Equal(t, "must be an integer between 1 and 5", merged[0].Message)
	assert.Equal(t, "budgetRange", merged[1].Field)
	assert.Nil(t, MergeFields(nil, nil))
}

func TestCheckLength(t *testing.T) {
	assert.Empty(t, CheckLength(nil, "content", "0123456789", 10, 20))
	assert.Len(t, CheckLength(nil, "content", "short", 10, 20), 1)
	// runes, not bytes
	assert.Empty(t, CheckLength(nil, "content", strings.Repeat("é", 10), 10, 10))
}
