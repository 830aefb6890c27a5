package services

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/clientscore/backend/internal/cache"
	"github.com/clientscore/backend/internal/config"
	"github.com/clientscore/backend/internal/models"
	"github.com/clientscore/backend/internal/store"
	"github.com/clientscore/backend/internal/store/storetest"
	"github.com/clientscore/backend/internal/utils"
	"github.com/clientscore/backend/pkg/logger"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.SetOutput(io.Discard)
}

type testEnv struct {
	store      *store.Store
	cache      *cache.BusinessCache
	redis      *miniredis.Miniredis
	tokens     *utils.TokenIssuer
	gate       *IdentityGate
	engine     *AggregationEngine
	reviews    *ReviewService
	moderation *ModerationService
	businesses *BusinessService
	auth       *AuthService
}

var testPolicy = ReviewPolicy{
	MinLength:            10,
	MaxLength:            2000,
	ModerationMode:       config.ModerationAuto,
	AutoApproveMinLength: 50,
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	s := storetest.Open(t)
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	c := cache.NewBusinessCache(client, time.Minute)

	tokens := &utils.TokenIssuer{
		AccessSecret:  "test-access",
		RefreshSecret: "test-refresh",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	}
	gate := NewIdentityGate(s, tokens)
	engine := NewAggregationEngine(s, c)

	return &testEnv{
		store:      s,
		cache:      c,
		redis:      mr,
		tokens:     tokens,
		gate:       gate,
		engine:     engine,
		reviews:    NewReviewService(s, engine, c, testPolicy),
		moderation: NewModerationService(s, engine, c),
		businesses: NewBusinessService(s, c),
		auth:       NewAuthService(s, gate, tokens, 4),
	}
}

func (e *testEnv) identity(t *testing.T, email string) (*Identity, *models.Account) {
	t.Helper()
	account := storetest.Account(t, e.store, email)
	return &Identity{AccountID: account.ID, Role: account.Role}, account
}

// longContent passes the auto-approval threshold.
var longContent = strings.Repeat("Clear brief, fair feedback, invoices paid on time. ", 2)

func submission(business *models.Business, score int) models.SubmitReviewRequest {
	return models.SubmitReviewRequest{
		BusinessID:  business.ID.String(),
		Title:       "Good client",
		Content:     longContent,
		ProjectType: "Web design",
		BudgetRange: models.Budget15KTo50K,
		Ratings: models.Ratings{
			OverallRating:         score,
			PaymentRating:         score,
			CommunicationRating:   score,
			ScopeRating:           score,
			CreativeFreedomRating: score,
			TimelinessRating:      score,
		},
		ProjectStatus: models.ProjectCompleted,
	}
}

func (e *testEnv) reload(t *testing.T, business *models.Business) *models.Business {
	t.Helper()
	b, err := e.store.BusinessByID(context.Background(), business.ID)
	require.NoError(t, err)
	return b
}

func (e *testEnv) reviewCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.store.DB().Model(&models.Review{}).Count(&n).Error)
	return n
}
