// Package storetest opens a migrated in-memory SQLite Store for tests.
package storetest

import (
	"testing"

	"github.com/clientscore/backend/internal/database"
	"github.com/clientscore/backend/internal/models"
	"github.com/clientscore/backend/internal/store"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a fresh Store. The pool is capped at one connection so the
// in-memory database survives for the whole test.
func Open(t *testing.T) *store.Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig(logger.Silent))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return store.New(db)
}

// Account inserts an active agency account.
func Account(t *testing.T, s *store.Store, email string) *models.Account {
	t.Helper()

	account := &models.Account{
		Email:       email,
		CompanyName: "Studio " + email,
		Role:        models.RoleAgency,
		IsActive:    true,
	}
	require.NoError(t, account.SetPassword("password123", 4))
	require.NoError(t, s.DB().Create(account).Error)
	return account
}

// Business inserts a business with zeroed aggregates.
func Business(t *testing.T, s *store.Store, name string) *models.Business {
	t.Helper()

	business := &models.Business{Name: name, Industry: "Retail", Country: "US"}
	require.NoError(t, s.DB().Create(business).Error)
	return business
}

// Review inserts a review with every rating set to score.
func Review(t *testing.T, s *store.Store, account *models.Account, business *models.Business, score int, status models.ModerationStatus, public bool) *models.Review {
	t.Helper()

	review := &models.Review{
		AnonymousID: "anon-" + uuid.NewString(),
		Content:     "Solid client with clear briefs and prompt payments.",
		ProjectType: "Branding",
		BudgetRange: models.Budget5KTo15K,
		Ratings: models.Ratings{
			OverallRating:         score,
			PaymentRating:         score,
			CommunicationRating:   score,
			ScopeRating:           score,
			CreativeFreedomRating: score,
			TimelinessRating:      score,
		},
		ProjectStatus:    models.ProjectCompleted,
		IsPublic:         public,
		ModerationStatus: status,
		AccountID:        account.ID,
		BusinessID:       business.ID,
	}
	require.NoError(t, s.DB().Create(review).Error)
	return review
}
