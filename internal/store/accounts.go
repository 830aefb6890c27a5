package store

import (
	"context"
	"errors"

	"github.com/clientscore/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrDuplicateEmail is returned when an account with the same email exists.
var ErrDuplicateEmail = errors.New("email already registered")

func (s *Store) CreateAccount(ctx context.Context, account *models.Account) error {
	var existing int64
	err := s.conn(ctx).Model(&models.Account{}).
		Where("email = ?", models.NormalizeEmail(account.Email)).
		Count(&existing).Error
	if err != nil {
		return err
	}
	if existing > 0 {
		return ErrDuplicateEmail
	}

	// the unique index still guards a concurrent registration
	err = s.conn(ctx).Create(account).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEmail
	}
	return err
}

func (s *Store) AccountByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	var account models.Account
	if err := s.conn(ctx).First(&account, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &account, nil
}

func (s *Store) AccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	if err := s.conn(ctx).Where("email = ?", models.NormalizeEmail(email)).First(&account).Error; err != nil {
		return nil, notFound(err)
	}
	return &account, nil
}

// UpdateAccount writes the given columns, zero values included.
func (s *Store) UpdateAccount(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	result := s.conn(ctx).Model(&models.Account{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CountReviewsByAccount(ctx context.Context, accountID uuid.UUID) (int64, error) {
	var count int64
	err := s.conn(ctx).Model(&models.Review{}).Where("account_id = ?", accountID).Count(&count).Error
	return count, err
}
