package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Role tags what kind of principal a credential belongs to.
type Role string

const (
	RoleAgency Role = "AGENCY"
	RoleAdmin  Role = "ADMIN"
)

func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAgency:
		return RoleAgency, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

type Account struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Email        string     `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string     `json:"-" gorm:"not null"`
	CompanyName  string     `json:"companyName" gorm:"not null"`
	WebsiteURL   string     `json:"websiteUrl"`
	Industry     string     `json:"industry"`
	Country      string     `json:"country"`
	Role         Role       `json:"role" gorm:"type:varchar(16);not null;default:AGENCY"`
	IsVerified   bool       `json:"isVerified" gorm:"not null;default:false"`
	IsActive     bool       `json:"isActive" gorm:"not null"`
	IsSuspended  bool       `json:"isSuspended" gorm:"not null;default:false"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// CanAuthenticate reports whether the account may act on the API.
func (a *Account) CanAuthenticate() bool {
	return a.IsActive && !a.IsSuspended
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.Email = NormalizeEmail(a.Email)
	if a.Role == "" {
		a.Role = RoleAgency
	}
	return nil
}

// SetPassword stores a bcrypt hash of password.
func (a *Account) SetPassword(password string, cost int) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hashedPassword)
	return nil
}

// CheckPassword verifies the password
func (a *Account) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password))
	return err == nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
