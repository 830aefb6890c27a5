package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Business is a reviewed company. Its embedded Aggregates always reflect the
// visible review set and are written only by the aggregation engine.
type Business struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string    `json:"name" gorm:"not null;index"`
	Industry    string    `json:"industry" gorm:"not null;index"`
	Country     string    `json:"country" gorm:"not null"`
	Description string    `json:"description,omitempty"`
	Website     string    `json:"website,omitempty"`
	Aggregates  `gorm:"embedded"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Reviews []Review `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (b *Business) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// BusinessDetail is the public read model of one business.
type BusinessDetail struct {
	Business
	RecentReviews []PublicReview `json:"recentReviews"`
}

// Request structs for API
type CreateBusinessRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Industry    string `json:"industry" validate:"required,max=100"`
	Country     string `json:"country" validate:"required,max=100"`
	Description string `json:"description" validate:"max=2000"`
	Website     string `json:"website" validate:"omitempty,url"`
}

type BusinessFilter struct {
	Query      string  `form:"search"`
	Industry   string  `form:"industry"`
	Country    string  `form:"country"`
	MinRating  float64 `form:"minRating"`
	MinReviews int     `form:"minReviews"`
	SortBy     string  `form:"sortBy"`
	Page       int     `form:"page"`
	Limit      int     `form:"limit"`
}

type Pagination struct {
	Page       int   `json:"currentPage"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

func NewPagination(page, limit int, total int64) Pagination {
	pages := int(total) / limit
	if int(total)%limit > 0 {
		pages++
	}
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: pages,
		HasNext:    page < pages,
		HasPrev:    page > 1,
	}
}

type BusinessPage struct {
	Businesses []Business `json:"businesses"`
	Pagination Pagination `json:"pagination"`
}
