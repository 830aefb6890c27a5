package models

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/clientscore/backend/internal/apperrors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BudgetRange string

const (
	BudgetUnder5K   BudgetRange = "UNDER_5K"
	Budget5KTo15K   BudgetRange = "FIVE_TO_15K"
	Budget15KTo50K  BudgetRange = "FIFTEEN_TO_50K"
	Budget50KTo100K BudgetRange = "FIFTY_TO_100K"
	BudgetOver100K  BudgetRange = "OVER_100K"
)

// BudgetRanges lists the buckets in ascending order.
var BudgetRanges = []BudgetRange{BudgetUnder5K, Budget5KTo15K, Budget15KTo50K, Budget50KTo100K, BudgetOver100K}

type ProjectStatus string

const (
	ProjectOngoing   ProjectStatus = "ONGOING"
	ProjectCompleted ProjectStatus = "COMPLETED"
	ProjectCanceled  ProjectStatus = "CANCELED"
)

type ModerationStatus string

const (
	ModerationPending  ModerationStatus = "PENDING"
	ModerationApproved ModerationStatus = "APPROVED"
	ModerationRejected ModerationStatus = "REJECTED"
	ModerationFlagged  ModerationStatus = "FLAGGED"
)

func (s ModerationStatus) Valid() bool {
	switch s {
	case ModerationPending, ModerationApproved, ModerationRejected, ModerationFlagged:
		return true
	}
	return false
}

// Review is one anonymous rating event. AccountID exists for audit only and
// must never reach a public payload; use Public for any outbound view.
type Review struct {
	ID               uuid.UUID        `json:"id" gorm:"type:uuid;primaryKey"`
	AnonymousID      string           `json:"anonymousId" gorm:"uniqueIndex;not null"`
	Title            string           `json:"title,omitempty"`
	Content          string           `json:"content" gorm:"type:text;not null"`
	ProjectType      string           `json:"projectType" gorm:"not null"`
	BudgetRange      BudgetRange      `json:"budgetRange" gorm:"type:varchar(32);not null"`
	Ratings          `gorm:"embedded"`
	ProjectStatus    ProjectStatus    `json:"projectStatus" gorm:"type:varchar(16);not null"`
	IsPublic         bool             `json:"isPublic" gorm:"not null;index:idx_reviews_visible,priority:2"`
	ModerationStatus ModerationStatus `json:"moderationStatus" gorm:"type:varchar(16);not null;index:idx_reviews_visible,priority:3"`
	ModerationNotes  string           `json:"moderationNotes,omitempty"`
	AccountID        uuid.UUID        `json:"-" gorm:"type:uuid;not null;index"`
	BusinessID       uuid.UUID        `json:"businessId" gorm:"type:uuid;not null;index:idx_reviews_visible,priority:1"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`

	Account  *Account  `json:"-" gorm:"constraint:OnDelete:RESTRICT"`
	Business *Business `json:"-"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Visible reports whether the review counts toward its business aggregates.
func (r *Review) Visible() bool {
	return r.IsPublic && r.ModerationStatus == ModerationApproved
}

// VisibleReviewScope restricts a review query to the visible set.
func VisibleReviewScope(db *gorm.DB) *gorm.DB {
	return db.Where("reviews.is_public = ? AND reviews.moderation_status = ?", true, ModerationApproved)
}

// PublicReview is the anonymous outbound projection of a Review.
type PublicReview struct {
	ID            uuid.UUID     `json:"id"`
	AnonymousID   string        `json:"anonymousId"`
	Title         string        `json:"title,omitempty"`
	Content       string        `json:"content"`
	ProjectType   string        `json:"projectType"`
	BudgetRange   BudgetRange   `json:"budgetRange"`
	Ratings
	ProjectStatus ProjectStatus `json:"projectStatus"`
	CreatedAt     time.Time     `json:"createdAt"`
}

func (r *Review) Public() PublicReview {
	return PublicReview{
		ID:            r.ID,
		AnonymousID:   r.AnonymousID,
		Title:         r.Title,
		Content:       r.Content,
		ProjectType:   r.ProjectType,
		BudgetRange:   r.BudgetRange,
		Ratings:       r.Ratings,
		ProjectStatus: r.ProjectStatus,
		CreatedAt:     r.CreatedAt,
	}
}

// AuthoredReview is the author's own view: public fields plus moderation state.
type AuthoredReview struct {
	PublicReview
	BusinessID       uuid.UUID        `json:"businessId"`
	IsPublic         bool             `json:"isPublic"`
	ModerationStatus ModerationStatus `json:"moderationStatus"`
}

func (r *Review) Authored() AuthoredReview {
	return AuthoredReview{
		PublicReview:     r.Public(),
		BusinessID:       r.BusinessID,
		IsPublic:         r.IsPublic,
		ModerationStatus: r.ModerationStatus,
	}
}

type SubmitReviewRequest struct {
	BusinessID    string        `json:"businessId" validate:"required,uuid"`
	Title         string        `json:"title" validate:"max=200"`
	Content       string        `json:"content"`
	ProjectType   string        `json:"projectType" validate:"required,max=100"`
	BudgetRange   BudgetRange   `json:"budgetRange" validate:"required,oneof=UNDER_5K FIVE_TO_15K FIFTEEN_TO_50K FIFTY_TO_100K OVER_100K"`
	Ratings
	ProjectStatus ProjectStatus `json:"projectStatus" validate:"required,oneof=ONGOING COMPLETED CANCELED"`
	IsPublic      *bool         `json:"isPublic,omitempty"`

	decodeErrors []apperrors.FieldError
}

const ratingTypeMessage = "must be an integer between 1 and 5"

// UnmarshalJSON decodes the scores one by one so a fractional or non-numeric
// score is reported against its own field while the rest of the body still
// decodes and gets validated.
func (r *SubmitReviewRequest) UnmarshalJSON(data []byte) error {
	type plain SubmitReviewRequest
	var wire struct {
		*plain
		OverallRating         json.RawMessage `json:"overallRating"`
		PaymentRating         json.RawMessage `json:"paymentRating"`
		CommunicationRating   json.RawMessage `json:"communicationRating"`
		ScopeRating           json.RawMessage `json:"scopeRating"`
		CreativeFreedomRating json.RawMessage `json:"creativeFreedomRating"`
		TimelinessRating      json.RawMessage `json:"timelinessRating"`
	}
	*r = SubmitReviewRequest{}
	wire.plain = (*plain)(r)

	var errs []apperrors.FieldError
	if err := json.Unmarshal(data, &wire); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) || typeErr.Field == "" {
			return err
		}
		errs = append(errs, apperrors.FieldError{Field: typeErr.Field, Message: "has the wrong type"})
	}

	for _, score := range []struct {
		field string
		raw   json.RawMessage
		dst   *int
	}{
		{"overallRating", wire.OverallRating, &r.OverallRating},
		{"paymentRating", wire.PaymentRating, &r.PaymentRating},
		{"communicationRating", wire.CommunicationRating, &r.CommunicationRating},
		{"scopeRating", wire.ScopeRating, &r.ScopeRating},
		{"creativeFreedomRating", wire.CreativeFreedomRating, &r.CreativeFreedomRating},
		{"timelinessRating", wire.TimelinessRating, &r.TimelinessRating},
	} {
		n, ok := decodeScore(score.raw)
		if !ok {
			errs = append(errs, apperrors.FieldError{Field: score.field, Message: ratingTypeMessage})
			continue
		}
		*score.dst = n
	}

	r.decodeErrors = errs
	return nil
}

// decodeScore treats an absent or null score as zero, which the range check
// then rejects. Anything else must be a JSON integer.
func decodeScore(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, true
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	return n, true
}

// DecodeErrors lists fields whose JSON value had the wrong type.
func (r SubmitReviewRequest) DecodeErrors() []apperrors.FieldError {
	return r.decodeErrors
}

type ReviewPage struct {
	Reviews    []PublicReview `json:"reviews"`
	Pagination Pagination     `json:"pagination"`
}

type AuthoredReviewPage struct {
	Reviews    []AuthoredReview `json:"reviews"`
	Pagination Pagination       `json:"pagination"`
}

type ModerationQueuePage struct {
	Reviews    []Review   `json:"reviews"`
	Pagination Pagination `json:"pagination"`
}
