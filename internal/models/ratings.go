package models

// Ratings holds the six 1-5 scores a reviewer gives.
type Ratings struct {
	OverallRating         int `json:"overallRating" gorm:"not null" validate:"gte=1,lte=5"`
	PaymentRating         int `json:"paymentRating" gorm:"not null" validate:"gte=1,lte=5"`
	CommunicationRating   int `json:"communicationRating" gorm:"not null" validate:"gte=1,lte=5"`
	ScopeRating           int `json:"scopeRating" gorm:"not null" validate:"gte=1,lte=5"`
	CreativeFreedomRating int `json:"creativeFreedomRating" gorm:"not null" validate:"gte=1,lte=5"`
	TimelinessRating      int `json:"timelinessRating" gorm:"not null" validate:"gte=1,lte=5"`
}

// RatingColumns are the review columns Summarize needs.
var RatingColumns = []string{
	"overall_rating",
	"payment_rating",
	"communication_rating",
	"scope_rating",
	"creative_freedom_rating",
	"timeliness_rating",
	"project_status",
}

// VisibleRating is one row of the visible set as read by the aggregation engine.
type VisibleRating struct {
	Ratings
	ProjectStatus ProjectStatus
}

// Aggregates are the cached values stored on a Business.
type Aggregates struct {
	AverageRating         float64 `json:"averageRating" gorm:"not null;default:0"`
	PaymentRating         float64 `json:"paymentRating" gorm:"not null;default:0"`
	CommunicationRating   float64 `json:"communicationRating" gorm:"not null;default:0"`
	ScopeRating           float64 `json:"scopeRating" gorm:"not null;default:0"`
	CreativeFreedomRating float64 `json:"creativeFreedomRating" gorm:"not null;default:0"`
	TimelinessRating      float64 `json:"timelinessRating" gorm:"not null;default:0"`
	TotalReviews          int     `json:"totalReviews" gorm:"not null;default:0"`
	OngoingProjects       int     `json:"ongoingProjects" gorm:"not null;default:0"`
	CompletedProjects     int     `json:"completedProjects" gorm:"not null;default:0"`
	CanceledProjects      int     `json:"canceledProjects" gorm:"not null;default:0"`
}

// Summarize computes per-dimension means and counts. It depends only on its
// input, so the same visible set always yields the same Aggregates; an empty
// set yields all zeros.
func Summarize(rows []VisibleRating) Aggregates {
	var agg Aggregates
	if len(rows) == 0 {
		return agg
	}

	var overall, payment, communication, scope, creative, timeliness int
	for _, r := range rows {
		overall += r.OverallRating
		payment += r.PaymentRating
		communication += r.CommunicationRating
		scope += r.ScopeRating
		creative += r.CreativeFreedomRating
		timeliness += r.TimelinessRating

		switch r.ProjectStatus {
		case ProjectOngoing:
			agg.OngoingProjects++
		case ProjectCompleted:
			agg.CompletedProjects++
		case ProjectCanceled:
			agg.CanceledProjects++
		}
	}

	n := float64(len(rows))
	agg.TotalReviews = len(rows)
	agg.AverageRating = float64(overall) / n
	agg.PaymentRating = float64(payment) / n
	agg.CommunicationRating = float64(communication) / n
	agg.ScopeRating = float64(scope) / n
	agg.CreativeFreedomRating = float64(creative) / n
	agg.TimelinessRating = float64(timeliness) / n
	return agg
}

// Columns maps the aggregates onto business column names for an UPDATE.
func (a Aggregates) Columns() map[string]interface{} {
	return map[string]interface{}{
		"average_rating":          a.AverageRating,
		"payment_rating":          a.PaymentRating,
		"communication_rating":    a.CommunicationRating,
		"scope_rating":            a.ScopeRating,
		"creative_freedom_rating": a.CreativeFreedomRating,
		"timeliness_rating":       a.TimelinessRating,
		"total_reviews":           a.TotalReviews,
		"ongoing_projects":        a.OngoingProjects,
		"completed_projects":      a.CompletedProjects,
		"canceled_projects":       a.CanceledProjects,
	}
}
