package lifecycle

import (
	"encoding/json"
	"time"
)

type CreateServiceRequest struct {
	Title           string          `json:"title" binding:"required"`
	Description     string          `json:"description"`
	Category        string          `json:"category" binding:"required"`
	Price           float64         `json:"price"`
	Address         string          `json:"address"`
	Location        string          `json:"location"`
	DurationMinutes int             `json:"duration_minutes"`
	ScheduledDate   *time.Time      `json:"scheduled_date"`
	Tags            json.RawMessage `json:"tags"`
}

type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

type ListQuery struct {
	Category string `form:"category"`
	Status   string `form:"status"`
	Limit    int    `form:"limit"`
	Offset   int    `form:"offset"`
}

type ListResult struct {
	Services []ServiceView `json:"services"`
	Total    int64         `json:"total"`
}

// ServiceView is the wire form of a service with its tags decoded.
type ServiceView struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Category        string     `json:"category"`
	Price           float64    `json:"price"`
	ProfessionalID  int64      `json:"professional_id"`
	ClientID        *int64     `json:"client_id,omitempty"`
	Address         string     `json:"address,omitempty"`
	DurationMinutes int        `json:"duration_minutes,omitempty"`
	ScheduledDate   *time.Time `json:"scheduled_date,omitempty"`
	Tags            []string   `json:"tags"`
	Status          string     `json:"status"`
	Rating          *int       `json:"rating,omitempty"`
	ReviewComment   string     `json:"review_comment,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	RequestedAt     *time.Time `json:"requested_at,omitempty"`
	AcceptedAt      *time.Time `json:"accepted_at,omitempty"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
