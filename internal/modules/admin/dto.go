package admin

import (
	"encoding/json"
	"time"

	"txunajob/internal/domain"
)

type UserSummary struct {
	ID        int64       `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	Status    string      `json:"status"`
	FullName  string      `json:"full_name"`
	CreatedAt time.Time   `json:"created_at"`
}

type UserDetails struct {
	ID        int64                `json:"id"`
	Username  string               `json:"username"`
	Email     string               `json:"email"`
	Role      domain.Role          `json:"role"`
	Status    domain.AccountStatus `json:"status"`
	FullName  string               `json:"full_name"`
	Phone     string               `json:"phone"`
	Location  string               `json:"location"`
	CreatedAt time.Time            `json:"created_at"`

	// professional
	IsVerified         *bool                     `json:"is_verified,omitempty"`
	VerificationStatus domain.VerificationStatus `json:"verification_status,omitempty"`
	Specialty          string                    `json:"specialty,omitempty"`
	Experience         *int                      `json:"experience,omitempty"`
	HourlyRate         *float64                  `json:"hourly_rate,omitempty"`

	// client
	Preferences json.RawMessage `json:"preferences,omitempty"`
}

type ServiceSummary struct {
	ID               int64     `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	ProfessionalName string    `json:"professional_name"`
	ClientName       string    `json:"client_name"`
	Status           string    `json:"status"`
	Price            float64   `json:"price"`
	CreatedAt        time.Time `json:"created_at"`
}

type Activity struct {
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
	UserID      *int64    `json:"user_id,omitempty"`
	ServiceID   *int64    `json:"service_id,omitempty"`
}

type SystemStatus struct {
	WebServer string `json:"web_server"`
	Database  string `json:"database"`
	API       string `json:"api"`
	Chat      string `json:"chat"`
}

// ModerationResult reports the state after a moderation action. Changed
// is false when the action was a repeat and nothing was written.
type ModerationResult struct {
	AccountID int64  `json:"account_id"`
	Status    string `json:"status"`
	Changed   bool   `json:"changed"`
}
