package domain

import (
	"time"

	"gorm.io/datatypes"
)

type ServiceStatus string

const (
	ServiceAvailable  ServiceStatus = "available"
	ServicePending    ServiceStatus = "pending"
	ServiceAccepted   ServiceStatus = "accepted"
	ServiceInProgress ServiceStatus = "in_progress"
	ServiceCompleted  ServiceStatus = "completed"
	ServiceRejected   ServiceStatus = "rejected"
	ServiceCancelled  ServiceStatus = "cancelled"
)

// NonTerminalStatuses lists every status a service can still leave.
func NonTerminalStatuses() []ServiceStatus {
	return []ServiceStatus{ServiceAvailable, ServicePending, ServiceAccepted, ServiceInProgress}
}

// ActiveStatuses are the statuses a professional is currently working on.
func ActiveStatuses() []ServiceStatus {
	return []ServiceStatus{ServicePending, ServiceAccepted, ServiceInProgress}
}

type Service struct {
	ID              int64          `json:"id" gorm:"primaryKey"`
	Title           string         `json:"title" gorm:"size:200;not null"`
	Description     string         `json:"description" gorm:"type:text"`
	Category        string         `json:"category" gorm:"size:100;not null;index"`
	Price           float64        `json:"price" gorm:"not null;default:0"`
	ProfessionalID  int64          `json:"professional_id" gorm:"not null;index"`
	ClientID        *int64         `json:"client_id,omitempty" gorm:"index"`
	Address         string         `json:"address,omitempty"`
	DurationMinutes int            `json:"duration_minutes,omitempty"`
	ScheduledDate   *time.Time     `json:"scheduled_date,omitempty" gorm:"index"`
	Tags            datatypes.JSON `json:"tags"`
	Status          ServiceStatus  `json:"status" gorm:"size:20;not null;index"`
	Rating          *int           `json:"rating,omitempty"`
	ReviewComment   string         `json:"review_comment,omitempty" gorm:"type:text"`
	CreatedAt       time.Time      `json:"created_at" gorm:"index"`
	RequestedAt     *time.Time     `json:"requested_at,omitempty"`
	AcceptedAt      *time.Time     `json:"accepted_at,omitempty"`
	StartedAt       *time.Time     `json:"started_at,omitempty"`
	CompletedAt     *time.Time     `json:"completed_at,omitempty" gorm:"index"`
	RejectedAt      *time.Time     `json:"rejected_at,omitempty"`
	CancelledAt     *time.Time     `json:"cancelled_at,omitempty"`
	CancelledBy     *int64         `json:"cancelled_by,omitempty"`
	ReviewedAt      *time.Time     `json:"reviewed_at,omitempty"`
	UpdatedAt       time.Time      `json:"updated_at"`

	Professional *Account `json:"-" gorm:"foreignKey:ProfessionalID"`
	Client       *Account `json:"-" gorm:"foreignKey:ClientID"`
}

func (Service) TableName() string { return "services" }
