package domain

import (
	"time"

	"gorm.io/datatypes"
)

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

type ClientProfile struct {
	ID          int64          `json:"id" gorm:"primaryKey"`
	AccountID   int64          `json:"account_id" gorm:"not null;uniqueIndex:idx_client_profiles_account_id"`
	FullName    string         `json:"full_name"`
	Preferences datatypes.JSON `json:"preferences"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`

	Account *Account `json:"-" gorm:"foreignKey:AccountID"`
}

func (ClientProfile) TableName() string { return "client_profiles" }

// ProfessionalProfile carries the verification state. IsVerified flips to
// true only through an admin verify; verified and rejected are exclusive.
type ProfessionalProfile struct {
	ID                 int64              `json:"id" gorm:"primaryKey"`
	AccountID          int64              `json:"account_id" gorm:"not null;uniqueIndex:idx_professional_profiles_account_id"`
	FullName           string             `json:"full_name"`
	Specialty          string             `json:"specialty"`
	Experience         int                `json:"experience"`
	Description        string             `json:"description,omitempty" gorm:"type:text"`
	HourlyRate         float64            `json:"hourly_rate"`
	IsVerified         bool               `json:"is_verified" gorm:"not null;default:false"`
	VerificationStatus VerificationStatus `json:"verification_status" gorm:"size:20;not null;default:pending;index"`
	VerifiedAt         *time.Time         `json:"verified_at,omitempty"`
	VerifiedBy         *int64             `json:"verified_by,omitempty"`
	RejectedAt         *time.Time         `json:"rejected_at,omitempty"`
	RejectedBy         *int64             `json:"rejected_by,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`

	Account *Account `json:"-" gorm:"foreignKey:AccountID"`
}

func (ProfessionalProfile) TableName() string { return "professional_profiles" }

type AdminProfile struct {
	ID          int64          `json:"id" gorm:"primaryKey"`
	AccountID   int64          `json:"account_id" gorm:"not null;uniqueIndex:idx_admin_profiles_account_id"`
	Permissions datatypes.JSON `json:"permissions"`
	CreatedAt   time.Time      `json:"created_at"`

	Account *Account `json:"-" gorm:"foreignKey:AccountID"`
}

func (AdminProfile) TableName() string { return "admin_profiles" }

// FullAccessPermissions is the permission bag granted to every admin.
func FullAccessPermissions() datatypes.JSON {
	return datatypes.JSON([]byte(`{"all":true}`))
}
