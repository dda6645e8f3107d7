package domain

import "time"

type Role string

const (
	RoleClient       Role = "client"
	RoleProfessional Role = "professional"
	RoleAdmin        Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleProfessional, RoleAdmin:
		return true
	}
	return false
}

// MinPasswordLength returns the credential policy for the role.
func (r Role) MinPasswordLength() int {
	if r == RoleAdmin {
		return 8
	}
	return 6
}

type AccountStatus string

const (
	AccountActive    AccountStatus = "active"
	AccountSuspended AccountStatus = "suspended"
)

// Account is the authentication identity. Role is fixed at creation and
// accounts are suspended, never deleted.
type Account struct {
	ID           int64         `json:"id" gorm:"primaryKey"`
	Username     string        `json:"username" gorm:"size:64;not null;uniqueIndex:idx_accounts_username"`
	Email        string        `json:"email" gorm:"size:255;not null;uniqueIndex:idx_accounts_email"`
	PasswordHash string        `json:"-" gorm:"not null"`
	Role         Role          `json:"role" gorm:"size:20;not null;index"`
	Phone        string        `json:"phone,omitempty" gorm:"size:32"`
	Location     string        `json:"location,omitempty"`
	Status       AccountStatus `json:"status" gorm:"size:20;not null;default:active"`
	SuspendedAt  *time.Time    `json:"suspended_at,omitempty"`
	SuspendedBy  *int64        `json:"suspended_by,omitempty"`
	ActivatedAt  *time.Time    `json:"activated_at,omitempty"`
	ActivatedBy  *int64        `json:"activated_by,omitempty"`
	CreatedAt    time.Time     `json:"created_at" gorm:"index"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

func (Account) TableName() string { return "accounts" }

func (a *Account) IsSuspended() bool {
	return a.Status == AccountSuspended
}
