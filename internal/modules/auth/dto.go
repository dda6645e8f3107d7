package auth

import (
	"time"

	"txunajob/internal/domain"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	FullName string `json:"full_name"`

	// professional
	Specialty   string  `json:"specialty"`
	Experience  int     `json:"experience"`
	Description string  `json:"description"`
	HourlyRate  float64 `json:"hourly_rate"`

	// client
	Preferences map[string]any `json:"preferences"`

	// admin bootstrap, may also come in X-Admin-Registration-Key
	RegistrationKey string `json:"registration_key"`
}

// LoginRequest accepts either the username or the email in Login.
type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AccountPublic struct {
	ID        int64                `json:"id"`
	Username  string               `json:"username"`
	Email     string               `json:"email"`
	Role      domain.Role          `json:"role"`
	Status    domain.AccountStatus `json:"status"`
	Phone     string               `json:"phone,omitempty"`
	Location  string               `json:"location,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

func ToPublic(a *domain.Account) AccountPublic {
	return AccountPublic{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		Role:      a.Role,
		Status:    a.Status,
		Phone:     a.Phone,
		Location:  a.Location,
		CreatedAt: a.CreatedAt,
	}
}

type LoginResult struct {
	Account *domain.Account
	Token   string
	Landing string
}

type MeResponse struct {
	Account AccountPublic `json:"account"`
	Profile any           `json:"profile,omitempty"`
}
