package auth

import (
	"context"

	"gorm.io/gorm"

	"txunajob/internal/domain"
)

// AccountRepository lists only the methods the auth service uses
type AccountRepository interface {
	Session(ctx context.Context) (*gorm.DB, error) // for the registration transaction
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	CountByRole(ctx context.Context, role domain.Role) (int64, error)
}

type ProfileReader interface {
	GetClient(ctx context.Context, accountID int64) (*domain.ClientProfile, error)
	GetProfessional(ctx context.Context, accountID int64) (*domain.ProfessionalProfile, error)
	GetAdmin(ctx context.Context, accountID int64) (*domain.AdminProfile, error)
}

type TokenIssuer interface {
	GenerateToken(accountID int64, role string) (string, error)
}

// StatsInvalidator drops cached aggregates after a registration.
type StatsInvalidator interface {
	InvalidateDashboard(ctx context.Context)
}

type noopInvalidator struct{}

func (noopInvalidator) InvalidateDashboard(context.Context) {}
