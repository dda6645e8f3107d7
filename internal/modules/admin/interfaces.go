package admin

import (
	"context"
	"time"

	"txunajob/internal/domain"
	"txunajob/internal/modules/reporting"
	"txunajob/internal/repository"
)

type AccountRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Account, error)
	RegisteredSince(ctx context.Context, since time.Time) ([]domain.Account, error)
	SetStatus(ctx context.Context, id int64, from, to domain.AccountStatus, actorID int64) (bool, error)
}

type ProfileRepository interface {
	GetClient(ctx context.Context, accountID int64) (*domain.ClientProfile, error)
	GetProfessional(ctx context.Context, accountID int64) (*domain.ProfessionalProfile, error)
	ClientsByAccount(ctx context.Context, accountIDs []int64) (map[int64]domain.ClientProfile, error)
	ProfessionalsByAccount(ctx context.Context, accountIDs []int64) (map[int64]domain.ProfessionalProfile, error)
	Verify(ctx context.Context, accountID, adminID int64) (bool, error)
	Reject(ctx context.Context, accountID, adminID int64) (bool, error)
}

type ServiceRepository interface {
	List(ctx context.Context, f repository.ServiceFilter) ([]domain.Service, int64, error)
	CompletedSince(ctx context.Context, since time.Time) ([]domain.Service, error)
}

type SettingsRepository interface {
	Load(ctx context.Context) (map[string]any, error)
	Merge(ctx context.Context, patch map[string]any, adminID int64) (map[string]any, error)
}

// DashboardSource is satisfied by *reporting.Service.
type DashboardSource interface {
	Dashboard(ctx context.Context) (reporting.Dashboard, bool)
	InvalidateDashboard(ctx context.Context)
}

type Pinger interface {
	Ping(ctx context.Context) error
}
