package lifecycle

import (
	"context"

	"txunajob/internal/domain"
	"txunajob/internal/repository"
)

// ServiceRepository defines the store operations the lifecycle needs
type ServiceRepository interface {
	Create(ctx context.Context, s *domain.Service) error
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	Apply(ctx context.Context, t repository.Transition) (bool, error)
	SetReview(ctx context.Context, id, clientID int64, rating int, comment string) (bool, error)
	List(ctx context.Context, f repository.ServiceFilter) ([]domain.Service, int64, error)
}

// StatsInvalidator drops cached aggregates after a write that changes them.
type StatsInvalidator interface {
	InvalidateDashboard(ctx context.Context)
}

type noopInvalidator struct{}

func (noopInvalidator) InvalidateDashboard(context.Context) {}
