package reporting

import (
	"context"
	"time"

	"txunajob/internal/domain"
	"txunajob/internal/repository"
)

type AccountReader interface {
	CountByRole(ctx context.Context, role domain.Role) (int64, error)
	RegisteredSince(ctx context.Context, since time.Time) ([]domain.Account, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
}

type VerificationCounter interface {
	CountPendingVerifications(ctx context.Context) (int64, error)
}

type ServiceReader interface {
	Count(ctx context.Context, f repository.ServiceFilter) (int64, error)
	CompletedSince(ctx context.Context, since time.Time) ([]domain.Service, error)
	CompletedRevenue(ctx context.Context) (float64, error)
}
