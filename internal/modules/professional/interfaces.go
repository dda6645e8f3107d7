package professional

import (
	"context"
	"time"

	"txunajob/internal/domain"
	"txunajob/internal/repository"
)

type AccountRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
}

type ProfileRepository interface {
	GetProfessional(ctx context.Context, accountID int64) (*domain.ProfessionalProfile, error)
	ClientsByAccount(ctx context.Context, accountIDs []int64) (map[int64]domain.ClientProfile, error)
}

type ServiceRepository interface {
	List(ctx context.Context, f repository.ServiceFilter) ([]domain.Service, int64, error)
	Count(ctx context.Context, f repository.ServiceFilter) (int64, error)
	AverageRating(ctx context.Context, professionalID int64) (float64, error)
	DistinctClientsSince(ctx context.Context, professionalID int64, since time.Time) (int64, error)
}

// UnreadCounter is satisfied by the chat repository.
type UnreadCounter interface {
	CountUnread(ctx context.Context, accountID int64) (int64, error)
}
