package professional

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"txunajob/internal/domain"
	"txunajob/internal/pkg/access"
	"txunajob/internal/repository"
)

const (
	recentServicesLimit = 10
	scheduleLimit       = 5
	scheduleWindow      = 7 * 24 * time.Hour
	reviewsLimit        = 5
	defaultClientName   = "Client"
)

// Service serves the read side of the professional dashboard. Every read is
// scoped to the calling professional.
type Service struct {
	accounts AccountRepository
	profiles ProfileRepository
	services ServiceRepository
	unread   UnreadCounter
	log      *logrus.Logger
	now      func() time.Time
}

func NewService(accounts AccountRepository, profiles ProfileRepository, services ServiceRepository, unread UnreadCounter, log *logrus.Logger) *Service {
	return &Service{
		accounts: accounts,
		profiles: profiles,
		services: services,
		unread:   unread,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func authorize(actor *access.Actor) error {
	return access.Authorize(actor, domain.RoleProfessional, nil).Err()
}

func (s *Service) Current(ctx context.Context, actor *access.Actor) (*CurrentProfessional, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}
	account, err := s.accounts.GetByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	profile, err := s.profiles.GetProfessional(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	return &CurrentProfessional{
		ID:        account.ID,
		Username:  account.Username,
		Email:     account.Email,
		Phone:     account.Phone,
		Location:  account.Location,
		CreatedAt: account.CreatedAt,
		ProfessionalProfile: ProfileView{
			FullName:    profile.FullName,
			Specialty:   profile.Specialty,
			Experience:  profile.Experience,
			Description: profile.Description,
			HourlyRate:  profile.HourlyRate,
			IsVerified:  profile.IsVerified,
		},
	}, nil
}

// Stats counts active work, the rating average rounded to one decimal,
// distinct clients since the start of the month and unread messages.
func (s *Service) Stats(ctx context.Context, actor *access.Actor) (Stats, error) {
	if err := authorize(actor); err != nil {
		return Stats{}, err
	}
	proID := actor.ID

	active, err := s.services.Count(ctx, repository.ServiceFilter{
		ProfessionalID: &proID,
		Statuses:       domain.ActiveStatuses(),
	})
	if err != nil {
		return Stats{}, err
	}
	avg, err := s.services.AverageRating(ctx, proID)
	if err != nil {
		return Stats{}, err
	}
	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	clients, err := s.services.DistinctClientsSince(ctx, proID, monthStart)
	if err != nil {
		return Stats{}, err
	}
	unread, err := s.unread.CountUnread(ctx, proID)
	if err != nil {
		return Stats{}, err
	}

	return Stats{
		ActiveServices: active,
		AverageRating:  math.Round(avg*10) / 10,
		MonthlyClients: clients,
		UnreadMessages: unread,
	}, nil
}

// Services returns the professional's most recently created services.
func (s *Service) Services(ctx context.Context, actor *access.Actor) ([]ServiceItem, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}
	proID := actor.ID
	list, _, err := s.services.List(ctx, repository.ServiceFilter{
		ProfessionalID: &proID,
		Limit:          recentServicesLimit,
	})
	if err != nil {
		return nil, err
	}
	names, err := s.clientNames(ctx, list)
	if err != nil {
		return nil, err
	}

	items := make([]ServiceItem, 0, len(list))
	for _, svc := range list {
		date := svc.CreatedAt
		if svc.ScheduledDate != nil {
			date = *svc.ScheduledDate
		}
		items = append(items, ServiceItem{
			ID:          svc.ID,
			Title:       svc.Title,
			Description: svc.Description,
			ClientName:  clientName(names, svc.ClientID),
			Date:        date,
			Status:      svc.Status,
			Price:       svc.Price,
			Address:     svc.Address,
			Category:    svc.Category,
		})
	}
	return items, nil
}

// Schedule lists open work scheduled within the next seven days, soonest first.
func (s *Service) Schedule(ctx context.Context, actor *access.Actor) ([]ScheduleItem, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}
	proID := actor.ID
	from := s.now()
	to := from.Add(scheduleWindow)
	list, _, err := s.services.List(ctx, repository.ServiceFilter{
		ProfessionalID: &proID,
		Statuses:       domain.ActiveStatuses(),
		ScheduledFrom:  &from,
		ScheduledTo:    &to,
		Limit:          scheduleLimit,
		OrderBy:        "scheduled_date ASC, id ASC",
	})
	if err != nil {
		return nil, err
	}
	names, err := s.clientNames(ctx, list)
	if err != nil {
		return nil, err
	}

	items := make([]ScheduleItem, 0, len(list))
	for _, svc := range list {
		items = append(items, ScheduleItem{
			ID:          svc.ID,
			Title:       svc.Title,
			ClientName:  clientName(names, svc.ClientID),
			Date:        *svc.ScheduledDate,
			Description: svc.Description,
		})
	}
	return items, nil
}

// Reviews returns the latest rated services that carry a comment.
func (s *Service) Reviews(ctx context.Context, actor *access.Actor) ([]ReviewItem, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}
	proID := actor.ID
	list, _, err := s.services.List(ctx, repository.ServiceFilter{
		ProfessionalID: &proID,
		Reviewed:       true,
		WithComment:    true,
		Limit:          reviewsLimit,
		OrderBy:        "reviewed_at DESC, id DESC",
	})
	if err != nil {
		return nil, err
	}
	names, err := s.clientNames(ctx, list)
	if err != nil {
		return nil, err
	}

	items := make([]ReviewItem, 0, len(list))
	for _, svc := range list {
		item := ReviewItem{
			ID:           svc.ID,
			ClientName:   clientName(names, svc.ClientID),
			Comment:      svc.ReviewComment,
			Date:         svc.CreatedAt,
			ServiceTitle: svc.Title,
		}
		if svc.Rating != nil {
			item.Rating = *svc.Rating
		}
		if svc.ReviewedAt != nil {
			item.Date = *svc.ReviewedAt
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *Service) clientNames(ctx context.Context, list []domain.Service) (map[int64]domain.ClientProfile, error) {
	seen := make(map[int64]bool)
	var ids []int64
	for _, svc := range list {
		if svc.ClientID != nil && !seen[*svc.ClientID] {
			seen[*svc.ClientID] = true
			ids = append(ids, *svc.ClientID)
		}
	}
	return s.profiles.ClientsByAccount(ctx, ids)
}

func clientName(profiles map[int64]domain.ClientProfile, clientID *int64) string {
	if clientID == nil {
		return defaultClientName
	}
	if p, ok := profiles[*clientID]; ok && p.FullName != "" {
		return p.FullName
	}
	return defaultClientName
}
