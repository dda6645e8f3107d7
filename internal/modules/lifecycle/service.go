package lifecycle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"txunajob/internal/domain"
	"txunajob/internal/metrics"
	"txunajob/internal/pkg/access"
	"txunajob/internal/repository"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Service is the lifecycle engine: every status change is one conditional
// update, so concurrent callers race at the store and exactly one wins.
type Service struct {
	services ServiceRepository
	stats    StatsInvalidator
	log      *logrus.Logger
	now      func() time.Time
}

func NewService(services ServiceRepository, log *logrus.Logger) *Service {
	return &Service{
		services: services,
		stats:    noopInvalidator{},
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SetStatsInvalidator registers the cache dropped after every successful
// create or transition.
func (s *Service) SetStatsInvalidator(inv StatsInvalidator) {
	if inv == nil {
		inv = noopInvalidator{}
	}
	s.stats = inv
}

func (s *Service) Create(ctx context.Context, actor *access.Actor, req CreateServiceRequest) (*domain.Service, error) {
	if err := access.Authorize(actor, domain.RoleProfessional, nil).Err(); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	category := strings.TrimSpace(req.Category)
	if title == "" || category == "" {
		return nil, fmt.Errorf("%w: title and category are required", ErrValidation)
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}
	if req.DurationMinutes < 0 {
		return nil, fmt.Errorf("%w: duration_minutes must be >= 0", ErrValidation)
	}

	tags, err := NormalizeTags(req.Tags)
	if err != nil {
		return nil, err
	}
	rawTags, err := json.Marshal(tags)
	if err != nil {
		return nil, err
	}

	address := strings.TrimSpace(req.Address)
	if address == "" {
		address = strings.TrimSpace(req.Location)
	}

	svc := &domain.Service{
		Title:           title,
		Description:     strings.TrimSpace(req.Description),
		Category:        category,
		Price:           req.Price,
		ProfessionalID:  actor.ID,
		Address:         address,
		DurationMinutes: req.DurationMinutes,
		ScheduledDate:   req.ScheduledDate,
		Tags:            datatypes.JSON(rawTags),
		Status:          domain.ServiceAvailable,
	}
	if err := s.services.Create(ctx, svc); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"service_id": svc.ID, "professional_id": actor.ID}).Info("service created")
	s.stats.InvalidateDashboard(ctx)
	return svc, nil
}

// Request moves an available service to pending and binds the client.
func (s *Service) Request(ctx context.Context, actor *access.Actor, serviceID int64) (*domain.Service, error) {
	if err := access.Authorize(actor, domain.RoleClient, nil).Err(); err != nil {
		metrics.RecordTransition(string(OpRequest), metrics.ResultDenied)
		return nil, err
	}
	return s.apply(ctx, OpRequest, actor, repository.Transition{
		ServiceID: serviceID,
		Set:       map[string]any{"client_id": actor.ID},
	})
}

func (s *Service) Accept(ctx context.Context, actor *access.Actor, serviceID int64) (*domain.Service, error) {
	return s.professionalOp(ctx, OpAccept, actor, serviceID)
}

func (s *Service) Reject(ctx context.Context, actor *access.Actor, serviceID int64) (*domain.Service, error) {
	return s.professionalOp(ctx, OpReject, actor, serviceID)
}

func (s *Service) Start(ctx context.Context, actor *access.Actor, serviceID int64) (*domain.Service, error) {
	return s.professionalOp(ctx, OpStart, actor, serviceID)
}

func (s *Service) Complete(ctx context.Context, actor *access.Actor, serviceID int64) (*domain.Service, error) {
	return s.professionalOp(ctx, OpComplete, actor, serviceID)
}

func (s *Service) professionalOp(ctx context.Context, op Op, actor *access.Actor, serviceID int64) (*domain.Service, error) {
	if err := access.Authorize(actor, domain.RoleProfessional, nil).Err(); err != nil {
		metrics.RecordTransition(string(op), metrics.ResultDenied)
		return nil, err
	}

	current, err := s.load(ctx, op, serviceID)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, domain.RoleProfessional, &current.ProfessionalID).Err(); err != nil {
		metrics.RecordTransition(string(op), metrics.ResultDenied)
		return nil, err
	}
	if !CanTransition(op, current.Status) {
		metrics.RecordTransition(string(op), metrics.ResultConflict)
		return nil, ErrServiceNotFoundOrAlreadyProcessed
	}

	return s.apply(ctx, op, actor, repository.Transition{
		ServiceID:      serviceID,
		ProfessionalID: &actor.ID,
	})
}

// Cancel is open to the client bound to the service and to any admin.
func (s *Service) Cancel(ctx context.Context, actor *access.Actor, serviceID int64) (*domain.Service, error) {
	if err := access.AuthorizeAny(actor, domain.RoleClient, domain.RoleAdmin).Err(); err != nil {
		metrics.RecordTransition(string(OpCancel), metrics.ResultDenied)
		return nil, err
	}

	t := repository.Transition{
		ServiceID: serviceID,
		Set:       map[string]any{"cancelled_by": actor.ID},
	}
	if actor.Role == domain.RoleClient {
		current, err := s.load(ctx, OpCancel, serviceID)
		if err != nil {
			return nil, err
		}
		owner := int64(0)
		if current.ClientID != nil {
			owner = *current.ClientID
		}
		if err := access.Authorize(actor, domain.RoleClient, &owner).Err(); err != nil {
			metrics.RecordTransition(string(OpCancel), metrics.ResultDenied)
			return nil, err
		}
		if !CanTransition(OpCancel, current.Status) {
			metrics.RecordTransition(string(OpCancel), metrics.ResultConflict)
			return nil, ErrServiceNotFoundOrAlreadyProcessed
		}
		t.ClientID = &actor.ID
	}

	return s.apply(ctx, OpCancel, actor, t)
}

// Review stores the client's rating on a completed service it requested.
func (s *Service) Review(ctx context.Context, actor *access.Actor, serviceID int64, req ReviewRequest) (*domain.Service, error) {
	if err := access.Authorize(actor, domain.RoleClient, nil).Err(); err != nil {
		return nil, err
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}

	ok, err := s.services.SetReview(ctx, serviceID, actor.ID, req.Rating, strings.TrimSpace(req.Comment))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrServiceNotFoundOrAlreadyProcessed
	}
	return s.services.GetByID(ctx, serviceID)
}

func (s *Service) load(ctx context.Context, op Op, serviceID int64) (*domain.Service, error) {
	current, err := s.services.GetByID(ctx, serviceID)
	if errors.Is(err, repository.ErrNotFound) {
		metrics.RecordTransition(string(op), metrics.ResultConflict)
		return nil, ErrServiceNotFoundOrAlreadyProcessed
	}
	if err != nil {
		metrics.RecordTransition(string(op), metrics.ResultError)
		return nil, err
	}
	return current, nil
}

func (s *Service) apply(ctx context.Context, op Op, actor *access.Actor, t repository.Transition) (*domain.Service, error) {
	r := rules[op]
	now := s.now()
	t.From = r.from
	t.To = r.to
	if t.Set == nil {
		t.Set = map[string]any{}
	}
	t.Set[r.stamp] = now

	log := s.log.WithFields(logrus.Fields{
		"op":         op,
		"service_id": t.ServiceID,
		"actor_id":   actor.ID,
		"role":       actor.Role,
	})

	applied, err := s.services.Apply(ctx, t)
	if err != nil {
		metrics.RecordTransition(string(op), metrics.ResultError)
		log.WithError(err).Error("service transition failed")
		return nil, err
	}
	if !applied {
		metrics.RecordTransition(string(op), metrics.ResultConflict)
		log.Info("service transition matched no row")
		return nil, ErrServiceNotFoundOrAlreadyProcessed
	}

	metrics.RecordTransition(string(op), metrics.ResultApplied)
	log.WithField("status", r.to).Info("service transitioned")
	s.stats.InvalidateDashboard(ctx)
	return s.services.GetByID(ctx, t.ServiceID)
}

// ListAvailable is the public catalogue.
func (s *Service) ListAvailable(ctx context.Context, q ListQuery) ([]domain.Service, int64, error) {
	return s.services.List(ctx, repository.ServiceFilter{
		Statuses: []domain.ServiceStatus{domain.ServiceAvailable},
		Category: strings.TrimSpace(q.Category),
		Limit:    clampLimit(q.Limit),
		Offset:   max(q.Offset, 0),
	})
}

// ListForClient returns the services the client has requested.
func (s *Service) ListForClient(ctx context.Context, actor *access.Actor, q ListQuery) ([]domain.Service, int64, error) {
	if err := access.Authorize(actor, domain.RoleClient, nil).Err(); err != nil {
		return nil, 0, err
	}
	f := repository.ServiceFilter{
		ClientID: &actor.ID,
		Limit:    clampLimit(q.Limit),
		Offset:   max(q.Offset, 0),
	}
	if status := domain.ServiceStatus(strings.TrimSpace(q.Status)); status != "" {
		f.Statuses = []domain.ServiceStatus{status}
	}
	return s.services.List(ctx, f)
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultListLimit
	case limit > maxListLimit:
		return maxListLimit
	}
	return limit
}

// ToView decodes the stored tags; malformed tags render as an empty list.
func ToView(svc *domain.Service) ServiceView {
	tags := []string{}
	if len(svc.Tags) > 0 {
		_ = json.Unmarshal(svc.Tags, &tags)
		if tags == nil {
			tags = []string{}
		}
	}
	return ServiceView{
		ID:              svc.ID,
		Title:           svc.Title,
		Description:     svc.Description,
		Category:        svc.Category,
		Price:           svc.Price,
		ProfessionalID:  svc.ProfessionalID,
		ClientID:        svc.ClientID,
		Address:         svc.Address,
		DurationMinutes: svc.DurationMinutes,
		ScheduledDate:   svc.ScheduledDate,
		Tags:            tags,
		Status:          string(svc.Status),
		Rating:          svc.Rating,
		ReviewComment:   svc.ReviewComment,
		CreatedAt:       svc.CreatedAt,
		RequestedAt:     svc.RequestedAt,
		AcceptedAt:      svc.AcceptedAt,
		StartedAt:       svc.StartedAt,
		CompletedAt:     svc.CompletedAt,
		RejectedAt:      svc.RejectedAt,
		CancelledAt:     svc.CancelledAt,
		UpdatedAt:       svc.UpdatedAt,
	}
}

func ToViews(services []domain.Service) []ServiceView {
	views := make([]ServiceView, 0, len(services))
	for i := range services {
		views = append(views, ToView(&services[i]))
	}
	return views
}
