package admin

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"txunajob/internal/domain"
	"txunajob/internal/modules/reporting"
	"txunajob/internal/pkg/access"
	"txunajob/internal/pkg/demo"
	"txunajob/internal/repository"
)

const (
	recentUsersLimit    = 20
	recentServicesLimit = 15
	activityLimit       = 10
	activityWindow      = 24 * time.Hour
	unknownName         = "N/A"
)

type Service struct {
	accounts AccountRepository
	profiles ProfileRepository
	services ServiceRepository
	settings SettingsRepository
	reports  DashboardSource
	store    Pinger
	demo     demo.Gate
	log      *logrus.Logger
	now      func() time.Time
}

func NewService(
	accounts AccountRepository,
	profiles ProfileRepository,
	services ServiceRepository,
	settings SettingsRepository,
	reports DashboardSource,
	store Pinger,
	gate demo.Gate,
	log *logrus.Logger,
) *Service {
	return &Service{
		accounts: accounts,
		profiles: profiles,
		services: services,
		settings: settings,
		reports:  reports,
		store:    store,
		demo:     gate,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// -------------------- Statistics --------------------

func (s *Service) Stats(ctx context.Context) (reporting.Dashboard, bool) {
	return s.reports.Dashboard(ctx)
}

func (s *Service) SystemStatus(ctx context.Context) SystemStatus {
	status := SystemStatus{WebServer: "online", Database: "online", API: "online", Chat: "online"}
	if err := s.store.Ping(ctx); err != nil {
		s.log.WithError(err).Warn("system status: store unreachable")
		status.Database = "offline"
		// chats live in the same store
		status.Chat = "offline"
	}
	return status
}

// -------------------- Users --------------------

// ListUsers returns the newest accounts. Unverified professionals are
// reported as "pending".
func (s *Service) ListUsers(ctx context.Context) ([]UserSummary, error) {
	accounts, err := s.accounts.ListRecent(ctx, recentUsersLimit)
	if err != nil {
		return nil, err
	}

	var clientIDs, proIDs []int64
	for _, a := range accounts {
		switch a.Role {
		case domain.RoleClient:
			clientIDs = append(clientIDs, a.ID)
		case domain.RoleProfessional:
			proIDs = append(proIDs, a.ID)
		}
	}
	clients, err := s.profiles.ClientsByAccount(ctx, clientIDs)
	if err != nil {
		return nil, err
	}
	pros, err := s.profiles.ProfessionalsByAccount(ctx, proIDs)
	if err != nil {
		return nil, err
	}

	users := make([]UserSummary, 0, len(accounts))
	for _, a := range accounts {
		u := UserSummary{
			ID:        a.ID,
			Username:  a.Username,
			Email:     a.Email,
			Role:      a.Role,
			Status:    string(a.Status),
			CreatedAt: a.CreatedAt,
		}
		if c, ok := clients[a.ID]; ok {
			u.FullName = c.FullName
		}
		if p, ok := pros[a.ID]; ok {
			u.FullName = p.FullName
			if !a.IsSuspended() && !p.IsVerified {
				u.Status = "pending"
			}
		}
		users = append(users, u)
	}
	return users, nil
}

func (s *Service) UserDetails(ctx context.Context, id int64) (*UserDetails, error) {
	account, err := s.account(ctx, id)
	if err != nil {
		return nil, err
	}

	d := &UserDetails{
		ID:        account.ID,
		Username:  account.Username,
		Email:     account.Email,
		Role:      account.Role,
		Status:    account.Status,
		Phone:     account.Phone,
		Location:  account.Location,
		CreatedAt: account.CreatedAt,
	}

	switch account.Role {
	case domain.RoleProfessional:
		p, err := s.profiles.GetProfessional(ctx, id)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		if p != nil {
			d.FullName = p.FullName
			d.IsVerified = &p.IsVerified
			d.VerificationStatus = p.VerificationStatus
			d.Specialty = p.Specialty
			d.Experience = &p.Experience
			d.HourlyRate = &p.HourlyRate
		}
	case domain.RoleClient:
		c, err := s.profiles.GetClient(ctx, id)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		if c != nil {
			d.FullName = c.FullName
			d.Preferences = []byte(c.Preferences)
		}
	}
	return d, nil
}

func (s *Service) account(ctx context.Context, id int64) (*domain.Account, error) {
	a, err := s.accounts.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return a, err
}

// -------------------- Moderation --------------------

// VerifyProfessional marks a pending professional as verified. Repeating
// the call is a no-op; a rejected professional cannot be verified.
func (s *Service) VerifyProfessional(ctx context.Context, actor *access.Actor, id int64) (*ModerationResult, error) {
	return s.decideVerification(ctx, actor, id, domain.VerificationVerified, s.profiles.Verify)
}

// RejectProfessional closes a pending verification as rejected.
func (s *Service) RejectProfessional(ctx context.Context, actor *access.Actor, id int64) (*ModerationResult, error) {
	return s.decideVerification(ctx, actor, id, domain.VerificationRejected, s.profiles.Reject)
}

func (s *Service) decideVerification(
	ctx context.Context,
	actor *access.Actor,
	id int64,
	target domain.VerificationStatus,
	apply func(ctx context.Context, accountID, adminID int64) (bool, error),
) (*ModerationResult, error) {
	if err := access.Authorize(actor, domain.RoleAdmin, nil).Err(); err != nil {
		return nil, err
	}
	account, err := s.account(ctx, id)
	if err != nil {
		return nil, err
	}
	if account.Role != domain.RoleProfessional {
		return nil, ErrNotProfessional
	}

	changed, err := apply(ctx, id, actor.ID)
	if err != nil {
		return nil, err
	}
	if changed {
		s.log.WithFields(logrus.Fields{"account_id": id, "admin_id": actor.ID, "status": target}).Info("professional verification decided")
		s.reports.InvalidateDashboard(ctx)
		return &ModerationResult{AccountID: id, Status: string(target), Changed: true}, nil
	}

	profile, err := s.profiles.GetProfessional(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if profile.VerificationStatus != target {
		return nil, ErrVerificationClosed
	}
	return &ModerationResult{AccountID: id, Status: string(target)}, nil
}

// SuspendUser blocks login for the account. Suspending a suspended account
// is a no-op.
func (s *Service) SuspendUser(ctx context.Context, actor *access.Actor, id int64) (*ModerationResult, error) {
	if err := access.Authorize(actor, domain.RoleAdmin, nil).Err(); err != nil {
		return nil, err
	}
	if actor.ID == id {
		return nil, fmt.Errorf("%w: cannot suspend your own account", ErrValidation)
	}
	if _, err := s.account(ctx, id); err != nil {
		return nil, err
	}

	changed, err := s.accounts.SetStatus(ctx, id, domain.AccountActive, domain.AccountSuspended, actor.ID)
	if err != nil {
		return nil, err
	}
	if changed {
		s.log.WithFields(logrus.Fields{"account_id": id, "admin_id": actor.ID}).Info("account suspended")
	}
	return &ModerationResult{AccountID: id, Status: string(domain.AccountSuspended), Changed: changed}, nil
}

func (s *Service) ActivateUser(ctx context.Context, actor *access.Actor, id int64) (*ModerationResult, error) {
	if err := access.Authorize(actor, domain.RoleAdmin, nil).Err(); err != nil {
		return nil, err
	}
	changed, err := s.accounts.SetStatus(ctx, id, domain.AccountSuspended, domain.AccountActive, actor.ID)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, ErrNotSuspended
	}
	s.log.WithFields(logrus.Fields{"account_id": id, "admin_id": actor.ID}).Info("account activated")
	return &ModerationResult{AccountID: id, Status: string(domain.AccountActive), Changed: true}, nil
}

// -------------------- Services & activity --------------------

func (s *Service) ListServices(ctx context.Context) ([]ServiceSummary, error) {
	services, _, err := s.services.List(ctx, repository.ServiceFilter{Limit: recentServicesLimit})
	if err != nil {
		return nil, err
	}

	var proIDs, clientIDs []int64
	for _, svc := range services {
		proIDs = append(proIDs, svc.ProfessionalID)
		if svc.ClientID != nil {
			clientIDs = append(clientIDs, *svc.ClientID)
		}
	}
	pros, err := s.profiles.ProfessionalsByAccount(ctx, proIDs)
	if err != nil {
		return nil, err
	}
	clients, err := s.profiles.ClientsByAccount(ctx, clientIDs)
	if err != nil {
		return nil, err
	}

	out := make([]ServiceSummary, 0, len(services))
	for _, svc := range services {
		item := ServiceSummary{
			ID:               svc.ID,
			Title:            svc.Title,
			Description:      svc.Description,
			ProfessionalName: unknownName,
			ClientName:       unknownName,
			Status:           string(svc.Status),
			Price:            svc.Price,
			CreatedAt:        svc.CreatedAt,
		}
		if p, ok := pros[svc.ProfessionalID]; ok && p.FullName != "" {
			item.ProfessionalName = p.FullName
		}
		if svc.ClientID != nil {
			if c, ok := clients[*svc.ClientID]; ok && c.FullName != "" {
				item.ClientName = c.FullName
			}
		}
		out = append(out, item)
	}
	return out, nil
}

// Activities merges registrations and completions of the last 24 hours,
// newest first.
func (s *Service) Activities(ctx context.Context) ([]Activity, error) {
	since := s.now().Add(-activityWindow)

	accounts, err := s.accounts.RegisteredSince(ctx, since)
	if err != nil {
		return nil, err
	}
	completed, err := s.services.CompletedSince(ctx, since)
	if err != nil {
		return nil, err
	}

	activities := make([]Activity, 0, len(accounts)+len(completed))
	for i := range accounts {
		a := accounts[i]
		activities = append(activities, Activity{
			Type:        "user_registered",
			Title:       "New user registered",
			Description: fmt.Sprintf("%s (%s)", a.Username, capitalize(string(a.Role))),
			Timestamp:   a.CreatedAt,
			UserID:      &a.ID,
		})
	}
	for i := range completed {
		svc := completed[i]
		if svc.CompletedAt == nil {
			continue
		}
		activities = append(activities, Activity{
			Type:        "service_completed",
			Title:       "Service completed",
			Description: fmt.Sprintf("%s - %.2f MT", svc.Title, svc.Price),
			Timestamp:   *svc.CompletedAt,
			ServiceID:   &svc.ID,
		})
	}

	sort.SliceStable(activities, func(i, j int) bool {
		return activities[i].Timestamp.After(activities[j].Timestamp)
	})
	if len(activities) > activityLimit {
		activities = activities[:activityLimit]
	}
	return activities, nil
}

// DemoActivities is served only through the demo gate.
func (s *Service) DemoActivities() []Activity {
	now := s.now()
	return []Activity{
		{Type: "user_registered", Title: "New user registered", Description: "Carlos Muchanga (Professional)", Timestamp: now.Add(-30 * time.Minute)},
		{Type: "service_completed", Title: "Service completed", Description: "Electrical installation - 1500.00 MT", Timestamp: now.Add(-time.Hour)},
		{Type: "user_registered", Title: "New user registered", Description: "Ana Silva (Client)", Timestamp: now.Add(-2 * time.Hour)},
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// -------------------- Settings --------------------

func (s *Service) Settings(ctx context.Context) (map[string]any, error) {
	stored, err := s.settings.Load(ctx)
	if err != nil {
		return nil, err
	}
	return merge(DefaultSettings(), stored), nil
}

// SaveSettings merges patch into the stored document key by key.
func (s *Service) SaveSettings(ctx context.Context, actor *access.Actor, patch map[string]any) (map[string]any, error) {
	if err := access.Authorize(actor, domain.RoleAdmin, nil).Err(); err != nil {
		return nil, err
	}
	if len(patch) == 0 {
		return nil, fmt.Errorf("%w: settings payload is empty", ErrValidation)
	}

	next, err := s.settings.Merge(ctx, patch, actor.ID)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"admin_id": actor.ID, "keys": len(patch)}).Info("settings saved")
	return merge(DefaultSettings(), next), nil
}
