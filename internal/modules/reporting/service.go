package reporting

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"txunajob/internal/cache"
	"txunajob/internal/domain"
	"txunajob/internal/repository"
)

// Window bounds the time-series reports.
const Window = 180 * 24 * time.Hour

const dashboardCacheKey = "reports:dashboard"

// cacheTimeout bounds every cache round trip so a stalled cache never eats
// the store's share of the request deadline.
const cacheTimeout = 200 * time.Millisecond

// Service aggregates read-only reports. A failing store never surfaces as
// an error: every report falls back to its zero value and ok=false.
type Service struct {
	accounts AccountReader
	profiles VerificationCounter
	services ServiceReader
	cache    cache.Cache
	cacheTTL time.Duration
	cacheTO  time.Duration
	log      *logrus.Logger
	now      func() time.Time
}

func NewService(
	accounts AccountReader,
	profiles VerificationCounter,
	services ServiceReader,
	c cache.Cache,
	cacheTTL time.Duration,
	log *logrus.Logger,
) *Service {
	if c == nil {
		c = cache.Noop{}
	}
	return &Service{
		accounts: accounts,
		profiles: profiles,
		services: services,
		cache:    c,
		cacheTTL: cacheTTL,
		cacheTO:  cacheTimeout,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) warn(report string, err error) {
	s.log.WithError(err).WithField("report", report).Warn("report unavailable, returning empty result")
}

// UsersGrowth counts new accounts per calendar month inside Window,
// oldest month first. Months without registrations are omitted.
func (s *Service) UsersGrowth(ctx context.Context) ([]GrowthPoint, bool) {
	accounts, err := s.accounts.RegisteredSince(ctx, s.now().Add(-Window))
	if err != nil {
		s.warn("users_growth", err)
		return []GrowthPoint{}, false
	}

	counts := make(map[monthKey]int64)
	for _, a := range accounts {
		counts[keyOf(a.CreatedAt)]++
	}

	points := make([]GrowthPoint, 0, len(counts))
	for _, k := range sortedKeys(counts) {
		points = append(points, GrowthPoint{Period: k.period(), Year: k.year, Month: int(k.month), Users: counts[k]})
	}
	return points, true
}

func (s *Service) ServicesAnalytics(ctx context.Context) (ServicesAnalytics, bool) {
	var out ServicesAnalytics
	var err error

	count := func(dst *int64, statuses ...domain.ServiceStatus) {
		if err != nil {
			return
		}
		*dst, err = s.services.Count(ctx, repository.ServiceFilter{Statuses: statuses})
	}
	count(&out.TotalServices)
	count(&out.CompletedServices, domain.ServiceCompleted)
	count(&out.PendingServices, domain.ServicePending)
	count(&out.CancelledServices, domain.ServiceCancelled)
	if err == nil {
		out.TotalRevenue, err = s.services.CompletedRevenue(ctx)
	}
	if err != nil {
		s.warn("services_analytics", err)
		return ServicesAnalytics{}, false
	}

	if out.CompletedServices > 0 {
		out.AverageServiceValue = out.TotalRevenue / float64(out.CompletedServices)
	}
	return out, true
}

// Financial sums revenue of completed services per completion month inside
// Window, oldest month first.
func (s *Service) Financial(ctx context.Context) ([]FinancialPoint, bool) {
	completed, err := s.services.CompletedSince(ctx, s.now().Add(-Window))
	if err != nil {
		s.warn("financial", err)
		return []FinancialPoint{}, false
	}

	buckets := make(map[monthKey]*FinancialPoint)
	for _, svc := range completed {
		if svc.CompletedAt == nil {
			continue
		}
		k := keyOf(*svc.CompletedAt)
		b, ok := buckets[k]
		if !ok {
			b = &FinancialPoint{Period: k.period(), Year: k.year, Month: int(k.month)}
			buckets[k] = b
		}
		b.Revenue += svc.Price
		b.ServicesCount++
	}

	points := make([]FinancialPoint, 0, len(buckets))
	for _, k := range sortedKeys(buckets) {
		points = append(points, *buckets[k])
	}
	return points, true
}

// Dashboard is served from the cache when present; a fresh snapshot is
// cached for cacheTTL. Degraded snapshots are never cached.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, bool) {
	var cached Dashboard
	if hit, err := s.cacheGet(ctx, &cached); err != nil {
		s.log.WithError(err).Debug("dashboard cache read failed")
	} else if hit {
		return cached, true
	}

	d, err := s.buildDashboard(ctx)
	if err != nil {
		s.warn("dashboard", err)
		return Dashboard{}, false
	}

	if s.cacheTTL > 0 {
		cctx, cancel := context.WithTimeout(ctx, s.cacheTO)
		err := s.cache.Set(cctx, dashboardCacheKey, d, s.cacheTTL)
		cancel()
		if err != nil {
			s.log.WithError(err).Debug("dashboard cache write failed")
		}
	}
	return d, true
}

// InvalidateDashboard drops the cached snapshot.
func (s *Service) InvalidateDashboard(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.cacheTO)
	defer cancel()
	if err := s.cache.Delete(ctx, dashboardCacheKey); err != nil {
		s.log.WithError(err).Debug("dashboard cache delete failed")
	}
}

func (s *Service) cacheGet(ctx context.Context, dst *Dashboard) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cacheTO)
	defer cancel()
	return s.cache.Get(ctx, dashboardCacheKey, dst)
}

func (s *Service) buildDashboard(ctx context.Context) (Dashboard, error) {
	var d Dashboard
	var err error

	if d.TotalClients, err = s.accounts.CountByRole(ctx, domain.RoleClient); err != nil {
		return Dashboard{}, err
	}
	if d.TotalProfessionals, err = s.accounts.CountByRole(ctx, domain.RoleProfessional); err != nil {
		return Dashboard{}, err
	}
	admins, err := s.accounts.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return Dashboard{}, err
	}
	d.TotalUsers = d.TotalClients + d.TotalProfessionals + admins

	if d.TotalServices, err = s.services.Count(ctx, repository.ServiceFilter{}); err != nil {
		return Dashboard{}, err
	}
	// active means not yet completed, cancelled or rejected
	if d.ActiveServices, err = s.services.Count(ctx, repository.ServiceFilter{Statuses: domain.NonTerminalStatuses()}); err != nil {
		return Dashboard{}, err
	}
	if d.CompletedServices, err = s.services.Count(ctx, repository.ServiceFilter{Statuses: []domain.ServiceStatus{domain.ServiceCompleted}}); err != nil {
		return Dashboard{}, err
	}
	if d.PendingVerifications, err = s.profiles.CountPendingVerifications(ctx); err != nil {
		return Dashboard{}, err
	}
	if d.TotalRevenue, err = s.services.CompletedRevenue(ctx); err != nil {
		return Dashboard{}, err
	}

	since := monthStart(s.now())
	if d.NewUsersMonth, err = s.accounts.CountSince(ctx, since); err != nil {
		return Dashboard{}, err
	}
	if d.ServicesMonth, err = s.services.Count(ctx, repository.ServiceFilter{CreatedFrom: &since}); err != nil {
		return Dashboard{}, err
	}

	return d, nil
}
