package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"txunajob/internal/cache"
	"txunajob/internal/database"
	"txunajob/internal/domain"
	"txunajob/internal/pkg/testutil"
	"txunajob/internal/repository"
)

var fixedNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T, store *database.Store, c cache.Cache) *Service {
	t.Helper()
	svc := NewService(
		repository.NewAccountRepository(store),
		repository.NewProfileRepository(store),
		repository.NewServiceRepository(store),
		c,
		time.Minute,
		testutil.Logger(),
	)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func seedService(t *testing.T, store *database.Store, proID int64, status domain.ServiceStatus, price float64, created time.Time, completed *time.Time) {
	t.Helper()
	s := &domain.Service{
		Title:          "job",
		Category:       "home",
		Price:          price,
		ProfessionalID: proID,
		Status:         status,
		CreatedAt:      created,
		CompletedAt:    completed,
	}
	require.NoError(t, testutil.DB(t, store).Create(s).Error)
}

func at(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 10, 0, 0, 0, time.UTC)
}

func TestServicesAnalytics_NoCompletedServicesHasZeroAverage(t *testing.T) {
	store := testutil.NewStore(t)
	pro := testutil.SeedAccount(t, store, "pro", domain.RoleProfessional)
	seedService(t, store, pro.ID, domain.ServicePending, 100, fixedNow, nil)
	seedService(t, store, pro.ID, domain.ServiceCancelled, 50, fixedNow, nil)

	analytics, ok := newService(t, store, nil).ServicesAnalytics(context.Background())
	require.True(t, ok)
	assert.EqualValues(t, 2, analytics.TotalServices)
	assert.EqualValues(t, 1, analytics.PendingServices)
	assert.EqualValues(t, 1, analytics.CancelledServices)
	assert.Zero(t, analytics.CompletedServices)
	assert.Zero(t, analytics.TotalRevenue)
	assert.Zero(t, analytics.AverageServiceValue)
}

func TestServicesAnalytics_Average(t *testing.T) {
	store := testutil.NewStore(t)
	pro := testutil.SeedAccount(t, store, "pro", domain.RoleProfessional)
	done := at(2026, time.March, 1)
	seedService(t, store, pro.ID, domain.ServiceCompleted, 500, done, &done)
	seedService(t, store, pro.ID, domain.ServiceCompleted, 100, done, &done)

	analytics, ok := newService(t, store, nil).ServicesAnalytics(context.Background())
	require.True(t, ok)
	assert.InDelta(t, 600, analytics.TotalRevenue, 0.001)
	assert.InDelta(t, 300, analytics.AverageServiceValue, 0.001)
}

func TestFinancial_BucketsByCompletionMonth(t *testing.T) {
	store := testutil.NewStore(t)
	pro := testutil.SeedAccount(t, store, "pro", domain.RoleProfessional)

	jan := at(2026, time.January, 20)
	mar1 := at(2026, time.March, 2)
	mar2 := at(2026, time.March, 10)
	old := at(2025, time.June, 1)
	seedService(t, store, pro.ID, domain.ServiceCompleted, 500, jan, &mar1)
	seedService(t, store, pro.ID, domain.ServiceCompleted, 250, mar1, &mar2)
	seedService(t, store, pro.ID, domain.ServiceCompleted, 80, jan, &jan)
	seedService(t, store, pro.ID, domain.ServiceCompleted, 999, old, &old)
	seedService(t, store, pro.ID, domain.ServiceAccepted, 70, mar1, nil)

	points, ok := newService(t, store, nil).Financial(context.Background())
	require.True(t, ok)
	require.Len(t, points, 2)

	assert.Equal(t, FinancialPoint{Period: "1/2026", Year: 2026, Month: 1, Revenue: 80, ServicesCount: 1}, points[0])
	assert.Equal(t, "3/2026", points[1].Period)
	assert.InDelta(t, 750, points[1].Revenue, 0.001)
	assert.EqualValues(t, 2, points[1].ServicesCount)
}

func TestUsersGrowth_Ascending(t *testing.T) {
	store := testutil.NewStore(t)
	db := testutil.DB(t, store)
	for i, created := range []time.Time{at(2026, time.February, 3), at(2025, time.December, 24), at(2026, time.February, 9), at(2024, time.January, 1)} {
		a := testutil.SeedAccount(t, store, "user"+string(rune('a'+i)), domain.RoleClient)
		require.NoError(t, db.Model(a).Update("created_at", created).Error)
	}

	points, ok := newService(t, store, nil).UsersGrowth(context.Background())
	require.True(t, ok)
	require.Len(t, points, 2)
	assert.Equal(t, GrowthPoint{Period: "12/2025", Year: 2025, Month: 12, Users: 1}, points[0])
	assert.Equal(t, GrowthPoint{Period: "2/2026", Year: 2026, Month: 2, Users: 2}, points[1])
}

func TestDashboard(t *testing.T) {
	store := testutil.NewStore(t)
	pro := testutil.SeedAccount(t, store, "pro", domain.RoleProfessional)
	testutil.SeedAccount(t, store, "client", domain.RoleClient)
	testutil.SeedAccount(t, store, "admin", domain.RoleAdmin)
	require.NoError(t, testutil.DB(t, store).Create(&domain.ProfessionalProfile{AccountID: pro.ID, VerificationStatus: domain.VerificationPending}).Error)

	done := at(2026, time.March, 3)
	seedService(t, store, pro.ID, domain.ServiceCompleted, 500, done, &done)
	seedService(t, store, pro.ID, domain.ServiceAvailable, 40, fixedNow, nil)
	seedService(t, store, pro.ID, domain.ServiceRejected, 40, at(2026, time.January, 5), nil)

	d, ok := newService(t, store, nil).Dashboard(context.Background())
	require.True(t, ok)
	assert.EqualValues(t, 3, d.TotalUsers)
	assert.EqualValues(t, 1, d.TotalProfessionals)
	assert.EqualValues(t, 1, d.TotalClients)
	assert.EqualValues(t, 3, d.TotalServices)
	assert.EqualValues(t, 1, d.ActiveServices)
	assert.EqualValues(t, 1, d.CompletedServices)
	assert.EqualValues(t, 1, d.PendingVerifications)
	assert.InDelta(t, 500, d.TotalRevenue, 0.001)
	assert.EqualValues(t, 2, d.ServicesMonth)
}

func TestReports_StoreUnavailableReturnsZeroValues(t *testing.T) {
	svc := newService(t, database.Unavailable(errors.New("down")), nil)
	ctx := context.Background()

	growth, ok := svc.UsersGrowth(ctx)
	assert.False(t, ok)
	assert.Empty(t, growth)

	analytics, ok := svc.ServicesAnalytics(ctx)
	assert.False(t, ok)
	assert.Equal(t, ServicesAnalytics{}, analytics)

	financial, ok := svc.Financial(ctx)
	assert.False(t, ok)
	assert.Empty(t, financial)

	d, ok := svc.Dashboard(ctx)
	assert.False(t, ok)
	assert.Equal(t, Dashboard{}, d)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	args := m.Called(key)
	if v, ok := args.Get(0).(Dashboard); ok {
		*dst.(*Dashboard) = v
		return true, args.Error(1)
	}
	return false, args.Error(1)
}

func (m *mockCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return m.Called(key, value, ttl).Error(0)
}

func (m *mockCache) Delete(ctx context.Context, keys ...string) error {
	return m.Called(keys).Error(0)
}

func TestDashboard_ServedFromCache(t *testing.T) {
	c := new(mockCache)
	c.On("Get", dashboardCacheKey).Return(Dashboard{TotalUsers: 42}, nil)

	d, ok := newService(t, database.Unavailable(errors.New("down")), c).Dashboard(context.Background())
	require.True(t, ok)
	assert.EqualValues(t, 42, d.TotalUsers)
	c.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestDashboard_CachesFreshSnapshotOnly(t *testing.T) {
	store := testutil.NewStore(t)
	c := new(mockCache)
	c.On("Get", dashboardCacheKey).Return(nil, nil)
	c.On("Set", dashboardCacheKey, mock.AnythingOfType("reporting.Dashboard"), time.Minute).Return(nil).Once()

	_, ok := newService(t, store, c).Dashboard(context.Background())
	require.True(t, ok)
	c.AssertExpectations(t)

	down := new(mockCache)
	down.On("Get", dashboardCacheKey).Return(nil, errors.New("redis down"))
	_, ok = newService(t, database.Unavailable(errors.New("down")), down).Dashboard(context.Background())
	assert.False(t, ok)
	down.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

// stalledCache accepts every call and answers only when the caller gives up.
type stalledCache struct{}

func (stalledCache) Get(ctx context.Context, _ string, _ any) (bool, error) {
	<-ctx.Done()
	return false, ctx.Err()
}

func (stalledCache) Set(ctx context.Context, _ string, _ any, _ time.Duration) error {
	<-ctx.Done()
	return ctx.Err()
}

func (stalledCache) Delete(ctx context.Context, _ ...string) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestDashboard_StalledCacheDoesNotDegradeHealthyStore(t *testing.T) {
	store := testutil.NewStore(t)
	testutil.SeedAccount(t, store, "ana", domain.RoleClient)
	testutil.SeedAccount(t, store, "rui", domain.RoleClient)

	svc := newService(t, store, stalledCache{})
	svc.cacheTO = 20 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	d, ok := svc.Dashboard(ctx)
	require.True(t, ok)
	assert.EqualValues(t, 2, d.TotalClients)
	assert.NoError(t, ctx.Err())

	svc.InvalidateDashboard(ctx)
	assert.NoError(t, ctx.Err())
}
