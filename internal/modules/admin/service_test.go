package admin

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"txunajob/internal/database"
	"txunajob/internal/domain"
	"txunajob/internal/modules/reporting"
	"txunajob/internal/pkg/access"
	"txunajob/internal/pkg/demo"
	"txunajob/internal/pkg/testutil"
	"txunajob/internal/repository"
)

/* ==================== MOCKS ==================== */

type MockDashboardSource struct {
	mock.Mock
}

func (m *MockDashboardSource) Dashboard(ctx context.Context) (reporting.Dashboard, bool) {
	args := m.Called(ctx)
	return args.Get(0).(reporting.Dashboard), args.Bool(1)
}

func (m *MockDashboardSource) InvalidateDashboard(ctx context.Context) {
	m.Called(ctx)
}

/* ==================== HELPERS ==================== */

type fixture struct {
	store   *database.Store
	svc     *Service
	reports *MockDashboardSource
	admin   *access.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewStore(t)
	reports := new(MockDashboardSource)
	reports.On("InvalidateDashboard", mock.Anything).Maybe()

	svc := NewService(
		repository.NewAccountRepository(store),
		repository.NewProfileRepository(store),
		repository.NewServiceRepository(store),
		repository.NewSettingsRepository(store),
		reports,
		store,
		demo.Gate{},
		testutil.Logger(),
	)
	admin := testutil.SeedAccount(t, store, "root", domain.RoleAdmin)
	return &fixture{store: store, svc: svc, reports: reports, admin: &access.Actor{ID: admin.ID, Role: domain.RoleAdmin}}
}

func (f *fixture) professional(t *testing.T, username string) *domain.Account {
	t.Helper()
	a := testutil.SeedAccount(t, f.store, username, domain.RoleProfessional)
	require.NoError(t, testutil.DB(t, f.store).Create(&domain.ProfessionalProfile{
		AccountID:          a.ID,
		FullName:           "Pro " + username,
		VerificationStatus: domain.VerificationPending,
	}).Error)
	return a
}

func (f *fixture) client(t *testing.T, username string) *domain.Account {
	t.Helper()
	a := testutil.SeedAccount(t, f.store, username, domain.RoleClient)
	require.NoError(t, testutil.DB(t, f.store).Create(&domain.ClientProfile{AccountID: a.ID, FullName: "Client " + username}).Error)
	return a
}

/* ==================== TESTS ==================== */

func TestVerifyProfessional(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pro := f.professional(t, "pro")

	result, err := f.svc.VerifyProfessional(ctx, f.admin, pro.ID)
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, "verified", result.Status)

	profile, err := repository.NewProfileRepository(f.store).GetProfessional(ctx, pro.ID)
	require.NoError(t, err)
	assert.True(t, profile.IsVerified)
	require.NotNil(t, profile.VerifiedBy)
	assert.Equal(t, f.admin.ID, *profile.VerifiedBy)
	require.NotNil(t, profile.VerifiedAt)
	verifiedAt := *profile.VerifiedAt

	// repeat is a no-op
	again, err := f.svc.VerifyProfessional(ctx, f.admin, pro.ID)
	require.NoError(t, err)
	assert.False(t, again.Changed)

	profile, err = repository.NewProfileRepository(f.store).GetProfessional(ctx, pro.ID)
	require.NoError(t, err)
	assert.True(t, profile.IsVerified)
	assert.True(t, verifiedAt.Equal(*profile.VerifiedAt))

	_, err = f.svc.RejectProfessional(ctx, f.admin, pro.ID)
	assert.ErrorIs(t, err, ErrVerificationClosed)

	f.reports.AssertNumberOfCalls(t, "InvalidateDashboard", 1)
}

func TestVerifyProfessional_WrongTypeAndMissing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.client(t, "cli")

	_, err := f.svc.VerifyProfessional(ctx, f.admin, c.ID)
	assert.ErrorIs(t, err, ErrNotProfessional)

	_, err = f.svc.VerifyProfessional(ctx, f.admin, 424242)
	assert.ErrorIs(t, err, ErrUserNotFound)

	orphan := testutil.SeedAccount(t, f.store, "orphan", domain.RoleProfessional)
	_, err = f.svc.VerifyProfessional(ctx, f.admin, orphan.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = f.svc.VerifyProfessional(ctx, &access.Actor{ID: c.ID, Role: domain.RoleClient}, c.ID)
	assert.ErrorIs(t, err, access.ErrRoleMismatch)
}

func TestRejectProfessional(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pro := f.professional(t, "pro")

	result, err := f.svc.RejectProfessional(ctx, f.admin, pro.ID)
	require.NoError(t, err)
	assert.True(t, result.Changed)

	_, err = f.svc.VerifyProfessional(ctx, f.admin, pro.ID)
	assert.ErrorIs(t, err, ErrVerificationClosed)

	profile, err := repository.NewProfileRepository(f.store).GetProfessional(ctx, pro.ID)
	require.NoError(t, err)
	assert.False(t, profile.IsVerified)
	assert.Equal(t, domain.VerificationRejected, profile.VerificationStatus)
}

func TestSuspendAndActivate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.client(t, "cli")

	_, err := f.svc.ActivateUser(ctx, f.admin, c.ID)
	assert.ErrorIs(t, err, ErrNotSuspended)

	result, err := f.svc.SuspendUser(ctx, f.admin, c.ID)
	require.NoError(t, err)
	assert.True(t, result.Changed)

	again, err := f.svc.SuspendUser(ctx, f.admin, c.ID)
	require.NoError(t, err)
	assert.False(t, again.Changed)

	_, err = f.svc.SuspendUser(ctx, f.admin, f.admin.ID)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.SuspendUser(ctx, f.admin, 999999)
	assert.ErrorIs(t, err, ErrUserNotFound)

	result, err = f.svc.ActivateUser(ctx, f.admin, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "active", result.Status)

	account, err := repository.NewAccountRepository(f.store).GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, account.IsSuspended())
	require.NotNil(t, account.ActivatedBy)
	assert.Equal(t, f.admin.ID, *account.ActivatedBy)
}

func TestListUsers_PendingProfessionals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pro := f.professional(t, "pro")
	verified := f.professional(t, "verified")
	f.client(t, "cli")

	_, err := f.svc.VerifyProfessional(ctx, f.admin, verified.ID)
	require.NoError(t, err)

	users, err := f.svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 4)

	byID := map[int64]UserSummary{}
	for _, u := range users {
		byID[u.ID] = u
	}
	assert.Equal(t, "pending", byID[pro.ID].Status)
	assert.Equal(t, "Pro pro", byID[pro.ID].FullName)
	assert.Equal(t, "active", byID[verified.ID].Status)
}

func TestUserDetails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pro := f.professional(t, "pro")

	d, err := f.svc.UserDetails(ctx, pro.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pro pro", d.FullName)
	require.NotNil(t, d.IsVerified)
	assert.False(t, *d.IsVerified)
	assert.Equal(t, domain.VerificationPending, d.VerificationStatus)

	_, err = f.svc.UserDetails(ctx, 999999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestListServices_Names(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pro := f.professional(t, "pro")
	cli := f.client(t, "cli")

	db := testutil.DB(t, f.store)
	require.NoError(t, db.Create(&domain.Service{Title: "Claimed", Category: "home", ProfessionalID: pro.ID, ClientID: &cli.ID, Status: domain.ServicePending}).Error)
	require.NoError(t, db.Create(&domain.Service{Title: "Open", Category: "home", ProfessionalID: pro.ID, Status: domain.ServiceAvailable}).Error)

	services, err := f.svc.ListServices(ctx)
	require.NoError(t, err)
	require.Len(t, services, 2)

	byTitle := map[string]ServiceSummary{}
	for _, s := range services {
		byTitle[s.Title] = s
	}
	assert.Equal(t, "Pro pro", byTitle["Claimed"].ProfessionalName)
	assert.Equal(t, "Client cli", byTitle["Claimed"].ClientName)
	assert.Equal(t, "N/A", byTitle["Open"].ClientName)
}

func TestActivities(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now().UTC()
	f.svc.now = func() time.Time { return now }

	pro := f.professional(t, "pro")
	old := f.client(t, "old")
	db := testutil.DB(t, f.store)
	require.NoError(t, db.Model(old).Update("created_at", now.Add(-48*time.Hour)).Error)

	done := now.Add(-time.Minute)
	require.NoError(t, db.Create(&domain.Service{Title: "Fix sink", Category: "home", Price: 500, ProfessionalID: pro.ID, Status: domain.ServiceCompleted, CompletedAt: &done}).Error)

	activities, err := f.svc.Activities(ctx)
	require.NoError(t, err)

	var types []string
	for _, a := range activities {
		types = append(types, a.Type)
		assert.NotContains(t, a.Description, "old")
	}
	assert.Contains(t, types, "service_completed")
	assert.Contains(t, types, "user_registered")
	for i := 1; i < len(activities); i++ {
		assert.False(t, activities[i].Timestamp.After(activities[i-1].Timestamp))
	}
}

func TestSettings_DefaultsAndMerge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	settings, err := f.svc.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "TxunaJob", settings["siteName"])
	assert.Len(t, settings, len(DefaultSettings()))

	_, err = f.svc.SaveSettings(ctx, f.admin, map[string]any{})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.SaveSettings(ctx, f.admin, map[string]any{"siteName": "Txuna", "maxServices": 3})
	require.NoError(t, err)
	saved, err := f.svc.SaveSettings(ctx, f.admin, map[string]any{"autoApprove": true})
	require.NoError(t, err)

	assert.Equal(t, "Txuna", saved["siteName"])
	assert.Equal(t, true, saved["autoApprove"])

	stored, err := repository.NewSettingsRepository(f.store).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Txuna", stored["siteName"])
	assert.EqualValues(t, 3, stored["maxServices"].(float64))
	_, hasDefault := stored["siteDescription"]
	assert.False(t, hasDefault)
}

func TestSystemStatus(t *testing.T) {
	f := newFixture(t)
	status := f.svc.SystemStatus(context.Background())
	assert.Equal(t, SystemStatus{WebServer: "online", Database: "online", API: "online", Chat: "online"}, status)

	down := database.Unavailable(errors.New("down"))
	svc := NewService(nil, nil, nil, nil, nil, down, demo.Gate{}, testutil.Logger())
	status = svc.SystemStatus(context.Background())
	assert.Equal(t, "offline", status.Database)
	assert.Equal(t, "offline", status.Chat)
	assert.Equal(t, "online", status.WebServer)
}

func TestUserDetails_ClientPreferences(t *testing.T) {
	f := newFixture(t)
	a := testutil.SeedAccount(t, f.store, "prefs", domain.RoleClient)
	require.NoError(t, testutil.DB(t, f.store).Create(&domain.ClientProfile{AccountID: a.ID, Preferences: []byte(`{"area":"Matola"}`)}).Error)

	d, err := f.svc.UserDetails(context.Background(), a.ID)
	require.NoError(t, err)
	var prefs map[string]string
	require.NoError(t, json.Unmarshal(d.Preferences, &prefs))
	assert.Equal(t, "Matola", prefs["area"])
}
