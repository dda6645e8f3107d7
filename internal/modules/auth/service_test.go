package auth

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"txunajob/internal/database"
	"txunajob/internal/domain"
	"txunajob/internal/pkg/access"
	"txunajob/internal/pkg/testutil"
	"txunajob/internal/repository"
)

// Mock JWT service
type mockTokenIssuer struct {
	mock.Mock
}

func (m *mockTokenIssuer) GenerateToken(accountID int64, role string) (string, error) {
	args := m.Called(accountID, role)
	return args.String(0), args.Error(1)
}

// skips the fast-path checks so the unique index has to catch duplicates
type noPrecheckAccounts struct {
	*repository.AccountRepository
}

func (noPrecheckAccounts) ExistsByUsername(context.Context, string) (bool, error) { return false, nil }
func (noPrecheckAccounts) ExistsByEmail(context.Context, string) (bool, error)    { return false, nil }

const bootstrapKey = "boot-key"

func setupService(t *testing.T) (*Service, *database.Store, *mockTokenIssuer) {
	t.Helper()
	store := testutil.NewStore(t)
	tokens := new(mockTokenIssuer)
	svc := NewService(
		repository.NewAccountRepository(store),
		repository.NewProfileRepository(store),
		tokens,
		bootstrapKey,
		testutil.Logger(),
	)
	return svc, store, tokens
}

func clientReq(username, email string) RegisterRequest {
	return RegisterRequest{Username: username, Email: email, Password: "secret1", FullName: "Ana"}
}

func TestService_Register_CreatesAccountAndProfile(t *testing.T) {
	svc, store, _ := setupService(t)
	ctx := context.Background()

	account, err := svc.Register(ctx, domain.RoleProfessional, RegisterRequest{
		Username:   "plumber",
		Email:      "Plumber@Example.com",
		Password:   "secret1",
		FullName:   "Carlos",
		Specialty:  "plumbing",
		Experience: 7,
		HourlyRate: 25,
	})
	require.NoError(t, err)
	assert.Equal(t, "plumber@example.com", account.Email)
	assert.Equal(t, domain.RoleProfessional, account.Role)
	assert.Equal(t, domain.AccountActive, account.Status)
	assert.NotEqual(t, "secret1", account.PasswordHash)

	profile, err := repository.NewProfileRepository(store).GetProfessional(ctx, account.ID)
	require.NoError(t, err)
	assert.False(t, profile.IsVerified)
	assert.Equal(t, domain.VerificationPending, profile.VerificationStatus)
	assert.Equal(t, "plumbing", profile.Specialty)
}

func TestService_Register_Duplicates(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, domain.RoleClient, clientReq("ana", "ana@example.com"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, domain.RoleClient, clientReq("ana", "other@example.com"))
	assert.ErrorIs(t, err, ErrDuplicateHandle)

	_, err = svc.Register(ctx, domain.RoleProfessional, clientReq("ana2", "ANA@example.com"))
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestService_Register_UniqueIndexIsAuthoritative(t *testing.T) {
	store := testutil.NewStore(t)
	svc := NewService(
		noPrecheckAccounts{repository.NewAccountRepository(store)},
		repository.NewProfileRepository(store),
		new(mockTokenIssuer),
		"",
		testutil.Logger(),
	)
	ctx := context.Background()

	_, err := svc.Register(ctx, domain.RoleClient, clientReq("ana", "ana@example.com"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, domain.RoleClient, clientReq("ana", "new@example.com"))
	assert.ErrorIs(t, err, ErrDuplicateHandle)

	_, err = svc.Register(ctx, domain.RoleClient, clientReq("bea", "ana@example.com"))
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestService_Register_ConcurrentSameHandle(t *testing.T) {
	svc, _, _ := setupService(t)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Register(context.Background(), domain.RoleClient, clientReq("same", []string{"a@example.com", "b@example.com"}[i]))
		}(i)
	}
	wg.Wait()

	successes, duplicates := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrDuplicateHandle):
			duplicates++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, duplicates)
}

func TestService_Register_WeakCredential(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	req := clientReq("short", "short@example.com")
	req.Password = "12345"
	_, err := svc.Register(ctx, domain.RoleClient, req)
	assert.ErrorIs(t, err, ErrWeakCredential)

	req.Password = "123456"
	_, err = svc.Register(ctx, domain.RoleClient, req)
	assert.NoError(t, err)

	admin := RegisterRequest{Username: "boss", Email: "boss@example.com", Password: "1234567"}
	_, err = svc.Register(ctx, domain.RoleAdmin, admin)
	assert.ErrorIs(t, err, ErrWeakCredential)
}

func TestService_Register_Validation(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, domain.RoleClient, clientReq("ok_name", "not-an-email"))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Register(ctx, domain.RoleClient, clientReq("a b", "ab@example.com"))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Register(ctx, domain.Role("superuser"), clientReq("root", "root@example.com"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_Register_RollsBackWhenProfileFails(t *testing.T) {
	svc, store, _ := setupService(t)
	ctx := context.Background()

	require.NoError(t, testutil.DB(t, store).Migrator().DropTable(&domain.ProfessionalProfile{}))

	_, err := svc.Register(ctx, domain.RoleProfessional, clientReq("ghost", "ghost@example.com"))
	require.Error(t, err)

	_, err = svc.Resolve(ctx, "ghost")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestService_Login(t *testing.T) {
	svc, store, tokens := setupService(t)
	ctx := context.Background()

	account, err := svc.Register(ctx, domain.RoleClient, clientReq("ana", "ana@example.com"))
	require.NoError(t, err)
	tokens.On("GenerateToken", account.ID, "client").Return("fake-jwt-token", nil)

	result, err := svc.Login(ctx, LoginRequest{Login: "ana", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "fake-jwt-token", result.Token)
	assert.Equal(t, "/client/dashboard", result.Landing)

	result, err = svc.Login(ctx, LoginRequest{Login: "ANA@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, account.ID, result.Account.ID)

	_, err = svc.Login(ctx, LoginRequest{Login: "ana", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginRequest{Login: "nobody", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	changed, err := repository.NewAccountRepository(store).SetStatus(ctx, account.ID, domain.AccountActive, domain.AccountSuspended, 1)
	require.NoError(t, err)
	require.True(t, changed)

	_, err = svc.Login(ctx, LoginRequest{Login: "ana", Password: "secret1"})
	assert.ErrorIs(t, err, ErrAccountSuspended)

	tokens.AssertExpectations(t)
}

func TestService_VerifyCredential(t *testing.T) {
	svc, _, _ := setupService(t)
	account, err := svc.Register(context.Background(), domain.RoleClient, clientReq("ana", "ana@example.com"))
	require.NoError(t, err)

	assert.True(t, svc.VerifyCredential(account, "secret1"))
	assert.False(t, svc.VerifyCredential(account, "secret2"))
	assert.False(t, svc.VerifyCredential(nil, "secret1"))
}

func TestService_RegisterAdmin_BootstrapThenSteadyState(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()
	req := RegisterRequest{Username: "first_admin", Email: "first@example.com", Password: "admin-pass"}

	_, err := svc.RegisterAdmin(ctx, nil, "wrong", req)
	assert.ErrorIs(t, err, access.ErrInvalidRegistration)

	first, err := svc.RegisterAdmin(ctx, nil, bootstrapKey, req)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, first.Role)

	second := RegisterRequest{Username: "second_admin", Email: "second@example.com", Password: "admin-pass"}
	_, err = svc.RegisterAdmin(ctx, nil, bootstrapKey, second)
	assert.ErrorIs(t, err, access.ErrUnauthenticated)

	_, err = svc.RegisterAdmin(ctx, &access.Actor{ID: 99, Role: domain.RoleClient}, bootstrapKey, second)
	assert.ErrorIs(t, err, access.ErrRoleMismatch)

	_, err = svc.RegisterAdmin(ctx, &access.Actor{ID: first.ID, Role: domain.RoleAdmin}, "", second)
	assert.NoError(t, err)
}

func TestService_Me(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	account, err := svc.Register(ctx, domain.RoleClient, clientReq("ana", "ana@example.com"))
	require.NoError(t, err)

	me, err := svc.Me(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana", me.Account.Username)
	profile, ok := me.Profile.(*domain.ClientProfile)
	require.True(t, ok)
	assert.Equal(t, "Ana", profile.FullName)

	_, err = svc.Me(ctx, account.ID+1000)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

type invalidatorMock struct {
	mock.Mock
}

func (m *invalidatorMock) InvalidateDashboard(ctx context.Context) {
	m.Called()
}

func TestService_Register_InvalidatesStatsOnSuccessOnly(t *testing.T) {
	svc, _, _ := setupService(t)
	inv := new(invalidatorMock)
	inv.On("InvalidateDashboard").Return().Once()
	svc.SetStatsInvalidator(inv)
	ctx := context.Background()

	_, err := svc.Register(ctx, domain.RoleClient, clientReq("bia", "bia@example.com"))
	require.NoError(t, err)
	_, err = svc.Register(ctx, domain.RoleClient, clientReq("bia", "bia2@example.com"))
	assert.ErrorIs(t, err, ErrDuplicateHandle)

	inv.AssertExpectations(t)
	inv.AssertNumberOfCalls(t, "InvalidateDashboard", 1)
}
