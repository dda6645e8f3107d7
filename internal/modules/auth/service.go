package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"

	"txunajob/internal/database"
	"txunajob/internal/domain"
	"txunajob/internal/metrics"
	"txunajob/internal/pkg/access"
	"txunajob/internal/pkg/validator"
	"txunajob/internal/repository"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 64
)

// compared against when the account does not exist so that unknown logins
// cost the same as wrong passwords
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("txunajob-dummy-password"), bcrypt.DefaultCost)

// Service contains all business logic for authentication
type Service struct {
	accounts        AccountRepository
	profiles        ProfileReader
	tokens          TokenIssuer
	stats           StatsInvalidator
	registrationKey string
	log             *logrus.Logger
}

func NewService(
	accounts AccountRepository,
	profiles ProfileReader,
	tokens TokenIssuer,
	registrationKey string,
	log *logrus.Logger,
) *Service {
	return &Service{
		accounts:        accounts,
		profiles:        profiles,
		tokens:          tokens,
		stats:           noopInvalidator{},
		registrationKey: registrationKey,
		log:             log,
	}
}

// SetStatsInvalidator registers the cache dropped after each registration.
func (s *Service) SetStatsInvalidator(inv StatsInvalidator) {
	if inv == nil {
		inv = noopInvalidator{}
	}
	s.stats = inv
}

// Register creates the account and its role profile in one transaction.
// The exists checks are a fast path; the unique indexes decide.
func (s *Service) Register(ctx context.Context, role domain.Role, req RegisterRequest) (*domain.Account, error) {
	account, err := s.register(ctx, role, req)
	result := "created"
	if err != nil {
		result = registrationResult(err)
	} else {
		s.stats.InvalidateDashboard(ctx)
	}
	metrics.RecordRegistration(string(role), result)
	return account, err
}

func (s *Service) register(ctx context.Context, role domain.Role, req RegisterRequest) (*domain.Account, error) {
	username, email, err := validateRegistration(role, req)
	if err != nil {
		return nil, err
	}

	if taken, err := s.accounts.ExistsByUsername(ctx, username); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrDuplicateHandle
	}
	if taken, err := s.accounts.ExistsByEmail(ctx, email); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrDuplicateEmail
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	db, err := s.accounts.Session(ctx)
	if err != nil {
		return nil, err
	}
	tx := db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	account := &domain.Account{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         role,
		Phone:        strings.TrimSpace(req.Phone),
		Location:     strings.TrimSpace(req.Location),
		Status:       domain.AccountActive,
	}
	if err := tx.Create(account).Error; err != nil {
		tx.Rollback()
		return nil, classifyCreateError(err)
	}

	profile, err := newProfile(role, account.ID, req)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Create(profile).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("create %s profile: %w", role, err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, classifyCreateError(err)
	}

	s.log.WithFields(logrus.Fields{"account_id": account.ID, "role": role}).Info("account registered")
	return account, nil
}

// RegisterAdmin applies the admin registration rule before registering.
func (s *Service) RegisterAdmin(ctx context.Context, actor *access.Actor, suppliedKey string, req RegisterRequest) (*domain.Account, error) {
	admins, err := s.accounts.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	decision := access.AuthorizeAdminRegistration(admins, actor, suppliedKey, s.registrationKey)
	if !decision.Allowed {
		s.log.WithField("reason", decision.Reason).Warn("admin registration refused")
		return nil, decision.Err()
	}
	return s.Register(ctx, domain.RoleAdmin, req)
}

func validateRegistration(role domain.Role, req RegisterRequest) (string, string, error) {
	if !role.Valid() {
		return "", "", fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}
	username := strings.TrimSpace(req.Username)
	if n := utf8.RuneCountInString(username); n < minUsernameLength || n > maxUsernameLength || strings.ContainsAny(username, " \t\n@") {
		return "", "", fmt.Errorf("%w: username must be %d-%d characters without spaces or @", ErrValidation, minUsernameLength, maxUsernameLength)
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validator.Var(email, "required,email") {
		return "", "", fmt.Errorf("%w: email is invalid", ErrValidation)
	}
	if utf8.RuneCountInString(req.Password) < role.MinPasswordLength() {
		return "", "", ErrWeakCredential
	}
	if role == domain.RoleProfessional && req.HourlyRate < 0 {
		return "", "", fmt.Errorf("%w: hourly_rate must be >= 0", ErrValidation)
	}
	return username, email, nil
}

func newProfile(role domain.Role, accountID int64, req RegisterRequest) (any, error) {
	fullName := strings.TrimSpace(req.FullName)
	switch role {
	case domain.RoleClient:
		prefs := req.Preferences
		if prefs == nil {
			prefs = map[string]any{}
		}
		raw, err := json.Marshal(prefs)
		if err != nil {
			return nil, fmt.Errorf("%w: preferences: %v", ErrValidation, err)
		}
		return &domain.ClientProfile{AccountID: accountID, FullName: fullName, Preferences: datatypes.JSON(raw)}, nil
	case domain.RoleProfessional:
		return &domain.ProfessionalProfile{
			AccountID:          accountID,
			FullName:           fullName,
			Specialty:          strings.TrimSpace(req.Specialty),
			Experience:         req.Experience,
			Description:        strings.TrimSpace(req.Description),
			HourlyRate:         req.HourlyRate,
			VerificationStatus: domain.VerificationPending,
		}, nil
	default:
		return &domain.AdminProfile{AccountID: accountID, Permissions: domain.FullAccessPermissions()}, nil
	}
}

func classifyCreateError(err error) error {
	index, ok := repository.UniqueViolation(err)
	if !ok {
		return err
	}
	switch {
	case strings.Contains(index, "username"):
		return ErrDuplicateHandle
	case strings.Contains(index, "email"):
		return ErrDuplicateEmail
	}
	return err
}

func registrationResult(err error) string {
	switch {
	case errors.Is(err, ErrDuplicateHandle), errors.Is(err, ErrDuplicateEmail):
		return "duplicate"
	case errors.Is(err, ErrWeakCredential), errors.Is(err, ErrValidation):
		return "invalid"
	case errors.Is(err, access.ErrUnauthenticated), errors.Is(err, access.ErrRoleMismatch), errors.Is(err, access.ErrInvalidRegistration):
		return "denied"
	case database.IsUnavailable(err):
		return "unavailable"
	}
	return "error"
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	login := strings.TrimSpace(req.Login)
	account, err := s.Resolve(ctx, login)
	if errors.Is(err, ErrAccountNotFound) && strings.Contains(login, "@") {
		account, err = s.ResolveByEmail(ctx, login)
	}
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(req.Password))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.VerifyCredential(account, req.Password) {
		return nil, ErrInvalidCredentials
	}
	if account.IsSuspended() {
		return nil, ErrAccountSuspended
	}

	token, err := s.tokens.GenerateToken(account.ID, string(account.Role))
	if err != nil {
		return nil, err
	}

	return &LoginResult{Account: account, Token: token, Landing: landingFor(account.Role)}, nil
}

func landingFor(role domain.Role) string {
	switch role {
	case domain.RoleAdmin:
		return "/admin/dashboard"
	case domain.RoleProfessional:
		return "/professional/dashboard"
	default:
		return "/client/dashboard"
	}
}

func (s *Service) Resolve(ctx context.Context, username string) (*domain.Account, error) {
	return notFoundAs(s.accounts.GetByUsername(ctx, username))
}

func (s *Service) ResolveByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return notFoundAs(s.accounts.GetByEmail(ctx, email))
}

func notFoundAs(a *domain.Account, err error) (*domain.Account, error) {
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrAccountNotFound
	}
	return a, err
}

// VerifyCredential compares in constant time through bcrypt.
func (s *Service) VerifyCredential(account *domain.Account, plaintext string) bool {
	if account == nil || account.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(plaintext)) == nil
}

// Me returns the account with its role profile.
func (s *Service) Me(ctx context.Context, accountID int64) (*MeResponse, error) {
	account, err := notFoundAs(s.accounts.GetByID(ctx, accountID))
	if err != nil {
		return nil, err
	}

	var profile any
	switch account.Role {
	case domain.RoleClient:
		profile, err = s.profiles.GetClient(ctx, accountID)
	case domain.RoleProfessional:
		profile, err = s.profiles.GetProfessional(ctx, accountID)
	case domain.RoleAdmin:
		profile, err = s.profiles.GetAdmin(ctx, accountID)
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if errors.Is(err, repository.ErrNotFound) {
		profile = nil
	}

	return &MeResponse{Account: ToPublic(account), Profile: profile}, nil
}
