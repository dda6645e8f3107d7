package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"txunajob/internal/database"
	"txunajob/internal/domain"
	"txunajob/internal/metrics"
)

type BootstrapOutcome string

const (
	BootstrapCreated                      BootstrapOutcome = "created"
	BootstrapSkippedExisting              BootstrapOutcome = "skipped_existing"
	BootstrapSkippedIncompleteCredentials BootstrapOutcome = "skipped_incomplete_credentials"
	BootstrapSkippedUsernameTaken         BootstrapOutcome = "skipped_username_taken"
	BootstrapSkippedUnavailable           BootstrapOutcome = "skipped_unavailable"
	BootstrapFailed                       BootstrapOutcome = "failed"
)

type AdminCredentials struct {
	Username string
	Email    string
	Password string
	Fallback bool
}

func (c AdminCredentials) complete() bool {
	return strings.TrimSpace(c.Username) != "" && strings.TrimSpace(c.Email) != "" && c.Password != ""
}

// EnsureDefaultAdmin creates the first admin account when none exists.
// It is safe to call on every start and never returns an error; the
// outcome is logged and returned instead.
func (s *Service) EnsureDefaultAdmin(ctx context.Context, creds AdminCredentials) BootstrapOutcome {
	outcome := s.ensureDefaultAdmin(ctx, creds)
	metrics.RecordBootstrap(string(outcome))
	return outcome
}

func (s *Service) ensureDefaultAdmin(ctx context.Context, creds AdminCredentials) BootstrapOutcome {
	log := s.log.WithField("component", "admin_bootstrap")

	admins, err := s.accounts.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		log.WithError(err).Warn("store unavailable, default admin bootstrap skipped")
		return BootstrapSkippedUnavailable
	}
	if admins > 0 {
		log.WithField("admins", admins).Debug("admin already exists")
		return BootstrapSkippedExisting
	}
	if !creds.complete() {
		log.Warn("DEFAULT_ADMIN_USERNAME, DEFAULT_ADMIN_EMAIL and DEFAULT_ADMIN_PASSWORD must all be set; default admin not created")
		return BootstrapSkippedIncompleteCredentials
	}
	if creds.Fallback {
		log.Warn("using built-in development admin credentials; set DEFAULT_ADMIN_* before exposing this instance")
	}

	log = log.WithFields(logrus.Fields{"username": creds.Username, "fallback": creds.Fallback})

	if taken, err := s.accounts.ExistsByUsername(ctx, creds.Username); err != nil {
		log.WithError(err).Warn("store unavailable, default admin bootstrap skipped")
		return BootstrapSkippedUnavailable
	} else if taken {
		log.Warn("default admin username is taken by another account")
		return BootstrapSkippedUsernameTaken
	}
	if taken, err := s.accounts.ExistsByEmail(ctx, creds.Email); err != nil {
		log.WithError(err).Warn("store unavailable, default admin bootstrap skipped")
		return BootstrapSkippedUnavailable
	} else if taken {
		log.Warn("default admin email is taken by another account")
		return BootstrapSkippedUsernameTaken
	}

	account, err := s.Register(ctx, domain.RoleAdmin, RegisterRequest{
		Username: creds.Username,
		Email:    creds.Email,
		Password: creds.Password,
		FullName: "Administrator",
	})
	switch {
	case err == nil:
		log.WithField("account_id", account.ID).Info("default admin created")
		return BootstrapCreated
	case errors.Is(err, ErrDuplicateHandle), errors.Is(err, ErrDuplicateEmail):
		log.Warn("default admin handle registered concurrently")
		return BootstrapSkippedUsernameTaken
	case errors.Is(err, ErrWeakCredential), errors.Is(err, ErrValidation):
		log.WithError(err).Warn("default admin credentials rejected")
		return BootstrapSkippedIncompleteCredentials
	case database.IsUnavailable(err):
		log.WithError(err).Warn("store unavailable, default admin bootstrap skipped")
		return BootstrapSkippedUnavailable
	default:
		log.WithError(err).Error("default admin bootstrap failed")
		return BootstrapFailed
	}
}
