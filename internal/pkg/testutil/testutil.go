// Package testutil builds throwaway SQLite-backed stores for package tests.
package testutil

import (
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"txunajob/internal/database"
	"txunajob/internal/domain"
)

func Logger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// NewStore returns a migrated in-memory store private to the test.
func NewStore(t *testing.T) *database.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_time_format=sqlite", uuid.NewString())
	db, err := database.Connect(dsn, database.Options{LogLevel: logger.Silent}, Logger())
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	store := database.NewStore(db)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// DB returns the raw handle behind a test store.
func DB(t *testing.T, store *database.Store) *gorm.DB {
	t.Helper()
	db, err := store.Session(t.Context())
	if err != nil {
		t.Fatalf("store session: %v", err)
	}
	return db
}

// SeedAccount inserts an active account without a profile.
func SeedAccount(t *testing.T, store *database.Store, username string, role domain.Role) *domain.Account {
	t.Helper()
	a := &domain.Account{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         role,
		Status:       domain.AccountActive,
	}
	if err := DB(t, store).Create(a).Error; err != nil {
		t.Fatalf("seed account %s: %v", username, err)
	}
	return a
}
