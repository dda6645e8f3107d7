package database

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return NewStore(db), mock
}

func TestStore_AvailableWhenPingSucceeds(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectPing()

	assert.True(t, store.Available(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_UnavailableWhenPingFails(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	err := store.Ping(context.Background())
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.True(t, IsUnavailable(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnavailableStore_SessionFails(t *testing.T) {
	store := Unavailable(errors.New("dial tcp: refused"))

	db, err := store.Session(context.Background())
	assert.Nil(t, db)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.False(t, store.Available(context.Background()))
	assert.NoError(t, store.Close())
}

func TestIsUnavailable(t *testing.T) {
	assert.False(t, IsUnavailable(nil))
	assert.False(t, IsUnavailable(gorm.ErrRecordNotFound))
	assert.True(t, IsUnavailable(fmt.Errorf("query: %w", context.DeadlineExceeded)))
	assert.True(t, IsUnavailable(fmt.Errorf("wrap: %w", ErrStoreUnavailable)))
}

func TestOpen_SQLiteMigratesSchema(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	store := Open("file:open_test?mode=memory&cache=shared", Options{LogLevel: logger.Silent}, log)
	t.Cleanup(func() { _ = store.Close() })
	require.True(t, store.Available(context.Background()))

	db, err := store.Session(context.Background())
	require.NoError(t, err)
	for _, table := range []string{"accounts", "client_profiles", "professional_profiles", "admin_profiles", "services", "chats", "messages", "settings"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.True(t, db.Migrator().HasIndex("accounts", "idx_accounts_username"))
	assert.True(t, db.Migrator().HasIndex("accounts", "idx_accounts_email"))
}

func TestWithConnectTimeout(t *testing.T) {
	assert.Equal(t, "postgres://u@h/db?connect_timeout=5", withConnectTimeout("postgres://u@h/db", 5e9))
	assert.Equal(t, "postgres://u@h/db?sslmode=disable&connect_timeout=1", withConnectTimeout("postgres://u@h/db?sslmode=disable", 1))
	assert.Equal(t, "postgres://u@h/db?connect_timeout=9", withConnectTimeout("postgres://u@h/db?connect_timeout=9", 5e9))
}

func TestOpenedStore_ReconnectsAfterBootFailure(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	attempts := 0
	up := false
	connect := func() (*gorm.DB, error) {
		attempts++
		if !up {
			return nil, errors.New("dial tcp: connection refused")
		}
		return Connect("file:lazy_test?mode=memory&cache=shared", Options{LogLevel: logger.Silent}, log)
	}

	store := lazy(connect, 0, log)
	t.Cleanup(func() { _ = store.Close() })
	assert.False(t, store.Available(context.Background()))
	_, err := store.Session(context.Background())
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	up = true
	assert.True(t, store.Available(context.Background()))
	_, err = store.Session(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, attempts)
}

func TestOpenedStore_RetryIsThrottled(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	attempts := 0
	store := lazy(func() (*gorm.DB, error) {
		attempts++
		return nil, errors.New("dial tcp: connection refused")
	}, time.Hour, log)

	for i := 0; i < 3; i++ {
		assert.False(t, store.Available(context.Background()))
	}
	assert.Equal(t, 1, attempts)
}
