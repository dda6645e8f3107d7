package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrStoreUnavailable marks the maintenance condition: the persistence
// store could not be reached or did not answer in time.
var ErrStoreUnavailable = errors.New("store unavailable")

const (
	defaultPingTimeout = 2 * time.Second
	defaultRetryEvery  = 10 * time.Second
)

// Store is the explicitly constructed handle every repository receives.
// A Store built with Unavailable never touches the network. A Store returned
// by Open that failed at boot retries the connection on use, at most once
// per retryEvery.
type Store struct {
	mu          sync.Mutex
	db          *gorm.DB
	cause       error
	pingTimeout time.Duration

	connect    func() (*gorm.DB, error)
	retryEvery time.Duration
	lastTry    time.Time
	log        *logrus.Logger
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, pingTimeout: defaultPingTimeout}
}

func Unavailable(cause error) *Store {
	return &Store{cause: cause, pingTimeout: defaultPingTimeout}
}

// Open connects and migrates. Any failure yields a store in maintenance mode
// and a logged warning so the process can still serve degraded reads; the
// connection is retried lazily until it succeeds.
func Open(dsn string, opts Options, log *logrus.Logger) *Store {
	connect := func() (*gorm.DB, error) {
		db, err := Connect(dsn, opts, log)
		if err != nil {
			return nil, err
		}
		if err := Migrate(db); err != nil {
			if sqlDB, derr := db.DB(); derr == nil {
				_ = sqlDB.Close()
			}
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return db, nil
	}
	return lazy(connect, defaultRetryEvery, log)
}

func lazy(connect func() (*gorm.DB, error), retryEvery time.Duration, log *logrus.Logger) *Store {
	s := &Store{
		pingTimeout: defaultPingTimeout,
		connect:     connect,
		retryEvery:  retryEvery,
		log:         log,
	}
	s.mu.Lock()
	s.tryConnectLocked(time.Now())
	s.mu.Unlock()
	return s
}

func (s *Store) tryConnectLocked(now time.Time) {
	s.lastTry = now
	db, err := s.connect()
	if err != nil {
		s.cause = err
		s.log.WithError(err).Warn("database connection failed, running in maintenance mode")
		return
	}
	if s.cause != nil {
		s.log.Info("database connection established, leaving maintenance mode")
	}
	s.db = db
	s.cause = nil
}

// handle returns the connected *gorm.DB, reconnecting first when the store
// was opened lazily and the retry interval has passed.
func (s *Store) handle() *gorm.DB {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil && s.connect != nil {
		if now := time.Now(); now.Sub(s.lastTry) >= s.retryEvery {
			s.tryConnectLocked(now)
		}
	}
	return s.db
}

func (s *Store) Session(ctx context.Context) (*gorm.DB, error) {
	db := s.handle()
	if db == nil {
		return nil, ErrStoreUnavailable
	}
	return db.WithContext(ctx), nil
}

func (s *Store) Ping(ctx context.Context) error {
	db := s.handle()
	if db == nil {
		return ErrStoreUnavailable
	}
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	ctx, cancel := context.WithTimeout(ctx, s.pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

func (s *Store) Available(ctx context.Context) bool {
	return s.Ping(ctx) == nil
}

func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// IsUnavailable reports whether err means the store could not serve the
// request, as opposed to a query or constraint failure.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrStoreUnavailable) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
