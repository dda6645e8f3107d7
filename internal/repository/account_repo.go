package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"txunajob/internal/database"
	"txunajob/internal/domain"
)

type AccountRepository struct {
	store *database.Store
}

func NewAccountRepository(store *database.Store) *AccountRepository {
	return &AccountRepository{store: store}
}

// Session exposes the store handle so services can open transactions.
func (r *AccountRepository) Session(ctx context.Context) (*gorm.DB, error) {
	return r.store.Session(ctx)
}

func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return r.first(ctx, "username = ?", strings.TrimSpace(username))
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.first(ctx, "email = ?", normalizeEmail(email))
}

func (r *AccountRepository) first(ctx context.Context, query string, arg any) (*domain.Account, error) {
	db, err := r.store.Session(ctx)
	if err != nil {
		return nil, err
	}
	var a domain.Account
	if err := db.Where(query, arg).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *AccountRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username = ?", strings.TrimSpace(username))
}

func (r *AccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", normalizeEmail(email))
}

func (r *AccountRepository) exists(ctx context.Context, query string, arg any) (bool, error) {
	db, err := r.store.Session(ctx)
	if err != nil {
		return false, err
	}
	var count int64
	if err := db.Model(&domain.Account{}).Where(query, arg).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *AccountRepository) CountByRole(ctx context.Context, role domain.Role) (int64, error) {
	db, err := r.store.Session(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	err = db.Model(&domain.Account{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

// ListRecent returns the newest accounts first.
func (r *AccountRepository) ListRecent(ctx context.Context, limit int) ([]domain.Account, error) {
	db, err := r.store.Session(ctx)
	if err != nil {
		return nil, err
	}
	var accounts []domain.Account
	err = db.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&accounts).Error
	return accounts, err
}

// RegisteredSince returns accounts created at or after since, oldest first.
func (r *AccountRepository) RegisteredSince(ctx context.Context, since time.Time) ([]domain.Account, error) {
	db, err := r.store.Session(ctx)
	if err != nil {
		return nil, err
	}
	var accounts []domain.Account
	err = db.Where("created_at >= ?", since).Order("created_at ASC").Find(&accounts).Error
	return accounts, err
}

// CountSince counts accounts created at or after since.
func (r *AccountRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	db, err := r.store.Session(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	err = db.Model(&domain.Account{}).Where("created_at >= ?", since).Count(&count).Error
	return count, err
}

// SetStatus moves an account to status when it currently holds from.
// It reports whether a row changed.
func (r *AccountRepository) SetStatus(ctx context.Context, id int64, from, to domain.AccountStatus, actorID int64) (bool, error) {
	db, err := r.store.Session(ctx)
	if err != nil {
		return false, err
	}
	now := time.Now().UTC()
	updates := map[string]any{"status": to, "updated_at": now}
	switch to {
	case domain.AccountSuspended:
		updates["suspended_at"] = now
		updates["suspended_by"] = actorID
	case domain.AccountActive:
		updates["activated_at"] = now
		updates["activated_by"] = actorID
	}
	res := db.Model(&domain.Account{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	return res.RowsAffected > 0, res.Error
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
