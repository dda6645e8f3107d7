package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"txunajob/internal/database"
	"txunajob/internal/domain"
)

type ProfileRepository struct {
	store *database.Store
}

func NewProfileRepository(store *database.Store) *ProfileRepository {
	return &ProfileRepository{store: store}
}

func (r *ProfileRepository) GetClient(ctx context.Context, accountID int64) (*domain.ClientProfile, error) {
	var p domain.ClientProfile
	if err := r.byAccount(ctx, accountID, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) GetProfessional(ctx context.Context, accountID int64) (*domain.ProfessionalProfile, error) {
	var p domain.ProfessionalProfile
	if err := r.byAccount(ctx, accountID, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) GetAdmin(ctx context.Context, accountID int64) (*domain.AdminProfile, error) {
	var p domain.AdminProfile
	if err := r.byAccount(ctx, accountID, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) byAccount(ctx context.Context, accountID int64, dst any) error {
	db, err := r.store.Session(ctx)
	if err != nil {
		return err
	}
	if err := db.Where("account_id = ?", accountID).First(dst).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// ProfessionalsByAccount loads professional profiles keyed by account id.
func (r *ProfileRepository) ProfessionalsByAccount(ctx context.Context, accountIDs []int64) (map[int64]domain.ProfessionalProfile, error) {
	out := make(map[int64]domain.ProfessionalProfile, len(accountIDs))
	if len(accountIDs) == 0 {
		return out, nil
	}
	db, err := r.store.Session(ctx)
	if err != nil {
		return nil, err
	}
	var profiles []domain.ProfessionalProfile
	if err := db.Where("account_id IN ?", accountIDs).Find(&profiles).Error; err != nil {
		return nil, err
	}
	for _, p := range profiles {
		out[p.AccountID] = p
	}
	return out, nil
}

// ClientsByAccount loads client profiles keyed by account id.
func (r *ProfileRepository) ClientsByAccount(ctx context.Context, accountIDs []int64) (map[int64]domain.ClientProfile, error) {
	out := make(map[int64]domain.ClientProfile, len(accountIDs))
	if len(accountIDs) == 0 {
		return out, nil
	}
	db, err := r.store.Session(ctx)
	if err != nil {
		return nil, err
	}
	var profiles []domain.ClientProfile
	if err := db.Where("account_id IN ?", accountIDs).Find(&profiles).Error; err != nil {
		return nil, err
	}
	for _, p := range profiles {
		out[p.AccountID] = p
	}
	return out, nil
}

func (r *ProfileRepository) CountPendingVerifications(ctx context.Context) (int64, error) {
	db, err := r.store.Session(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	err = db.Model(&domain.ProfessionalProfile{}).
		Where("is_verified = ? AND verification_status = ?", false, domain.VerificationPending).
		Count(&count).Error
	return count, err
}

// Verify marks an unverified professional as verified. A professional that
// is already verified or rejected is left untouched and false is returned.
func (r *ProfileRepository) Verify(ctx context.Context, accountID, adminID int64) (bool, error) {
	db, err := r.store.Session(ctx)
	if err != nil {
		return false, err
	}
	now := time.Now().UTC()
	res := db.Model(&domain.ProfessionalProfile{}).
		Where("account_id = ? AND is_verified = ? AND verification_status = ?", accountID, false, domain.VerificationPending).
		Updates(map[string]any{
			"is_verified":         true,
			"verification_status": domain.VerificationVerified,
			"verified_at":         now,
			"verified_by":         adminID,
			"updated_at":          now,
		})
	return res.RowsAffected > 0, res.Error
}

// Reject closes a pending verification as rejected.
func (r *ProfileRepository) Reject(ctx context.Context, accountID, adminID int64) (bool, error) {
	db, err := r.store.Session(ctx)
	if err != nil {
		return false, err
	}
	now := time.Now().UTC()
	res := db.Model(&domain.ProfessionalProfile{}).
		Where("account_id = ? AND is_verified = ? AND verification_status = ?", accountID, false, domain.VerificationPending).
		Updates(map[string]any{
			"verification_status": domain.VerificationRejected,
			"rejected_at":         now,
			"rejected_by":         adminID,
			"updated_at":          now,
		})
	return res.RowsAffected > 0, res.Error
}
