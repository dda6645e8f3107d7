package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"txunajob/internal/database"
	"txunajob/internal/domain"
)

type SettingsRepository struct {
	store *database.Store
}

func NewSettingsRepository(store *database.Store) *SettingsRepository {
	return &SettingsRepository{store: store}
}

// Load returns the stored settings document, or an empty map when none
// has been saved yet.
func (r *SettingsRepository) Load(ctx context.Context) (map[string]any, error) {
	db, err := r.store.Session(ctx)
	if err != nil {
		return nil, err
	}
	var row domain.Settings
	if err := db.First(&row, domain.SettingsRowID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return map[string]any{}, nil
		}
		return nil, err
	}
	out := map[string]any{}
	if len(row.Data) > 0 {
		if err := json.Unmarshal(row.Data, &out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Merge applies patch key by key on top of the stored document in one
// transaction and returns the result. On PostgreSQL the row is read FOR
// UPDATE, so concurrent patches of different keys all survive; SQLite
// serializes the transaction at its first write.
func (r *SettingsRepository) Merge(ctx context.Context, patch map[string]any, adminID int64) (map[string]any, error) {
	db, err := r.store.Session(ctx)
	if err != nil {
		return nil, err
	}

	var merged map[string]any
	err = db.Transaction(func(tx *gorm.DB) error {
		// the row must exist before it can be locked
		err := tx.Exec("INSERT INTO settings (id, data, updated_at) VALUES (?, ?, ?) ON CONFLICT (id) DO NOTHING",
			domain.SettingsRowID, datatypes.JSON("{}"), time.Now().UTC()).Error
		if err != nil {
			return err
		}

		q := tx
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var row domain.Settings
		if err := q.Where("id = ?", domain.SettingsRowID).Take(&row).Error; err != nil {
			return err
		}

		merged = map[string]any{}
		if len(row.Data) > 0 {
			if err := json.Unmarshal(row.Data, &merged); err != nil {
				return err
			}
		}
		for k, v := range patch {
			merged[k] = v
		}
		raw, err := json.Marshal(merged)
		if err != nil {
			return err
		}
		return tx.Model(&domain.Settings{}).Where("id = ?", domain.SettingsRowID).Updates(map[string]any{
			"data":       datatypes.JSON(raw),
			"updated_at": time.Now().UTC(),
			"updated_by": adminID,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return merged, nil
}
