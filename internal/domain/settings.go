package domain

import (
	"time"

	"gorm.io/datatypes"
)

// SettingsRowID is the id of the single settings row.
const SettingsRowID = 1

type Settings struct {
	ID        int64          `json:"-" gorm:"primaryKey;autoIncrement:false"`
	Data      datatypes.JSON `json:"data"`
	UpdatedAt time.Time      `json:"updated_at"`
	UpdatedBy *int64         `json:"updated_by,omitempty"`
}

func (Settings) TableName() string { return "settings" }
