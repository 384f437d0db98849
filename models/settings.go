package models

import (
	"time"

	"gorm.io/datatypes"
)

// Setting is one key/value row of the back-office settings table.
type Setting struct {
	Key       string         `gorm:"column:setting_key;primaryKey;type:varchar(64)"`
	Value     datatypes.JSON `gorm:"type:json;not null"`
	UpdatedAt time.Time
}

func (s *Setting) TableName() string {
	return "settings"
}
