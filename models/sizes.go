package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Size represents a shoe size in one sizing region.
// It includes the regional value and its EU/UK equivalents.
type Size struct {
	ID           string  `gorm:"primaryKey;type:varchar(36)"`
	Name         string  `gorm:"not null"`
	Region       string  `gorm:"type:varchar(2);not null;uniqueIndex:idx_size_region_value,priority:1"`
	Value        float64 `gorm:"not null;uniqueIndex:idx_size_region_value,priority:2"`
	EUEquivalent string  `gorm:"column:eu_equivalent"`
	UKEquivalent string  `gorm:"column:uk_equivalent"`
	SortOrder    int     `gorm:"not null;default:0"`
	IsActive     bool    `gorm:"not null"`
}

func (s *Size) TableName() string {
	return "sizes"
}

func (s *Size) BeforeCreate(_ *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
