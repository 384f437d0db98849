package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Style is a shoe silhouette an option value can stand for.
type Style struct {
	ID          string `gorm:"primaryKey;type:varchar(36)"`
	Name        string `gorm:"not null;uniqueIndex"`
	Description string
	Category    string
	ImageURL    string `gorm:"column:image_url"`
	IsActive    bool   `gorm:"not null"`
}

func (s *Style) TableName() string {
	return "styles"
}

func (s *Style) BeforeCreate(_ *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// Sole is a sole construction an option value can stand for.
type Sole struct {
	ID          string `gorm:"primaryKey;type:varchar(36)"`
	Name        string `gorm:"not null;uniqueIndex"`
	Description string
	Category    string
	ImageURL    string `gorm:"column:image_url"`
	IsActive    bool   `gorm:"not null"`
}

func (s *Sole) TableName() string {
	return "soles"
}

func (s *Sole) BeforeCreate(_ *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// MaterialColor is one color a leather or fabric is available in.
type MaterialColor struct {
	ID           string `gorm:"primaryKey;type:varchar(36)"`
	MaterialName string `gorm:"not null;uniqueIndex:idx_material_color_name,priority:1"`
	Name         string `gorm:"not null;uniqueIndex:idx_material_color_name,priority:2"`
	Family       string
	ColorCode    string
	IsActive     bool `gorm:"not null"`
}

func (c *MaterialColor) TableName() string {
	return "material_colors"
}

func (c *MaterialColor) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
