package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product represents a sellable item in the catalog.
// Price is kept in minor currency units; options and variants hang off it.
type Product struct {
	ID          string           `gorm:"primaryKey;type:varchar(36)"`
	Handle      string           `gorm:"uniqueIndex;not null"`
	Title       string           `gorm:"not null"`
	Description string           `gorm:"not null;default:''"`
	Price       int64            `gorm:"not null"`
	Currency    string           `gorm:"type:varchar(3);not null;default:'INR'"`
	IsActive    bool             `gorm:"not null"`
	Options     []ProductOption  `gorm:"foreignKey:ProductID"`
	Variants    []ProductVariant `gorm:"foreignKey:ProductID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p *Product) TableName() string {
	return "products"
}

func (p *Product) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
