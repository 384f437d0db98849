package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductVariant is one purchasable combination of option values.
// CombinationKey identifies the combination across the whole catalog.
type ProductVariant struct {
	ID             string                 `gorm:"primaryKey;type:varchar(36)"`
	ProductID      string                 `gorm:"type:varchar(36);not null;index"`
	SKU            string                 `gorm:"column:sku;not null;index"`
	Price          int64                  `gorm:"not null"`
	CombinationKey string                 `gorm:"type:varchar(64);not null;uniqueIndex"`
	IsActive       bool                   `gorm:"not null"`
	Options        []ProductVariantOption `gorm:"foreignKey:VariantID"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (v *ProductVariant) TableName() string {
	return "product_variants"
}

func (v *ProductVariant) BeforeCreate(_ *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

// ProductVariantOption links a variant to the value it chose for one option.
type ProductVariantOption struct {
	ID        string             `gorm:"primaryKey;type:varchar(36)"`
	VariantID string             `gorm:"type:varchar(36);not null;uniqueIndex:idx_variant_option,priority:1"`
	OptionID  string             `gorm:"type:varchar(36);not null;uniqueIndex:idx_variant_option,priority:2"`
	ValueID   string             `gorm:"type:varchar(36);not null;index"`
	Option    ProductOption      `gorm:"foreignKey:OptionID"`
	Value     ProductOptionValue `gorm:"foreignKey:ValueID"`
}

func (l *ProductVariantOption) TableName() string {
	return "product_variant_options"
}

func (l *ProductVariantOption) BeforeCreate(_ *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
