package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Option types understood by the storefront configurator.
const (
	OptionTypeSize     = "SIZE"
	OptionTypeWidth    = "WIDTH"
	OptionTypeStyle    = "STYLE"
	OptionTypeSole     = "SOLE"
	OptionTypeColor    = "COLOR"
	OptionTypeMaterial = "MATERIAL"
	OptionTypeCustom   = "CUSTOM"
)

// ProductOption is a customization axis of a product, e.g. "size".
// Its code is unique within the product.
type ProductOption struct {
	ID        string               `gorm:"primaryKey;type:varchar(36)"`
	ProductID string               `gorm:"type:varchar(36);not null;uniqueIndex:idx_product_option_code,priority:1"`
	Code      string               `gorm:"not null;uniqueIndex:idx_product_option_code,priority:2"`
	Name      string               `gorm:"not null"`
	Type      string               `gorm:"type:varchar(16);not null;default:'CUSTOM'"`
	Position  int                  `gorm:"not null;default:0"`
	IsActive  bool                 `gorm:"not null"`
	Metadata  datatypes.JSONMap    `gorm:"type:json"`
	Values    []ProductOptionValue `gorm:"foreignKey:OptionID"`
}

func (o *ProductOption) TableName() string {
	return "product_options"
}

func (o *ProductOption) BeforeCreate(_ *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// ProductOptionValue is one concrete choice of an option, e.g. "US8".
// A value may point at the reference record it stands for.
type ProductOptionValue struct {
	ID              string            `gorm:"primaryKey;type:varchar(36)"`
	OptionID        string            `gorm:"type:varchar(36);not null;uniqueIndex:idx_option_value_token,priority:1"`
	Value           string            `gorm:"not null;uniqueIndex:idx_option_value_token,priority:2"`
	Label           string            `gorm:"not null"`
	Position        int               `gorm:"not null;default:0"`
	IsActive        bool              `gorm:"not null"`
	Metadata        datatypes.JSONMap `gorm:"type:json"`
	SizeID          *string           `gorm:"type:varchar(36)"`
	StyleID         *string           `gorm:"type:varchar(36)"`
	SoleID          *string           `gorm:"type:varchar(36)"`
	MaterialColorID *string           `gorm:"type:varchar(36)"`
}

func (v *ProductOptionValue) TableName() string {
	return "product_option_values"
}

func (v *ProductOptionValue) BeforeCreate(_ *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}
