package models

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// MaterialColorFilters narrows a material color listing. Zero values match everything.
type MaterialColorFilters struct {
	Material   string
	ActiveOnly bool
}

type MaterialsRepository struct {
	db *gorm.DB
}

func NewMaterialsRepository(db *gorm.DB) *MaterialsRepository {
	return &MaterialsRepository{db: db}
}

func (r *MaterialsRepository) GetMaterialColors(ctx context.Context, filters MaterialColorFilters) ([]MaterialColor, error) {
	var colors []MaterialColor
	query := r.db.WithContext(ctx)
	if filters.Material != "" {
		query = query.Where("LOWER(material_name) = LOWER(?)", filters.Material)
	}
	if filters.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Order("material_name ASC, name ASC").Find(&colors).Error; err != nil {
		return nil, err
	}
	return colors, nil
}

func (r *MaterialsRepository) CreateMaterialColor(ctx context.Context, color *MaterialColor) error {
	if err := r.db.WithContext(ctx).Create(color).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("color %q of %s: %w", color.Name, color.MaterialName, ErrDuplicate)
		}
		return err
	}
	return nil
}
