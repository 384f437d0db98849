package models

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

type StylesRepository struct {
	db *gorm.DB
}

func NewStylesRepository(db *gorm.DB) *StylesRepository {
	return &StylesRepository{db: db}
}

func (r *StylesRepository) GetAllStyles(ctx context.Context, activeOnly bool) ([]Style, error) {
	var styles []Style
	query := r.db.WithContext(ctx)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Order("name ASC").Find(&styles).Error; err != nil {
		return nil, err
	}
	return styles, nil
}

func (r *StylesRepository) CreateStyle(ctx context.Context, style *Style) error {
	if err := r.db.WithContext(ctx).Create(style).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("style %q: %w", style.Name, ErrDuplicate)
		}
		return err
	}
	return nil
}
