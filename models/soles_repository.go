package models

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

type SolesRepository struct {
	db *gorm.DB
}

func NewSolesRepository(db *gorm.DB) *SolesRepository {
	return &SolesRepository{db: db}
}

func (r *SolesRepository) GetAllSoles(ctx context.Context, activeOnly bool) ([]Sole, error) {
	var soles []Sole
	query := r.db.WithContext(ctx)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Order("name ASC").Find(&soles).Error; err != nil {
		return nil, err
	}
	return soles, nil
}

func (r *SolesRepository) CreateSole(ctx context.Context, sole *Sole) error {
	if err := r.db.WithContext(ctx).Create(sole).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("sole %q: %w", sole.Name, ErrDuplicate)
		}
		return err
	}
	return nil
}
