package models

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

type SizesRepository struct {
	db *gorm.DB
}

func NewSizesRepository(db *gorm.DB) *SizesRepository {
	return &SizesRepository{db: db}
}

func (r *SizesRepository) GetAllSizes(ctx context.Context) ([]Size, error) {
	var sizes []Size
	if err := r.db.WithContext(ctx).
		Order("region ASC, sort_order ASC, value ASC").
		Find(&sizes).Error; err != nil {
		return nil, err
	}
	return sizes, nil
}

func (r *SizesRepository) CreateSize(ctx context.Context, size *Size) error {
	if err := r.db.WithContext(ctx).Create(size).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("size %s %v: %w", size.Region, size.Value, ErrDuplicate)
		}
		return err
	}
	return nil
}

// CreateSizes inserts all sizes or none of them.
func (r *SizesRepository) CreateSizes(ctx context.Context, sizes []Size) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range sizes {
			if err := tx.Create(&sizes[i]).Error; err != nil {
				if isUniqueViolation(err) {
					return fmt.Errorf("size %s %v: %w", sizes[i].Region, sizes[i].Value, ErrDuplicate)
				}
				return err
			}
		}
		return nil
	})
}
