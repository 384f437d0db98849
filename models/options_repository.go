package models

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OptionsRepository reads and edits the option catalog of products.
type OptionsRepository struct {
	db *gorm.DB
}

func NewOptionsRepository(db *gorm.DB) *OptionsRepository {
	return &OptionsRepository{db: db}
}

// ListOptions returns the options of a product ordered by position,
// each with its values ordered by position.
func (r *OptionsRepository) ListOptions(ctx context.Context, productID string) ([]ProductOption, error) {
	return listOptions(ctx, r.db, productID, true)
}

func (r *OptionsRepository) GetOption(ctx context.Context, productID, optionID string) (*ProductOption, error) {
	var option ProductOption
	if err := r.db.WithContext(ctx).
		Where("id = ? AND product_id = ?", optionID, productID).
		First(&option).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOptionNotFound
		}
		return nil, err
	}
	return &option, nil
}

func (r *OptionsRepository) CreateOption(ctx context.Context, option *ProductOption) error {
	if _, err := findProduct(ctx, r.db, option.ProductID); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(option).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("option code %q: %w", option.Code, ErrDuplicate)
		}
		return err
	}
	return nil
}

// CreateOptionValue adds a value to an option after checking that every
// reference record it links to exists.
func (r *OptionsRepository) CreateOptionValue(ctx context.Context, value *ProductOptionValue) error {
	refs := []struct {
		id    *string
		model any
		name  string
	}{
		{value.SizeID, &Size{}, "size"},
		{value.StyleID, &Style{}, "style"},
		{value.SoleID, &Sole{}, "sole"},
		{value.MaterialColorID, &MaterialColor{}, "material color"},
	}
	for _, ref := range refs {
		if ref.id == nil {
			continue
		}
		var count int64
		if err := r.db.WithContext(ctx).Model(ref.model).Where("id = ?", *ref.id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("%s %q: %w", ref.name, *ref.id, ErrReferenceNotFound)
		}
	}

	if err := r.db.WithContext(ctx).Create(value).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("option value %q: %w", value.Value, ErrDuplicate)
		}
		return err
	}
	return nil
}

// SetOptionValueActive flips the sellable flag of a value.
func (r *OptionsRepository) SetOptionValueActive(ctx context.Context, optionID, valueID string, active bool) (*ProductOptionValue, error) {
	var value ProductOptionValue
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND option_id = ?", valueID, optionID).First(&value).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOptionValueNotFound
			}
			return err
		}
		value.IsActive = active
		return tx.Model(&value).Update("is_active", active).Error
	})
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func listOptions(ctx context.Context, db *gorm.DB, productID string, withValues bool) ([]ProductOption, error) {
	var options []ProductOption
	query := db.WithContext(ctx).Where("product_id = ?", productID).Order("position ASC, code ASC")
	if withValues {
		query = query.Preload("Values", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, value ASC")
		})
	}
	if err := query.Find(&options).Error; err != nil {
		return nil, err
	}
	return options, nil
}

func (r *OptionsRepository) GetProduct(ctx context.Context, ref string) (*Product, error) {
	return findProduct(ctx, r.db, ref)
}
