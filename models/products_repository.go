package models

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductsRepository struct {
	db *gorm.DB
}

type ProductFilters struct {
	Query      string
	ActiveOnly bool
}

func NewProductsRepository(db *gorm.DB) *ProductsRepository {
	return &ProductsRepository{
		db: db,
	}
}

func (r *ProductsRepository) GetFilteredProducts(ctx context.Context, offset, limit int, filters ProductFilters) ([]Product, int64, error) {
	var products []Product
	var total int64

	query := r.db.WithContext(ctx).Model(&Product{})

	// Filter
	if filters.Query != "" {
		like := "%" + filters.Query + "%"
		query = query.Where("LOWER(title) LIKE LOWER(?) OR LOWER(handle) LIKE LOWER(?)", like, like)
	}
	if filters.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	// Count total after filtering
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Apply pagination
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// GetByID resolves a product by its id or by its handle.
func (r *ProductsRepository) GetByID(ctx context.Context, ref string) (*Product, error) {
	return findProduct(ctx, r.db, ref)
}

func (r *ProductsRepository) CreateProduct(ctx context.Context, product *Product) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("product %q: %w", product.Handle, ErrDuplicate)
		}
		return err
	}
	return nil
}

func (r *ProductsRepository) UpdateProduct(ctx context.Context, product *Product) error {
	res := r.db.WithContext(ctx).Model(&Product{}).
		Where("id = ?", product.ID).
		Select("handle", "title", "description", "price", "currency", "is_active").
		Updates(product)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return fmt.Errorf("product %q: %w", product.Handle, ErrDuplicate)
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// DeleteProduct removes the product together with its options, values,
// variants and variant links.
func (r *ProductsRepository) DeleteProduct(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := findProduct(ctx, tx, id)
		if err != nil {
			return err
		}

		variantIDs := tx.Model(&ProductVariant{}).Select("id").Where("product_id = ?", product.ID)
		if err := tx.Where("variant_id IN (?)", variantIDs).Delete(&ProductVariantOption{}).Error; err != nil {
			return fmt.Errorf("deleting variant options: %w", err)
		}
		if err := tx.Where("product_id = ?", product.ID).Delete(&ProductVariant{}).Error; err != nil {
			return fmt.Errorf("deleting variants: %w", err)
		}

		optionIDs := tx.Model(&ProductOption{}).Select("id").Where("product_id = ?", product.ID)
		if err := tx.Where("option_id IN (?)", optionIDs).Delete(&ProductOptionValue{}).Error; err != nil {
			return fmt.Errorf("deleting option values: %w", err)
		}
		if err := tx.Where("product_id = ?", product.ID).Delete(&ProductOption{}).Error; err != nil {
			return fmt.Errorf("deleting options: %w", err)
		}

		return tx.Delete(&Product{}, "id = ?", product.ID).Error
	})
}

// findProduct resolves ref as an id first and as a handle only when no
// product has that id, so a handle can never shadow another product's id.
func findProduct(ctx context.Context, db *gorm.DB, ref string) (*Product, error) {
	for _, column := range []string{"id", "handle"} {
		var product Product
		err := db.WithContext(ctx).Where(column+" = ?", ref).First(&product).Error
		if err == nil {
			return &product, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err // Other DB error
		}
	}
	return nil, ErrProductNotFound
}
