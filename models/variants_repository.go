package models

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VariantWriter is the write side of variant generation. All calls made on
// one VariantWriter belong to the same transaction.
type VariantWriter interface {
	FindVariantByKey(ctx context.Context, combinationKey string) (*ProductVariant, error)
	CreateVariant(ctx context.Context, variant *ProductVariant) error
	UpsertVariantOption(ctx context.Context, link *ProductVariantOption) error
}

// VariantsRepository is the relational store behind variant generation and
// variant listing.
type VariantsRepository struct {
	db *gorm.DB
}

func NewVariantsRepository(db *gorm.DB) *VariantsRepository {
	return &VariantsRepository{db: db}
}

func (r *VariantsRepository) GetProduct(ctx context.Context, ref string) (*Product, error) {
	return findProduct(ctx, r.db, ref)
}

// ListOptions returns the options of a product ordered by position, without values.
func (r *VariantsRepository) ListOptions(ctx context.Context, productID string) ([]ProductOption, error) {
	return listOptions(ctx, r.db, productID, false)
}

// ListOptionValues returns the values of an option ordered by position.
func (r *VariantsRepository) ListOptionValues(ctx context.Context, optionID string, activeOnly bool) ([]ProductOptionValue, error) {
	var values []ProductOptionValue
	query := r.db.WithContext(ctx).Where("option_id = ?", optionID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Order("position ASC, value ASC").Find(&values).Error; err != nil {
		return nil, err
	}
	return values, nil
}

// WithinTransaction runs fn in one database transaction. Returning an error
// from fn rolls back everything written through the VariantWriter.
func (r *VariantsRepository) WithinTransaction(ctx context.Context, fn func(w VariantWriter) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&variantTx{db: tx})
	})
}

// ListVariants returns the variants of a product newest first, optionally
// narrowed to SKUs containing q, with their option and value links.
func (r *VariantsRepository) ListVariants(ctx context.Context, productID, q string) ([]ProductVariant, error) {
	var variants []ProductVariant
	query := r.db.WithContext(ctx).
		Preload("Options.Option").
		Preload("Options.Value").
		Where("product_id = ?", productID)
	if q != "" {
		query = query.Where("LOWER(sku) LIKE LOWER(?)", "%"+q+"%")
	}
	if err := query.Order("created_at DESC, sku ASC").Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

type variantTx struct {
	db *gorm.DB
}

func (t *variantTx) FindVariantByKey(ctx context.Context, combinationKey string) (*ProductVariant, error) {
	var variant ProductVariant
	if err := t.db.WithContext(ctx).
		Where("combination_key = ?", combinationKey).
		First(&variant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVariantNotFound
		}
		return nil, err
	}
	return &variant, nil
}

// CreateVariant inserts the variant unless its combination key is taken, in
// which case it returns ErrVariantConflict and leaves the transaction usable.
func (t *variantTx) CreateVariant(ctx context.Context, variant *ProductVariant) error {
	res := t.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "combination_key"}},
			DoNothing: true,
		}).
		Omit(clause.Associations).
		Create(variant)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return ErrVariantConflict
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVariantConflict
	}
	return nil
}

// UpsertVariantOption sets the value a variant chose for one option,
// correcting the link if it points at another value.
func (t *variantTx) UpsertVariantOption(ctx context.Context, link *ProductVariantOption) error {
	return t.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "variant_id"}, {Name: "option_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"value_id"}),
		}).
		Omit(clause.Associations).
		Create(link).Error
}
