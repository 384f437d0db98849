package models

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"
)

// MetricCount is one named aggregate over the catalog tables.
type MetricCount struct {
	Metric string
	Total  int64
}

// ProductVariantCount is the number of variants generated for one product.
type ProductVariantCount struct {
	ProductID string
	Title     string
	Variants  int64
}

// AnalyticsRepository runs aggregate queries over the catalog. Queries are
// built with squirrel using '?' placeholders and handed to gorm, which
// rebinds them for the active dialect.
type AnalyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

func (r *AnalyticsRepository) CatalogCounts(ctx context.Context) ([]MetricCount, error) {
	count := sq.Select("COUNT(*)")
	queries := []struct {
		metric string
		query  sq.SelectBuilder
	}{
		{"products", count.From("products")},
		{"active_products", count.From("products").Where(sq.Eq{"is_active": true})},
		{"options", count.From("product_options")},
		{"option_values", count.From("product_option_values")},
		{"active_option_values", count.From("product_option_values").Where(sq.Eq{"is_active": true})},
		{"variants", count.From("product_variants")},
	}

	counts := make([]MetricCount, 0, len(queries))
	for _, q := range queries {
		query, args, err := q.query.ToSql()
		if err != nil {
			return nil, fmt.Errorf("building %s query: %w", q.metric, err)
		}
		var total int64
		if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&total).Error; err != nil {
			return nil, fmt.Errorf("counting %s: %w", q.metric, err)
		}
		counts = append(counts, MetricCount{Metric: q.metric, Total: total})
	}
	return counts, nil
}

// TopProductsByVariants lists the products with the most variants.
func (r *AnalyticsRepository) TopProductsByVariants(ctx context.Context, limit int) ([]ProductVariantCount, error) {
	query, args, err := sq.
		Select("p.id AS product_id", "p.title AS title", "COUNT(v.id) AS variants").
		From("products p").
		LeftJoin("product_variants v ON v.product_id = p.id").
		GroupBy("p.id", "p.title").
		OrderBy("variants DESC", "p.title ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building top products query: %w", err)
	}

	var rows []ProductVariantCount
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("counting variants per product: %w", err)
	}
	return rows, nil
}
