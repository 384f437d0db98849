package analytics

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/italianshoes/catalog/app/api"
	"github.com/italianshoes/catalog/models"
)

const topProducts = 5

// Overview is the dashboard summary of the catalog.
type Overview struct {
	Products           int64             `json:"products"`
	ActiveProducts     int64             `json:"activeProducts"`
	InactiveProducts   int64             `json:"inactiveProducts"`
	Options            int64             `json:"options"`
	OptionValues       int64             `json:"optionValues"`
	ActiveOptionValues int64             `json:"activeOptionValues"`
	Variants           int64             `json:"variants"`
	TopProducts        []ProductVariants `json:"topProducts"`
}

type ProductVariants struct {
	ProductID string `json:"productId"`
	Title     string `json:"title"`
	Variants  int64  `json:"variants"`
}

type AnalyticsProvider interface {
	CatalogCounts(ctx context.Context) ([]models.MetricCount, error)
	TopProductsByVariants(ctx context.Context, limit int) ([]models.ProductVariantCount, error)
}

type AnalyticsHandler struct {
	repo   AnalyticsProvider
	logger *zap.Logger
}

func NewAnalyticsHandler(r AnalyticsProvider, logger *zap.Logger) *AnalyticsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsHandler{repo: r, logger: logger}
}

func (h *AnalyticsHandler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	counts, err := h.repo.CatalogCounts(r.Context())
	if err != nil {
		h.logger.Error("counting catalog", zap.Error(err))
		api.ErrorResponse(w, http.StatusInternalServerError, "Failed to load analytics")
		return
	}
	top, err := h.repo.TopProductsByVariants(r.Context(), topProducts)
	if err != nil {
		h.logger.Error("ranking products by variants", zap.Error(err))
		api.ErrorResponse(w, http.StatusInternalServerError, "Failed to load analytics")
		return
	}
	api.OKResponse(w, http.StatusOK, overviewFromCounts(counts, top))
}

// overviewFromCounts is the only place aggregate rows are read by name.
// Metrics missing from counts stay zero.
func overviewFromCounts(counts []models.MetricCount, top []models.ProductVariantCount) Overview {
	var o Overview
	for _, c := range counts {
		switch c.Metric {
		case "products":
			o.Products = c.Total
		case "active_products":
			o.ActiveProducts = c.Total
		case "options":
			o.Options = c.Total
		case "option_values":
			o.OptionValues = c.Total
		case "active_option_values":
			o.ActiveOptionValues = c.Total
		case "variants":
			o.Variants = c.Total
		}
	}
	o.InactiveProducts = max(o.Products-o.ActiveProducts, 0)

	o.TopProducts = make([]ProductVariants, len(top))
	for i, p := range top {
		o.TopProducts[i] = ProductVariants{ProductID: p.ProductID, Title: p.Title, Variants: p.Variants}
	}
	return o
}
