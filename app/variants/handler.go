package variants

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/italianshoes/catalog/app/api"
	"github.com/italianshoes/catalog/models"
)

type VariantResponse struct {
	ID             string                  `json:"id"`
	SKU            string                  `json:"sku"`
	Price          int64                   `json:"price"`
	DisplayPrice   string                  `json:"displayPrice"`
	Currency       string                  `json:"currency"`
	CombinationKey string                  `json:"combinationKey"`
	IsActive       bool                    `json:"isActive"`
	Options        []VariantOptionResponse `json:"options"`
}

type VariantOptionResponse struct {
	OptionID   string `json:"optionId"`
	OptionCode string `json:"optionCode"`
	ValueID    string `json:"valueId"`
	Value      string `json:"value"`
	Label      string `json:"label"`
}

type GenerateResponse struct {
	OK bool `json:"ok"`
	Result
}

type VariantGenerator interface {
	Generate(ctx context.Context, req Request) (Result, error)
}

type VariantProvider interface {
	GetProduct(ctx context.Context, ref string) (*models.Product, error)
	ListVariants(ctx context.Context, productID, q string) ([]models.ProductVariant, error)
}

type VariantsHandler struct {
	generator VariantGenerator
	repo      VariantProvider
	logger    *zap.Logger
}

func NewVariantsHandler(g VariantGenerator, r VariantProvider, logger *zap.Logger) *VariantsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VariantsHandler{
		generator: g,
		repo:      r,
		logger:    logger,
	}
}

func (h *VariantsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	product, err := h.repo.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			api.ErrorResponse(w, http.StatusNotFound, "Product not found")
			return
		}
		h.logger.Error("loading product", zap.Error(err))
		api.ErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve product")
		return
	}

	variants, err := h.repo.ListVariants(r.Context(), product.ID, r.URL.Query().Get("q"))
	if err != nil {
		h.logger.Error("listing variants", zap.String("product_id", product.ID), zap.Error(err))
		api.ErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve variants")
		return
	}

	response := make([]VariantResponse, len(variants))
	for i, v := range variants {
		options := make([]VariantOptionResponse, len(v.Options))
		for j, o := range v.Options {
			options[j] = VariantOptionResponse{
				OptionID:   o.OptionID,
				OptionCode: o.Option.Code,
				ValueID:    o.ValueID,
				Value:      o.Value.Value,
				Label:      o.Value.Label,
			}
		}
		response[i] = VariantResponse{
			ID:             v.ID,
			SKU:            v.SKU,
			Price:          v.Price,
			DisplayPrice:   api.FormatPrice(v.Price),
			Currency:       product.Currency,
			CombinationKey: v.CombinationKey,
			IsActive:       v.IsActive,
			Options:        options,
		}
	}

	api.OKResponse(w, http.StatusOK, response)
}

func (h *VariantsHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var input struct {
		OptionCodes   []string `json:"optionCodes" validate:"required,min=1,dive,required"`
		SKUPrefix     string   `json:"skuPrefix" validate:"max=32"`
		PriceOverride *int64   `json:"priceOverride" validate:"omitempty,gte=0"`
	}
	if err := api.DecodeJSON(r, &input); err != nil {
		api.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.generator.Generate(r.Context(), Request{
		ProductID:     r.PathValue("id"),
		OptionCodes:   input.OptionCodes,
		SKUPrefix:     input.SKUPrefix,
		PriceOverride: input.PriceOverride,
	})
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			api.ErrorResponse(w, http.StatusBadRequest, verr.Error())
		case errors.Is(err, models.ErrProductNotFound):
			api.ErrorResponse(w, http.StatusNotFound, "Product not found")
		default:
			h.logger.Error("generating variants", zap.String("product", r.PathValue("id")), zap.Error(err))
			api.ErrorResponse(w, http.StatusInternalServerError, "Failed to generate variants")
		}
		return
	}

	api.OKResponse(w, http.StatusOK, GenerateResponse{OK: true, Result: res})
}
