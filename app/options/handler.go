package options

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/italianshoes/catalog/app/api"
	"github.com/italianshoes/catalog/models"
)

type OptionResponse struct {
	ID       string          `json:"id"`
	Code     string          `json:"code"`
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	Position int             `json:"position"`
	IsActive bool            `json:"isActive"`
	Metadata map[string]any  `json:"metadata,omitempty"`
	Values   []ValueResponse `json:"values"`
}

type ValueResponse struct {
	ID              string         `json:"id"`
	Value           string         `json:"value"`
	Label           string         `json:"label"`
	Position        int            `json:"position"`
	IsActive        bool           `json:"isActive"`
	Metadata        map[string]any `json:"metadata,omitempty"`
	SizeID          *string        `json:"sizeId,omitempty"`
	StyleID         *string        `json:"styleId,omitempty"`
	SoleID          *string        `json:"soleId,omitempty"`
	MaterialColorID *string        `json:"materialColorId,omitempty"`
}

type OptionProvider interface {
	GetProduct(ctx context.Context, ref string) (*models.Product, error)
	ListOptions(ctx context.Context, productID string) ([]models.ProductOption, error)
	GetOption(ctx context.Context, productID, optionID string) (*models.ProductOption, error)
	CreateOption(ctx context.Context, option *models.ProductOption) error
	CreateOptionValue(ctx context.Context, value *models.ProductOptionValue) error
	SetOptionValueActive(ctx context.Context, optionID, valueID string, active bool) (*models.ProductOptionValue, error)
}

type OptionsHandler struct {
	repo   OptionProvider
	logger *zap.Logger
}

func NewOptionsHandler(r OptionProvider, logger *zap.Logger) *OptionsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OptionsHandler{repo: r, logger: logger}
}

func (h *OptionsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	product, ok := h.loadProduct(w, r)
	if !ok {
		return
	}

	opts, err := h.repo.ListOptions(r.Context(), product.ID)
	if err != nil {
		h.logger.Error("listing options", zap.String("product_id", product.ID), zap.Error(err))
		api.ErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve options")
		return
	}

	response := make([]OptionResponse, len(opts))
	for i, o := range opts {
		response[i] = toOption(o)
	}
	api.OKResponse(w, http.StatusOK, response)
}

func (h *OptionsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Code     string         `json:"code" validate:"required,max=64"`
		Name     string         `json:"name" validate:"required"`
		Type     string         `json:"type" validate:"omitempty,oneof=SIZE WIDTH STYLE SOLE COLOR MATERIAL CUSTOM"`
		Position int            `json:"position"`
		IsActive *bool          `json:"isActive"`
		Metadata map[string]any `json:"metadata"`
	}
	if err := api.DecodeJSON(r, &input); err != nil {
		api.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	product, ok := h.loadProduct(w, r)
	if !ok {
		return
	}

	option := &models.ProductOption{
		ProductID: product.ID,
		Code:      input.Code,
		Name:      input.Name,
		Type:      input.Type,
		Position:  input.Position,
		IsActive:  input.IsActive == nil || *input.IsActive,
		Metadata:  datatypes.JSONMap(input.Metadata),
	}
	if option.Type == "" {
		option.Type = models.OptionTypeCustom
	}

	if err := h.repo.CreateOption(r.Context(), option); err != nil {
		h.writeError(w, err, "creating option")
		return
	}
	api.OKResponse(w, http.StatusCreated, toOption(*option))
}

func (h *OptionsHandler) HandleCreateValue(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Value           string         `json:"value" validate:"required"`
		Label           string         `json:"label" validate:"required"`
		Position        int            `json:"position"`
		IsActive        *bool          `json:"isActive"`
		Metadata        map[string]any `json:"metadata"`
		SizeID          *string        `json:"sizeId"`
		StyleID         *string        `json:"styleId"`
		SoleID          *string        `json:"soleId"`
		MaterialColorID *string        `json:"materialColorId"`
	}
	if err := api.DecodeJSON(r, &input); err != nil {
		api.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	option, ok := h.loadOption(w, r)
	if !ok {
		return
	}

	value := &models.ProductOptionValue{
		OptionID:        option.ID,
		Value:           input.Value,
		Label:           input.Label,
		Position:        input.Position,
		IsActive:        input.IsActive == nil || *input.IsActive,
		Metadata:        datatypes.JSONMap(input.Metadata),
		SizeID:          input.SizeID,
		StyleID:         input.StyleID,
		SoleID:          input.SoleID,
		MaterialColorID: input.MaterialColorID,
	}
	if err := h.repo.CreateOptionValue(r.Context(), value); err != nil {
		h.writeError(w, err, "creating option value")
		return
	}
	api.OKResponse(w, http.StatusCreated, toValue(*value))
}

// HandleUpdateValue toggles whether a value takes part in variant generation.
func (h *OptionsHandler) HandleUpdateValue(w http.ResponseWriter, r *http.Request) {
	var input struct {
		IsActive *bool `json:"isActive" validate:"required"`
	}
	if err := api.DecodeJSON(r, &input); err != nil {
		api.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	option, ok := h.loadOption(w, r)
	if !ok {
		return
	}

	value, err := h.repo.SetOptionValueActive(r.Context(), option.ID, r.PathValue("valueId"), *input.IsActive)
	if err != nil {
		h.writeError(w, err, "updating option value")
		return
	}
	api.OKResponse(w, http.StatusOK, toValue(*value))
}

func (h *OptionsHandler) loadProduct(w http.ResponseWriter, r *http.Request) (*models.Product, bool) {
	product, err := h.repo.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, err, "loading product")
		return nil, false
	}
	return product, true
}

func (h *OptionsHandler) loadOption(w http.ResponseWriter, r *http.Request) (*models.ProductOption, bool) {
	product, ok := h.loadProduct(w, r)
	if !ok {
		return nil, false
	}
	option, err := h.repo.GetOption(r.Context(), product.ID, r.PathValue("optionId"))
	if err != nil {
		h.writeError(w, err, "loading option")
		return nil, false
	}
	return option, true
}

func (h *OptionsHandler) writeError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, models.ErrProductNotFound):
		api.ErrorResponse(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, models.ErrOptionNotFound):
		api.ErrorResponse(w, http.StatusNotFound, "Option not found")
	case errors.Is(err, models.ErrOptionValueNotFound):
		api.ErrorResponse(w, http.StatusNotFound, "Option value not found")
	case errors.Is(err, models.ErrReferenceNotFound):
		api.ErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrDuplicate):
		api.ErrorResponse(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error(action, zap.Error(err))
		api.ErrorResponse(w, http.StatusInternalServerError, "Failed "+action)
	}
}

func toOption(o models.ProductOption) OptionResponse {
	values := make([]ValueResponse, len(o.Values))
	for i, v := range o.Values {
		values[i] = toValue(v)
	}
	return OptionResponse{
		ID:       o.ID,
		Code:     o.Code,
		Name:     o.Name,
		Type:     o.Type,
		Position: o.Position,
		IsActive: o.IsActive,
		Metadata: o.Metadata,
		Values:   values,
	}
}

func toValue(v models.ProductOptionValue) ValueResponse {
	return ValueResponse{
		ID:              v.ID,
		Value:           v.Value,
		Label:           v.Label,
		Position:        v.Position,
		IsActive:        v.IsActive,
		Metadata:        v.Metadata,
		SizeID:          v.SizeID,
		StyleID:         v.StyleID,
		SoleID:          v.SoleID,
		MaterialColorID: v.MaterialColorID,
	}
}
