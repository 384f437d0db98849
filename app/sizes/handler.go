package sizes

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/italianshoes/catalog/app/api"
	"github.com/italianshoes/catalog/models"
)

type SizeResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Region       string  `json:"region"`
	Value        float64 `json:"value"`
	EUEquivalent string  `json:"euEquivalent,omitempty"`
	UKEquivalent string  `json:"ukEquivalent,omitempty"`
	SortOrder    int     `json:"sortOrder"`
	IsActive     bool    `json:"isActive"`
}

type sizeInput struct {
	Name         string   `json:"name" validate:"required"`
	Region       string   `json:"region" validate:"required,oneof=US EU UK"`
	Value        *float64 `json:"value" validate:"required,gt=0"`
	EUEquivalent string   `json:"euEquivalent"`
	UKEquivalent string   `json:"ukEquivalent"`
	SortOrder    int      `json:"sortOrder"`
	IsActive     *bool    `json:"isActive"`
}

func (in sizeInput) toModel() models.Size {
	return models.Size{
		Name:         in.Name,
		Region:       in.Region,
		Value:        *in.Value,
		EUEquivalent: in.EUEquivalent,
		UKEquivalent: in.UKEquivalent,
		SortOrder:    in.SortOrder,
		IsActive:     in.IsActive == nil || *in.IsActive,
	}
}

type SizeProvider interface {
	GetAllSizes(ctx context.Context) ([]models.Size, error)
	CreateSize(ctx context.Context, size *models.Size) error
	CreateSizes(ctx context.Context, sizes []models.Size) error
}

type SizeHandler struct {
	repo   SizeProvider
	logger *zap.Logger
}

func NewSizeHandler(r SizeProvider, logger *zap.Logger) *SizeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SizeHandler{repo: r, logger: logger}
}

func (h *SizeHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	sizes, err := h.repo.GetAllSizes(r.Context())
	if err != nil {
		h.logger.Error("listing sizes", zap.Error(err))
		api.ErrorResponse(w, http.StatusInternalServerError, "failed to fetch sizes")
		return
	}

	onlyActive := r.URL.Query().Get("active") == "true"
	response := make([]SizeResponse, 0, len(sizes))
	for _, s := range sizes {
		if onlyActive && !s.IsActive {
			continue
		}
		response = append(response, toSize(s))
	}

	api.OKResponse(w, http.StatusOK, response)
}

func (h *SizeHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input sizeInput
	if err := api.DecodeJSON(r, &input); err != nil {
		api.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	size := input.toModel()
	if err := h.repo.CreateSize(r.Context(), &size); err != nil {
		h.writeCreateError(w, err)
		return
	}

	api.OKResponse(w, http.StatusCreated, toSize(size))
}

// HandleBulkCreate inserts a list of sizes atomically.
func (h *SizeHandler) HandleBulkCreate(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Sizes []sizeInput `json:"sizes" validate:"required,min=1,dive"`
	}
	if err := api.DecodeJSON(r, &input); err != nil {
		api.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	sizes := make([]models.Size, len(input.Sizes))
	for i, in := range input.Sizes {
		sizes[i] = in.toModel()
	}
	if err := h.repo.CreateSizes(r.Context(), sizes); err != nil {
		h.writeCreateError(w, err)
		return
	}

	response := make([]SizeResponse, len(sizes))
	for i, s := range sizes {
		response[i] = toSize(s)
	}
	api.OKResponse(w, http.StatusCreated, response)
}

func (h *SizeHandler) writeCreateError(w http.ResponseWriter, err error) {
	if errors.Is(err, models.ErrDuplicate) {
		api.ErrorResponse(w, http.StatusConflict, err.Error())
		return
	}
	h.logger.Error("creating sizes", zap.Error(err))
	api.ErrorResponse(w, http.StatusInternalServerError, "Failed to create size")
}

func toSize(s models.Size) SizeResponse {
	return SizeResponse{
		ID:           s.ID,
		Name:         s.Name,
		Region:       s.Region,
		Value:        s.Value,
		EUEquivalent: s.EUEquivalent,
		UKEquivalent: s.UKEquivalent,
		SortOrder:    s.SortOrder,
		IsActive:     s.IsActive,
	}
}
