package soles

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/italianshoes/catalog/app/api"
	"github.com/italianshoes/catalog/models"
)

type SoleResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	IsActive    bool   `json:"isActive"`
}

type SoleProvider interface {
	GetAllSoles(ctx context.Context, activeOnly bool) ([]models.Sole, error)
	CreateSole(ctx context.Context, sole *models.Sole) error
}

type SoleHandler struct {
	repo   SoleProvider
	logger *zap.Logger
}

func NewSoleHandler(r SoleProvider, logger *zap.Logger) *SoleHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SoleHandler{repo: r, logger: logger}
}

// HandleGetAll lists soles; ?active=true keeps only the active ones.
func (h *SoleHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, r.URL.Query().Get("active") == "true")
}

func (h *SoleHandler) HandleGetActive(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

func (h *SoleHandler) list(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	soles, err := h.repo.GetAllSoles(r.Context(), activeOnly)
	if err != nil {
		h.logger.Error("listing soles", zap.Error(err))
		api.ErrorResponse(w, http.StatusInternalServerError, "failed to fetch soles")
		return
	}

	response := make([]SoleResponse, len(soles))
	for i, s := range soles {
		response[i] = toSole(s)
	}
	api.OKResponse(w, http.StatusOK, response)
}

func (h *SoleHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name        string `json:"name" validate:"required,max=128"`
		Description string `json:"description"`
		Category    string `json:"category"`
		ImageURL    string `json:"imageUrl" validate:"omitempty,url"`
		IsActive    *bool  `json:"isActive"`
	}
	if err := api.DecodeJSON(r, &input); err != nil {
		api.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	sole := &models.Sole{
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		ImageURL:    input.ImageURL,
		IsActive:    input.IsActive == nil || *input.IsActive,
	}
	if err := h.repo.CreateSole(r.Context(), sole); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			api.ErrorResponse(w, http.StatusConflict, err.Error())
			return
		}
		h.logger.Error("creating sole", zap.Error(err))
		api.ErrorResponse(w, http.StatusInternalServerError, "Failed to create sole")
		return
	}
	api.OKResponse(w, http.StatusCreated, toSole(*sole))
}

func toSole(s models.Sole) SoleResponse {
	return SoleResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Category:    s.Category,
		ImageURL:    s.ImageURL,
		IsActive:    s.IsActive,
	}
}
