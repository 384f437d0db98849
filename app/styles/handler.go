package styles

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/italianshoes/catalog/app/api"
	"github.com/italianshoes/catalog/models"
)

type StyleResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	IsActive    bool   `json:"isActive"`
}

type StyleProvider interface {
	GetAllStyles(ctx context.Context, activeOnly bool) ([]models.Style, error)
	CreateStyle(ctx context.Context, style *models.Style) error
}

type StyleHandler struct {
	repo   StyleProvider
	logger *zap.Logger
}

func NewStyleHandler(r StyleProvider, logger *zap.Logger) *StyleHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StyleHandler{repo: r, logger: logger}
}

// HandleGetAll lists styles; ?active=true keeps only the active ones.
func (h *StyleHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, r.URL.Query().Get("active") == "true")
}

func (h *StyleHandler) HandleGetActive(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

func (h *StyleHandler) list(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	styles, err := h.repo.GetAllStyles(r.Context(), activeOnly)
	if err != nil {
		h.logger.Error("listing styles", zap.Error(err))
		api.ErrorResponse(w, http.StatusInternalServerError, "failed to fetch styles")
		return
	}

	response := make([]StyleResponse, len(styles))
	for i, s := range styles {
		response[i] = toStyle(s)
	}
	api.OKResponse(w, http.StatusOK, response)
}

func (h *StyleHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
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

	style := &models.Style{
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		ImageURL:    input.ImageURL,
		IsActive:    input.IsActive == nil || *input.IsActive,
	}
	if err := h.repo.CreateStyle(r.Context(), style); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			api.ErrorResponse(w, http.StatusConflict, err.Error())
			return
		}
		h.logger.Error("creating style", zap.Error(err))
		api.ErrorResponse(w, http.StatusInternalServerError, "Failed to create style")
		return
	}
	api.OKResponse(w, http.StatusCreated, toStyle(*style))
}

func toStyle(s models.Style) StyleResponse {
	return StyleResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Category:    s.Category,
		ImageURL:    s.ImageURL,
		IsActive:    s.IsActive,
	}
}
