package materials

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/italianshoes/catalog/app/api"
	"github.com/italianshoes/catalog/models"
)

type ColorResponse struct {
	ID           string `json:"id"`
	MaterialName string `json:"materialName"`
	Name         string `json:"name"`
	Family       string `json:"family,omitempty"`
	ColorCode    string `json:"colorCode,omitempty"`
	IsActive     bool   `json:"isActive"`
}

type MaterialProvider interface {
	GetMaterialColors(ctx context.Context, filters models.MaterialColorFilters) ([]models.MaterialColor, error)
	CreateMaterialColor(ctx context.Context, color *models.MaterialColor) error
}

type MaterialHandler struct {
	repo   MaterialProvider
	logger *zap.Logger
}

func NewMaterialHandler(r MaterialProvider, logger *zap.Logger) *MaterialHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MaterialHandler{repo: r, logger: logger}
}

// HandleGetColors lists material colors, optionally narrowed by
// ?material=<name> and ?active=true.
func (h *MaterialHandler) HandleGetColors(w http.ResponseWriter, r *http.Request) {
	filters := models.MaterialColorFilters{
		Material:   r.URL.Query().Get("material"),
		ActiveOnly: r.URL.Query().Get("active") == "true",
	}
	colors, err := h.repo.GetMaterialColors(r.Context(), filters)
	if err != nil {
		h.logger.Error("listing material colors", zap.Error(err))
		api.ErrorResponse(w, http.StatusInternalServerError, "failed to fetch material colors")
		return
	}

	response := make([]ColorResponse, len(colors))
	for i, c := range colors {
		response[i] = toColor(c)
	}
	api.OKResponse(w, http.StatusOK, response)
}

func (h *MaterialHandler) HandleCreateColor(w http.ResponseWriter, r *http.Request) {
	var input struct {
		MaterialName string `json:"materialName" validate:"required"`
		Name         string `json:"name" validate:"required"`
		Family       string `json:"family"`
		ColorCode    string `json:"colorCode" validate:"omitempty,hexcolor"`
		IsActive     *bool  `json:"isActive"`
	}
	if err := api.DecodeJSON(r, &input); err != nil {
		api.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	color := &models.MaterialColor{
		MaterialName: input.MaterialName,
		Name:         input.Name,
		Family:       input.Family,
		ColorCode:    input.ColorCode,
		IsActive:     input.IsActive == nil || *input.IsActive,
	}
	if err := h.repo.CreateMaterialColor(r.Context(), color); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			api.ErrorResponse(w, http.StatusConflict, err.Error())
			return
		}
		h.logger.Error("creating material color", zap.Error(err))
		api.ErrorResponse(w, http.StatusInternalServerError, "Failed to create material color")
		return
	}
	api.OKResponse(w, http.StatusCreated, toColor(*color))
}

func toColor(c models.MaterialColor) ColorResponse {
	return ColorResponse{
		ID:           c.ID,
		MaterialName: c.MaterialName,
		Name:         c.Name,
		Family:       c.Family,
		ColorCode:    c.ColorCode,
		IsActive:     c.IsActive,
	}
}
