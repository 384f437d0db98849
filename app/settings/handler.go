package settings

import (
	"context"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/italianshoes/catalog/app/api"
)

type SettingsProvider interface {
	Get(ctx context.Context) (Settings, error)
	Update(ctx context.Context, patch []byte) (Settings, error)
}

type SettingsHandler struct {
	service SettingsProvider
	logger  *zap.Logger
}

func NewSettingsHandler(s SettingsProvider, logger *zap.Logger) *SettingsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsHandler{service: s, logger: logger}
}

func (h *SettingsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.Get(r.Context())
	if err != nil {
		h.logger.Error("reading settings", zap.Error(err))
		api.ErrorResponse(w, http.StatusInternalServerError, "Failed to read settings")
		return
	}
	api.OKResponse(w, http.StatusOK, settings)
}

func (h *SettingsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	patch, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		api.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	settings, err := h.service.Update(r.Context(), patch)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			api.ErrorResponse(w, http.StatusBadRequest, verr.Error())
			return
		}
		h.logger.Error("updating settings", zap.Error(err))
		api.ErrorResponse(w, http.StatusInternalServerError, "Failed to update settings")
		return
	}
	api.OKResponse(w, http.StatusOK, settings)
}
