package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/agrolease/agrolease-backend/internal/usecase"
)

// AdminHandler serves the dashboard aggregates. The per-kind admin browse
// endpoints live on the listing handlers.
type AdminHandler struct {
	uc     *usecase.AdminUseCase
	logger *zap.Logger
}

func NewAdminHandler(uc *usecase.AdminUseCase, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{uc: uc, logger: logger}
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.uc.Stats(r.Context())
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
