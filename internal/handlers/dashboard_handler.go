package handlers

import (
	"net/http"

	"github.com/vishnu6512/Guardian-Grid/internal/services"
	"github.com/vishnu6512/Guardian-Grid/pkg/utils"
)

type DashboardHandler struct {
	Service *services.DashboardService
}

func NewDashboardHandler(s *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{Service: s}
}

// Stats returns the admin dashboard aggregate
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, stats)
}
