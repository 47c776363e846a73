package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/vishnu6512/Guardian-Grid/internal/cache"
	"github.com/vishnu6512/Guardian-Grid/internal/middleware"
	"github.com/vishnu6512/Guardian-Grid/internal/models"
	"github.com/vishnu6512/Guardian-Grid/internal/services"
	"github.com/vishnu6512/Guardian-Grid/pkg/utils"
)

type VolunteerHandler struct {
	Service *services.VolunteerService
}

func NewVolunteerHandler(s *services.VolunteerService) *VolunteerHandler {
	return &VolunteerHandler{Service: s}
}

// Approve moves a pending application to approved (admin action, terminal)
func (h *VolunteerHandler) Approve(w http.ResponseWriter, r *http.Request) {
	var req models.DecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.Service.Approve(r.Context(), req.VolunteerID); err != nil {
		writeServiceError(w, err)
		return
	}

	cache.InvalidateDashboardStats(r.Context())
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Volunteer approved"})
}

// Reject moves a pending application to declined (admin action, terminal)
func (h *VolunteerHandler) Reject(w http.ResponseWriter, r *http.Request) {
	var req models.DecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.Service.Decline(r.Context(), req.VolunteerID); err != nil {
		writeServiceError(w, err)
		return
	}

	cache.InvalidateDashboardStats(r.Context())
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Volunteer rejected"})
}

// Status returns the approval status for the volunteer dashboard. Volunteers
// can only read their own status; admins may read any.
func (h *VolunteerHandler) Status(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid volunteer id")
		return
	}

	callerID, _ := middleware.GetUserIDFromContext(r.Context())
	role, _ := middleware.GetRoleFromContext(r.Context())
	if callerID != id && role != models.RoleAdmin {
		utils.Error(w, http.StatusForbidden, "not authorized for this action")
		return
	}

	status, err := h.Service.Status(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, status)
}
