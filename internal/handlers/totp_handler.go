package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/vishnu6512/Guardian-Grid/internal/middleware"
	"github.com/vishnu6512/Guardian-Grid/internal/models"
	"github.com/vishnu6512/Guardian-Grid/internal/services"
	"github.com/vishnu6512/Guardian-Grid/pkg/utils"
)

type TOTPHandler struct {
	Service    *services.TOTPService
	Volunteers services.VolunteerStore
}

func NewTOTPHandler(s *services.TOTPService, volunteers services.VolunteerStore) *TOTPHandler {
	return &TOTPHandler{Service: s, Volunteers: volunteers}
}

// Setup starts 2FA enrollment for the authenticated admin. Returns the
// secret and a QR code; 2FA stays off until the first code verifies.
func (h *TOTPHandler) Setup(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	user, err := h.Volunteers.Get(r.Context(), userID)
	if err != nil || user == nil {
		utils.Error(w, http.StatusUnauthorized, "Account not found")
		return
	}

	setup, err := h.Service.GenerateSetup(r.Context(), user)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, setup)
}

// Enable verifies the first code and turns 2FA on
func (h *TOTPHandler) Enable(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.TOTPVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.Service.VerifyAndEnable(r.Context(), userID, req.Code); err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Two-factor authentication enabled"})
}

// Disable turns 2FA off after a final code check
func (h *TOTPHandler) Disable(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.TOTPVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.Service.Disable(r.Context(), userID, req.Code); err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Two-factor authentication disabled"})
}
