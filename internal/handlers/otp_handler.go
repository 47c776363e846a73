package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/vishnu6512/Guardian-Grid/internal/models"
	"github.com/vishnu6512/Guardian-Grid/internal/services"
	"github.com/vishnu6512/Guardian-Grid/pkg/utils"
)

type OTPHandler struct {
	Service *services.OTPService
}

func NewOTPHandler(s *services.OTPService) *OTPHandler {
	return &OTPHandler{Service: s}
}

// RequestOTP sends a verification code to the submitted phone. Resends
// inside the cooldown window come back 429 with retry_after.
func (h *OTPHandler) RequestOTP(w http.ResponseWriter, r *http.Request) {
	var req models.RequestOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.Service.RequestOTP(r.Context(), req.Phone); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"message": "Verification code sent"})
}

// VerifyOTP checks the submitted code and returns the verification token
// the intake endpoint requires
func (h *OTPHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, err := h.Service.VerifyOTP(r.Context(), req.Phone, req.Code)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, models.VerifyOTPResponse{
		Verified:          true,
		VerificationToken: token,
	})
}
