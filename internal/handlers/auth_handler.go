package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/vishnu6512/Guardian-Grid/internal/auth"
	"github.com/vishnu6512/Guardian-Grid/internal/models"
	"github.com/vishnu6512/Guardian-Grid/internal/services"
	"github.com/vishnu6512/Guardian-Grid/pkg/utils"
)

type AuthHandler struct {
	Volunteers *services.VolunteerService
	TOTP       *services.TOTPService
	JWTManager *auth.JWTManager
}

func NewAuthHandler(volunteers *services.VolunteerService, totpService *services.TOTPService, jwtManager *auth.JWTManager) *AuthHandler {
	return &AuthHandler{
		Volunteers: volunteers,
		TOTP:       totpService,
		JWTManager: jwtManager,
	}
}

// Register handles volunteer registration. New accounts start pending and
// stay off the matching pool until an admin approves them.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	v, err := h.Volunteers.Register(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, v)
}

// Login authenticates an account. Admins with 2FA enabled get a temp token
// and must finish through LoginTOTP.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	v, err := h.Volunteers.Login(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if v.Role == models.RoleAdmin && v.TOTPEnabled {
		tempToken, err := h.JWTManager.GenerateTempToken(v)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, models.TOTPPendingResponse{
			TOTPRequired: true,
			TempToken:    tempToken,
		})
		return
	}

	authResp, err := h.Volunteers.IssueAuth(v)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, authResp)
}

// LoginTOTP exchanges a temp token plus a valid TOTP code for a session token
func (h *AuthHandler) LoginTOTP(w http.ResponseWriter, r *http.Request) {
	var req models.TOTPVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	claims, err := h.JWTManager.ValidateTempToken(req.TempToken)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "Invalid or expired temp token")
		return
	}

	if err := h.TOTP.Verify(r.Context(), claims.UserID, req.Code); err != nil {
		writeServiceError(w, err)
		return
	}

	v, err := h.Volunteers.Store.Get(r.Context(), claims.UserID)
	if err != nil || v == nil {
		utils.Error(w, http.StatusUnauthorized, "Account not found")
		return
	}

	authResp, err := h.Volunteers.IssueAuth(v)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, authResp)
}
