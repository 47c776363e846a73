package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/vishnu6512/Guardian-Grid/internal/auth"
	"github.com/vishnu6512/Guardian-Grid/internal/cache"
	"github.com/vishnu6512/Guardian-Grid/internal/middleware"
	"github.com/vishnu6512/Guardian-Grid/internal/models"
	"github.com/vishnu6512/Guardian-Grid/internal/services"
	"github.com/vishnu6512/Guardian-Grid/pkg/utils"
)

type RequestHandler struct {
	Service    *services.RequestService
	JWTManager *auth.JWTManager
}

func NewRequestHandler(s *services.RequestService, jwtManager *auth.JWTManager) *RequestHandler {
	return &RequestHandler{Service: s, JWTManager: jwtManager}
}

// Submit admits a new assistance request. The verification token from a
// successful OTP check must cover the submitted phone number.
func (h *RequestHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	verifiedPhone, err := h.JWTManager.ValidatePhoneToken(req.VerificationToken)
	if err != nil {
		utils.Error(w, http.StatusForbidden, "phone number has not been verified")
		return
	}

	created, err := h.Service.Submit(r.Context(), &req, verifiedPhone)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	cache.InvalidateDashboardStats(r.Context())
	utils.JSON(w, http.StatusCreated, created)
}

// Status returns the current lifecycle state of a request. Polled by the
// affected individual's tracking page.
func (h *RequestHandler) Status(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request id")
		return
	}

	req, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, req)
}

// Assign binds an approved volunteer to a pending request (admin action)
func (h *RequestHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var req models.AssignVolunteerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.Service.Assign(r.Context(), req.RequestID, req.VolunteerID, req.Notes); err != nil {
		writeServiceError(w, err)
		return
	}

	cache.InvalidateDashboardStats(r.Context())
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Volunteer assigned"})
}

// Decline resolves a pending request without dispatching a volunteer (admin
// action). The note is mandatory.
func (h *RequestHandler) Decline(w http.ResponseWriter, r *http.Request) {
	var req models.DeclineRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.Service.Resolve(r.Context(), req.RequestID, req.Note); err != nil {
		writeServiceError(w, err)
		return
	}

	cache.InvalidateDashboardStats(r.Context())
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Request declined"})
}

// ListAssigned returns the authenticated volunteer's assignments. Volunteers
// can only read their own queue; admins may read any.
func (h *RequestHandler) ListAssigned(w http.ResponseWriter, r *http.Request) {
	volunteerID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid volunteer id")
		return
	}

	callerID, _ := middleware.GetUserIDFromContext(r.Context())
	role, _ := middleware.GetRoleFromContext(r.Context())
	if callerID != volunteerID && role != models.RoleAdmin {
		utils.Error(w, http.StatusForbidden, "not authorized for this action")
		return
	}

	requests, err := h.Service.AssignedTo(r.Context(), volunteerID, r.URL.Query().Get("status"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if requests == nil {
		requests = []*models.AssistanceRequest{}
	}
	utils.JSON(w, http.StatusOK, requests)
}

// UpdateAssignment moves the caller's assignment to in_progress or completed
func (h *RequestHandler) UpdateAssignment(w http.ResponseWriter, r *http.Request) {
	requestID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request id")
		return
	}

	var req models.UpdateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	callerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := h.Service.UpdateAssignment(r.Context(), requestID, callerID, req.Status); err != nil {
		writeServiceError(w, err)
		return
	}

	cache.InvalidateDashboardStats(r.Context())
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Assignment updated"})
}
