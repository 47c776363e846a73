package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/vishnu6512/Guardian-Grid/internal/services"
	"github.com/vishnu6512/Guardian-Grid/pkg/utils"
)

// writeServiceError translates service-layer errors into HTTP responses.
// Unknown errors are logged and masked as a generic 500.
func writeServiceError(w http.ResponseWriter, err error) {
	var validation *services.ValidationError
	if errors.As(err, &validation) {
		utils.Error(w, http.StatusBadRequest, validation.Error())
		return
	}

	var rateLimited *services.RateLimitedError
	if errors.As(err, &rateLimited) {
		utils.JSON(w, http.StatusTooManyRequests, map[string]any{
			"error":       rateLimited.Error(),
			"retry_after": int(rateLimited.RetryAfter.Seconds()),
		})
		return
	}

	var mismatch *services.OTPMismatchError
	if errors.As(err, &mismatch) {
		utils.JSON(w, http.StatusBadRequest, map[string]any{
			"error":              mismatch.Error(),
			"attempts_remaining": mismatch.AttemptsRemaining,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrDuplicateEmail),
		errors.Is(err, services.ErrAlreadyDecided),
		errors.Is(err, services.ErrNotPendingAssignment),
		errors.Is(err, services.ErrNotAssigned),
		errors.Is(err, services.ErrNotInProgress),
		errors.Is(err, services.ErrVolunteerNotApproved):
		utils.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrUnauthorized),
		errors.Is(err, services.ErrPhoneNotVerified):
		utils.Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidTOTPCode):
		utils.Error(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrInvalidPhone),
		errors.Is(err, services.ErrOTPNotFound),
		errors.Is(err, services.ErrOTPExpired),
		errors.Is(err, services.ErrAttemptsExceeded),
		errors.Is(err, services.ErrNoTOTPSecret):
		utils.Error(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("[HTTP] internal error: %v", err)
		utils.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
