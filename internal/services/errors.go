package services

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for the lifecycle and registry state machines. Handlers map
// these to HTTP statuses; InvalidState failures are expected under concurrent
// admin use and are returned to the caller, never retried here.
var (
	ErrNotFound             = errors.New("not found")
	ErrDuplicateEmail       = errors.New("an account with this email already exists")
	ErrAlreadyDecided       = errors.New("volunteer application has already been decided")
	ErrNotPendingAssignment = errors.New("request is no longer pending assignment")
	ErrNotAssigned          = errors.New("request is not in assigned state")
	ErrNotInProgress        = errors.New("request is not in progress")
	ErrVolunteerNotApproved = errors.New("volunteer is not approved")
	ErrUnauthorized         = errors.New("not authorized for this action")
	ErrInvalidCredentials   = errors.New("invalid email or password")

	ErrInvalidPhone        = errors.New("invalid phone number")
	ErrOTPNotFound         = errors.New("no verification code found for this phone number")
	ErrOTPExpired          = errors.New("verification code has expired, please request a new one")
	ErrAttemptsExceeded    = errors.New("too many incorrect attempts, please request a new code")
	ErrPhoneNotVerified    = errors.New("phone number has not been verified")
	ErrNoTOTPSecret        = errors.New("two-factor setup has not been started")
	ErrInvalidTOTPCode     = errors.New("invalid two-factor code")
)

// ValidationError reports a missing or malformed field
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// RateLimitedError carries the remaining cooldown so the caller can render
// retry guidance
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("please wait %d seconds before requesting another code", int(e.RetryAfter.Seconds()))
}

// OTPMismatchError carries the attempts left before the challenge is
// invalidated
type OTPMismatchError struct {
	AttemptsRemaining int
}

func (e *OTPMismatchError) Error() string {
	return fmt.Sprintf("incorrect code, %d attempt(s) remaining", e.AttemptsRemaining)
}
