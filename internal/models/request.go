package models

import "time"

// Assistance request statuses. Completed and declined are terminal.
// Transitions: pending_assignment -> assigned -> in_progress -> completed,
// and pending_assignment -> declined (admin resolves without a volunteer).
const (
	RequestPendingAssignment = "pending_assignment"
	RequestAssigned          = "assigned"
	RequestInProgress        = "in_progress"
	RequestCompleted         = "completed"
	RequestDeclined          = "declined"
)

type AssistanceRequest struct {
	ID             int        `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	Description    string     `json:"description"`
	Location       string     `json:"location"` // display address
	Lat            *float64   `json:"lat,omitempty"`
	Lng            *float64   `json:"lng,omitempty"`
	PhoneVerified  bool       `json:"phone_verified"`
	Status         string     `json:"status"`
	VolunteerID    *int       `json:"volunteer_id,omitempty"`
	AssignedAt     *time.Time `json:"assigned_at,omitempty"`
	AssignmentNote *string    `json:"assignment_note,omitempty"`
	ResolutionNote *string    `json:"resolution_note,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// CreateRequestRequest is the public intake payload. The verification token
// comes from a successful OTP verification for the same phone.
type CreateRequestRequest struct {
	Name              string   `json:"name"`
	Email             string   `json:"email"`
	Phone             string   `json:"phone"`
	Description       string   `json:"description"`
	Location          string   `json:"location"`
	Lat               *float64 `json:"lat"`
	Lng               *float64 `json:"lng"`
	VerificationToken string   `json:"verification_token"`
}

// AssignVolunteerRequest represents the admin assignment payload
type AssignVolunteerRequest struct {
	RequestID   int    `json:"requestId"`
	VolunteerID int    `json:"volunteerId"`
	Notes       string `json:"notes"`
}

// DeclineRequestRequest represents the admin decline payload
type DeclineRequestRequest struct {
	RequestID int    `json:"requestId"`
	Note      string `json:"note"`
}

// UpdateAssignmentRequest is sent by the assigned volunteer to move an
// assignment to in_progress or completed
type UpdateAssignmentRequest struct {
	Status string `json:"status"`
}
