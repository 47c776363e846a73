package models

import "time"

// Volunteer approval statuses. Approved and declined are terminal.
const (
	VolunteerPending  = "pending"
	VolunteerApproved = "approved"
	VolunteerDeclined = "declined"
)

// Account roles
const (
	RoleAdmin     = "admin"
	RoleVolunteer = "volunteer"
)

type Volunteer struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	Role         string    `json:"role"` // admin or volunteer
	Status       string    `json:"status"` // pending, approved, declined
	Location     string    `json:"location"` // display address
	Lat          *float64  `json:"lat,omitempty"`
	Lng          *float64  `json:"lng,omitempty"`
	TOTPEnabled  bool      `json:"totp_enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RegisterRequest represents the request body for volunteer registration
type RegisterRequest struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	Password string   `json:"password"`
	Location string   `json:"location"`
	Lat      *float64 `json:"lat"`
	Lng      *float64 `json:"lng"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse represents the response after successful authentication
type AuthResponse struct {
	Token string     `json:"token"`
	User  *Volunteer `json:"user"`
}

// TOTPPendingResponse is returned when an admin with 2FA enabled logs in.
// The temp token must be exchanged via /login/totp.
type TOTPPendingResponse struct {
	TOTPRequired bool   `json:"totp_required"`
	TempToken    string `json:"temp_token"`
}

// DecisionRequest represents the request body for approve/reject volunteer
type DecisionRequest struct {
	VolunteerID int `json:"volunteerId"`
}

// VolunteerStatusResponse is polled by the volunteer dashboard on load
type VolunteerStatusResponse struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}
