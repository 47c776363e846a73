package models

import "time"

// SMS message types
const (
	SMSTypeOTP = "otp"
)

// SMS delivery statuses
const (
	SMSStatusPending = "pending"
	SMSStatusSent    = "sent"
	SMSStatusFailed  = "failed"
)

type SMSLog struct {
	ID           int       `json:"id"`
	Phone        string    `json:"phone"`
	MessageType  string    `json:"message_type"`
	Message      string    `json:"message"`
	Status       string    `json:"status"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
