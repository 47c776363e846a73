package models

import "time"

// OTPChallenge is keyed by normalized phone (E.164); a resend overwrites the
// prior challenge for that phone.
type OTPChallenge struct {
	ID        int       `json:"id"`
	Phone     string    `json:"phone"`
	Code      string    `json:"-"` // Never expose in JSON
	Attempts  int       `json:"attempts"`
	Consumed  bool      `json:"consumed"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RequestOTPRequest represents the request body for sending an OTP
type RequestOTPRequest struct {
	Phone string `json:"phone"`
}

// VerifyOTPRequest represents the request body for verifying an OTP
type VerifyOTPRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

// VerifyOTPResponse carries the short-lived token that admits the request
// submission for the verified phone
type VerifyOTPResponse struct {
	Verified          bool   `json:"verified"`
	VerificationToken string `json:"verification_token"`
}
