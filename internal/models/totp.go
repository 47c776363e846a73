package models

// TOTPSetupResponse is returned when an admin starts 2FA enrollment
type TOTPSetupResponse struct {
	Secret      string `json:"secret"`
	QRCode      string `json:"qr_code"` // data:image/png;base64,...
	Issuer      string `json:"issuer"`
	AccountName string `json:"account_name"`
}

// TOTPVerifyRequest carries a 6-digit code during enrollment or login
type TOTPVerifyRequest struct {
	Code      string `json:"code"`
	TempToken string `json:"temp_token,omitempty"`
}
