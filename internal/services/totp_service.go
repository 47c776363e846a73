package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image/png"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/vishnu6512/Guardian-Grid/internal/models"
)

const totpIssuer = "GuardianGrid"

// TOTPService handles optional 2FA enrollment for administrator accounts.
// Volunteers authenticate with password only; the admin dashboard can hand
// out assignments, so it gets the extra factor.
type TOTPService struct {
	Store VolunteerStore
}

func NewTOTPService(store VolunteerStore) *TOTPService {
	return &TOTPService{Store: store}
}

// GenerateSetup creates a new secret and QR code. The secret is stored but
// 2FA stays disabled until the first code verifies.
func (s *TOTPService) GenerateSetup(ctx context.Context, user *models.Volunteer) (*models.TOTPSetupResponse, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: user.Email,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return nil, err
	}

	if err := s.Store.SetTOTPSecret(ctx, user.ID, key.Secret()); err != nil {
		return nil, fmt.Errorf("failed to store TOTP secret: %w", err)
	}

	img, err := key.Image(200, 200)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}

	return &models.TOTPSetupResponse{
		Secret:      key.Secret(),
		QRCode:      "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
		Issuer:      totpIssuer,
		AccountName: user.Email,
	}, nil
}

// VerifyAndEnable validates the first code and turns 2FA on
func (s *TOTPService) VerifyAndEnable(ctx context.Context, userID int, code string) error {
	if err := s.Verify(ctx, userID, code); err != nil {
		return err
	}
	return s.Store.SetTOTPEnabled(ctx, userID, true)
}

// Verify checks a code against the stored secret
func (s *TOTPService) Verify(ctx context.Context, userID int, code string) error {
	secret, err := s.Store.GetTOTPSecret(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load TOTP secret: %w", err)
	}
	if secret == "" {
		return ErrNoTOTPSecret
	}
	if !totp.Validate(code, secret) {
		return ErrInvalidTOTPCode
	}
	return nil
}

// Disable turns 2FA off after a final code check
func (s *TOTPService) Disable(ctx context.Context, userID int, code string) error {
	if err := s.Verify(ctx, userID, code); err != nil {
		return err
	}
	return s.Store.SetTOTPEnabled(ctx, userID, false)
}
