package auth

import (
	"testing"

	"github.com/vishnu6512/Guardian-Grid/internal/config"
	"github.com/vishnu6512/Guardian-Grid/internal/models"
)

func testManager(secret string) *JWTManager {
	cfg := &config.Config{}
	cfg.JWT.Secret = secret
	cfg.JWT.ExpirationHours = 24
	cfg.JWT.Issuer = "guardian-grid-test"
	return NewJWTManager(cfg)
}

func TestSessionTokenRoundTrip(t *testing.T) {
	mgr := testManager("secret-a")
	user := &models.Volunteer{ID: 42, Email: "v@example.com", Role: models.RoleVolunteer}

	token, err := mgr.GenerateToken(user)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := mgr.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != 42 || claims.Email != "v@example.com" || claims.Role != models.RoleVolunteer {
		t.Errorf("claims = %+v", claims)
	}
}

func TestTokenRejectedAcrossSecrets(t *testing.T) {
	token, err := testManager("secret-a").GenerateToken(&models.Volunteer{ID: 1})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := testManager("secret-b").ValidateToken(token); err == nil {
		t.Fatal("token signed with a different secret validated")
	}
}

func TestPhoneTokenRoundTrip(t *testing.T) {
	mgr := testManager("secret-a")

	token, err := mgr.GeneratePhoneToken("+919876543210")
	if err != nil {
		t.Fatal(err)
	}
	phone, err := mgr.ValidatePhoneToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if phone != "+919876543210" {
		t.Errorf("phone = %q", phone)
	}
}

func TestTokenTypesAreNotInterchangeable(t *testing.T) {
	mgr := testManager("secret-a")
	user := &models.Volunteer{ID: 7, Email: "admin@example.com", Role: models.RoleAdmin}

	// A session token is not proof of phone verification
	session, err := mgr.GenerateToken(user)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.ValidatePhoneToken(session); err == nil {
		t.Error("session token accepted as phone-verification token")
	}

	// A 2FA-pending token is not a session token for the auth middleware's
	// purposes, but it carries its own type marker
	temp, err := mgr.GenerateTempToken(user)
	if err != nil {
		t.Fatal(err)
	}
	claims, err := mgr.ValidateTempToken(temp)
	if err != nil {
		t.Fatalf("validate temp: %v", err)
	}
	if claims.UserID != 7 || claims.Type != "2fa_pending" {
		t.Errorf("temp claims = %+v", claims)
	}
	if _, err := mgr.ValidateTempToken(session); err == nil {
		t.Error("session token accepted as 2FA-pending token")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("admin123")
	if err != nil {
		t.Fatal(err)
	}
	if hash == "admin123" {
		t.Fatal("password stored in the clear")
	}
	if !VerifyPassword(hash, "admin123") {
		t.Error("correct password rejected")
	}
	if VerifyPassword(hash, "admin124") {
		t.Error("wrong password accepted")
	}
}
