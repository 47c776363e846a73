package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
	"unicode"

	"github.com/vishnu6512/Guardian-Grid/internal/auth"
	"github.com/vishnu6512/Guardian-Grid/internal/cache"
	"github.com/vishnu6512/Guardian-Grid/internal/metrics"
	"github.com/vishnu6512/Guardian-Grid/internal/models"
	"github.com/vishnu6512/Guardian-Grid/internal/sms"
	"github.com/vishnu6512/Guardian-Grid/internal/timeutil"
)

const (
	OTPLength         = 6
	OTPExpiry         = 5 * time.Minute
	OTPResendCooldown = 60 * time.Second
	MaxOTPAttempts    = 3

	// default country code for numbers submitted without one
	defaultCountryCode = "+91"
)

// OTPStore persists OTP challenges, one live challenge per phone.
// GetByPhone returns (nil, nil) when no challenge exists.
// IncrementAttempts must be atomic and return the post-increment count so
// concurrent verifications cannot slip past the attempt ceiling.
type OTPStore interface {
	Upsert(ctx context.Context, ch *models.OTPChallenge) error
	GetByPhone(ctx context.Context, phone string) (*models.OTPChallenge, error)
	IncrementAttempts(ctx context.Context, id int) (int, error)
	Consume(ctx context.Context, id int) (bool, error)
	Delete(ctx context.Context, id int) error
}

// OTPService gates public request intake behind phone verification.
type OTPService struct {
	Store  OTPStore
	SMS    sms.Provider
	Tokens *auth.JWTManager

	now func() time.Time
}

func NewOTPService(store OTPStore, smsProvider sms.Provider, tokens *auth.JWTManager) *OTPService {
	return &OTPService{
		Store:  store,
		SMS:    smsProvider,
		Tokens: tokens,
		now:    timeutil.Now,
	}
}

// NormalizePhone converts a submitted phone number to E.164. Numbers without
// a country code are assumed to be Indian mobile numbers.
func NormalizePhone(raw string) (string, error) {
	var b strings.Builder
	for i, r := range raw {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')':
			// separator, drop
		default:
			return "", ErrInvalidPhone
		}
	}

	p := b.String()
	switch {
	case strings.HasPrefix(p, "+"):
		if len(p) < 9 || len(p) > 16 {
			return "", ErrInvalidPhone
		}
		return p, nil
	case len(p) == 11 && strings.HasPrefix(p, "0"):
		return defaultCountryCode + p[1:], nil
	case len(p) == 10:
		return defaultCountryCode + p, nil
	default:
		return "", ErrInvalidPhone
	}
}

// generateCode creates a secure fixed-length numeric code
func (s *OTPService) generateCode() string {
	max := big.NewInt(1000000)
	n, _ := rand.Int(rand.Reader, max)
	return fmt.Sprintf("%06d", n.Int64())
}

// RequestOTP issues a fresh challenge for the phone and dispatches it via
// SMS. A resend inside the cooldown window fails with RateLimitedError
// carrying the remaining seconds. Each send overwrites the prior challenge,
// invalidating its code.
func (s *OTPService) RequestOTP(ctx context.Context, rawPhone string) error {
	phone, err := NormalizePhone(rawPhone)
	if err != nil {
		return err
	}

	// Redis fast path: rejects hot resends without touching Postgres.
	// Degrades to the DB check when the cache is down.
	if ttl := cache.OTPCooldownRemaining(ctx, phone); ttl > 0 {
		return &RateLimitedError{RetryAfter: ttl}
	}

	now := s.now()
	existing, err := s.Store.GetByPhone(ctx, phone)
	if err != nil {
		return fmt.Errorf("failed to check existing challenge: %w", err)
	}
	if existing != nil && !existing.Consumed && now.Before(existing.ExpiresAt) {
		if wait := existing.IssuedAt.Add(OTPResendCooldown).Sub(now); wait > 0 {
			return &RateLimitedError{RetryAfter: wait}
		}
	}

	ch := &models.OTPChallenge{
		Phone:     phone,
		Code:      s.generateCode(),
		IssuedAt:  now,
		ExpiresAt: now.Add(OTPExpiry),
	}
	if err := s.Store.Upsert(ctx, ch); err != nil {
		return fmt.Errorf("failed to store challenge: %w", err)
	}

	if err := s.SMS.SendOTP(phone, ch.Code); err != nil {
		return fmt.Errorf("failed to send verification SMS: %w", err)
	}

	cache.MarkOTPSent(ctx, phone, OTPResendCooldown)
	metrics.OTPIssuedTotal.Inc()
	return nil
}

// VerifyOTP checks a submitted code. On success the challenge is consumed
// (single use) and a short-lived phone-verification token is returned; the
// intake endpoint requires it. A mismatch past the attempt ceiling
// invalidates the challenge entirely.
func (s *OTPService) VerifyOTP(ctx context.Context, rawPhone, code string) (string, error) {
	phone, err := NormalizePhone(rawPhone)
	if err != nil {
		return "", err
	}

	ch, err := s.Store.GetByPhone(ctx, phone)
	if err != nil {
		return "", fmt.Errorf("failed to load challenge: %w", err)
	}
	if ch == nil || ch.Consumed {
		metrics.OTPVerifiedTotal.WithLabelValues("not_found").Inc()
		return "", ErrOTPNotFound
	}

	now := s.now()
	if now.After(ch.ExpiresAt) {
		s.Store.Delete(ctx, ch.ID)
		metrics.OTPVerifiedTotal.WithLabelValues("expired").Inc()
		return "", ErrOTPExpired
	}

	if ch.Attempts >= MaxOTPAttempts {
		s.Store.Delete(ctx, ch.ID)
		metrics.OTPVerifiedTotal.WithLabelValues("attempts_exceeded").Inc()
		return "", ErrAttemptsExceeded
	}

	if ch.Code != code {
		attempts, err := s.Store.IncrementAttempts(ctx, ch.ID)
		if err != nil {
			return "", fmt.Errorf("failed to record attempt: %w", err)
		}
		if attempts >= MaxOTPAttempts {
			s.Store.Delete(ctx, ch.ID)
			metrics.OTPVerifiedTotal.WithLabelValues("attempts_exceeded").Inc()
			return "", ErrAttemptsExceeded
		}
		metrics.OTPVerifiedTotal.WithLabelValues("mismatch").Inc()
		return "", &OTPMismatchError{AttemptsRemaining: MaxOTPAttempts - attempts}
	}

	consumed, err := s.Store.Consume(ctx, ch.ID)
	if err != nil {
		return "", fmt.Errorf("failed to consume challenge: %w", err)
	}
	if !consumed {
		// lost a race against a concurrent verification of the same code
		metrics.OTPVerifiedTotal.WithLabelValues("not_found").Inc()
		return "", ErrOTPNotFound
	}

	token, err := s.Tokens.GeneratePhoneToken(phone)
	if err != nil {
		return "", fmt.Errorf("failed to issue verification token: %w", err)
	}
	metrics.OTPVerifiedTotal.WithLabelValues("verified").Inc()
	return token, nil
}
