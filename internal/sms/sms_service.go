package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vishnu6512/Guardian-Grid/internal/models"
)

// Provider is an interface for sending SMS messages
type Provider interface {
	SendOTP(phone, code string) error
	SetLogRepository(repo LogRepo)
}

// LogRepo records every outbound SMS for admin audit
type LogRepo interface {
	Create(ctx context.Context, entry *models.SMSLog) error
}

// Fast2SMSService implements Provider for Fast2SMS (India)
type Fast2SMSService struct {
	APIKey  string
	Client  *http.Client
	LogRepo LogRepo
}

func NewFast2SMSService(apiKey string) *Fast2SMSService {
	return &Fast2SMSService{
		APIKey: apiKey,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *Fast2SMSService) SetLogRepository(repo LogRepo) {
	s.LogRepo = repo
}

// SendOTP sends a verification code via the Fast2SMS quick route
func (s *Fast2SMSService) SendOTP(phone, code string) error {
	message := fmt.Sprintf("Your Guardian Grid verification code is %s. Valid for 5 minutes. Do not share this code with anyone.", code)

	// Fast2SMS wants the bare 10-digit Indian number
	number := strings.TrimPrefix(phone, "+91")

	apiURL := fmt.Sprintf(
		"https://www.fast2sms.com/dev/bulkV2?authorization=%s&route=q&message=%s&language=english&flash=0&numbers=%s",
		url.QueryEscape(s.APIKey),
		url.QueryEscape(message),
		url.QueryEscape(number),
	)

	entry := &models.SMSLog{
		Phone:       phone,
		MessageType: models.SMSTypeOTP,
		Message:     message,
		Status:      models.SMSStatusPending,
	}

	resp, err := s.Client.Get(apiURL)
	if err != nil {
		entry.Status = models.SMSStatusFailed
		entry.ErrorMessage = err.Error()
		s.logSMS(entry)
		return fmt.Errorf("failed to send SMS: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	var result struct {
		Return  bool   `json:"return"`
		Message any    `json:"message"`
	}
	if err := json.Unmarshal(body, &result); err != nil || !result.Return {
		entry.Status = models.SMSStatusFailed
		entry.ErrorMessage = string(body)
		s.logSMS(entry)
		return fmt.Errorf("SMS provider rejected message: %s", string(body))
	}

	entry.Status = models.SMSStatusSent
	s.logSMS(entry)
	return nil
}

func (s *Fast2SMSService) logSMS(entry *models.SMSLog) {
	if s.LogRepo == nil {
		return
	}
	// Non-blocking, delivery already happened
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.LogRepo.Create(ctx, entry); err != nil {
			log.Printf("[SMS] failed to log message: %v", err)
		}
	}()
}

// MockSMSService prints codes to the log instead of sending them. Used when
// FAST2SMS_API_KEY is not set.
type MockSMSService struct {
	LogRepo LogRepo
}

func NewMockSMSService() *MockSMSService {
	return &MockSMSService{}
}

func (s *MockSMSService) SetLogRepository(repo LogRepo) {
	s.LogRepo = repo
}

func (s *MockSMSService) SendOTP(phone, code string) error {
	log.Printf("[MockSMS] OTP for %s: %s", phone, code)
	if s.LogRepo != nil {
		entry := &models.SMSLog{
			Phone:       phone,
			MessageType: models.SMSTypeOTP,
			Message:     "mock OTP " + code,
			Status:      models.SMSStatusSent,
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.LogRepo.Create(ctx, entry)
	}
	return nil
}
