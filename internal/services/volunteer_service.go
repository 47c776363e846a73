package services

import (
	"context"
	"fmt"

	"github.com/vishnu6512/Guardian-Grid/internal/auth"
	"github.com/vishnu6512/Guardian-Grid/internal/models"
)

// VolunteerStore persists volunteer accounts and owns approvalStatus.
// Get/GetByEmail return (nil, nil) when the account does not exist.
// Decide must be a compare-and-set from pending; it reports false when the
// application was already decided (or the id is unknown).
type VolunteerStore interface {
	Create(ctx context.Context, v *models.Volunteer) error
	Get(ctx context.Context, id int) (*models.Volunteer, error)
	GetByEmail(ctx context.Context, email string) (*models.Volunteer, error)
	Decide(ctx context.Context, id int, decision string) (bool, error)
	ListApproved(ctx context.Context) ([]*models.Volunteer, error)
	ListPending(ctx context.Context) ([]*models.Volunteer, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
	SetTOTPSecret(ctx context.Context, id int, secret string) error
	GetTOTPSecret(ctx context.Context, id int) (string, error)
	SetTOTPEnabled(ctx context.Context, id int, enabled bool) error
}

type VolunteerService struct {
	Store      VolunteerStore
	JWTManager *auth.JWTManager
}

func NewVolunteerService(store VolunteerStore, jwtManager *auth.JWTManager) *VolunteerService {
	return &VolunteerService{Store: store, JWTManager: jwtManager}
}

// Register creates a volunteer account in pending state. Approval is an
// administrator action; pending volunteers never appear in matching.
func (s *VolunteerService) Register(ctx context.Context, req *models.RegisterRequest) (*models.Volunteer, error) {
	if req.Name == "" {
		return nil, &ValidationError{Field: "name", Msg: "name is required"}
	}
	if req.Email == "" {
		return nil, &ValidationError{Field: "email", Msg: "email is required"}
	}
	if req.Password == "" {
		return nil, &ValidationError{Field: "password", Msg: "password is required"}
	}
	phone, err := NormalizePhone(req.Phone)
	if err != nil {
		return nil, &ValidationError{Field: "phone", Msg: "a valid phone number is required"}
	}

	existing, err := s.Store.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	v := &models.Volunteer{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        phone,
		PasswordHash: hash,
		Role:         models.RoleVolunteer,
		Status:       models.VolunteerPending,
		Location:     req.Location,
		Lat:          req.Lat,
		Lng:          req.Lng,
	}
	if err := s.Store.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Login verifies credentials and returns the account. Token issuance is
// separate so admins with 2FA enabled can be routed through the TOTP step.
func (s *VolunteerService) Login(ctx context.Context, req *models.LoginRequest) (*models.Volunteer, error) {
	if req.Email == "" || req.Password == "" {
		return nil, &ValidationError{Field: "email", Msg: "email and password are required"}
	}

	v, err := s.Store.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	if v == nil || !auth.VerifyPassword(v.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}
	return v, nil
}

// IssueAuth generates the session token for a verified account
func (s *VolunteerService) IssueAuth(v *models.Volunteer) (*models.AuthResponse, error) {
	token, err := s.JWTManager.GenerateToken(v)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: v}, nil
}

// Approve moves a pending application to approved. Terminal: once decided
// an application cannot be re-decided.
func (s *VolunteerService) Approve(ctx context.Context, volunteerID int) error {
	return s.decide(ctx, volunteerID, models.VolunteerApproved)
}

// Decline moves a pending application to declined. Terminal.
func (s *VolunteerService) Decline(ctx context.Context, volunteerID int) error {
	return s.decide(ctx, volunteerID, models.VolunteerDeclined)
}

func (s *VolunteerService) decide(ctx context.Context, volunteerID int, decision string) error {
	ok, err := s.Store.Decide(ctx, volunteerID, decision)
	if err != nil {
		return fmt.Errorf("failed to update volunteer status: %w", err)
	}
	if ok {
		return nil
	}

	v, err := s.Store.Get(ctx, volunteerID)
	if err != nil {
		return fmt.Errorf("failed to load volunteer: %w", err)
	}
	if v == nil {
		return ErrNotFound
	}
	return ErrAlreadyDecided
}

// Status returns the approval status polled by the volunteer dashboard
func (s *VolunteerService) Status(ctx context.Context, volunteerID int) (*models.VolunteerStatusResponse, error) {
	v, err := s.Store.Get(ctx, volunteerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load volunteer: %w", err)
	}
	if v == nil {
		return nil, ErrNotFound
	}
	return &models.VolunteerStatusResponse{ID: v.ID, Name: v.Name, Status: v.Status}, nil
}

// ListApproved exposes the population eligible for matching
func (s *VolunteerService) ListApproved(ctx context.Context) ([]*models.Volunteer, error) {
	return s.Store.ListApproved(ctx)
}
