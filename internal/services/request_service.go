package services

import (
	"context"
	"fmt"
	"time"

	"github.com/vishnu6512/Guardian-Grid/internal/metrics"
	"github.com/vishnu6512/Guardian-Grid/internal/models"
	"github.com/vishnu6512/Guardian-Grid/internal/timeutil"
)

// RequestStore persists assistance requests and owns status + assignment.
// Get returns (nil, nil) when the request does not exist.
//
// AssignIfPending and ResolveIfPending are compare-and-set transitions
// guarded on status = pending_assignment; AssignIfPending additionally
// verifies the volunteer is approved inside the same statement. Transition
// is the generic from->to CAS. All three report false when the guard did not
// hold, leaving the row untouched.
type RequestStore interface {
	Create(ctx context.Context, r *models.AssistanceRequest) error
	Get(ctx context.Context, id int) (*models.AssistanceRequest, error)
	AssignIfPending(ctx context.Context, requestID, volunteerID int, note string, at time.Time) (bool, error)
	Transition(ctx context.Context, id int, from, to string) (bool, error)
	ResolveIfPending(ctx context.Context, id int, note string) (bool, error)
	ListByVolunteer(ctx context.Context, volunteerID int, status string) ([]*models.AssistanceRequest, error)
	ListAll(ctx context.Context) ([]*models.AssistanceRequest, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// RequestService owns the assistance-request lifecycle state machine.
// Transitions: pending_assignment -> assigned -> in_progress -> completed,
// pending_assignment -> declined. There is no un-assign and no path back.
type RequestService struct {
	Requests   RequestStore
	Volunteers VolunteerStore

	now func() time.Time
}

func NewRequestService(requests RequestStore, volunteers VolunteerStore) *RequestService {
	return &RequestService{
		Requests:   requests,
		Volunteers: volunteers,
		now:        timeutil.Now,
	}
}

// Submit admits a phone-verified request into the pipeline. verifiedPhone is
// the E.164 number attested by the OTP gate; it must match the submitted
// phone or the submission is rejected.
func (s *RequestService) Submit(ctx context.Context, req *models.CreateRequestRequest, verifiedPhone string) (*models.AssistanceRequest, error) {
	if req.Name == "" {
		return nil, &ValidationError{Field: "name", Msg: "name is required"}
	}
	if req.Description == "" {
		return nil, &ValidationError{Field: "description", Msg: "a description of the emergency is required"}
	}
	if req.Location == "" {
		return nil, &ValidationError{Field: "location", Msg: "location is required"}
	}
	phone, err := NormalizePhone(req.Phone)
	if err != nil {
		return nil, &ValidationError{Field: "phone", Msg: "a valid phone number is required"}
	}
	if phone != verifiedPhone {
		return nil, ErrPhoneNotVerified
	}

	r := &models.AssistanceRequest{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         phone,
		Description:   req.Description,
		Location:      req.Location,
		Lat:           req.Lat,
		Lng:           req.Lng,
		PhoneVerified: true,
		Status:        models.RequestPendingAssignment,
	}
	if err := s.Requests.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return r, nil
}

// Assign binds an approved volunteer to a pending request. The status check
// and the approved-volunteer check happen in the same guarded statement, so
// two concurrent assigns on one request produce exactly one success.
func (s *RequestService) Assign(ctx context.Context, requestID, volunteerID int, note string) error {
	v, err := s.Volunteers.Get(ctx, volunteerID)
	if err != nil {
		return fmt.Errorf("failed to load volunteer: %w", err)
	}
	if v == nil {
		return ErrNotFound
	}
	if v.Status != models.VolunteerApproved {
		return ErrVolunteerNotApproved
	}

	ok, err := s.Requests.AssignIfPending(ctx, requestID, volunteerID, note, s.now())
	if err != nil {
		return fmt.Errorf("failed to assign volunteer: %w", err)
	}
	if ok {
		metrics.AssignmentsTotal.WithLabelValues("assigned").Inc()
		return nil
	}

	// Guard failed: figure out which precondition broke.
	r, err := s.Requests.Get(ctx, requestID)
	if err != nil {
		return fmt.Errorf("failed to load request: %w", err)
	}
	if r == nil {
		return ErrNotFound
	}
	if r.Status != models.RequestPendingAssignment {
		return ErrNotPendingAssignment
	}
	// Volunteer flipped out of approved between our read and the CAS.
	return ErrVolunteerNotApproved
}

// Activate moves the caller's assignment from assigned to in_progress. Only
// the assigned volunteer may activate.
func (s *RequestService) Activate(ctx context.Context, requestID, callerID int) error {
	if err := s.authorizeAssignee(ctx, requestID, callerID); err != nil {
		return err
	}
	ok, err := s.Requests.Transition(ctx, requestID, models.RequestAssigned, models.RequestInProgress)
	if err != nil {
		return fmt.Errorf("failed to update request: %w", err)
	}
	if !ok {
		return ErrNotAssigned
	}
	return nil
}

// Complete moves the caller's assignment from in_progress to completed
func (s *RequestService) Complete(ctx context.Context, requestID, callerID int) error {
	if err := s.authorizeAssignee(ctx, requestID, callerID); err != nil {
		return err
	}
	ok, err := s.Requests.Transition(ctx, requestID, models.RequestInProgress, models.RequestCompleted)
	if err != nil {
		return fmt.Errorf("failed to update request: %w", err)
	}
	if !ok {
		return ErrNotInProgress
	}
	metrics.AssignmentsTotal.WithLabelValues("completed").Inc()
	return nil
}

// Resolve declines a pending request without allocating a volunteer. The
// note is required; it is the only record of why no help was dispatched.
func (s *RequestService) Resolve(ctx context.Context, requestID int, note string) error {
	if note == "" {
		return &ValidationError{Field: "note", Msg: "a resolution note is required"}
	}
	ok, err := s.Requests.ResolveIfPending(ctx, requestID, note)
	if err != nil {
		return fmt.Errorf("failed to resolve request: %w", err)
	}
	if ok {
		metrics.AssignmentsTotal.WithLabelValues("declined").Inc()
		return nil
	}

	r, err := s.Requests.Get(ctx, requestID)
	if err != nil {
		return fmt.Errorf("failed to load request: %w", err)
	}
	if r == nil {
		return ErrNotFound
	}
	return ErrNotPendingAssignment
}

// UpdateAssignment maps the volunteer dashboard's status update onto the
// activate/complete transitions
func (s *RequestService) UpdateAssignment(ctx context.Context, requestID, callerID int, status string) error {
	switch status {
	case models.RequestInProgress:
		return s.Activate(ctx, requestID, callerID)
	case models.RequestCompleted:
		return s.Complete(ctx, requestID, callerID)
	default:
		return &ValidationError{Field: "status", Msg: "status must be in_progress or completed"}
	}
}

// AssignedTo lists a volunteer's assignments, optionally filtered by status
func (s *RequestService) AssignedTo(ctx context.Context, volunteerID int, status string) ([]*models.AssistanceRequest, error) {
	switch status {
	case "", models.RequestAssigned, models.RequestInProgress, models.RequestCompleted:
		return s.Requests.ListByVolunteer(ctx, volunteerID, status)
	default:
		return nil, &ValidationError{Field: "status", Msg: "unknown assignment status"}
	}
}

// Get exposes the cheap current-state read the polling UI depends on
func (s *RequestService) Get(ctx context.Context, requestID int) (*models.AssistanceRequest, error) {
	r, err := s.Requests.Get(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to load request: %w", err)
	}
	if r == nil {
		return nil, ErrNotFound
	}
	return r, nil
}

func (s *RequestService) authorizeAssignee(ctx context.Context, requestID, callerID int) error {
	r, err := s.Requests.Get(ctx, requestID)
	if err != nil {
		return fmt.Errorf("failed to load request: %w", err)
	}
	if r == nil {
		return ErrNotFound
	}
	if r.VolunteerID == nil || *r.VolunteerID != callerID {
		return ErrUnauthorized
	}
	return nil
}
