package services

import (
	"context"
	"sync"
	"time"

	"github.com/vishnu6512/Guardian-Grid/internal/models"
	"github.com/vishnu6512/Guardian-Grid/internal/sms"
)

// In-memory stores mirroring the guarded-update semantics of the Postgres
// repositories, so the services can be exercised without a database.

type memOTPStore struct {
	mu     sync.Mutex
	nextID int
	byID   map[int]*models.OTPChallenge
}

func newMemOTPStore() *memOTPStore {
	return &memOTPStore{byID: make(map[int]*models.OTPChallenge)}
}

func (s *memOTPStore) Upsert(_ context.Context, ch *models.OTPChallenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, existing := range s.byID {
		if existing.Phone == ch.Phone {
			ch.ID = id
			ch.Attempts = 0
			ch.Consumed = false
			cp := *ch
			s.byID[id] = &cp
			return nil
		}
	}
	s.nextID++
	ch.ID = s.nextID
	cp := *ch
	s.byID[ch.ID] = &cp
	return nil
}

func (s *memOTPStore) GetByPhone(_ context.Context, phone string) (*models.OTPChallenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.byID {
		if ch.Phone == phone {
			cp := *ch
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memOTPStore) IncrementAttempts(_ context.Context, id int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.byID[id]
	if !ok {
		return 0, nil
	}
	ch.Attempts++
	return ch.Attempts, nil
}

func (s *memOTPStore) Consume(_ context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.byID[id]
	if !ok || ch.Consumed {
		return false, nil
	}
	ch.Consumed = true
	return true, nil
}

func (s *memOTPStore) Delete(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, id)
	return nil
}

type memVolunteerStore struct {
	mu     sync.Mutex
	nextID int
	byID   map[int]*models.Volunteer
	totp   map[int]string
}

func newMemVolunteerStore() *memVolunteerStore {
	return &memVolunteerStore{
		byID: make(map[int]*models.Volunteer),
		totp: make(map[int]string),
	}
}

func (s *memVolunteerStore) Create(_ context.Context, v *models.Volunteer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	v.ID = s.nextID
	v.CreatedAt = time.Now()
	v.UpdatedAt = v.CreatedAt
	cp := *v
	s.byID[v.ID] = &cp
	return nil
}

func (s *memVolunteerStore) Get(_ context.Context, id int) (*models.Volunteer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (s *memVolunteerStore) GetByEmail(_ context.Context, email string) (*models.Volunteer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.byID {
		if v.Email == email {
			cp := *v
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memVolunteerStore) Decide(_ context.Context, id int, decision string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.byID[id]
	if !ok || v.Status != models.VolunteerPending {
		return false, nil
	}
	v.Status = decision
	return true, nil
}

func (s *memVolunteerStore) listByStatus(status string) []*models.Volunteer {
	var out []*models.Volunteer
	for id := 1; id <= s.nextID; id++ {
		v, ok := s.byID[id]
		if ok && v.Status == status && v.Role == models.RoleVolunteer {
			cp := *v
			out = append(out, &cp)
		}
	}
	return out
}

func (s *memVolunteerStore) ListApproved(_ context.Context) ([]*models.Volunteer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listByStatus(models.VolunteerApproved), nil
}

func (s *memVolunteerStore) ListPending(_ context.Context) ([]*models.Volunteer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listByStatus(models.VolunteerPending), nil
}

func (s *memVolunteerStore) CountByStatus(_ context.Context) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[string]int)
	for _, v := range s.byID {
		if v.Role == models.RoleVolunteer {
			counts[v.Status]++
		}
	}
	return counts, nil
}

func (s *memVolunteerStore) SetTOTPSecret(_ context.Context, id int, secret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totp[id] = secret
	return nil
}

func (s *memVolunteerStore) GetTOTPSecret(_ context.Context, id int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totp[id], nil
}

func (s *memVolunteerStore) SetTOTPEnabled(_ context.Context, id int, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.byID[id]; ok {
		v.TOTPEnabled = enabled
		if !enabled {
			delete(s.totp, id)
		}
	}
	return nil
}

type memRequestStore struct {
	mu     sync.Mutex
	nextID int
	byID   map[int]*models.AssistanceRequest

	volunteers *memVolunteerStore // for the approved-volunteer guard on assign
}

func newMemRequestStore(volunteers *memVolunteerStore) *memRequestStore {
	return &memRequestStore{
		byID:       make(map[int]*models.AssistanceRequest),
		volunteers: volunteers,
	}
}

func (s *memRequestStore) Create(_ context.Context, r *models.AssistanceRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	r.ID = s.nextID
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	cp := *r
	s.byID[r.ID] = &cp
	return nil
}

func (s *memRequestStore) Get(_ context.Context, id int) (*models.AssistanceRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (s *memRequestStore) AssignIfPending(_ context.Context, requestID, volunteerID int, note string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[requestID]
	if !ok || r.Status != models.RequestPendingAssignment {
		return false, nil
	}
	s.volunteers.mu.Lock()
	v, vok := s.volunteers.byID[volunteerID]
	approved := vok && v.Status == models.VolunteerApproved
	s.volunteers.mu.Unlock()
	if !approved {
		return false, nil
	}
	r.Status = models.RequestAssigned
	r.VolunteerID = &volunteerID
	r.AssignedAt = &at
	if note != "" {
		r.AssignmentNote = &note
	}
	return true, nil
}

func (s *memRequestStore) Transition(_ context.Context, id int, from, to string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[id]
	if !ok || r.Status != from {
		return false, nil
	}
	r.Status = to
	return true, nil
}

func (s *memRequestStore) ResolveIfPending(_ context.Context, id int, note string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[id]
	if !ok || r.Status != models.RequestPendingAssignment {
		return false, nil
	}
	r.Status = models.RequestDeclined
	r.ResolutionNote = &note
	return true, nil
}

func (s *memRequestStore) ListByVolunteer(_ context.Context, volunteerID int, status string) ([]*models.AssistanceRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.AssistanceRequest
	for id := 1; id <= s.nextID; id++ {
		r, ok := s.byID[id]
		if !ok || r.VolunteerID == nil || *r.VolunteerID != volunteerID {
			continue
		}
		if status != "" && r.Status != status {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func (s *memRequestStore) ListAll(_ context.Context) ([]*models.AssistanceRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.AssistanceRequest
	for id := 1; id <= s.nextID; id++ {
		if r, ok := s.byID[id]; ok {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *memRequestStore) CountByStatus(_ context.Context) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[string]int)
	for _, r := range s.byID {
		counts[r.Status]++
	}
	return counts, nil
}

// recordingSMS captures the codes handed to the SMS layer
type recordingSMS struct {
	mu    sync.Mutex
	codes map[string]string // phone -> last code
}

func newRecordingSMS() *recordingSMS {
	return &recordingSMS{codes: make(map[string]string)}
}

func (r *recordingSMS) SendOTP(phone, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes[phone] = code
	return nil
}

func (r *recordingSMS) SetLogRepository(sms.LogRepo) {}

func (r *recordingSMS) lastCode(phone string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.codes[phone]
}
