package services

import (
	"context"
	"errors"
	"testing"

	"github.com/vishnu6512/Guardian-Grid/internal/models"
)

func newTestVolunteerService() (*VolunteerService, *memVolunteerStore) {
	store := newMemVolunteerStore()
	return NewVolunteerService(store, testJWTManager()), store
}

func registerVolunteer(t *testing.T, svc *VolunteerService, email string) *models.Volunteer {
	t.Helper()
	v, err := svc.Register(context.Background(), &models.RegisterRequest{
		Name:     "Test Volunteer",
		Email:    email,
		Phone:    "9876543210",
		Password: "secret123",
		Location: "Kochi",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return v
}

func TestRegisterDefaults(t *testing.T) {
	svc, _ := newTestVolunteerService()
	v := registerVolunteer(t, svc, "a@example.com")

	if v.Status != models.VolunteerPending {
		t.Errorf("status = %q, want %q", v.Status, models.VolunteerPending)
	}
	if v.Role != models.RoleVolunteer {
		t.Errorf("role = %q, want %q", v.Role, models.RoleVolunteer)
	}
	if v.Phone != "+919876543210" {
		t.Errorf("phone = %q, want normalized E.164", v.Phone)
	}
	if v.PasswordHash == "" || v.PasswordHash == "secret123" {
		t.Error("password was not hashed")
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestVolunteerService()
	ctx := context.Background()

	cases := []models.RegisterRequest{
		{Email: "a@example.com", Phone: "9876543210", Password: "x"},     // no name
		{Name: "A", Phone: "9876543210", Password: "x"},                  // no email
		{Name: "A", Email: "a@example.com", Phone: "9876543210"},         // no password
		{Name: "A", Email: "a@example.com", Phone: "12", Password: "x"},  // bad phone
	}
	for i, req := range cases {
		_, err := svc.Register(ctx, &req)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("case %d: error = %v, want ValidationError", i, err)
		}
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestVolunteerService()
	registerVolunteer(t, svc, "dup@example.com")

	_, err := svc.Register(context.Background(), &models.RegisterRequest{
		Name:     "Second",
		Email:    "dup@example.com",
		Phone:    "9876543211",
		Password: "other",
	})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("error = %v, want ErrDuplicateEmail", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newTestVolunteerService()
	registerVolunteer(t, svc, "login@example.com")
	ctx := context.Background()

	v, err := svc.Login(ctx, &models.LoginRequest{Email: "login@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	resp, err := svc.IssueAuth(v)
	if err != nil {
		t.Fatalf("issue auth: %v", err)
	}
	if resp.Token == "" {
		t.Error("no session token issued")
	}

	if _, err := svc.Login(ctx, &models.LoginRequest{Email: "login@example.com", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(ctx, &models.LoginRequest{Email: "nobody@example.com", Password: "secret123"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email error = %v, want ErrInvalidCredentials", err)
	}
}

func TestApproveIsTerminal(t *testing.T) {
	svc, store := newTestVolunteerService()
	v := registerVolunteer(t, svc, "approve@example.com")
	ctx := context.Background()

	if err := svc.Approve(ctx, v.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	got, _ := store.Get(ctx, v.ID)
	if got.Status != models.VolunteerApproved {
		t.Fatalf("status = %q, want approved", got.Status)
	}

	// Second decision of either kind is rejected
	if err := svc.Approve(ctx, v.ID); !errors.Is(err, ErrAlreadyDecided) {
		t.Errorf("re-approve error = %v, want ErrAlreadyDecided", err)
	}
	if err := svc.Decline(ctx, v.ID); !errors.Is(err, ErrAlreadyDecided) {
		t.Errorf("decline-after-approve error = %v, want ErrAlreadyDecided", err)
	}
}

func TestDeclineIsTerminal(t *testing.T) {
	svc, store := newTestVolunteerService()
	v := registerVolunteer(t, svc, "decline@example.com")
	ctx := context.Background()

	if err := svc.Decline(ctx, v.ID); err != nil {
		t.Fatalf("decline: %v", err)
	}
	got, _ := store.Get(ctx, v.ID)
	if got.Status != models.VolunteerDeclined {
		t.Fatalf("status = %q, want declined", got.Status)
	}

	if err := svc.Approve(ctx, v.ID); !errors.Is(err, ErrAlreadyDecided) {
		t.Errorf("approve-after-decline error = %v, want ErrAlreadyDecided", err)
	}
}

func TestDecideUnknownVolunteer(t *testing.T) {
	svc, _ := newTestVolunteerService()
	if err := svc.Approve(context.Background(), 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestStatus(t *testing.T) {
	svc, _ := newTestVolunteerService()
	v := registerVolunteer(t, svc, "status@example.com")
	ctx := context.Background()

	resp, err := svc.Status(ctx, v.ID)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if resp.Status != models.VolunteerPending {
		t.Errorf("status = %q, want pending", resp.Status)
	}

	if _, err := svc.Status(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown id error = %v, want ErrNotFound", err)
	}
}

func TestListApprovedExcludesUndecided(t *testing.T) {
	svc, _ := newTestVolunteerService()
	ctx := context.Background()

	a := registerVolunteer(t, svc, "one@example.com")
	registerVolunteer(t, svc, "two@example.com")
	c := registerVolunteer(t, svc, "three@example.com")

	svc.Approve(ctx, a.ID)
	svc.Decline(ctx, c.ID)

	approved, err := svc.ListApproved(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(approved) != 1 || approved[0].ID != a.ID {
		t.Fatalf("approved = %v, want only volunteer %d", approved, a.ID)
	}
}
