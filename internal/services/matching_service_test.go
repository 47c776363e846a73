package services

import (
	"context"
	"errors"
	"testing"

	"github.com/vishnu6512/Guardian-Grid/internal/geo"
	"github.com/vishnu6512/Guardian-Grid/internal/models"
)

func ptr(f float64) *float64 { return &f }

func newTestMatchingService() (*MatchingService, *memRequestStore, *memVolunteerStore) {
	volunteers := newMemVolunteerStore()
	requests := newMemRequestStore(volunteers)
	svc := NewMatchingService(requests, volunteers, geo.NewRanker(geo.HaversineProvider{}))
	return svc, requests, volunteers
}

func addVolunteerAt(t *testing.T, store *memVolunteerStore, email, status string, lat, lng *float64) *models.Volunteer {
	t.Helper()
	v := &models.Volunteer{
		Name:   email,
		Email:  email,
		Role:   models.RoleVolunteer,
		Status: status,
		Lat:    lat,
		Lng:    lng,
	}
	if err := store.Create(context.Background(), v); err != nil {
		t.Fatal(err)
	}
	return v
}

func TestFindCandidatesRanksByDistance(t *testing.T) {
	svc, requests, volunteers := newTestMatchingService()
	ctx := context.Background()

	// Request in central Kochi
	r := &models.AssistanceRequest{
		Name: "Caller", Phone: "+919123456780",
		Description: "d", Location: "Kochi",
		Lat: ptr(9.9312), Lng: ptr(76.2673),
		Status: models.RequestPendingAssignment,
	}
	requests.Create(ctx, r)

	far := addVolunteerAt(t, volunteers, "thrissur@example.com", models.VolunteerApproved, ptr(10.5276), ptr(76.2144))
	near := addVolunteerAt(t, volunteers, "ernakulam@example.com", models.VolunteerApproved, ptr(9.9816), ptr(76.2999))
	mid := addVolunteerAt(t, volunteers, "aluva@example.com", models.VolunteerApproved, ptr(10.1004), ptr(76.3570))

	ranked, err := svc.FindCandidates(ctx, r.ID)
	if err != nil {
		t.Fatalf("find candidates: %v", err)
	}
	if len(ranked) != 3 {
		t.Fatalf("candidates = %d, want 3", len(ranked))
	}
	wantOrder := []int{near.ID, mid.ID, far.ID}
	for i, want := range wantOrder {
		if ranked[i].Volunteer.ID != want {
			t.Errorf("rank %d = volunteer %d, want %d", i, ranked[i].Volunteer.ID, want)
		}
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].DistanceKm < ranked[i-1].DistanceKm {
			t.Errorf("ranking not ascending at position %d", i)
		}
	}
}

func TestFindCandidatesFiltersPopulation(t *testing.T) {
	svc, requests, volunteers := newTestMatchingService()
	ctx := context.Background()

	r := &models.AssistanceRequest{
		Name: "Caller", Phone: "+919123456780",
		Description: "d", Location: "Kochi",
		Lat: ptr(9.9312), Lng: ptr(76.2673),
		Status: models.RequestPendingAssignment,
	}
	requests.Create(ctx, r)

	eligible := addVolunteerAt(t, volunteers, "ok@example.com", models.VolunteerApproved, ptr(9.95), ptr(76.27))
	addVolunteerAt(t, volunteers, "pending@example.com", models.VolunteerPending, ptr(9.94), ptr(76.27))
	addVolunteerAt(t, volunteers, "declined@example.com", models.VolunteerDeclined, ptr(9.93), ptr(76.27))
	// Approved but never shared coordinates: excluded, not sorted last
	addVolunteerAt(t, volunteers, "nocoords@example.com", models.VolunteerApproved, nil, nil)

	ranked, err := svc.FindCandidates(ctx, r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(ranked) != 1 || ranked[0].Volunteer.ID != eligible.ID {
		t.Fatalf("ranked = %v, want only the approved located volunteer", ranked)
	}
}

func TestFindCandidatesEmptyIsNotError(t *testing.T) {
	svc, requests, _ := newTestMatchingService()
	ctx := context.Background()

	r := &models.AssistanceRequest{
		Name: "Caller", Phone: "+919123456780",
		Description: "d", Location: "Kochi",
		Lat: ptr(9.9312), Lng: ptr(76.2673),
		Status: models.RequestPendingAssignment,
	}
	requests.Create(ctx, r)

	ranked, err := svc.FindCandidates(ctx, r.ID)
	if err != nil {
		t.Fatalf("empty population: %v", err)
	}
	if ranked == nil || len(ranked) != 0 {
		t.Fatalf("ranked = %v, want empty slice", ranked)
	}
}

func TestFindCandidatesRequestGuards(t *testing.T) {
	svc, requests, _ := newTestMatchingService()
	ctx := context.Background()

	if _, err := svc.FindCandidates(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown request error = %v, want ErrNotFound", err)
	}

	// A request submitted without coordinates cannot be matched by proximity
	r := &models.AssistanceRequest{
		Name: "Caller", Phone: "+919123456780",
		Description: "d", Location: "somewhere",
		Status: models.RequestPendingAssignment,
	}
	requests.Create(ctx, r)

	_, err := svc.FindCandidates(ctx, r.ID)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("no-coords error = %v, want ValidationError", err)
	}
}
