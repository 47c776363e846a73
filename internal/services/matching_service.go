package services

import (
	"context"
	"fmt"

	"github.com/vishnu6512/Guardian-Grid/internal/geo"
)

// MatchingService is a stateless read-then-act orchestration: it ranks the
// approved volunteer population around a request and delegates the actual
// assignment to the request lifecycle, whose guarded transition is the
// authoritative safety net if anything changed between listing and
// confirmation.
type MatchingService struct {
	Requests RequestStore
	Registry VolunteerStore
	Ranker   *geo.Ranker
}

func NewMatchingService(requests RequestStore, registry VolunteerStore, ranker *geo.Ranker) *MatchingService {
	return &MatchingService{Requests: requests, Registry: registry, Ranker: ranker}
}

// FindCandidates returns approved volunteers ranked by proximity to the
// request. Volunteers without coordinates are excluded. An empty list is a
// valid result ("no nearby volunteers"), not an error.
func (s *MatchingService) FindCandidates(ctx context.Context, requestID int) ([]geo.RankedVolunteer, error) {
	r, err := s.Requests.Get(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to load request: %w", err)
	}
	if r == nil {
		return nil, ErrNotFound
	}
	if r.Lat == nil || r.Lng == nil {
		return nil, &ValidationError{Field: "location", Msg: "request has no coordinates"}
	}

	approved, err := s.Registry.ListApproved(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved volunteers: %w", err)
	}

	return s.Ranker.Rank(ctx, geo.Location{Lat: *r.Lat, Lng: *r.Lng}, approved)
}
