package services

import (
	"context"
	"fmt"

	"github.com/vishnu6512/Guardian-Grid/internal/cache"
	"github.com/vishnu6512/Guardian-Grid/internal/models"
)

// DashboardService builds the admin aggregate view. It only reads; the
// underlying state is kept consistent by the lifecycle services. Results are
// cached briefly in Redis since the frontend refetches after every mutation.
type DashboardService struct {
	Requests   RequestStore
	Volunteers VolunteerStore
}

func NewDashboardService(requests RequestStore, volunteers VolunteerStore) *DashboardService {
	return &DashboardService{Requests: requests, Volunteers: volunteers}
}

func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	if cached := cache.GetDashboardStats(ctx); cached != nil {
		return cached, nil
	}

	reqCounts, err := s.Requests.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count requests: %w", err)
	}
	volCounts, err := s.Volunteers.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count volunteers: %w", err)
	}
	pendingVols, err := s.Volunteers.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending volunteers: %w", err)
	}
	requests, err := s.Requests.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}

	stats := &models.DashboardStats{
		PendingRequests:    reqCounts[models.RequestPendingAssignment],
		AssignedRequests:   reqCounts[models.RequestAssigned],
		InProgressRequests: reqCounts[models.RequestInProgress],
		CompletedRequests:  reqCounts[models.RequestCompleted],
		DeclinedRequests:   reqCounts[models.RequestDeclined],
		PendingVolunteers:  volCounts[models.VolunteerPending],
		ApprovedVolunteers: volCounts[models.VolunteerApproved],
		VolunteerQueue:     pendingVols,
		Requests:           requests,
	}
	for _, n := range reqCounts {
		stats.TotalRequests += n
	}
	for _, n := range volCounts {
		stats.TotalVolunteers += n
	}

	cache.SetDashboardStats(ctx, stats)
	return stats, nil
}
