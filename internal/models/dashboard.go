package models

// DashboardStats is the admin dashboard aggregate. Read-only view; the
// frontend refetches it after every mutation.
type DashboardStats struct {
	TotalRequests      int `json:"total_requests"`
	PendingRequests    int `json:"pending_requests"`
	AssignedRequests   int `json:"assigned_requests"`
	InProgressRequests int `json:"in_progress_requests"`
	CompletedRequests  int `json:"completed_requests"`
	DeclinedRequests   int `json:"declined_requests"`
	TotalVolunteers    int `json:"total_volunteers"`
	PendingVolunteers  int `json:"pending_volunteers"`
	ApprovedVolunteers int `json:"approved_volunteers"`

	VolunteerQueue []*Volunteer         `json:"volunteer_queue"`
	Requests       []*AssistanceRequest `json:"requests"`
}
