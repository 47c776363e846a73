package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vishnu6512/Guardian-Grid/internal/models"
)

type RequestRepository struct {
	DB *pgxpool.Pool
}

func NewRequestRepository(db *pgxpool.Pool) *RequestRepository {
	return &RequestRepository{DB: db}
}

const requestColumns = `id, name, email, phone, description, location, lat, lng,
	phone_verified, status, volunteer_id, assigned_at, assignment_note, resolution_note,
	created_at, updated_at`

func scanRequest(row pgx.Row) (*models.AssistanceRequest, error) {
	var req models.AssistanceRequest
	err := row.Scan(&req.ID, &req.Name, &req.Email, &req.Phone, &req.Description,
		&req.Location, &req.Lat, &req.Lng, &req.PhoneVerified, &req.Status,
		&req.VolunteerID, &req.AssignedAt, &req.AssignmentNote, &req.ResolutionNote,
		&req.CreatedAt, &req.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *RequestRepository) Create(ctx context.Context, req *models.AssistanceRequest) error {
	if req.Status == "" {
		req.Status = models.RequestPendingAssignment
	}
	return r.DB.QueryRow(ctx,
		`INSERT INTO assistance_requests(name, email, phone, description, location, lat, lng, phone_verified, status)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)
         RETURNING id, created_at, updated_at`,
		req.Name, req.Email, req.Phone, req.Description, req.Location,
		req.Lat, req.Lng, req.PhoneVerified, req.Status,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
}

func (r *RequestRepository) Get(ctx context.Context, id int) (*models.AssistanceRequest, error) {
	return scanRequest(r.DB.QueryRow(ctx,
		`SELECT `+requestColumns+` FROM assistance_requests WHERE id=$1`, id))
}

// AssignIfPending binds a volunteer to a request in a single guarded
// statement. The status guard and the approved-volunteer subquery execute
// atomically, so concurrent assigns on one request produce exactly one
// success.
func (r *RequestRepository) AssignIfPending(ctx context.Context, requestID, volunteerID int, note string, at time.Time) (bool, error) {
	tag, err := r.DB.Exec(ctx,
		`UPDATE assistance_requests
         SET status=$1, volunteer_id=$2, assigned_at=$3, assignment_note=NULLIF($4, ''), updated_at=CURRENT_TIMESTAMP
         WHERE id=$5 AND status=$6
           AND EXISTS (SELECT 1 FROM volunteers WHERE id=$2 AND status=$7)`,
		models.RequestAssigned, volunteerID, at, note,
		requestID, models.RequestPendingAssignment, models.VolunteerApproved)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Transition is the generic from->to compare-and-set on status
func (r *RequestRepository) Transition(ctx context.Context, id int, from, to string) (bool, error) {
	tag, err := r.DB.Exec(ctx,
		`UPDATE assistance_requests SET status=$1, updated_at=CURRENT_TIMESTAMP
         WHERE id=$2 AND status=$3`,
		to, id, from)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// ResolveIfPending declines a request that never got a volunteer, recording
// the mandatory resolution note
func (r *RequestRepository) ResolveIfPending(ctx context.Context, id int, note string) (bool, error) {
	tag, err := r.DB.Exec(ctx,
		`UPDATE assistance_requests SET status=$1, resolution_note=$2, updated_at=CURRENT_TIMESTAMP
         WHERE id=$3 AND status=$4`,
		models.RequestDeclined, note, id, models.RequestPendingAssignment)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// ListByVolunteer returns a volunteer's assignments, newest first. An empty
// status returns every non-terminal state plus completed work.
func (r *RequestRepository) ListByVolunteer(ctx context.Context, volunteerID int, status string) ([]*models.AssistanceRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM assistance_requests WHERE volunteer_id=$1`
	args := []any{volunteerID}
	if status != "" {
		query += ` AND status=$2`
		args = append(args, status)
	}
	query += ` ORDER BY assigned_at DESC NULLS LAST`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows)
}

// ListAll returns every request, newest first, for the admin dashboard
func (r *RequestRepository) ListAll(ctx context.Context) ([]*models.AssistanceRequest, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+requestColumns+` FROM assistance_requests ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows)
}

// CountByStatus returns request counts keyed by lifecycle status
func (r *RequestRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT status, COUNT(*) FROM assistance_requests GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func collectRequests(rows pgx.Rows) ([]*models.AssistanceRequest, error) {
	var requests []*models.AssistanceRequest
	for rows.Next() {
		var req models.AssistanceRequest
		err := rows.Scan(&req.ID, &req.Name, &req.Email, &req.Phone, &req.Description,
			&req.Location, &req.Lat, &req.Lng, &req.PhoneVerified, &req.Status,
			&req.VolunteerID, &req.AssignedAt, &req.AssignmentNote, &req.ResolutionNote,
			&req.CreatedAt, &req.UpdatedAt)
		if err != nil {
			return nil, err
		}
		requests = append(requests, &req)
	}
	return requests, rows.Err()
}
