package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vishnu6512/Guardian-Grid/internal/models"
)

type VolunteerRepository struct {
	DB *pgxpool.Pool
}

func NewVolunteerRepository(db *pgxpool.Pool) *VolunteerRepository {
	return &VolunteerRepository{DB: db}
}

const volunteerColumns = `id, name, email, phone, password_hash, role, status, location, lat, lng,
	COALESCE(totp_enabled, false), created_at, updated_at`

func scanVolunteer(row pgx.Row) (*models.Volunteer, error) {
	var v models.Volunteer
	err := row.Scan(&v.ID, &v.Name, &v.Email, &v.Phone, &v.PasswordHash,
		&v.Role, &v.Status, &v.Location, &v.Lat, &v.Lng,
		&v.TOTPEnabled, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VolunteerRepository) Create(ctx context.Context, v *models.Volunteer) error {
	if v.Role == "" {
		v.Role = models.RoleVolunteer
	}
	if v.Status == "" {
		v.Status = models.VolunteerPending
	}
	return r.DB.QueryRow(ctx,
		`INSERT INTO volunteers(name, email, phone, password_hash, role, status, location, lat, lng)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)
         RETURNING id, created_at, updated_at`,
		v.Name, v.Email, v.Phone, v.PasswordHash, v.Role, v.Status, v.Location, v.Lat, v.Lng,
	).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
}

func (r *VolunteerRepository) Get(ctx context.Context, id int) (*models.Volunteer, error) {
	return scanVolunteer(r.DB.QueryRow(ctx,
		`SELECT `+volunteerColumns+` FROM volunteers WHERE id=$1`, id))
}

func (r *VolunteerRepository) GetByEmail(ctx context.Context, email string) (*models.Volunteer, error) {
	return scanVolunteer(r.DB.QueryRow(ctx,
		`SELECT `+volunteerColumns+` FROM volunteers WHERE email=$1`, email))
}

// Decide flips a pending application to its terminal decision. The status
// guard makes concurrent decisions race-safe: exactly one wins, the loser
// sees false.
func (r *VolunteerRepository) Decide(ctx context.Context, id int, decision string) (bool, error) {
	tag, err := r.DB.Exec(ctx,
		`UPDATE volunteers SET status=$1, updated_at=CURRENT_TIMESTAMP
         WHERE id=$2 AND status=$3`,
		decision, id, models.VolunteerPending)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *VolunteerRepository) listByStatus(ctx context.Context, status string) ([]*models.Volunteer, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+volunteerColumns+` FROM volunteers WHERE status=$1 AND role=$2 ORDER BY created_at DESC`,
		status, models.RoleVolunteer)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var volunteers []*models.Volunteer
	for rows.Next() {
		var v models.Volunteer
		err := rows.Scan(&v.ID, &v.Name, &v.Email, &v.Phone, &v.PasswordHash,
			&v.Role, &v.Status, &v.Location, &v.Lat, &v.Lng,
			&v.TOTPEnabled, &v.CreatedAt, &v.UpdatedAt)
		if err != nil {
			return nil, err
		}
		volunteers = append(volunteers, &v)
	}
	return volunteers, rows.Err()
}

// ListApproved returns the population eligible for assignment
func (r *VolunteerRepository) ListApproved(ctx context.Context) ([]*models.Volunteer, error) {
	return r.listByStatus(ctx, models.VolunteerApproved)
}

// ListPending returns applications awaiting an admin decision
func (r *VolunteerRepository) ListPending(ctx context.Context) ([]*models.Volunteer, error) {
	return r.listByStatus(ctx, models.VolunteerPending)
}

// CountByStatus returns volunteer counts keyed by approval status
func (r *VolunteerRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT status, COUNT(*) FROM volunteers WHERE role=$1 GROUP BY status`,
		models.RoleVolunteer)
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

// SetTOTPSecret stores the TOTP secret during setup, before verification
func (r *VolunteerRepository) SetTOTPSecret(ctx context.Context, id int, secret string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE volunteers SET totp_secret=$1, updated_at=CURRENT_TIMESTAMP WHERE id=$2`,
		secret, id)
	return err
}

// GetTOTPSecret retrieves the TOTP secret for verification
func (r *VolunteerRepository) GetTOTPSecret(ctx context.Context, id int) (string, error) {
	var secret string
	err := r.DB.QueryRow(ctx,
		`SELECT COALESCE(totp_secret, '') FROM volunteers WHERE id=$1`, id).Scan(&secret)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	return secret, err
}

// SetTOTPEnabled toggles 2FA after the setup code has been verified
func (r *VolunteerRepository) SetTOTPEnabled(ctx context.Context, id int, enabled bool) error {
	if enabled {
		_, err := r.DB.Exec(ctx,
			`UPDATE volunteers SET totp_enabled=TRUE, updated_at=CURRENT_TIMESTAMP WHERE id=$1`, id)
		return err
	}
	_, err := r.DB.Exec(ctx,
		`UPDATE volunteers SET totp_enabled=FALSE, totp_secret=NULL, updated_at=CURRENT_TIMESTAMP WHERE id=$1`, id)
	return err
}
