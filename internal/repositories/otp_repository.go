package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vishnu6512/Guardian-Grid/internal/models"
)

type OTPRepository struct {
	DB *pgxpool.Pool
}

func NewOTPRepository(db *pgxpool.Pool) *OTPRepository {
	return &OTPRepository{DB: db}
}

// Upsert writes the live challenge for a phone. A resend replaces the prior
// row entirely, invalidating its code and resetting the attempt counter.
func (r *OTPRepository) Upsert(ctx context.Context, ch *models.OTPChallenge) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO otp_challenges(phone, code, attempts, consumed, issued_at, expires_at)
         VALUES($1, $2, 0, FALSE, $3, $4)
         ON CONFLICT (phone) DO UPDATE
         SET code=EXCLUDED.code, attempts=0, consumed=FALSE,
             issued_at=EXCLUDED.issued_at, expires_at=EXCLUDED.expires_at
         RETURNING id`,
		ch.Phone, ch.Code, ch.IssuedAt, ch.ExpiresAt,
	).Scan(&ch.ID)
}

// GetByPhone returns the live challenge for a phone, or (nil, nil) when none
// exists
func (r *OTPRepository) GetByPhone(ctx context.Context, phone string) (*models.OTPChallenge, error) {
	var ch models.OTPChallenge
	err := r.DB.QueryRow(ctx,
		`SELECT id, phone, code, attempts, consumed, issued_at, expires_at
         FROM otp_challenges WHERE phone=$1`, phone).Scan(
		&ch.ID, &ch.Phone, &ch.Code, &ch.Attempts, &ch.Consumed, &ch.IssuedAt, &ch.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

// IncrementAttempts bumps the counter atomically and returns the new value,
// so concurrent verifications cannot slip past the attempt ceiling
func (r *OTPRepository) IncrementAttempts(ctx context.Context, id int) (int, error) {
	var attempts int
	err := r.DB.QueryRow(ctx,
		`UPDATE otp_challenges SET attempts = attempts + 1 WHERE id=$1 RETURNING attempts`,
		id).Scan(&attempts)
	return attempts, err
}

// Consume marks a challenge used. The guard makes the code single-use: of
// two concurrent verifications only one sees true.
func (r *OTPRepository) Consume(ctx context.Context, id int) (bool, error) {
	tag, err := r.DB.Exec(ctx,
		`UPDATE otp_challenges SET consumed=TRUE WHERE id=$1 AND NOT consumed`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Delete removes an invalidated challenge
func (r *OTPRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM otp_challenges WHERE id=$1`, id)
	return err
}

// CleanupExpired removes stale challenge rows (run as a background job)
func (r *OTPRepository) CleanupExpired(ctx context.Context) error {
	_, err := r.DB.Exec(ctx,
		`DELETE FROM otp_challenges WHERE expires_at < NOW() - INTERVAL '1 day'`)
	return err
}
