package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vishnu6512/Guardian-Grid/internal/models"
)

type SMSLogRepository struct {
	DB *pgxpool.Pool
}

func NewSMSLogRepository(db *pgxpool.Pool) *SMSLogRepository {
	return &SMSLogRepository{DB: db}
}

// Create inserts an SMS log record
func (r *SMSLogRepository) Create(ctx context.Context, entry *models.SMSLog) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO sms_logs(phone, message_type, message, status, error_message)
         VALUES($1, $2, $3, $4, NULLIF($5, ''))
         RETURNING id, created_at`,
		entry.Phone, entry.MessageType, entry.Message, entry.Status, entry.ErrorMessage,
	).Scan(&entry.ID, &entry.CreatedAt)
}

// List returns recent SMS logs for the admin view
func (r *SMSLogRepository) List(ctx context.Context, limit int) ([]*models.SMSLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 200
	}
	rows, err := r.DB.Query(ctx,
		`SELECT id, phone, message_type, message, status, COALESCE(error_message, ''), created_at
         FROM sms_logs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.SMSLog
	for rows.Next() {
		var entry models.SMSLog
		err := rows.Scan(&entry.ID, &entry.Phone, &entry.MessageType, &entry.Message,
			&entry.Status, &entry.ErrorMessage, &entry.CreatedAt)
		if err != nil {
			return nil, err
		}
		logs = append(logs, &entry)
	}
	return logs, rows.Err()
}
