package payment

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type SMSLogRepository interface {
	Insert(ctx context.Context, ev *SMSEvidence) (*SMSLog, error)
}

type smsLogRepository struct {
	db *sqlx.DB
}

func NewSMSLogRepository(db *sqlx.DB) SMSLogRepository {
	return &smsLogRepository{db: db}
}

func (r *smsLogRepository) Insert(ctx context.Context, ev *SMSEvidence) (*SMSLog, error) {
	log := &SMSLog{
		ID:     uuid.NewString(),
		Sender: ev.Sender,
		Body:   ev.Body,
	}
	if ev.Reference != "" {
		log.Reference = &ev.Reference
	}
	if ev.Amount > 0 {
		log.Amount = &ev.Amount
	}

	query := `
		INSERT INTO sms_logs (id, sender, body, reference, amount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING received_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		log.ID, log.Sender, log.Body, log.Reference, log.Amount,
	).Scan(&log.ReceivedAt)
	if err != nil {
		return nil, err
	}

	return log, nil
}
