package paymentlock

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrAmountInUse  = errors.New("another payment for the same amount is in progress")
	ErrLockNotFound = errors.New("payment lock not found")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// Acquire inserts a new active lock for the amount. The partial unique
// index on (amount) WHERE status = 'active' resolves races between
// concurrent acquires; application code never serializes them. Stale
// active locks are expired first so a timed-out checkout never blocks a
// legitimate new one.
func (r *repository) Acquire(ctx context.Context, gamingID, productID, productName string, amount int64) (*Lock, error) {
	expireStale := `
		UPDATE payment_locks
		SET status = 'expired'
		WHERE amount = $1 AND status = 'active' AND expires_at < NOW()
	`
	if _, err := r.db.ExecContext(ctx, expireStale, amount); err != nil {
		return nil, err
	}

	now := time.Now()
	lock := &Lock{
		ID:          uuid.NewString(),
		GamingID:    gamingID,
		ProductID:   productID,
		ProductName: productName,
		Amount:      amount,
		Status:      StatusActive,
		CreatedAt:   now,
		ExpiresAt:   now.Add(LockTTL),
	}

	insert := `
		INSERT INTO payment_locks (id, gaming_id, product_id, product_name, amount, status, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, insert,
		lock.ID, lock.GamingID, lock.ProductID, lock.ProductName,
		lock.Amount, lock.Status, lock.CreatedAt, lock.ExpiresAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAmountInUse
		}
		return nil, err
	}

	return lock, nil
}

// Release marks an active lock expired. Releasing an already released or
// completed lock is a no-op.
func (r *repository) Release(ctx context.Context, lockID string) error {
	query := `
		UPDATE payment_locks
		SET status = 'expired', expires_at = NOW()
		WHERE id = $1 AND status = 'active'
	`

	result, err := r.db.ExecContext(ctx, query, lockID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		if _, err := r.FindByID(ctx, lockID); err != nil {
			return err
		}
	}

	return nil
}

func (r *repository) FindByID(ctx context.Context, lockID string) (*Lock, error) {
	query := `
		SELECT id, gaming_id, product_id, product_name, amount, status, created_at, expires_at
		FROM payment_locks
		WHERE id = $1
	`

	var lock Lock
	err := r.db.GetContext(ctx, &lock, query, lockID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLockNotFound
		}
		return nil, err
	}

	return &lock, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
