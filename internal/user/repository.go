package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInsufficientCoins  = errors.New("insufficient coins")
	ErrReferralAlreadySet = errors.New("referral code already set")
	ErrGiftPasswordLocked = errors.New("gift password can no longer be changed")
)

const userColumns = `id, gaming_id, coins, referred_by_code, gift_password_hash,
	can_set_gift_password, is_banned, is_hidden, visual_gaming_id, created_at, last_visit_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetOrCreate(ctx context.Context, gamingID string) (*User, error) {
	u, err := r.FindByGamingID(ctx, gamingID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	query := `
		INSERT INTO users (gaming_id)
		VALUES ($1)
		ON CONFLICT (gaming_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, gamingID); err != nil {
		return nil, err
	}

	return r.FindByGamingID(ctx, gamingID)
}

func (r *repository) FindByGamingID(ctx context.Context, gamingID string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE gaming_id = $1`

	var u User
	err := r.db.GetContext(ctx, &u, query, gamingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &u, nil
}

// SetReferralCode only succeeds while the code is unset; the attribution is
// immutable once written.
func (r *repository) SetReferralCode(ctx context.Context, gamingID, code string) error {
	query := `
		UPDATE users
		SET referred_by_code = $2
		WHERE gaming_id = $1 AND referred_by_code IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, gamingID, code)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		if _, err := r.FindByGamingID(ctx, gamingID); err != nil {
			return err
		}
		return ErrReferralAlreadySet
	}

	return nil
}

// AdjustCoins applies the delta as a single UPDATE so concurrent mutations
// cannot lose updates. The coins_non_negative check rejects overdraw.
func (r *repository) AdjustCoins(ctx context.Context, gamingID string, delta int64) (int64, error) {
	query := `
		UPDATE users
		SET coins = coins + $2
		WHERE gaming_id = $1
		RETURNING coins
	`

	var coins int64
	err := r.db.QueryRowxContext(ctx, query, gamingID, delta).Scan(&coins)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		if isCheckViolation(err) {
			return 0, ErrInsufficientCoins
		}
		return 0, err
	}

	return coins, nil
}

func (r *repository) SetGiftPassword(ctx context.Context, gamingID, passwordHash string) error {
	query := `
		UPDATE users
		SET gift_password_hash = $2, can_set_gift_password = FALSE
		WHERE gaming_id = $1 AND can_set_gift_password = TRUE
	`

	result, err := r.db.ExecContext(ctx, query, gamingID, passwordHash)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		if _, err := r.FindByGamingID(ctx, gamingID); err != nil {
			return err
		}
		return ErrGiftPasswordLocked
	}

	return nil
}

// TransferCoins moves coins between two users in one transaction. Both sides
// are single-statement deltas; the sender's non-negative check makes the
// whole transfer fail on overdraw.
func (r *repository) TransferCoins(ctx context.Context, fromGamingID, toGamingID string, amount int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	debit := `UPDATE users SET coins = coins - $2 WHERE gaming_id = $1`
	result, err := tx.ExecContext(ctx, debit, fromGamingID, amount)
	if err != nil {
		if isCheckViolation(err) {
			return ErrInsufficientCoins
		}
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrUserNotFound
	}

	credit := `UPDATE users SET coins = coins + $2 WHERE gaming_id = $1`
	result, err = tx.ExecContext(ctx, credit, toGamingID, amount)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrUserNotFound
	}

	return tx.Commit()
}

func (r *repository) SetBanned(ctx context.Context, gamingID string, banned bool) error {
	return r.setFlag(ctx, gamingID, "is_banned", banned)
}

func (r *repository) SetHidden(ctx context.Context, gamingID string, hidden bool) error {
	return r.setFlag(ctx, gamingID, "is_hidden", hidden)
}

func (r *repository) setFlag(ctx context.Context, gamingID, column string, value bool) error {
	query := `UPDATE users SET ` + column + ` = $2 WHERE gaming_id = $1`

	result, err := r.db.ExecContext(ctx, query, gamingID, value)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *repository) RecordVisit(ctx context.Context, gamingID string) error {
	query := `UPDATE users SET last_visit_at = NOW() WHERE gaming_id = $1`
	_, err := r.db.ExecContext(ctx, query, gamingID)
	return err
}

func isCheckViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23514"
}
