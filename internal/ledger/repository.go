package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"coinpay/internal/payment"
	"coinpay/internal/paymentlock"
	"coinpay/internal/reconcile"
)

// Repository reads the durable payment records for the admin console. It
// never writes; every mutation path lives in its owning package.
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

const orderColumns = `id, gaming_id, product_id, product_name, product_price,
	product_image_url, payment_method, status, external_reference, referral_code,
	coins_used, final_price, is_coin_product, coins_at_time_of_purchase,
	is_purchase_tracked, created_at`

func (r *Repository) ListOrders(ctx context.Context, filter OrderFilter) (*OrderPage, error) {
	where, args := buildOrderWhere(filter)

	var total int
	countQuery := "SELECT COUNT(*) FROM orders" + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}

	direction := "DESC"
	if filter.SortAsc {
		direction = "ASC"
	}

	query := "SELECT " + orderColumns + " FROM orders" + where +
		" ORDER BY created_at " + direction +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, orderPageSize, filter.Skip)

	orders := []reconcile.Order{}
	if err := r.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	return &OrderPage{
		Orders:  orders,
		Total:   total,
		HasMore: filter.Skip+len(orders) < total,
	}, nil
}

func buildOrderWhere(filter OrderFilter) (string, []interface{}) {
	conditions := []string{}
	args := []interface{}{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.GamingID != "" {
		args = append(args, filter.GamingID)
		conditions = append(conditions, fmt.Sprintf("gaming_id = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conditions = append(conditions, fmt.Sprintf("(gaming_id ILIKE $%d OR product_name ILIKE $%d)", len(args), len(args)))
	}
	if filter.MinAmount != nil {
		args = append(args, *filter.MinAmount)
		conditions = append(conditions, fmt.Sprintf("final_price >= $%d", len(args)))
	}
	if filter.MaxAmount != nil {
		args = append(args, *filter.MaxAmount)
		conditions = append(conditions, fmt.Sprintf("final_price <= $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (r *Repository) ListLocks(ctx context.Context, filter LockFilter) (*LockPage, error) {
	conditions := []string{}
	args := []interface{}{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.GamingID != "" {
		args = append(args, filter.GamingID)
		conditions = append(conditions, fmt.Sprintf("gaming_id = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conditions = append(conditions, fmt.Sprintf("(gaming_id ILIKE $%d OR product_name ILIKE $%d)", len(args), len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM payment_locks"+where, args...); err != nil {
		return nil, fmt.Errorf("count sessions: %w", err)
	}

	direction := "DESC"
	if filter.SortAsc {
		direction = "ASC"
	}

	query := `SELECT id, gaming_id, product_id, product_name, amount, status, created_at, expires_at
		FROM payment_locks` + where +
		" ORDER BY created_at " + direction +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, orderPageSize, filter.Skip)

	locks := []paymentlock.Lock{}
	if err := r.db.SelectContext(ctx, &locks, query, args...); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	return &LockPage{
		Locks:   locks,
		Total:   total,
		HasMore: filter.Skip+len(locks) < total,
	}, nil
}

func (r *Repository) ListSMSLogs(ctx context.Context, skip int) (*SMSLogPage, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM sms_logs`); err != nil {
		return nil, fmt.Errorf("count sms logs: %w", err)
	}

	logs := []payment.SMSLog{}
	err := r.db.SelectContext(ctx, &logs, `
		SELECT id, sender, body, reference, amount, received_at
		FROM sms_logs
		ORDER BY received_at DESC
		LIMIT $1 OFFSET $2
	`, smsLogPageSize, skip)
	if err != nil {
		return nil, fmt.Errorf("list sms logs: %w", err)
	}

	return &SMSLogPage{
		Logs:    logs,
		Total:   total,
		HasMore: skip+len(logs) < total,
	}, nil
}
