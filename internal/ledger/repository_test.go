package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) (*Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	return repo, mock, func() { sqlxDB.Close() }
}

func orderRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "gaming_id", "product_id", "product_name", "product_price",
		"product_image_url", "payment_method", "status", "external_reference", "referral_code",
		"coins_used", "final_price", "is_coin_product", "coins_at_time_of_purchase",
		"is_purchase_tracked", "created_at",
	})
}

func TestListOrders_NoFilter(t *testing.T) {
	repo, mock, cleanup := setupRepo(t)
	defer cleanup()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM orders").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	rows := orderRows()
	for i := 0; i < 10; i++ {
		rows.AddRow("id", "U1", "P1", "50 Coins", int64(120),
			"", "UPI", "Completed", "pay_1", nil,
			int64(0), int64(100), true, int64(10), false, time.Now())
	}
	mock.ExpectQuery("SELECT (.+) FROM orders ORDER BY created_at DESC LIMIT \\$1 OFFSET \\$2").
		WithArgs(10, 0).
		WillReturnRows(rows)

	page, err := repo.ListOrders(context.Background(), OrderFilter{})
	require.NoError(t, err)
	assert.Equal(t, 12, page.Total)
	assert.Len(t, page.Orders, 10)
	assert.True(t, page.HasMore)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListOrders_LastPage(t *testing.T) {
	repo, mock, cleanup := setupRepo(t)
	defer cleanup()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM orders").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	rows := orderRows().
		AddRow("id", "U1", "P1", "50 Coins", int64(120),
			"", "UPI", "Completed", "pay_1", nil,
			int64(0), int64(100), true, int64(10), false, time.Now()).
		AddRow("id2", "U2", "P1", "50 Coins", int64(120),
			"", "UPI", "Completed", "pay_2", nil,
			int64(0), int64(100), true, int64(0), false, time.Now())
	mock.ExpectQuery("SELECT (.+) FROM orders ORDER BY created_at DESC LIMIT \\$1 OFFSET \\$2").
		WithArgs(10, 10).
		WillReturnRows(rows)

	page, err := repo.ListOrders(context.Background(), OrderFilter{Skip: 10})
	require.NoError(t, err)
	assert.Len(t, page.Orders, 2)
	assert.False(t, page.HasMore)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListOrders_StatusAndSearch(t *testing.T) {
	repo, mock, cleanup := setupRepo(t)
	defer cleanup()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM orders WHERE status = \\$1 AND \\(gaming_id ILIKE \\$2 OR product_name ILIKE \\$2\\)").
		WithArgs("Processing", "%diamond%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	rows := orderRows().
		AddRow("id", "U1", "P2", "Diamond Pack", int64(1000),
			"", "UPI", "Processing", "pay_3", nil,
			int64(10), int64(990), false, int64(10), false, time.Now())
	mock.ExpectQuery("SELECT (.+) FROM orders WHERE status = \\$1 AND \\(gaming_id ILIKE \\$2 OR product_name ILIKE \\$2\\) ORDER BY created_at ASC LIMIT \\$3 OFFSET \\$4").
		WithArgs("Processing", "%diamond%", 10, 0).
		WillReturnRows(rows)

	page, err := repo.ListOrders(context.Background(), OrderFilter{
		Status:  "Processing",
		Search:  "diamond",
		SortAsc: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	assert.False(t, page.HasMore)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListOrders_AmountRange(t *testing.T) {
	repo, mock, cleanup := setupRepo(t)
	defer cleanup()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM orders WHERE final_price >= \\$1 AND final_price <= \\$2").
		WithArgs(int64(100), int64(1000)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	mock.ExpectQuery("SELECT (.+) FROM orders WHERE final_price >= \\$1 AND final_price <= \\$2 ORDER BY created_at DESC LIMIT \\$3 OFFSET \\$4").
		WithArgs(int64(100), int64(1000), 10, 0).
		WillReturnRows(orderRows())

	min, max := int64(100), int64(1000)
	page, err := repo.ListOrders(context.Background(), OrderFilter{MinAmount: &min, MaxAmount: &max})
	require.NoError(t, err)
	assert.Equal(t, 0, page.Total)
	assert.Empty(t, page.Orders)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListLocks_StatusFilter(t *testing.T) {
	repo, mock, cleanup := setupRepo(t)
	defer cleanup()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM payment_locks WHERE status = \\$1").
		WithArgs("active").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	rows := sqlmock.NewRows([]string{
		"id", "gaming_id", "product_id", "product_name", "amount", "status", "created_at", "expires_at",
	}).AddRow("lock-1", "U1", "P1", "50 Coins", int64(100), "active", time.Now(), time.Now().Add(90*time.Second))
	mock.ExpectQuery("SELECT (.+) FROM payment_locks WHERE status = \\$1 ORDER BY created_at DESC LIMIT \\$2 OFFSET \\$3").
		WithArgs("active", 10, 0).
		WillReturnRows(rows)

	page, err := repo.ListLocks(context.Background(), LockFilter{Status: "active"})
	require.NoError(t, err)
	assert.Len(t, page.Locks, 1)
	assert.False(t, page.HasMore)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListSMSLogs(t *testing.T) {
	repo, mock, cleanup := setupRepo(t)
	defer cleanup()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM sms_logs").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))

	rows := sqlmock.NewRows([]string{"id", "sender", "body", "reference", "amount", "received_at"})
	for i := 0; i < 20; i++ {
		rows.AddRow("sms-1", "HDFCBK", "Rs.100 credited", "REF123456", int64(10000), time.Now())
	}
	mock.ExpectQuery("SELECT (.+) FROM sms_logs ORDER BY received_at DESC LIMIT \\$1 OFFSET \\$2").
		WithArgs(20, 0).
		WillReturnRows(rows)

	page, err := repo.ListSMSLogs(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 25, page.Total)
	assert.Len(t, page.Logs, 20)
	assert.True(t, page.HasMore)
	require.NoError(t, mock.ExpectationsWereMet())
}
