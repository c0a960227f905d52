package paymentlock

import "time"

const (
	StatusActive    = "active"
	StatusExpired   = "expired"
	StatusCompleted = "completed"

	// LockTTL bounds how long a checkout may hold an amount before the
	// webhook either completes it or the lock stops blocking others.
	LockTTL = 90 * time.Second
)

// Lock reserves a payment amount for one in-flight checkout. At most one
// active lock may exist per amount: the amount is the only disambiguator
// the payment-evidence channel can offer, so two concurrent checkouts of
// the same price would be indistinguishable.
type Lock struct {
	ID          string    `db:"id" json:"id"`
	GamingID    string    `db:"gaming_id" json:"gaming_id"`
	ProductID   string    `db:"product_id" json:"product_id"`
	ProductName string    `db:"product_name" json:"product_name"`
	Amount      int64     `db:"amount" json:"amount"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	ExpiresAt   time.Time `db:"expires_at" json:"expires_at"`
}

type AcquireRequest struct {
	GamingID    string `json:"gaming_id" binding:"required"`
	ProductID   string `json:"product_id" binding:"required"`
	ProductName string `json:"product_name"`
	Amount      int64  `json:"amount" binding:"required"`
}
