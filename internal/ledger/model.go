package ledger

import (
	"coinpay/internal/payment"
	"coinpay/internal/paymentlock"
	"coinpay/internal/reconcile"
)

const (
	orderPageSize  = 10
	smsLogPageSize = 20
)

// OrderFilter narrows the admin order listing. Zero values mean "no
// constraint"; Search matches gaming_id or product name case-insensitively.
type OrderFilter struct {
	Status    string
	GamingID  string
	Search    string
	MinAmount *int64
	MaxAmount *int64
	SortAsc   bool
	Skip      int
}

type OrderPage struct {
	Orders  []reconcile.Order `json:"orders"`
	Total   int               `json:"total"`
	HasMore bool              `json:"has_more"`
}

type LockFilter struct {
	Status   string
	GamingID string
	Search   string
	SortAsc  bool
	Skip     int
}

type LockPage struct {
	Locks   []paymentlock.Lock `json:"sessions"`
	Total   int                `json:"total"`
	HasMore bool               `json:"has_more"`
}

type SMSLogPage struct {
	Logs    []payment.SMSLog `json:"logs"`
	Total   int              `json:"total"`
	HasMore bool             `json:"has_more"`
}
