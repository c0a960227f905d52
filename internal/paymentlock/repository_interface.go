package paymentlock

import "context"

type Repository interface {
	Acquire(ctx context.Context, gamingID, productID, productName string, amount int64) (*Lock, error)
	Release(ctx context.Context, lockID string) error
	FindByID(ctx context.Context, lockID string) (*Lock, error)
}
