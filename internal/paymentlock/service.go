package paymentlock

import (
	"context"
	"errors"
	"time"

	"coinpay/internal/metrics"
)

var ErrInvalidAmount = errors.New("amount must be positive")

type Service interface {
	Acquire(ctx context.Context, gamingID, productID, productName string, amount int64) (*Lock, error)
	Release(ctx context.Context, lockID string) error
	PeekStatus(ctx context.Context, lockID string) (bool, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Acquire(ctx context.Context, gamingID, productID, productName string, amount int64) (*Lock, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	lock, err := s.repo.Acquire(ctx, gamingID, productID, productName, amount)
	if err != nil {
		if errors.Is(err, ErrAmountInUse) {
			metrics.RecordLockAcquisition("amount_in_use")
		} else {
			metrics.RecordLockAcquisition("error")
		}
		return nil, err
	}

	metrics.RecordLockAcquisition("acquired")
	return lock, nil
}

func (s *service) Release(ctx context.Context, lockID string) error {
	return s.repo.Release(ctx, lockID)
}

// PeekStatus reports whether the payment behind the lock has completed.
// An active lock past its expiry reads as not completed; the client treats
// that as a timeout.
func (s *service) PeekStatus(ctx context.Context, lockID string) (bool, error) {
	lock, err := s.repo.FindByID(ctx, lockID)
	if err != nil {
		return false, err
	}

	if lock.Status == StatusActive && lock.ExpiresAt.Before(time.Now()) {
		return false, nil
	}

	return lock.Status == StatusCompleted, nil
}
