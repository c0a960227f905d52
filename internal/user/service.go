package user

import (
	"context"
	"errors"

	"coinpay/internal/auth"
)

var (
	ErrGiftPasswordNotSet = errors.New("gift password not set")
	ErrWrongGiftPassword  = errors.New("wrong gift password")
	ErrUserBanned         = errors.New("user is banned")
	ErrInvalidAmount      = errors.New("amount must be positive")
)

type Service interface {
	Visit(ctx context.Context, gamingID string) (*User, error)
	SetReferral(ctx context.Context, gamingID, code string) error
	SetGiftPassword(ctx context.Context, gamingID, password string) error
	GiftTransfer(ctx context.Context, fromGamingID, toGamingID, giftPassword string, amount int64) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Visit creates the user on first sight and stamps the visit time.
func (s *service) Visit(ctx context.Context, gamingID string) (*User, error) {
	u, err := s.repo.GetOrCreate(ctx, gamingID)
	if err != nil {
		return nil, err
	}
	if u.IsBanned {
		return nil, ErrUserBanned
	}
	if err := s.repo.RecordVisit(ctx, gamingID); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) SetReferral(ctx context.Context, gamingID, code string) error {
	return s.repo.SetReferralCode(ctx, gamingID, code)
}

func (s *service) SetGiftPassword(ctx context.Context, gamingID, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return s.repo.SetGiftPassword(ctx, gamingID, hash)
}

func (s *service) GiftTransfer(ctx context.Context, fromGamingID, toGamingID, giftPassword string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	sender, err := s.repo.FindByGamingID(ctx, fromGamingID)
	if err != nil {
		return err
	}
	if sender.IsBanned {
		return ErrUserBanned
	}
	if sender.GiftPasswordHash == nil {
		return ErrGiftPasswordNotSet
	}
	if !auth.CheckPassword(*sender.GiftPasswordHash, giftPassword) {
		return ErrWrongGiftPassword
	}

	recipient, err := s.repo.GetOrCreate(ctx, toGamingID)
	if err != nil {
		return err
	}
	if recipient.IsBanned {
		return ErrUserBanned
	}

	return s.repo.TransferCoins(ctx, fromGamingID, toGamingID, amount)
}
