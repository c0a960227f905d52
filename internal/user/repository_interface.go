package user

import "context"

type Repository interface {
	GetOrCreate(ctx context.Context, gamingID string) (*User, error)
	FindByGamingID(ctx context.Context, gamingID string) (*User, error)
	SetReferralCode(ctx context.Context, gamingID, code string) error
	AdjustCoins(ctx context.Context, gamingID string, delta int64) (int64, error)
	SetGiftPassword(ctx context.Context, gamingID, passwordHash string) error
	TransferCoins(ctx context.Context, fromGamingID, toGamingID string, amount int64) error
	SetBanned(ctx context.Context, gamingID string, banned bool) error
	SetHidden(ctx context.Context, gamingID string, hidden bool) error
	RecordVisit(ctx context.Context, gamingID string) error
}
