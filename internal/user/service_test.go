package user

import (
	"context"
	"testing"

	"coinpay/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserRepo struct{ mock.Mock }

func (m *MockUserRepo) GetOrCreate(ctx context.Context, gamingID string) (*User, error) {
	args := m.Called(ctx, gamingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepo) FindByGamingID(ctx context.Context, gamingID string) (*User, error) {
	args := m.Called(ctx, gamingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepo) SetReferralCode(ctx context.Context, gamingID, code string) error {
	return m.Called(ctx, gamingID, code).Error(0)
}

func (m *MockUserRepo) AdjustCoins(ctx context.Context, gamingID string, delta int64) (int64, error) {
	args := m.Called(ctx, gamingID, delta)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepo) SetGiftPassword(ctx context.Context, gamingID, passwordHash string) error {
	return m.Called(ctx, gamingID, passwordHash).Error(0)
}

func (m *MockUserRepo) TransferCoins(ctx context.Context, fromGamingID, toGamingID string, amount int64) error {
	return m.Called(ctx, fromGamingID, toGamingID, amount).Error(0)
}

func (m *MockUserRepo) SetBanned(ctx context.Context, gamingID string, banned bool) error {
	return m.Called(ctx, gamingID, banned).Error(0)
}

func (m *MockUserRepo) SetHidden(ctx context.Context, gamingID string, hidden bool) error {
	return m.Called(ctx, gamingID, hidden).Error(0)
}

func (m *MockUserRepo) RecordVisit(ctx context.Context, gamingID string) error {
	return m.Called(ctx, gamingID).Error(0)
}

func TestVisit_BannedUserRejected(t *testing.T) {
	repo := new(MockUserRepo)
	svc := NewService(repo)

	repo.On("GetOrCreate", mock.Anything, "U1").Return(&User{GamingID: "U1", IsBanned: true}, nil)

	_, err := svc.Visit(context.Background(), "U1")
	assert.ErrorIs(t, err, ErrUserBanned)
	repo.AssertNotCalled(t, "RecordVisit", mock.Anything, mock.Anything)
}

func TestVisit_StampsVisit(t *testing.T) {
	repo := new(MockUserRepo)
	svc := NewService(repo)

	repo.On("GetOrCreate", mock.Anything, "U1").Return(&User{GamingID: "U1"}, nil)
	repo.On("RecordVisit", mock.Anything, "U1").Return(nil)

	u, err := svc.Visit(context.Background(), "U1")
	require.NoError(t, err)
	assert.Equal(t, "U1", u.GamingID)
	repo.AssertExpectations(t)
}

func TestGiftTransfer_WrongPassword(t *testing.T) {
	repo := new(MockUserRepo)
	svc := NewService(repo)

	hash, err := auth.HashPassword("right-password")
	require.NoError(t, err)

	repo.On("FindByGamingID", mock.Anything, "U1").
		Return(&User{GamingID: "U1", Coins: 100, GiftPasswordHash: &hash}, nil)

	err = svc.GiftTransfer(context.Background(), "U1", "U2", "wrong-password", 10)
	assert.ErrorIs(t, err, ErrWrongGiftPassword)
	repo.AssertNotCalled(t, "TransferCoins", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGiftTransfer_NoPasswordSet(t *testing.T) {
	repo := new(MockUserRepo)
	svc := NewService(repo)

	repo.On("FindByGamingID", mock.Anything, "U1").
		Return(&User{GamingID: "U1", Coins: 100}, nil)

	err := svc.GiftTransfer(context.Background(), "U1", "U2", "any", 10)
	assert.ErrorIs(t, err, ErrGiftPasswordNotSet)
}

func TestGiftTransfer_Success(t *testing.T) {
	repo := new(MockUserRepo)
	svc := NewService(repo)

	hash, err := auth.HashPassword("gift-pass")
	require.NoError(t, err)

	repo.On("FindByGamingID", mock.Anything, "U1").
		Return(&User{GamingID: "U1", Coins: 100, GiftPasswordHash: &hash}, nil)
	repo.On("GetOrCreate", mock.Anything, "U2").Return(&User{GamingID: "U2"}, nil)
	repo.On("TransferCoins", mock.Anything, "U1", "U2", int64(40)).Return(nil)

	err = svc.GiftTransfer(context.Background(), "U1", "U2", "gift-pass", 40)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestGiftTransfer_NonPositiveAmount(t *testing.T) {
	svc := NewService(new(MockUserRepo))

	err := svc.GiftTransfer(context.Background(), "U1", "U2", "pass", 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}
