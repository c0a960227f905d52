package user

import "time"

// User is keyed by gaming_id, the case-sensitive player identifier entered
// at checkout. visual_gaming_id is a display alias only and is never used
// for lookups.
type User struct {
	ID                 int        `db:"id" json:"id"`
	GamingID           string     `db:"gaming_id" json:"gaming_id"`
	Coins              int64      `db:"coins" json:"coins"`
	ReferredByCode     *string    `db:"referred_by_code" json:"referred_by_code,omitempty"`
	GiftPasswordHash   *string    `db:"gift_password_hash" json:"-"`
	CanSetGiftPassword bool       `db:"can_set_gift_password" json:"can_set_gift_password"`
	IsBanned           bool       `db:"is_banned" json:"is_banned"`
	IsHidden           bool       `db:"is_hidden" json:"is_hidden"`
	VisualGamingID     *string    `db:"visual_gaming_id" json:"visual_gaming_id,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	LastVisitAt        *time.Time `db:"last_visit_at" json:"last_visit_at,omitempty"`
}

type SetGiftPasswordRequest struct {
	GiftPassword string `json:"gift_password" binding:"required,min=4"`
}

type GiftTransferRequest struct {
	ToGamingID   string `json:"to_gaming_id" binding:"required"`
	Amount       int64  `json:"amount" binding:"required"`
	GiftPassword string `json:"gift_password" binding:"required"`
}
