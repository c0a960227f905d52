package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	repo    Repository
	service Service
}

func NewHandler(db *sqlx.DB) *Handler {
	repo := NewRepository(db)
	return &Handler{
		repo:    repo,
		service: NewService(repo),
	}
}

// Visit registers or refreshes the caller's profile by gaming id.
func (h *Handler) Visit(c *gin.Context) {
	gamingID := c.Param("gamingID")
	if gamingID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "gaming id required"})
		return
	}

	u, err := h.service.Visit(c.Request.Context(), gamingID)
	if err != nil {
		if errors.Is(err, ErrUserBanned) {
			c.JSON(http.StatusForbidden, gin.H{"error": "account is blocked"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
		return
	}

	c.JSON(http.StatusOK, u)
}

type SetReferralRequest struct {
	Code string `json:"code" binding:"required"`
}

func (h *Handler) SetReferral(c *gin.Context) {
	gamingID := c.Param("gamingID")

	var req SetReferralRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.SetReferral(c.Request.Context(), gamingID, req.Code); err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, ErrReferralAlreadySet):
			c.JSON(http.StatusConflict, gin.H{"error": "referral code already set"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to set referral code"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "referral code saved"})
}

func (h *Handler) SetGiftPassword(c *gin.Context) {
	gamingID := c.Param("gamingID")

	var req SetGiftPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.SetGiftPassword(c.Request.Context(), gamingID, req.GiftPassword); err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, ErrGiftPasswordLocked):
			c.JSON(http.StatusConflict, gin.H{"error": "gift password can no longer be changed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to set gift password"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "gift password saved"})
}

func (h *Handler) GiftTransfer(c *gin.Context) {
	gamingID := c.Param("gamingID")

	var req GiftTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		return
	}

	err := h.service.GiftTransfer(c.Request.Context(), gamingID, req.ToGamingID, req.GiftPassword, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, ErrWrongGiftPassword), errors.Is(err, ErrGiftPasswordNotSet):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "gift password check failed"})
		case errors.Is(err, ErrInsufficientCoins):
			c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient coins"})
		case errors.Is(err, ErrUserBanned):
			c.JSON(http.StatusForbidden, gin.H{"error": "account is blocked"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to transfer coins"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "coins transferred"})
}

type SetFlagRequest struct {
	Value bool `json:"value"`
}

func (h *Handler) SetBanned(c *gin.Context) {
	h.setFlag(c, func(ctx *gin.Context, gamingID string, v bool) error {
		return h.repo.SetBanned(ctx.Request.Context(), gamingID, v)
	})
}

func (h *Handler) SetHidden(c *gin.Context) {
	h.setFlag(c, func(ctx *gin.Context, gamingID string, v bool) error {
		return h.repo.SetHidden(ctx.Request.Context(), gamingID, v)
	})
}

func (h *Handler) setFlag(c *gin.Context, set func(*gin.Context, string, bool) error) {
	gamingID := c.Param("gamingID")

	var req SetFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := set(c, gamingID, req.Value); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "user updated"})
}
