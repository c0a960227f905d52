package paymentlock

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	service Service
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{
		service: NewService(NewRepository(db)),
	}
}

// Acquire reserves a payment amount for checkout. Conflicting amounts get
// 409 and the client retries after the holder finishes or times out.
func (h *Handler) Acquire(c *gin.Context) {
	var req AcquireRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "gaming_id, product_id and a positive amount are required"})
		return
	}

	lock, err := h.service.Acquire(c.Request.Context(), req.GamingID, req.ProductID, req.ProductName, req.Amount)
	if err != nil {
		if errors.Is(err, ErrAmountInUse) {
			c.JSON(http.StatusConflict, gin.H{"error": "another payment for the same amount is in progress, please wait"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create payment lock"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"lock_id":    lock.ID,
		"expires_at": lock.ExpiresAt,
	})
}

func (h *Handler) Release(c *gin.Context) {
	lockID := c.Param("lockID")

	if err := h.service.Release(c.Request.Context(), lockID); err != nil {
		if errors.Is(err, ErrLockNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "payment lock not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to release payment lock"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "lock released"})
}

func (h *Handler) Poll(c *gin.Context) {
	lockID := c.Param("lockID")

	isCompleted, err := h.service.PeekStatus(c.Request.Context(), lockID)
	if err != nil {
		if errors.Is(err, ErrLockNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "payment lock not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check payment status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"is_completed": isCompleted})
}
