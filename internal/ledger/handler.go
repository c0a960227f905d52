package ledger

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	repo *Repository
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{repo: NewRepository(db)}
}

// ListOrders serves GET /admin/orders. Query params: status, gaming_id,
// search, min_amount, max_amount, sort=asc|desc, skip.
func (h *Handler) ListOrders(c *gin.Context) {
	filter := OrderFilter{
		Status:   c.Query("status"),
		GamingID: c.Query("gaming_id"),
		Search:   c.Query("search"),
		SortAsc:  c.Query("sort") == "asc",
		Skip:     parseSkip(c.Query("skip")),
	}
	if v, ok := parseAmount(c.Query("min_amount")); ok {
		filter.MinAmount = &v
	}
	if v, ok := parseAmount(c.Query("max_amount")); ok {
		filter.MaxAmount = &v
	}

	page, err := h.repo.ListOrders(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list orders"})
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *Handler) ListSessions(c *gin.Context) {
	filter := LockFilter{
		Status:   c.Query("status"),
		GamingID: c.Query("gaming_id"),
		Search:   c.Query("search"),
		SortAsc:  c.Query("sort") == "asc",
		Skip:     parseSkip(c.Query("skip")),
	}

	page, err := h.repo.ListLocks(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list payment sessions"})
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *Handler) ListSMSLogs(c *gin.Context) {
	page, err := h.repo.ListSMSLogs(c.Request.Context(), parseSkip(c.Query("skip")))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list sms logs"})
		return
	}

	c.JSON(http.StatusOK, page)
}

func parseSkip(raw string) int {
	skip, err := strconv.Atoi(raw)
	if err != nil || skip < 0 {
		return 0
	}
	return skip
}

func parseAmount(raw string) (int64, bool) {
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
