package payment

import (
	"context"
	"errors"
	"io"
	"net/http"

	"coinpay/internal/api"
	"coinpay/internal/logger"
	"coinpay/internal/metrics"

	"github.com/gin-gonic/gin"
)

const signatureHeader = "X-Razorpay-Signature"

// Processor applies verified, normalized evidence. duplicate reports that
// the evidence had already been applied and nothing changed.
type Processor interface {
	ProcessEvidence(ctx context.Context, ev *Evidence) (duplicate bool, err error)
}

type WebhookHandler struct {
	secret    string
	verifier  *Verifier
	processor Processor
	smsLogs   SMSLogRepository
}

func NewWebhookHandler(secret string, processor Processor, smsLogs SMSLogRepository) *WebhookHandler {
	return &WebhookHandler{
		secret:    secret,
		verifier:  NewVerifier(secret),
		processor: processor,
		smsLogs:   smsLogs,
	}
}

// HandleProviderWebhook receives payment notifications from the provider.
// Replays of already-applied evidence are acknowledged as success; only a
// storage transaction failure asks the provider to retry.
func (h *WebhookHandler) HandleProviderWebhook(c *gin.Context) {
	if h.secret == "" {
		logger.Error("webhook secret is not configured")
		metrics.RecordWebhook("unconfigured")
		c.JSON(http.StatusInternalServerError, api.WebhookResponse{Success: false, Message: "Webhook secret not configured."})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.WebhookResponse{Success: false, Message: "Failed to read body."})
		return
	}

	signature := c.GetHeader(signatureHeader)
	if signature == "" {
		metrics.RecordWebhook("unsigned")
		c.JSON(http.StatusBadRequest, api.WebhookResponse{Success: false, Message: "Signature missing."})
		return
	}

	encoding, ok := h.verifier.Verify(body, signature)
	if !ok {
		logger.Error("webhook signature mismatch", "body_sha256", Digest(body))
		metrics.RecordWebhook("bad_signature")
		c.JSON(http.StatusBadRequest, api.WebhookResponse{Success: false, Message: "Invalid signature."})
		return
	}
	metrics.RecordSignatureMatch(encoding)
	if encoding != EncodingRaw {
		// The fallback encoding being exercised is worth noticing; it
		// means the provider changed how it signs bodies.
		logger.Warn("webhook signature matched fallback encoding", "encoding", encoding)
	}

	ev, err := ParseWebhook(body)
	if err != nil {
		if errors.Is(err, ErrUnsupportedEvent) {
			metrics.RecordWebhook("ignored_event")
			c.JSON(http.StatusOK, api.WebhookResponse{Success: true, Message: "Webhook received."})
			return
		}
		logger.Error("webhook payload rejected", "error", err, "body_sha256", Digest(body))
		metrics.RecordWebhook("malformed")
		c.JSON(http.StatusBadRequest, api.WebhookResponse{Success: false, Message: "Missing required notes."})
		return
	}

	duplicate, err := h.processor.ProcessEvidence(c.Request.Context(), ev)
	if err != nil {
		switch {
		case errors.Is(err, ErrReferenceNotFound):
			logger.Error("webhook references unknown product or user",
				"external_reference", ev.ExternalReference,
				"gaming_id", ev.GamingID,
				"product_id", ev.ProductID,
			)
			metrics.RecordWebhook("reference_not_found")
			c.JSON(http.StatusNotFound, api.WebhookResponse{Success: false, Message: "Product or user not found."})
		default:
			logger.Error("webhook reconciliation failed", "error", err, "external_reference", ev.ExternalReference)
			metrics.RecordWebhook("transaction_failed")
			c.JSON(http.StatusInternalServerError, api.WebhookResponse{Success: false, Message: "Database transaction failed."})
		}
		return
	}

	if duplicate {
		metrics.RecordWebhook("duplicate")
		c.JSON(http.StatusOK, api.WebhookResponse{Success: true, Message: "Order already processed."})
		return
	}

	metrics.RecordWebhook("applied")
	c.JSON(http.StatusOK, api.WebhookResponse{Success: true, Message: "Webhook received."})
}

type smsWebhookRequest struct {
	Sender  string `json:"sender"`
	Message string `json:"message" binding:"required"`
}

// HandleSMSWebhook records bank-SMS payment evidence. The SMS carries no
// product or user attribution, so it is stored for the manual
// verification path rather than reconciled directly.
func (h *WebhookHandler) HandleSMSWebhook(c *gin.Context) {
	var req smsWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	ev := ParseSMS(req.Sender, req.Message)
	if ev == nil {
		c.JSON(http.StatusOK, gin.H{"message": "not a credit notification, ignored"})
		return
	}

	log, err := h.smsLogs.Insert(c.Request.Context(), ev)
	if err != nil {
		logger.Error("failed to store sms evidence", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store sms log"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "sms evidence recorded", "log_id": log.ID})
}
