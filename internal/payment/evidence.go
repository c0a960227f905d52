package payment

import (
	"encoding/json"
	"fmt"
)

// Evidence is the normalized form of an external payment assertion,
// whatever channel it arrived on.
type Evidence struct {
	ExternalReference string
	Amount            int64
	GamingID          string
	ProductID         string
	RawPayloadDigest  string
	Event             string
}

type webhookNotes struct {
	GamingID  string `json:"gamingId"`
	ProductID string `json:"productId"`
}

type webhookPayload struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID     string       `json:"id"`
				Amount int64        `json:"amount"`
				Notes  webhookNotes `json:"notes"`
			} `json:"entity"`
		} `json:"payment"`
		Invoice struct {
			Entity struct {
				Notes webhookNotes `json:"notes"`
			} `json:"entity"`
		} `json:"invoice"`
	} `json:"payload"`
}

// ParseWebhook validates and canonicalizes a provider webhook body.
// Notes are read from the invoice entity first, falling back to the
// payment entity; a missing gamingId or productId is a hard failure since
// nothing else can attribute the payment.
func ParseWebhook(rawBody []byte) (*Evidence, error) {
	var payload webhookPayload
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		return nil, fmt.Errorf("parse webhook body: %w", err)
	}

	if payload.Event != "payment.captured" && payload.Event != "invoice.paid" {
		return nil, ErrUnsupportedEvent
	}

	entity := payload.Payload.Payment.Entity

	notes := payload.Payload.Invoice.Entity.Notes
	if notes.GamingID == "" && notes.ProductID == "" {
		notes = entity.Notes
	}

	if notes.GamingID == "" || notes.ProductID == "" {
		return nil, ErrMissingNotes
	}

	if entity.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	return &Evidence{
		ExternalReference: entity.ID,
		Amount:            entity.Amount,
		GamingID:          notes.GamingID,
		ProductID:         notes.ProductID,
		RawPayloadDigest:  Digest(rawBody),
		Event:             payload.Event,
	}, nil
}
