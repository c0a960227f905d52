package payment

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capturedBody(event, paymentID string, amount int64, notes string) []byte {
	return []byte(fmt.Sprintf(`{
		"event": %q,
		"payload": {
			"payment": {"entity": {"id": %q, "amount": %d, "notes": %s}},
			"invoice": {"entity": {"notes": {}}}
		}
	}`, event, paymentID, amount, notes))
}

func TestParseWebhook(t *testing.T) {
	body := capturedBody("payment.captured", "pay_123", 10000, `{"gamingId":"U1","productId":"P1"}`)

	ev, err := ParseWebhook(body)
	require.NoError(t, err)
	assert.Equal(t, "pay_123", ev.ExternalReference)
	assert.Equal(t, int64(10000), ev.Amount)
	assert.Equal(t, "U1", ev.GamingID)
	assert.Equal(t, "P1", ev.ProductID)
	assert.Equal(t, Digest(body), ev.RawPayloadDigest)
}

func TestParseWebhook_InvoiceNotesPreferred(t *testing.T) {
	body := []byte(`{
		"event": "invoice.paid",
		"payload": {
			"payment": {"entity": {"id": "pay_456", "amount": 5000, "notes": {"gamingId":"WRONG","productId":"WRONG"}}},
			"invoice": {"entity": {"notes": {"gamingId":"U2","productId":"P2"}}}
		}
	}`)

	ev, err := ParseWebhook(body)
	require.NoError(t, err)
	assert.Equal(t, "U2", ev.GamingID)
	assert.Equal(t, "P2", ev.ProductID)
}

func TestParseWebhook_PaymentNotesFallback(t *testing.T) {
	body := capturedBody("payment.captured", "pay_789", 5000, `{"gamingId":"U3","productId":"P3"}`)

	ev, err := ParseWebhook(body)
	require.NoError(t, err)
	assert.Equal(t, "U3", ev.GamingID)
}

func TestParseWebhook_MissingNotes(t *testing.T) {
	body := capturedBody("payment.captured", "pay_000", 5000, `{"gamingId":"U1"}`)

	_, err := ParseWebhook(body)
	assert.ErrorIs(t, err, ErrMissingNotes)
}

func TestParseWebhook_UnsupportedEvent(t *testing.T) {
	body := capturedBody("payment.failed", "pay_000", 5000, `{"gamingId":"U1","productId":"P1"}`)

	_, err := ParseWebhook(body)
	assert.ErrorIs(t, err, ErrUnsupportedEvent)
}

func TestParseWebhook_NonPositiveAmount(t *testing.T) {
	body := capturedBody("payment.captured", "pay_000", 0, `{"gamingId":"U1","productId":"P1"}`)

	_, err := ParseWebhook(body)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestParseWebhook_MalformedJSON(t *testing.T) {
	_, err := ParseWebhook([]byte(`{not json`))
	assert.Error(t, err)
}
