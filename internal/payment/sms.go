package payment

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// SMSEvidence is what a bank SMS can assert: an amount and a transaction
// reference, with no product or user attribution. It feeds the manual
// verification path, matched against an active amount lock by the admin.
type SMSEvidence struct {
	Reference string
	Amount    int64
	Sender    string
	Body      string
	Digest    string
}

type SMSLog struct {
	ID         string    `db:"id" json:"id"`
	Sender     string    `db:"sender" json:"sender"`
	Body       string    `db:"body" json:"body"`
	Reference  *string   `db:"reference" json:"reference,omitempty"`
	Amount     *int64    `db:"amount" json:"amount,omitempty"`
	ReceivedAt time.Time `db:"received_at" json:"received_at"`
}

var (
	smsAmountRe    = regexp.MustCompile(`(?i)(?:rs\.?|inr)\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`)
	smsReferenceRe = regexp.MustCompile(`(?i)(?:ref(?:erence)?(?:\s*no)?|utr|txn(?:\s*id)?)[:.\s-]*([A-Za-z0-9]{6,})`)
	smsCreditedRe  = regexp.MustCompile(`(?i)credited|received`)
)

// ParseSMS extracts amount and reference hints from a bank SMS body.
// Returns nil when the body does not look like a credit notification.
func ParseSMS(sender, body string) *SMSEvidence {
	if !smsCreditedRe.MatchString(body) {
		return nil
	}

	ev := &SMSEvidence{
		Sender: sender,
		Body:   body,
		Digest: Digest([]byte(body)),
	}

	if m := smsAmountRe.FindStringSubmatch(body); m != nil {
		ev.Amount = parsePaise(m[1])
	}
	if m := smsReferenceRe.FindStringSubmatch(body); m != nil {
		ev.Reference = m[1]
	}

	if ev.Amount <= 0 {
		return nil
	}

	return ev
}

// parsePaise converts a rupee string like "1,250.50" into paise.
func parsePaise(s string) int64 {
	s = strings.ReplaceAll(s, ",", "")

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}

	rupees, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0
	}

	paise := int64(0)
	if frac != "" {
		if len(frac) == 1 {
			frac += "0"
		}
		paise, err = strconv.ParseInt(frac[:2], 10, 64)
		if err != nil {
			return 0
		}
	}

	return rupees*100 + paise
}
