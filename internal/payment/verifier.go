package payment

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Encodings the provider has been observed to sign. Invoice webhooks sign
// the raw bytes; some checkout webhooks sign a re-serialized form of the
// body. Which one the live integration actually uses is unsettled, so both
// are accepted and the matched form is reported for observability.
const (
	EncodingRaw          = "raw"
	EncodingReserialized = "reserialized"
)

type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify checks the signature header against the HMAC-SHA256 of the raw
// body, then against the compacted re-serialization. Comparison is
// constant time in both branches. Returns the matched encoding.
func (v *Verifier) Verify(rawBody []byte, signatureHeader string) (string, bool) {
	if signatureHeader == "" {
		return "", false
	}

	if v.matches(rawBody, signatureHeader) {
		return EncodingRaw, true
	}

	var compacted bytes.Buffer
	if err := json.Compact(&compacted, rawBody); err == nil {
		if v.matches(compacted.Bytes(), signatureHeader) {
			return EncodingReserialized, true
		}
	}

	return "", false
}

func (v *Verifier) matches(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Digest returns the SHA-256 hex of the raw body, used for forensic
// logging and as the evidence payload digest.
func Digest(rawBody []byte) string {
	sum := sha256.Sum256(rawBody)
	return hex.EncodeToString(sum[:])
}
