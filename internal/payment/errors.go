package payment

import "errors"

// Error taxonomy for the evidence pipeline. Handlers map these to HTTP
// statuses; only ErrTransactionFailed invites a provider-side retry.
var (
	// ErrSignatureMissing and ErrSignatureMismatch are fatal for the
	// request; the provider is not asked to retry an unauthenticated
	// delivery.
	ErrSignatureMissing  = errors.New("signature header missing")
	ErrSignatureMismatch = errors.New("signature does not match any accepted encoding")

	// ErrUnsupportedEvent is not a failure: deliveries for other event
	// types are acknowledged and ignored.
	ErrUnsupportedEvent = errors.New("event type not handled")

	ErrMissingNotes  = errors.New("payload missing gamingId or productId in notes")
	ErrInvalidAmount = errors.New("payment amount must be positive")

	ErrReferenceNotFound = errors.New("referenced product or user not found")
	ErrTransactionFailed = errors.New("storage transaction failed")
)
