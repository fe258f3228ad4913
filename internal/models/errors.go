package models

import "errors"

// Error taxonomy for the payment flow. Handlers map these onto HTTP
// statuses; services wrap them with context via fmt.Errorf("%w", ...).
var (
	// ErrInvalidPlan is returned for a plan id the catalog does not know.
	// No provider call is made when this is returned.
	ErrInvalidPlan = errors.New("invalid plan selected")

	// ErrSignatureInvalid is returned for webhook deliveries whose
	// signature does not verify. No store mutation happens after it.
	ErrSignatureInvalid = errors.New("invalid webhook signature")

	// ErrProviderUnavailable is returned when the payment provider cannot
	// be reached or fails transiently. The caller may retry.
	ErrProviderUnavailable = errors.New("payment provider unavailable")

	// ErrMalformedEvent is returned when an event payload does not match
	// the shape its declared type requires.
	ErrMalformedEvent = errors.New("malformed event payload")
)
