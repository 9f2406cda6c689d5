package payment

import (
	"errors"
	"fmt"
)

var (
	// ErrNoPaymentLink is returned when the redirect path is invoked for
	// a product without a configured payment link. Eligibility checks
	// should make this unreachable.
	ErrNoPaymentLink = errors.New("payment: product has no payment link")

	// ErrInvalidAmount is returned when an order is created for a
	// non-positive amount.
	ErrInvalidAmount = errors.New("payment: amount must be positive")

	// ErrOrderInFlight is returned when an order create or capture is
	// requested while another operation is still pending for the same
	// checkout session.
	ErrOrderInFlight = errors.New("payment: operation already in flight")

	// ErrNotReady is returned when the embedded control is driven out of
	// order (e.g., capture before an order exists).
	ErrNotReady = errors.New("payment: adapter not in a valid state for this operation")

	// ErrScriptNotLoaded is returned by Render before the provider
	// script has been acquired.
	ErrScriptNotLoaded = errors.New("payment: provider script not loaded")
)

// PayPalError wraps a PayPal API rejection with enough context to log
// and to decide whether a retry is worth offering.
type PayPalError struct {
	// Status is the HTTP status returned by the PayPal API.
	Status int

	// Name is the machine-readable PayPal error name (e.g.,
	// "UNPROCESSABLE_ENTITY", "INVALID_REQUEST").
	Name string

	// Message is the human-readable detail from the response body.
	Message string

	// DebugID is PayPal's correlation ID for support tickets.
	DebugID string
}

func (e *PayPalError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("paypal: %s (%s)", e.Message, e.Name)
	}
	return fmt.Sprintf("paypal: %s (status %d)", e.Message, e.Status)
}

// IsTemporary reports whether the failure is likely transient and a
// user-initiated retry may succeed.
func (e *PayPalError) IsTemporary() bool {
	return e.Status == 429 || e.Status >= 500
}
