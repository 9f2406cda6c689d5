// Package payment holds the two checkout payment adapters: the hosted
// redirect handoff (Stripe Payment Links) and the embedded two-phase
// create/capture flow (PayPal). Provider integrations live behind small
// interfaces so services and handlers stay testable.
package payment

import "context"

// Provider is the embedded payment provider: a browser-side SDK script
// plus a two-phase (create, then capture) order protocol.
type Provider interface {
	// ScriptURL returns the provider SDK script URL for the storefront
	// page, parameterized by the configured client identifier.
	ScriptURL() string

	// CreateOrder asks the provider to create a pending order for the
	// given amount and a human-readable description. Returns the
	// provider order ID.
	CreateOrder(ctx context.Context, amountCents int64, description string) (string, error)

	// CaptureOrder captures funds for a previously created and
	// buyer-approved order. Returns the provider capture ID.
	CaptureOrder(ctx context.Context, orderID string) (string, error)
}

// ScriptLoader acquires the provider SDK script. The embedded adapter
// guarantees it is invoked at most once per checkout session.
type ScriptLoader interface {
	Load(ctx context.Context) error
}
