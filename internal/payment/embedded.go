package payment

import (
	"context"
	"errors"
	"sync"
)

// Phase is the embedded checkout adapter's lifecycle state.
type Phase string

const (
	// PhaseIdle - adapter not engaged; checkout surface not shown.
	PhaseIdle Phase = "idle"

	// PhaseScriptLoading - provider script acquisition in flight. There
	// is no timeout: a script that never loads leaves the adapter here
	// and the embedded path is simply unavailable, with the redirect
	// path as the visitor's alternative.
	PhaseScriptLoading Phase = "script_loading"

	// PhaseReady - script loaded and the control can be rendered.
	PhaseReady Phase = "ready"

	// PhaseOrderCreated - a pending provider order exists; waiting for
	// buyer approval, which happens outside the adapter's control.
	PhaseOrderCreated Phase = "order_created"

	// PhaseCapturing - capture request in flight.
	PhaseCapturing Phase = "capturing"

	// PhaseSucceeded - capture confirmed; cart cleared and a
	// confirmation with the provider payment ID surfaced.
	PhaseSucceeded Phase = "succeeded"

	// PhaseFailed - create or capture was rejected. The control stays
	// rendered and another attempt may be made; the cart is untouched.
	PhaseFailed Phase = "failed"
)

// Confirmation is surfaced to the visitor after a successful capture.
type Confirmation struct {
	// CaptureID is the provider-issued payment identifier.
	CaptureID string

	// Description is the paid-for product name.
	Description string
}

// EmbeddedAdapter drives one checkout session through the embedded
// provider flow: script acquisition, control rendering, then the
// two-phase create/capture protocol.
//
// The adapter serializes its asynchronous boundaries: at most one
// script load, order create, or capture is in flight at a time, so a
// double-clicked button can never issue duplicate provider calls.
type EmbeddedAdapter struct {
	provider  Provider
	loader    ScriptLoader
	clearCart func() error

	mu           sync.Mutex
	phase        Phase
	scriptLoaded bool
	inFlight     bool
	mount        string
	orderID      string
	description  string
	confirmation *Confirmation
	lastErr      error
}

// NewEmbeddedAdapter creates an adapter for one checkout session.
// clearCart is invoked exactly once, on confirmed capture.
func NewEmbeddedAdapter(provider Provider, loader ScriptLoader, clearCart func() error) *EmbeddedAdapter {
	return &EmbeddedAdapter{
		provider:  provider,
		loader:    loader,
		clearCart: clearCart,
		phase:     PhaseIdle,
	}
}

// Phase returns the current lifecycle phase.
func (a *EmbeddedAdapter) Phase() Phase {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.phase
}

// Confirmation returns the capture confirmation, or nil before success.
func (a *EmbeddedAdapter) Confirmation() *Confirmation {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.confirmation
}

// LastErr returns the most recent provider failure, or nil.
func (a *EmbeddedAdapter) LastErr() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

// EnsureScript acquires the provider script. The script is fetched at
// most once per session: once loaded, subsequent calls return
// immediately without a second fetch, and concurrent calls while a load
// is in flight report ErrOrderInFlight rather than fetching twice.
func (a *EmbeddedAdapter) EnsureScript(ctx context.Context) error {
	a.mu.Lock()
	if a.scriptLoaded {
		a.mu.Unlock()
		return nil
	}
	if a.inFlight {
		a.mu.Unlock()
		return ErrOrderInFlight
	}
	a.inFlight = true
	a.phase = PhaseScriptLoading
	a.mu.Unlock()

	err := a.loader.Load(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.inFlight = false

	if err != nil {
		// Retryable: back to idle so the next attempt can fetch again.
		a.phase = PhaseIdle
		a.lastErr = err
		return err
	}

	a.scriptLoaded = true
	a.phase = PhaseReady
	a.lastErr = nil

	return nil
}

// Render attaches the provider control to a mount point. Any previously
// rendered control is torn down first, so re-renders triggered by
// changing eligibility or subtotal never leave duplicate or stale
// controls behind. At most one active control exists at any time.
func (a *EmbeddedAdapter) Render(mount string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.scriptLoaded {
		return ErrScriptNotLoaded
	}

	a.mount = mount
	if a.phase == PhaseIdle {
		a.phase = PhaseReady
	}

	return nil
}

// Teardown detaches the control from its mount point. An in-flight
// capture is not cancelled: a late-arriving success is still applied
// even though the confirmation surface may no longer be visible.
func (a *EmbeddedAdapter) Teardown() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.mount = ""
}

// Mount returns the current mount point, or empty when not rendered.
func (a *EmbeddedAdapter) Mount() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mount
}

// CreateOrder asks the provider to open a pending order for the given
// amount. Allowed from Ready (first attempt) and Failed (retry after a
// rejection). Returns the provider order ID.
func (a *EmbeddedAdapter) CreateOrder(ctx context.Context, amountCents int64, description string) (string, error) {
	a.mu.Lock()
	if a.inFlight {
		a.mu.Unlock()
		return "", ErrOrderInFlight
	}
	if a.phase != PhaseReady && a.phase != PhaseFailed {
		a.mu.Unlock()
		return "", ErrNotReady
	}
	a.inFlight = true
	a.mu.Unlock()

	orderID, err := a.provider.CreateOrder(ctx, amountCents, description)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.inFlight = false

	if err != nil {
		a.phase = PhaseFailed
		a.lastErr = err
		return "", err
	}

	a.orderID = orderID
	a.description = description
	a.phase = PhaseOrderCreated
	a.lastErr = nil

	return orderID, nil
}

// Capture collects funds for the created order after buyer approval.
// On success the cart is cleared and the confirmation carries the
// provider payment identifier. On failure the cart is left untouched so
// the visitor can retry or fall back to the redirect path.
func (a *EmbeddedAdapter) Capture(ctx context.Context) (*Confirmation, error) {
	a.mu.Lock()
	if a.inFlight {
		a.mu.Unlock()
		return nil, ErrOrderInFlight
	}
	if a.phase != PhaseOrderCreated || a.orderID == "" {
		a.mu.Unlock()
		return nil, ErrNotReady
	}
	a.inFlight = true
	a.phase = PhaseCapturing
	orderID := a.orderID
	a.mu.Unlock()

	captureID, err := a.provider.CaptureOrder(ctx, orderID)

	a.mu.Lock()
	a.inFlight = false

	if err != nil {
		// Back to a retryable state; a new order create is required
		// since the pending order's fate is unknown.
		a.phase = PhaseFailed
		a.lastErr = err
		a.mu.Unlock()
		return nil, err
	}

	conf := &Confirmation{CaptureID: captureID, Description: a.description}
	a.confirmation = conf
	a.phase = PhaseSucceeded
	a.orderID = ""
	a.lastErr = nil
	clear := a.clearCart
	a.mu.Unlock()

	// Clear the cart outside the lock; a persistence failure here must
	// not undo the confirmed payment.
	if clear != nil {
		if err := clear(); err != nil {
			return conf, err
		}
	}

	return conf, nil
}

// Retry moves a failed adapter back to Ready without touching the
// rendered control.
func (a *EmbeddedAdapter) Retry() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.phase == PhaseFailed {
		a.phase = PhaseReady
		a.lastErr = nil
	}
}

// IsTransient reports whether a provider failure is likely worth a
// user-initiated retry.
func IsTransient(err error) bool {
	var pe *PayPalError
	if errors.As(err, &pe) {
		return pe.IsTemporary()
	}
	return false
}
