// Package checkout computes checkout eligibility from the current cart
// and catalog, and routes to one of two payment paths: the hosted
// redirect checkout (Stripe Payment Link) or the embedded provider
// checkout. Evaluation is a pure function; it performs no I/O.
package checkout

import (
	"github.com/toontail/storefront/internal/cart"
	"github.com/toontail/storefront/internal/catalog"
)

// State is the top-level eligibility outcome.
type State string

const (
	// StateEmpty means the cart has no lines.
	StateEmpty State = "empty"

	// StateBlocked means checkout cannot proceed; Eligibility.Reason says why.
	StateBlocked State = "blocked"

	// StateEligible means at least one payment path is available.
	StateEligible State = "eligible"
)

// RedirectOption describes an available hosted-page redirect checkout.
type RedirectOption struct {
	Product     catalog.Product
	PaymentLink string
}

// EmbeddedOption describes an available embedded provider checkout.
type EmbeddedOption struct {
	Product       catalog.Product
	SubtotalCents int64
}

// Eligibility is the result of evaluating a cart against the catalog.
// Redirect and Embedded are independently computed and may both be set;
// the consumer decides which to surface (typically both together).
type Eligibility struct {
	State  State
	Reason string

	Redirect *RedirectOption
	Embedded *EmbeddedOption
}

// Evaluate computes checkout eligibility for the given cart lines.
//
// The cart store already enforces the one-product-per-cart rule, but a
// tampered persisted cart could violate it, so Evaluate re-validates
// here rather than trusting the input.
func Evaluate(lines []cart.Line, cat catalog.Repository) Eligibility {
	if len(lines) == 0 {
		return Eligibility{State: StateEmpty}
	}

	distinct := map[string]bool{}
	for _, l := range lines {
		distinct[l.ProductID] = true
	}
	if len(distinct) > 1 {
		return Eligibility{
			State:  StateBlocked,
			Reason: "Checkout supports a single product at a time. Please remove extra items.",
		}
	}

	product, ok := cat.ByID(lines[0].ProductID)
	if !ok {
		// Stale cart referencing a removed product. The store normally
		// drops these on load; treat it like an empty cart.
		return Eligibility{State: StateEmpty}
	}

	var subtotal int64
	if product.PriceCents != nil {
		for _, l := range lines {
			subtotal += *product.PriceCents * int64(l.Qty)
		}
	}

	el := Eligibility{State: StateEligible}

	if product.Purchasable() && product.PaymentLink != "" {
		el.Redirect = &RedirectOption{
			Product:     product,
			PaymentLink: product.PaymentLink,
		}
	}

	if subtotal > 0 {
		el.Embedded = &EmbeddedOption{
			Product:       product,
			SubtotalCents: subtotal,
		}
	}

	if el.Redirect == nil && el.Embedded == nil {
		return Eligibility{
			State:  StateBlocked,
			Reason: "This product cannot be checked out online yet.",
		}
	}

	return el
}
