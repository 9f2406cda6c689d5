// Package catalog provides the read-only product catalog for the storefront.
// The catalog is statically defined: products change with a deploy, not at
// runtime. Downstream components treat a missing product as a non-fatal
// condition (e.g., a stale cart referencing a removed product).
package catalog

// Status describes whether a product can currently be purchased.
type Status string

const (
	// StatusAvailable means the product is in stock and purchasable.
	StatusAvailable Status = "available"

	// StatusWaitlist means the product is a prototype; visitors join a
	// waitlist instead of buying. Waitlist products never enter the cart.
	StatusWaitlist Status = "waitlist"
)

// Product is an immutable catalog entry.
type Product struct {
	// ID is an opaque stable identifier, unique across the catalog.
	ID string

	Name     string
	Subtitle string

	Status Status

	// PriceCents is the purchase price in cents. Nil means the price is
	// not yet determined (waitlist products).
	PriceCents *int64

	// CompareAtCents is the optional regular price shown struck through.
	// Display-only; never used in subtotal computation.
	CompareAtCents *int64

	// SaleLabel and PriceLabel are display strings (e.g., "Founders Run").
	SaleLabel  string
	PriceLabel string

	// PaymentLink is an optional externally hosted checkout page URL
	// (a Stripe Payment Link). Required for the redirect checkout path.
	PaymentLink string

	// Image is the product image path served from the static assets.
	Image string
}

// Purchasable reports whether the product can be added to a cart.
func (p Product) Purchasable() bool {
	return p.Status == StatusAvailable
}

// Repository exposes read-only catalog lookups.
type Repository interface {
	// All returns every product in display order.
	All() []Product

	// ByID looks up a product by its ID. The second return value is
	// false when no such product exists.
	ByID(id string) (Product, bool)
}
