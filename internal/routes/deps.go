package routes

import (
	"github.com/toontail/storefront/internal/handler/storefront"
)

// StorefrontDeps contains dependencies for storefront routes
type StorefrontDeps struct {
	// Product catalog
	ProductHandler *storefront.ProductHandler

	// Shopping cart
	CartHandler *storefront.CartHandler

	// Checkout (eligibility, hosted redirect, embedded provider flow)
	CheckoutHandler *storefront.CheckoutHandler
}
