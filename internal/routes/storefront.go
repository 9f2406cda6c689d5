package routes

import (
	"github.com/toontail/storefront/internal/router"
)

// RegisterStorefrontRoutes registers all customer-facing routes. The
// landing page is a static bundle; these JSON endpoints back its cart
// and checkout interactions.
func RegisterStorefrontRoutes(r *router.Router, deps StorefrontDeps) {
	// Product catalog
	r.Get("/api/products", deps.ProductHandler.List)
	r.Get("/api/products/{id}", deps.ProductHandler.Get)

	// Shopping cart
	r.Get("/api/cart", deps.CartHandler.View)
	r.Post("/api/cart/items", deps.CartHandler.Add)
	r.Put("/api/cart/items/{id}", deps.CartHandler.UpdateQty)
	r.Delete("/api/cart/items/{id}", deps.CartHandler.Remove)

	// Checkout flow
	r.Get("/api/checkout", deps.CheckoutHandler.Eligibility)
	r.Get("/checkout/redirect", deps.CheckoutHandler.Redirect)
	r.Post("/api/checkout/paypal/order", deps.CheckoutHandler.CreateOrder)
	r.Post("/api/checkout/paypal/capture", deps.CheckoutHandler.Capture)
}
