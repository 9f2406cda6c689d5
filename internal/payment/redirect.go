package payment

import (
	"github.com/toontail/storefront/internal/catalog"
)

// RedirectCheckout returns the hosted checkout page URL for a product.
//
// This is a one-way handoff: the caller navigates the browser to the
// returned URL and this system's responsibility ends. The cart is not
// cleared and no payment outcome is observed. Eligibility guards the
// call; the error only exists so a missing link can never turn into a
// panic at call time.
func RedirectCheckout(p catalog.Product) (string, error) {
	if p.PaymentLink == "" {
		return "", ErrNoPaymentLink
	}

	return p.PaymentLink, nil
}
