package payment

import (
	"context"
	"log/slog"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentlink"
	"github.com/toontail/storefront/internal/catalog"
)

// LinkVerifier checks at boot that every payment link configured in the
// catalog corresponds to an active Stripe Payment Link, so a typo'd or
// deactivated link is caught in the logs instead of by a customer.
//
// Verification is best-effort: the redirect path works without a Stripe
// API key, it just goes unverified.
type LinkVerifier struct {
	apiKey string
	logger *slog.Logger
}

// NewLinkVerifier creates a payment link verifier. An empty API key
// disables verification.
func NewLinkVerifier(apiKey string, logger *slog.Logger) *LinkVerifier {
	return &LinkVerifier{
		apiKey: apiKey,
		logger: logger,
	}
}

// Verify logs a warning for every catalog payment link that is not an
// active Payment Link on the Stripe account. Never returns an error for
// link mismatches; only for API failures, which callers should treat as
// non-fatal.
func (v *LinkVerifier) Verify(ctx context.Context, cat catalog.Repository) error {
	if v.apiKey == "" {
		v.logger.Info("stripe API key not configured, skipping payment link verification")
		return nil
	}

	stripe.Key = v.apiKey

	active := make(map[string]bool)
	params := &stripe.PaymentLinkListParams{
		Active: stripe.Bool(true),
	}
	params.Context = ctx

	iter := paymentlink.List(params)
	for iter.Next() {
		active[iter.PaymentLink().URL] = true
	}
	if err := iter.Err(); err != nil {
		return err
	}

	for _, p := range cat.All() {
		if p.PaymentLink == "" {
			continue
		}
		if !active[p.PaymentLink] {
			v.logger.Warn("configured payment link is not an active Stripe Payment Link",
				"product_id", p.ID,
				"payment_link", p.PaymentLink,
			)
		}
	}

	return nil
}
