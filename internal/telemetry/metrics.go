// Package telemetry holds business-level Prometheus metrics for the
// checkout funnel, separate from the per-request HTTP metrics.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CheckoutMetrics tracks the storefront checkout funnel.
type CheckoutMetrics struct {
	// Cart activity
	CartItemsAdded *prometheus.CounterVec
	CartCleared    prometheus.Counter

	// Payment paths
	RedirectHandoffs *prometheus.CounterVec
	OrdersCreated    prometheus.Counter
	PaymentSucceeded prometheus.Counter
	PaymentFailed    *prometheus.CounterVec

	// Revenue (cents, captured payments only)
	CapturedValue prometheus.Histogram
}

// NewCheckoutMetrics creates checkout funnel metrics registered with reg.
// Pass prometheus.DefaultRegisterer in production.
func NewCheckoutMetrics(reg prometheus.Registerer, namespace string) *CheckoutMetrics {
	if namespace == "" {
		namespace = "toontail"
	}
	factory := promauto.With(reg)

	return &CheckoutMetrics{
		CartItemsAdded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_items_added_total",
			Help:      "Products added to carts",
		}, []string{"product_id"}),
		CartCleared: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_cleared_total",
			Help:      "Carts cleared after a confirmed capture",
		}),
		RedirectHandoffs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_redirect_handoffs_total",
			Help:      "Visitors handed off to the hosted checkout page",
		}, []string{"product_id"}),
		OrdersCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_orders_created_total",
			Help:      "Embedded provider orders created",
		}),
		PaymentSucceeded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_payments_succeeded_total",
			Help:      "Embedded payments captured successfully",
		}),
		PaymentFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_payments_failed_total",
			Help:      "Embedded payment failures by phase",
		}, []string{"phase"}),
		CapturedValue: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "checkout_captured_value_cents",
			Help:      "Captured payment value in cents",
			Buckets:   []float64{1000, 5000, 10000, 25000, 50000, 100000},
		}),
	}
}
