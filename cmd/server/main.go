package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/toontail/storefront/internal"
	"github.com/toontail/storefront/internal/cart"
	"github.com/toontail/storefront/internal/catalog"
	"github.com/toontail/storefront/internal/cookie"
	"github.com/toontail/storefront/internal/handler/storefront"
	"github.com/toontail/storefront/internal/middleware"
	"github.com/toontail/storefront/internal/payment"
	"github.com/toontail/storefront/internal/router"
	"github.com/toontail/storefront/internal/routes"
	"github.com/toontail/storefront/internal/telemetry"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Product catalog is static; it changes with a deploy
	cat := catalog.Default()
	logger.Info("Catalog loaded", "products", len(cat.All()))

	// Cart persistence
	entries, err := cart.NewLocalEntryStore(cfg.Cart.DataDir)
	if err != nil {
		return fmt.Errorf("cart storage initialization failed: %w", err)
	}
	cartStore := cart.NewStore(entries, cat)
	logger.Info("Cart storage initialized", "dir", cfg.Cart.DataDir)

	// Verify the catalog's hosted payment links against Stripe
	if cfg.Stripe.SecretKey != "" {
		verifier := payment.NewLinkVerifier(cfg.Stripe.SecretKey, logger)
		if err := verifier.Verify(ctx, cat); err != nil {
			logger.Warn("Payment link verification failed", "error", err)
		}
	} else {
		logger.Info("STRIPE_SECRET_KEY not set, skipping payment link verification")
	}

	// Embedded payment provider
	provider := payment.NewPayPalClient(payment.PayPalConfig{
		ClientID:      cfg.PayPal.ClientID,
		Secret:        cfg.PayPal.Secret,
		APIBase:       cfg.PayPal.APIBase,
		Currency:      cfg.PayPal.Currency,
		EnableFunding: cfg.PayPal.EnableFunding,
	})
	logger.Info("PayPal provider initialized", "api_base", cfg.PayPal.APIBase)

	// One embedded adapter per visitor session; the adapter clears the
	// session's cart on confirmed capture
	sessions := payment.NewSessions(func(sessionID string) *payment.EmbeddedAdapter {
		return payment.NewEmbeddedAdapter(
			provider,
			payment.NewHTTPScriptLoader(provider.ScriptURL()),
			func() error { return cartStore.Clear(sessionID) },
		)
	})

	// Business metrics
	checkoutMetrics := telemetry.NewCheckoutMetrics(prometheus.DefaultRegisterer, "toontail")

	// Session cookies
	cookies := cookie.NewConfig(cfg.Env == "prod")

	// Build route dependencies
	storefrontDeps := routes.StorefrontDeps{
		ProductHandler:  storefront.NewProductHandler(cat, logger),
		CartHandler:     storefront.NewCartHandler(cartStore, cat, cookies, checkoutMetrics, logger),
		CheckoutHandler: storefront.NewCheckoutHandler(cartStore, cat, sessions, provider, checkoutMetrics, logger),
	}

	// Initialize Prometheus HTTP metrics
	metrics := middleware.NewMetrics("toontail")

	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		metrics.Middleware,
		router.Logger(logger),
		middleware.WithRequestLogger(logger),
	)

	// Static files (product images, landing page bundle)
	r.Static("/static/", "./web/static")

	// Metrics endpoint (no auth required, but should be protected in production via firewall)
	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		metrics.Handler().ServeHTTP(w, req)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	routes.RegisterStorefrontRoutes(r, storefrontDeps)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info("Starting storefront server", "address", addr)

	if err := http.ListenAndServe(addr, r); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
