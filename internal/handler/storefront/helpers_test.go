package storefront

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/toontail/storefront/internal/cart"
	"github.com/toontail/storefront/internal/catalog"
	"github.com/toontail/storefront/internal/cookie"
	"github.com/toontail/storefront/internal/payment"
	"github.com/toontail/storefront/internal/router"
	"github.com/toontail/storefront/internal/telemetry"
)

// testEnv wires the handlers against an in-memory cart store, the real
// catalog and a mocked payment provider, routed like production.
type testEnv struct {
	cat      catalog.Repository
	store    *cart.Store
	provider *payment.MockProvider
	loader   *payment.MockScriptLoader
	sessions *payment.Sessions
	router   *router.Router
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cat := catalog.Default()
	store := cart.NewStore(cart.NewMemoryEntryStore(), cat)
	provider := &payment.MockProvider{}
	loader := &payment.MockScriptLoader{}
	sessions := payment.NewSessions(func(sessionID string) *payment.EmbeddedAdapter {
		return payment.NewEmbeddedAdapter(provider, loader, func() error {
			return store.Clear(sessionID)
		})
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := telemetry.NewCheckoutMetrics(prometheus.NewRegistry(), "test")
	cookies := cookie.NewConfig(false)

	r := router.New()
	registerStorefrontTestRoutes(r, cat, store, sessions, provider, cookies, metrics, logger)

	return &testEnv{
		cat:      cat,
		store:    store,
		provider: provider,
		loader:   loader,
		sessions: sessions,
		router:   r,
	}
}

func registerStorefrontTestRoutes(r *router.Router, cat catalog.Repository, store *cart.Store, sessions *payment.Sessions, provider payment.Provider, cookies *cookie.Config, metrics *telemetry.CheckoutMetrics, logger *slog.Logger) {
	products := NewProductHandler(cat, logger)
	carts := NewCartHandler(store, cat, cookies, metrics, logger)
	checkouts := NewCheckoutHandler(store, cat, sessions, provider, metrics, logger)

	r.Get("/api/products", products.List)
	r.Get("/api/products/{id}", products.Get)
	r.Get("/api/cart", carts.View)
	r.Post("/api/cart/items", carts.Add)
	r.Put("/api/cart/items/{id}", carts.UpdateQty)
	r.Delete("/api/cart/items/{id}", carts.Remove)
	r.Get("/api/checkout", checkouts.Eligibility)
	r.Get("/checkout/redirect", checkouts.Redirect)
	r.Post("/api/checkout/paypal/order", checkouts.CreateOrder)
	r.Post("/api/checkout/paypal/capture", checkouts.Capture)
}

func (e *testEnv) request(t *testing.T, method, target, session string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, target, body)
	if session != "" {
		req.AddCookie(&http.Cookie{Name: cookie.SessionCookieName, Value: session})
	}

	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	return out
}
