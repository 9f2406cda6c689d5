package payment_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toontail/storefront/internal/payment"
)

// fakePayPal is a minimal PayPal API double covering the token and
// orders endpoints the client uses.
type fakePayPal struct {
	tokenCalls   int
	createCalls  int
	captureCalls int

	lastCreateBody map[string]interface{}
	failCreate     int // HTTP status to fail create with, 0 = succeed
	failCapture    int
}

func (f *fakePayPal) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls++
		user, pass, ok := r.BasicAuth()
		if !ok || user != "client-id" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "token-abc",
			"expires_in":   3600,
		})
	})

	mux.HandleFunc("POST /v2/checkout/orders", func(w http.ResponseWriter, r *http.Request) {
		f.createCalls++
		if r.Header.Get("Authorization") != "Bearer token-abc" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.Header.Get("PayPal-Request-Id") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewDecoder(r.Body).Decode(&f.lastCreateBody)

		if f.failCreate != 0 {
			w.WriteHeader(f.failCreate)
			json.NewEncoder(w).Encode(map[string]string{
				"name":    "UNPROCESSABLE_ENTITY",
				"message": "The requested action could not be performed.",
			})
			return
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"id": "ORDER-42", "status": "CREATED"})
	})

	mux.HandleFunc("POST /v2/checkout/orders/{id}/capture", func(w http.ResponseWriter, r *http.Request) {
		f.captureCalls++
		if f.failCapture != 0 {
			w.WriteHeader(f.failCapture)
			json.NewEncoder(w).Encode(map[string]string{
				"name":    "ORDER_NOT_APPROVED",
				"message": "Payer has not yet approved the Order for payment.",
			})
			return
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     r.PathValue("id"),
			"status": "COMPLETED",
			"purchase_units": []map[string]interface{}{
				{
					"payments": map[string]interface{}{
						"captures": []map[string]string{
							{"id": "PAY-123", "status": "COMPLETED"},
						},
					},
				},
			},
		})
	})

	return mux
}

func newTestClient(t *testing.T, f *fakePayPal) *payment.PayPalClient {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	return payment.NewPayPalClient(payment.PayPalConfig{
		ClientID:      "client-id",
		Secret:        "secret",
		APIBase:       srv.URL,
		Currency:      "USD",
		EnableFunding: "venmo",
	})
}

func TestPayPalClient_ScriptURL(t *testing.T) {
	client := payment.NewPayPalClient(payment.PayPalConfig{
		ClientID:      "abc123",
		EnableFunding: "venmo",
	})

	u, err := url.Parse(client.ScriptURL())
	require.NoError(t, err)
	assert.Equal(t, "www.paypal.com", u.Host)
	assert.Equal(t, "/sdk/js", u.Path)
	assert.Equal(t, "abc123", u.Query().Get("client-id"))
	assert.Equal(t, "USD", u.Query().Get("currency"))
	assert.Equal(t, "venmo", u.Query().Get("enable-funding"))
}

func TestPayPalClient_ScriptURL_EmptyClientID(t *testing.T) {
	// Missing configuration degrades the embedded path; it must not panic.
	client := payment.NewPayPalClient(payment.PayPalConfig{})

	u, err := url.Parse(client.ScriptURL())
	require.NoError(t, err)
	assert.Equal(t, "", u.Query().Get("client-id"))
}

func TestPayPalClient_CreateOrder(t *testing.T) {
	f := &fakePayPal{}
	client := newTestClient(t, f)

	orderID, err := client.CreateOrder(context.Background(), 39999, "ToonTail for Mercury 250-400 HP")
	require.NoError(t, err)
	assert.Equal(t, "ORDER-42", orderID)

	require.NotNil(t, f.lastCreateBody)
	assert.Equal(t, "CAPTURE", f.lastCreateBody["intent"])

	units := f.lastCreateBody["purchase_units"].([]interface{})
	unit := units[0].(map[string]interface{})
	amount := unit["amount"].(map[string]interface{})
	assert.Equal(t, "399.99", amount["value"])
	assert.Equal(t, "USD", amount["currency_code"])
	assert.Equal(t, "ToonTail for Mercury 250-400 HP", unit["description"])
}

func TestPayPalClient_CreateOrder_InvalidAmount(t *testing.T) {
	f := &fakePayPal{}
	client := newTestClient(t, f)

	_, err := client.CreateOrder(context.Background(), 0, "free")
	assert.ErrorIs(t, err, payment.ErrInvalidAmount)
	assert.Zero(t, f.createCalls, "no API call for an invalid amount")
}

func TestPayPalClient_CreateOrder_ProviderRejection(t *testing.T) {
	f := &fakePayPal{failCreate: http.StatusUnprocessableEntity}
	client := newTestClient(t, f)

	_, err := client.CreateOrder(context.Background(), 100, "Hat")
	require.Error(t, err)

	var pe *payment.PayPalError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, http.StatusUnprocessableEntity, pe.Status)
	assert.Equal(t, "UNPROCESSABLE_ENTITY", pe.Name)
	assert.False(t, pe.IsTemporary())
}

func TestPayPalClient_CaptureOrder(t *testing.T) {
	f := &fakePayPal{}
	client := newTestClient(t, f)

	captureID, err := client.CaptureOrder(context.Background(), "ORDER-42")
	require.NoError(t, err)
	assert.Equal(t, "PAY-123", captureID)
}

func TestPayPalClient_CaptureOrder_Rejection(t *testing.T) {
	f := &fakePayPal{failCapture: http.StatusUnprocessableEntity}
	client := newTestClient(t, f)

	_, err := client.CaptureOrder(context.Background(), "ORDER-42")
	var pe *payment.PayPalError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "ORDER_NOT_APPROVED", pe.Name)
}

func TestPayPalClient_TokenReused(t *testing.T) {
	f := &fakePayPal{}
	client := newTestClient(t, f)

	_, err := client.CreateOrder(context.Background(), 100, "Hat")
	require.NoError(t, err)
	_, err = client.CaptureOrder(context.Background(), "ORDER-42")
	require.NoError(t, err)

	assert.Equal(t, 1, f.tokenCalls, "access token must be cached across calls")
}

func TestFormatCents(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{39999, "399.99"},
		{100, "1.00"},
		{5, "0.05"},
		{1000000, "10000.00"},
	}

	f := &fakePayPal{}
	client := newTestClient(t, f)

	for _, tt := range tests {
		_, err := client.CreateOrder(context.Background(), tt.cents, "x")
		require.NoError(t, err)

		units := f.lastCreateBody["purchase_units"].([]interface{})
		amount := units[0].(map[string]interface{})["amount"].(map[string]interface{})
		assert.Equal(t, tt.want, amount["value"], "cents=%d", tt.cents)
	}
}
