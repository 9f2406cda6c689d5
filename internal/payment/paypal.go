package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// PayPal API base URLs.
const (
	PayPalAPILive    = "https://api-m.paypal.com"
	PayPalAPISandbox = "https://api-m.sandbox.paypal.com"

	paypalSDKBase = "https://www.paypal.com/sdk/js"
)

// PayPalConfig contains configuration for the PayPal provider.
type PayPalConfig struct {
	// ClientID is the PayPal REST application client ID. An empty value
	// degrades the embedded path: the SDK script URL is still built but
	// the provider will reject every operation.
	ClientID string

	// Secret is the PayPal REST application secret.
	Secret string

	// APIBase is the REST API base URL (PayPalAPILive or PayPalAPISandbox).
	APIBase string

	// Currency is the ISO 4217 currency code for orders (e.g., "USD").
	Currency string

	// EnableFunding is the extra funding source enabled on the SDK
	// script (e.g., "venmo").
	EnableFunding string

	// TimeoutSeconds is the HTTP timeout for PayPal API calls.
	// Default: 30.
	TimeoutSeconds int
}

// PayPalClient implements Provider against the PayPal Orders v2 API.
// OAuth2 client-credentials tokens are cached and refreshed on expiry.
type PayPalClient struct {
	cfg    PayPalConfig
	client *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewPayPalClient creates a PayPal provider client.
func NewPayPalClient(cfg PayPalConfig) *PayPalClient {
	if cfg.APIBase == "" {
		cfg.APIBase = PayPalAPISandbox
	}
	if cfg.Currency == "" {
		cfg.Currency = "USD"
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 30
	}

	return &PayPalClient{
		cfg:    cfg,
		client: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
	}
}

// ScriptURL builds the browser SDK script URL for the storefront page.
func (c *PayPalClient) ScriptURL() string {
	q := url.Values{}
	q.Set("client-id", c.cfg.ClientID)
	q.Set("currency", c.cfg.Currency)
	if c.cfg.EnableFunding != "" {
		q.Set("enable-funding", c.cfg.EnableFunding)
	}

	return paypalSDKBase + "?" + q.Encode()
}

type paypalTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// token returns a cached OAuth2 access token, fetching a new one when
// the cache is empty or within a minute of expiry.
func (c *PayPalClient) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Add(time.Minute).Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	body := strings.NewReader("grant_type=client_credentials")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIBase+"/v1/oauth2/token", body)
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(c.cfg.ClientID, c.cfg.Secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch access token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", c.apiError(resp)
	}

	var token paypalTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("failed to parse token response: %w", err)
	}

	c.accessToken = token.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)

	return c.accessToken, nil
}

type paypalAmount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type paypalPurchaseUnit struct {
	Amount      paypalAmount `json:"amount"`
	Description string       `json:"description,omitempty"`
}

type paypalCreateOrderRequest struct {
	Intent        string               `json:"intent"`
	PurchaseUnits []paypalPurchaseUnit `json:"purchase_units"`
}

type paypalOrderResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PurchaseUnits []struct {
		Payments struct {
			Captures []struct {
				ID     string `json:"id"`
				Status string `json:"status"`
			} `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
}

// CreateOrder creates a pending CAPTURE-intent order for the amount.
func (c *PayPalClient) CreateOrder(ctx context.Context, amountCents int64, description string) (string, error) {
	if amountCents <= 0 {
		return "", ErrInvalidAmount
	}

	payload := paypalCreateOrderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []paypalPurchaseUnit{
			{
				Amount: paypalAmount{
					CurrencyCode: c.cfg.Currency,
					Value:        formatCents(amountCents),
				},
				Description: description,
			},
		},
	}

	var order paypalOrderResponse
	if err := c.post(ctx, "/v2/checkout/orders", payload, &order); err != nil {
		return "", err
	}
	if order.ID == "" {
		return "", fmt.Errorf("paypal: create order response missing order id")
	}

	return order.ID, nil
}

// CaptureOrder captures funds for a buyer-approved order and returns the
// provider capture ID.
func (c *PayPalClient) CaptureOrder(ctx context.Context, orderID string) (string, error) {
	var order paypalOrderResponse
	if err := c.post(ctx, "/v2/checkout/orders/"+url.PathEscape(orderID)+"/capture", nil, &order); err != nil {
		return "", err
	}

	for _, pu := range order.PurchaseUnits {
		for _, capture := range pu.Payments.Captures {
			if capture.ID != "" {
				return capture.ID, nil
			}
		}
	}
	if order.ID != "" {
		// Older API shapes return only the order id on capture.
		return order.ID, nil
	}

	return "", fmt.Errorf("paypal: capture response missing capture id")
}

// post sends an authenticated JSON request to the PayPal API and decodes
// the response into out.
func (c *PayPalClient) post(ctx context.Context, path string, payload, out interface{}) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIBase+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	// Idempotency key: a retried request after a network hiccup must not
	// create a second order.
	req.Header.Set("PayPal-Request-Id", uuid.New().String())

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("paypal request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.apiError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse paypal response: %w", err)
	}

	return nil
}

// apiError builds a PayPalError from a non-2xx API response.
func (c *PayPalClient) apiError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))

	apiErr := &PayPalError{
		Status:  resp.StatusCode,
		Message: strings.TrimSpace(string(body)),
	}

	var detail struct {
		Name    string `json:"name"`
		Message string `json:"message"`
		DebugID string `json:"debug_id"`
	}
	if err := json.Unmarshal(body, &detail); err == nil && detail.Name != "" {
		apiErr.Name = detail.Name
		apiErr.Message = detail.Message
		apiErr.DebugID = detail.DebugID
	}

	return apiErr
}

// formatCents renders a cent amount as a decimal string ("39999" -> "399.99").
func formatCents(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
