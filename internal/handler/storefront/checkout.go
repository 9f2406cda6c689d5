package storefront

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/toontail/storefront/internal/cart"
	"github.com/toontail/storefront/internal/catalog"
	"github.com/toontail/storefront/internal/checkout"
	"github.com/toontail/storefront/internal/domain"
	"github.com/toontail/storefront/internal/payment"
	"github.com/toontail/storefront/internal/telemetry"
)

// embeddedMount is the page element the provider control attaches to.
const embeddedMount = "paypal-button-container"

// CheckoutHandler serves eligibility and both payment paths: the hosted
// redirect handoff and the embedded two-phase provider flow.
type CheckoutHandler struct {
	store    *cart.Store
	catalog  catalog.Repository
	sessions *payment.Sessions
	provider payment.Provider
	metrics  *telemetry.CheckoutMetrics
	logger   *slog.Logger
}

func NewCheckoutHandler(store *cart.Store, cat catalog.Repository, sessions *payment.Sessions, provider payment.Provider, metrics *telemetry.CheckoutMetrics, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		store:    store,
		catalog:  cat,
		sessions: sessions,
		provider: provider,
		metrics:  metrics,
		logger:   logger,
	}
}

type redirectOptionResponse struct {
	ProductID   string `json:"productId"`
	PaymentLink string `json:"paymentLink"`
}

type embeddedOptionResponse struct {
	ProductID     string `json:"productId"`
	SubtotalCents int64  `json:"subtotalCents"`
	ScriptURL     string `json:"scriptUrl,omitempty"`
	Phase         string `json:"phase,omitempty"`
}

type eligibilityResponse struct {
	State    string                  `json:"state"`
	Reason   string                  `json:"reason,omitempty"`
	Redirect *redirectOptionResponse `json:"redirect,omitempty"`
	Embedded *embeddedOptionResponse `json:"embedded,omitempty"`
}

func toEligibilityResponse(el checkout.Eligibility, scriptURL string) eligibilityResponse {
	resp := eligibilityResponse{
		State:  string(el.State),
		Reason: el.Reason,
	}
	if el.Redirect != nil {
		resp.Redirect = &redirectOptionResponse{
			ProductID:   el.Redirect.Product.ID,
			PaymentLink: el.Redirect.PaymentLink,
		}
	}
	if el.Embedded != nil {
		resp.Embedded = &embeddedOptionResponse{
			ProductID:     el.Embedded.Product.ID,
			SubtotalCents: el.Embedded.SubtotalCents,
			ScriptURL:     scriptURL,
		}
	}
	return resp
}

// Eligibility handles GET /api/checkout. Opening the checkout surface
// engages the embedded adapter: the provider script is fetched (once
// per session) and the control rendered, so a later order create finds
// the adapter ready. A script failure quietly withdraws the embedded
// option; the redirect option, when present, is unaffected.
func (h *CheckoutHandler) Eligibility(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(r)
	lines := h.store.Load(sid)
	el := checkout.Evaluate(lines, h.catalog)
	resp := toEligibilityResponse(el, h.provider.ScriptURL())

	if el.Embedded != nil && sid != "" {
		adapter := h.sessions.Get(sid)
		if err := adapter.EnsureScript(r.Context()); err != nil && !errors.Is(err, payment.ErrOrderInFlight) {
			h.logger.Warn("embedded checkout script unavailable",
				"error", err,
				"session_id", sid)
			resp.Embedded = nil
			if resp.Redirect == nil {
				resp.State = string(checkout.StateBlocked)
				resp.Reason = "Checkout is temporarily unavailable."
			}
		} else {
			adapter.Render(embeddedMount)
			resp.Embedded.Phase = string(adapter.Phase())
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

// Redirect handles GET /checkout/redirect: a 303 handoff to the hosted
// payment page for the cart's product.
func (h *CheckoutHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	lines := h.store.Load(sessionID(r))
	el := checkout.Evaluate(lines, h.catalog)
	if el.Redirect == nil {
		respondError(w, r, &domain.Error{
			Code:    domain.EINVALID,
			Message: "Hosted checkout is not available for this cart.",
			Op:      "CheckoutHandler.Redirect",
		})
		return
	}

	url, err := payment.RedirectCheckout(el.Redirect.Product)
	if err != nil {
		respondError(w, r, &domain.Error{
			Code:    domain.EINTERNAL,
			Message: "Hosted checkout is not available for this cart.",
			Op:      "CheckoutHandler.Redirect",
			Err:     err,
		})
		return
	}

	h.metrics.RedirectHandoffs.WithLabelValues(el.Redirect.Product.ID).Inc()
	http.Redirect(w, r, url, http.StatusSeeOther)
}

type createOrderResponse struct {
	OrderID string `json:"orderId"`
	Phase   string `json:"phase"`
}

// CreateOrder handles POST /api/checkout/paypal/order. The amount comes
// from the server-side cart, never from the request body.
func (h *CheckoutHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(r)
	lines := h.store.Load(sid)
	el := checkout.Evaluate(lines, h.catalog)
	if el.Embedded == nil {
		msg := el.Reason
		if msg == "" {
			msg = "Embedded checkout is not available for this cart."
		}
		respondError(w, r, &domain.Error{
			Code:    domain.EINVALID,
			Message: msg,
			Op:      "CheckoutHandler.CreateOrder",
		})
		return
	}

	adapter := h.sessions.Get(sid)
	if err := adapter.EnsureScript(r.Context()); err != nil {
		respondError(w, r, paymentError("CheckoutHandler.CreateOrder", err))
		return
	}
	adapter.Render(embeddedMount)

	orderID, err := adapter.CreateOrder(r.Context(), el.Embedded.SubtotalCents, el.Embedded.Product.Name)
	if err != nil {
		h.metrics.PaymentFailed.WithLabelValues("create").Inc()
		respondError(w, r, paymentError("CheckoutHandler.CreateOrder", err))
		return
	}

	h.metrics.OrdersCreated.Inc()
	respondJSON(w, http.StatusCreated, createOrderResponse{
		OrderID: orderID,
		Phase:   string(adapter.Phase()),
	})
}

type captureResponse struct {
	CaptureID   string `json:"captureId"`
	Description string `json:"description,omitempty"`
	Phase       string `json:"phase"`
	Retryable   bool   `json:"retryable,omitempty"`
}

// Capture handles POST /api/checkout/paypal/capture, collecting funds
// for the pending order after buyer approval. On success the cart is
// cleared; on rejection it is left untouched so the visitor can retry
// or fall back to the hosted checkout.
func (h *CheckoutHandler) Capture(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(r)
	if sid == "" {
		respondError(w, r, &domain.Error{
			Code:    domain.EINVALID,
			Message: "No pending order to capture.",
			Op:      "CheckoutHandler.Capture",
		})
		return
	}

	lines := h.store.Load(sid)
	amount := h.store.SubtotalCents(lines)

	adapter := h.sessions.Get(sid)
	conf, err := adapter.Capture(r.Context())
	if err != nil && conf == nil {
		if payment.IsTransient(err) {
			h.metrics.PaymentFailed.WithLabelValues("capture").Inc()
			respondJSON(w, http.StatusPaymentRequired, map[string]interface{}{
				"error": map[string]interface{}{
					"code":      domain.EPAYMENT,
					"message":   "The payment was not completed. Please try again.",
					"retryable": true,
				},
			})
			return
		}
		h.metrics.PaymentFailed.WithLabelValues("capture").Inc()
		respondError(w, r, paymentError("CheckoutHandler.Capture", err))
		return
	}
	if err != nil {
		// Payment captured but clearing the cart failed. The payment
		// stands; log and report success.
		h.logger.Error("cart clear failed after capture",
			"error", err,
			"session_id", sid)
	}

	h.metrics.PaymentSucceeded.Inc()
	h.metrics.CapturedValue.Observe(float64(amount))
	h.metrics.CartCleared.Inc()
	h.sessions.Drop(sid)

	respondJSON(w, http.StatusOK, captureResponse{
		CaptureID:   conf.CaptureID,
		Description: conf.Description,
		Phase:       string(payment.PhaseSucceeded),
	})
}

// paymentError translates adapter and provider failures into domain
// errors for the response layer.
func paymentError(op string, err error) error {
	switch {
	case errors.Is(err, payment.ErrOrderInFlight):
		return &domain.Error{
			Code:    domain.EINVALID,
			Message: "Another payment operation is already in progress.",
			Op:      op,
			Err:     err,
		}
	case errors.Is(err, payment.ErrNotReady), errors.Is(err, payment.ErrScriptNotLoaded):
		return &domain.Error{
			Code:    domain.EINVALID,
			Message: "The checkout is not ready for this step.",
			Op:      op,
			Err:     err,
		}
	default:
		return &domain.Error{
			Code:    domain.EPAYMENT,
			Message: "The payment was not completed. Please try again or use the hosted checkout.",
			Op:      op,
			Err:     err,
		}
	}
}
