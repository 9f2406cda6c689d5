package storefront

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/toontail/storefront/internal/cart"
	"github.com/toontail/storefront/internal/catalog"
	"github.com/toontail/storefront/internal/checkout"
	"github.com/toontail/storefront/internal/cookie"
	"github.com/toontail/storefront/internal/domain"
	"github.com/toontail/storefront/internal/telemetry"
)

// CartHandler serves the visitor cart endpoints.
type CartHandler struct {
	store   *cart.Store
	catalog catalog.Repository
	cookies *cookie.Config
	metrics *telemetry.CheckoutMetrics
	logger  *slog.Logger
}

func NewCartHandler(store *cart.Store, cat catalog.Repository, cookies *cookie.Config, metrics *telemetry.CheckoutMetrics, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		store:   store,
		catalog: cat,
		cookies: cookies,
		metrics: metrics,
		logger:  logger,
	}
}

// cartLineResponse is a cart line joined with its catalog entry.
type cartLineResponse struct {
	ProductID     string `json:"productId"`
	Qty           int    `json:"qty"`
	Name          string `json:"name"`
	PriceCents    int64  `json:"priceCents"`
	SubtotalCents int64  `json:"subtotalCents"`
}

// cartResponse is the full cart view returned by every cart endpoint,
// so the page can re-render cart and checkout state from one payload.
type cartResponse struct {
	Lines         []cartLineResponse   `json:"lines"`
	SubtotalCents int64                `json:"subtotalCents"`
	Checkout      *eligibilityResponse `json:"checkout"`
}

func (h *CartHandler) cartResponse(lines []cart.Line) cartResponse {
	out := make([]cartLineResponse, 0, len(lines))
	for _, l := range lines {
		p, ok := h.catalog.ByID(l.ProductID)
		if !ok {
			continue
		}
		var price int64
		if p.PriceCents != nil {
			price = *p.PriceCents
		}
		out = append(out, cartLineResponse{
			ProductID:     l.ProductID,
			Qty:           l.Qty,
			Name:          p.Name,
			PriceCents:    price,
			SubtotalCents: price * int64(l.Qty),
		})
	}

	el := checkout.Evaluate(lines, h.catalog)
	resp := toEligibilityResponse(el, "")
	return cartResponse{
		Lines:         out,
		SubtotalCents: h.store.SubtotalCents(lines),
		Checkout:      &resp,
	}
}

// View handles GET /api/cart.
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	lines := h.store.Load(sessionID(r))
	respondJSON(w, http.StatusOK, h.cartResponse(lines))
}

type addToCartRequest struct {
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
}

// Add handles POST /api/cart/items. Adding a different product replaces
// the cart contents; the storefront sells one product family at a time.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, &domain.Error{
			Code:    domain.EINVALID,
			Message: "Invalid request body.",
			Op:      "CartHandler.Add",
			Err:     err,
		})
		return
	}
	if req.ProductID == "" {
		respondError(w, r, &domain.Error{
			Code:    domain.EINVALID,
			Message: "productId is required.",
			Op:      "CartHandler.Add",
		})
		return
	}

	p, ok := h.catalog.ByID(req.ProductID)
	if !ok {
		respondError(w, r, &domain.Error{
			Code:    domain.ENOTFOUND,
			Message: "Product not found.",
			Op:      "CartHandler.Add",
		})
		return
	}
	if !p.Purchasable() {
		respondError(w, r, &domain.Error{
			Code:    domain.EINVALID,
			Message: "This product is not yet available for purchase.",
			Op:      "CartHandler.Add",
		})
		return
	}

	sid := ensureSession(w, r, h.cookies)
	lines, err := h.store.Add(sid, p, req.Qty)
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.metrics.CartItemsAdded.WithLabelValues(p.ID).Inc()
	respondJSON(w, http.StatusOK, h.cartResponse(lines))
}

type updateQtyRequest struct {
	Qty int `json:"qty"`
}

// UpdateQty handles PUT /api/cart/items/{id}. Quantities below one are
// clamped to one; removal is an explicit separate operation.
func (h *CartHandler) UpdateQty(w http.ResponseWriter, r *http.Request) {
	var req updateQtyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, &domain.Error{
			Code:    domain.EINVALID,
			Message: "Invalid request body.",
			Op:      "CartHandler.UpdateQty",
			Err:     err,
		})
		return
	}

	lines, err := h.store.UpdateQty(sessionID(r), r.PathValue("id"), req.Qty)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.cartResponse(lines))
}

// Remove handles DELETE /api/cart/items/{id}.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	lines, err := h.store.Remove(sessionID(r), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.cartResponse(lines))
}
