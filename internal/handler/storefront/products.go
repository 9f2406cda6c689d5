package storefront

import (
	"log/slog"
	"net/http"

	"github.com/toontail/storefront/internal/catalog"
	"github.com/toontail/storefront/internal/domain"
)

// ProductHandler serves the product catalog.
type ProductHandler struct {
	catalog catalog.Repository
	logger  *slog.Logger
}

func NewProductHandler(cat catalog.Repository, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: cat,
		logger:  logger,
	}
}

// productResponse is the JSON shape of a catalog entry.
type productResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Subtitle       string `json:"subtitle,omitempty"`
	Status         string `json:"status"`
	PriceCents     *int64 `json:"priceCents,omitempty"`
	CompareAtCents *int64 `json:"compareAtCents,omitempty"`
	SaleLabel      string `json:"saleLabel,omitempty"`
	PriceLabel     string `json:"priceLabel,omitempty"`
	PaymentLink    string `json:"paymentLink,omitempty"`
	Image          string `json:"image,omitempty"`
}

func toProductResponse(p catalog.Product) productResponse {
	return productResponse{
		ID:             p.ID,
		Name:           p.Name,
		Subtitle:       p.Subtitle,
		Status:         string(p.Status),
		PriceCents:     p.PriceCents,
		CompareAtCents: p.CompareAtCents,
		SaleLabel:      p.SaleLabel,
		PriceLabel:     p.PriceLabel,
		PaymentLink:    p.PaymentLink,
		Image:          p.Image,
	}
}

// List handles GET /api/products.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products := h.catalog.All()
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"products": out,
	})
}

// Get handles GET /api/products/{id}.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	p, ok := h.catalog.ByID(id)
	if !ok {
		respondError(w, r, &domain.Error{
			Code:    domain.ENOTFOUND,
			Message: "Product not found.",
			Op:      "ProductHandler.Get",
		})
		return
	}
	respondJSON(w, http.StatusOK, toProductResponse(p))
}
