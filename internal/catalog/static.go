package catalog

// StaticRepository is a Repository backed by an in-memory slice.
// It is the production implementation; tests substitute their own fixtures.
type StaticRepository struct {
	products []Product
	byID     map[string]Product
}

// NewStaticRepository creates a Repository from a fixed product list.
func NewStaticRepository(products []Product) *StaticRepository {
	byID := make(map[string]Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	return &StaticRepository{
		products: products,
		byID:     byID,
	}
}

// All returns every product in display order.
func (r *StaticRepository) All() []Product {
	out := make([]Product, len(r.products))
	copy(out, r.products)
	return out
}

// ByID looks up a product by its ID.
func (r *StaticRepository) ByID(id string) (Product, bool) {
	p, ok := r.byID[id]
	return p, ok
}

func cents(v int64) *int64 { return &v }

// Default returns the live ToonTail catalog.
func Default() *StaticRepository {
	return NewStaticRepository([]Product{
		{
			ID:             "tt-mercury-250-350",
			Name:           "ToonTail for Mercury 250–400 HP",
			Subtitle:       "Verado & compatible models (pontoon/tritoon)",
			Status:         StatusAvailable,
			PriceCents:     cents(39999),
			CompareAtCents: cents(49999),
			SaleLabel:      "Founders Run",
			PaymentLink:    "https://buy.stripe.com/REPLACE_WITH_YOUR_LINK",
			Image:          "/media/toontail_black_logo_watermarked.png",
		},
		{
			ID:          "tt-trucker-hat",
			Name:        "ToonTail Trucker Hat — 'Got Tail ?'",
			Subtitle:    "Black/mesh snapback, embroidered TT mark",
			Status:      StatusAvailable,
			PriceCents:  cents(3999),
			PaymentLink: "https://buy.stripe.com/REPLACE_WITH_HAT_LINK",
			Image:       "/media/hat-toontail.png",
		},
		{
			ID:          "tt-tee",
			Name:        "ToonTail Tee — 'Got Tail ?'",
			Subtitle:    "Unisex tee, front TT logo, back 'Got Tail ?'",
			Status:      StatusAvailable,
			PriceCents:  cents(2999),
			PaymentLink: "https://buy.stripe.com/REPLACE_WITH_TEE_LINK",
			Image:       "/media/tee-front-back.png",
		},
		{
			ID:       "tt-yamaha-90-150",
			Name:     "ToonTail Mini — Yamaha 90–150 HP",
			Subtitle: "Prototype — join waitlist",
			Status:   StatusWaitlist,
			Image:    "/media/toontail_black_logo_watermarked.png",
		},
		{
			ID:       "tt-yamaha-225-425",
			Name:     "ToonTail Magnum — Yamaha 225–425 HP",
			Subtitle: "Prototype — join waitlist",
			Status:   StatusWaitlist,
			Image:    "/media/toontail_black_logo_watermarked.png",
		},
		{
			ID:       "tt-mercury-90-150",
			Name:     "ToonTail Mini — Mercury 90–150 HP",
			Subtitle: "Prototype — join waitlist",
			Status:   StatusWaitlist,
			Image:    "/media/toontail_black_logo_watermarked.png",
		},
	})
}
