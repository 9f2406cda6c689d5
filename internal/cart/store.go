// Package cart implements the visitor shopping cart with durable
// persistence. The cart holds at most one distinct product at a time:
// adding a different product replaces the cart contents rather than
// appending, because neither checkout path can mix line items.
package cart

import (
	"encoding/json"
	"sync"

	"github.com/toontail/storefront/internal/catalog"
	"github.com/toontail/storefront/internal/domain"
)

// Line is a single cart line. Qty is always >= 1; a line that would drop
// to zero is removed instead.
type Line struct {
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
}

// Store owns cart state for all visitor sessions. Every mutation is
// synchronously persisted before returning, so a crash or navigation
// right after a mutation never silently loses state.
type Store struct {
	mu      sync.Mutex
	entries EntryStore
	catalog catalog.Repository
}

// NewStore creates a cart store backed by the given entry store.
func NewStore(entries EntryStore, cat catalog.Repository) *Store {
	return &Store{
		entries: entries,
		catalog: cat,
	}
}

// Load reads the cart for a session. Missing, corrupt, or otherwise
// non-deserializable entries yield an empty cart; Load never fails the
// caller over bad persisted data.
func (s *Store) Load(sessionID string) []Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(sessionID)
}

// load reads and normalizes the persisted cart. Callers must hold s.mu.
func (s *Store) load(sessionID string) []Line {
	data, err := s.entries.Read(sessionID)
	if err != nil {
		return nil
	}

	var raw []Line
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	// Normalize: drop dangling product references and non-positive
	// quantities, collapse duplicate lines for the same product.
	var lines []Line
	for _, l := range raw {
		if l.Qty <= 0 {
			continue
		}
		if _, ok := s.catalog.ByID(l.ProductID); !ok {
			continue
		}

		merged := false
		for i := range lines {
			if lines[i].ProductID == l.ProductID {
				lines[i].Qty += l.Qty
				merged = true
				break
			}
		}
		if !merged {
			lines = append(lines, l)
		}
	}

	return lines
}

// persist writes the cart for a session. Callers must hold s.mu.
func (s *Store) persist(sessionID string, lines []Line) error {
	if lines == nil {
		lines = []Line{}
	}

	data, err := json.Marshal(lines)
	if err != nil {
		return domain.WrapError(err, domain.EINTERNAL, "cart.persist", "failed to serialize cart")
	}

	if err := s.entries.Write(sessionID, data); err != nil {
		return domain.WrapError(err, domain.EINTERNAL, "cart.persist", "failed to persist cart")
	}

	return nil
}

// Add puts qty units of a product into the cart.
//
// Products that are not available (waitlist) are a no-op. If the cart
// already holds a different product, the cart is replaced with a single
// new line for this product. Otherwise the existing line's quantity is
// incremented, or a new line inserted if the cart was empty.
func (s *Store) Add(sessionID string, p catalog.Product, qty int) ([]Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.load(sessionID)

	if !p.Purchasable() {
		return lines, nil
	}
	if qty < 1 {
		qty = 1
	}

	switch {
	case len(lines) == 0:
		lines = []Line{{ProductID: p.ID, Qty: qty}}
	case lines[0].ProductID == p.ID:
		lines[0].Qty += qty
	default:
		// Different product family: replace the whole cart.
		lines = []Line{{ProductID: p.ID, Qty: qty}}
	}

	if err := s.persist(sessionID, lines); err != nil {
		return nil, err
	}

	return lines, nil
}

// UpdateQty sets the quantity of an existing line. The quantity is
// clamped to at least 1; removal goes through Remove. Updating an absent
// line is a no-op.
func (s *Store) UpdateQty(sessionID, productID string, qty int) ([]Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.load(sessionID)

	if qty < 1 {
		qty = 1
	}

	found := false
	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Qty = qty
			found = true
			break
		}
	}
	if !found {
		return lines, nil
	}

	if err := s.persist(sessionID, lines); err != nil {
		return nil, err
	}

	return lines, nil
}

// Remove deletes a line from the cart. An empty cart remains a valid,
// persisted state.
func (s *Store) Remove(sessionID, productID string) ([]Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.load(sessionID)

	kept := lines[:0]
	for _, l := range lines {
		if l.ProductID != productID {
			kept = append(kept, l)
		}
	}
	lines = kept

	if err := s.persist(sessionID, lines); err != nil {
		return nil, err
	}

	return lines, nil
}

// Clear empties the cart and persists the empty state. Called on
// confirmed payment capture.
func (s *Store) Clear(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.persist(sessionID, nil)
}

// SubtotalCents computes the cart subtotal from the catalog. A missing
// product or an undetermined price contributes zero.
func (s *Store) SubtotalCents(lines []Line) int64 {
	var total int64
	for _, l := range lines {
		p, ok := s.catalog.ByID(l.ProductID)
		if !ok || p.PriceCents == nil {
			continue
		}
		total += *p.PriceCents * int64(l.Qty)
	}

	return total
}
