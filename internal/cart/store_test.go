package cart_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toontail/storefront/internal/cart"
	"github.com/toontail/storefront/internal/catalog"
)

func testCatalog() catalog.Repository {
	p1 := int64(1000)
	p2 := int64(2500)
	p3 := int64(0)

	return catalog.NewStaticRepository([]catalog.Product{
		{ID: "p1", Name: "ToonTail", Status: catalog.StatusAvailable, PriceCents: &p1, PaymentLink: "https://buy.stripe.com/test-p1"},
		{ID: "p2", Name: "Hat", Status: catalog.StatusAvailable, PriceCents: &p2},
		{ID: "p3", Name: "Freebie", Status: catalog.StatusAvailable, PriceCents: &p3},
		{ID: "proto", Name: "Prototype", Status: catalog.StatusWaitlist},
	})
}

func mustProduct(t *testing.T, cat catalog.Repository, id string) catalog.Product {
	t.Helper()
	p, ok := cat.ByID(id)
	require.True(t, ok, "fixture product %s missing", id)
	return p
}

const session = "sess-1"

func TestStore_AddNewLine(t *testing.T) {
	cat := testCatalog()
	store := cart.NewStore(cart.NewMemoryEntryStore(), cat)

	lines, err := store.Add(session, mustProduct(t, cat, "p1"), 1)
	require.NoError(t, err)

	assert.Equal(t, []cart.Line{{ProductID: "p1", Qty: 1}}, lines)
	assert.Equal(t, int64(1000), store.SubtotalCents(lines))
}

func TestStore_AddSameProductIncrements(t *testing.T) {
	cat := testCatalog()
	store := cart.NewStore(cart.NewMemoryEntryStore(), cat)

	_, err := store.Add(session, mustProduct(t, cat, "p1"), 1)
	require.NoError(t, err)
	lines, err := store.Add(session, mustProduct(t, cat, "p1"), 1)
	require.NoError(t, err)

	assert.Equal(t, []cart.Line{{ProductID: "p1", Qty: 2}}, lines)
	assert.Equal(t, int64(2000), store.SubtotalCents(lines))
}

func TestStore_AddDifferentProductReplacesCart(t *testing.T) {
	cat := testCatalog()
	store := cart.NewStore(cart.NewMemoryEntryStore(), cat)

	_, err := store.Add(session, mustProduct(t, cat, "p1"), 2)
	require.NoError(t, err)
	lines, err := store.Add(session, mustProduct(t, cat, "p2"), 1)
	require.NoError(t, err)

	assert.Equal(t, []cart.Line{{ProductID: "p2", Qty: 1}}, lines, "previous line must be fully replaced")
}

func TestStore_AddWaitlistProductIsNoop(t *testing.T) {
	cat := testCatalog()
	store := cart.NewStore(cart.NewMemoryEntryStore(), cat)

	_, err := store.Add(session, mustProduct(t, cat, "p1"), 1)
	require.NoError(t, err)
	lines, err := store.Add(session, mustProduct(t, cat, "proto"), 1)
	require.NoError(t, err)

	assert.Equal(t, []cart.Line{{ProductID: "p1", Qty: 1}}, lines)
}

func TestStore_UpdateQtyClampsToOne(t *testing.T) {
	cat := testCatalog()
	store := cart.NewStore(cart.NewMemoryEntryStore(), cat)

	_, err := store.Add(session, mustProduct(t, cat, "p1"), 3)
	require.NoError(t, err)

	lines, err := store.UpdateQty(session, "p1", 0)
	require.NoError(t, err)
	assert.Equal(t, []cart.Line{{ProductID: "p1", Qty: 1}}, lines)

	lines, err = store.UpdateQty(session, "p1", -5)
	require.NoError(t, err)
	assert.Equal(t, []cart.Line{{ProductID: "p1", Qty: 1}}, lines)
}

func TestStore_UpdateQtyAbsentLineIsNoop(t *testing.T) {
	cat := testCatalog()
	store := cart.NewStore(cart.NewMemoryEntryStore(), cat)

	lines, err := store.UpdateQty(session, "p1", 4)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestStore_RemoveSoleLine(t *testing.T) {
	cat := testCatalog()
	store := cart.NewStore(cart.NewMemoryEntryStore(), cat)

	_, err := store.Add(session, mustProduct(t, cat, "p1"), 1)
	require.NoError(t, err)

	lines, err := store.Remove(session, "p1")
	require.NoError(t, err)
	assert.Empty(t, lines)

	// Empty cart is a valid persisted state.
	assert.Empty(t, store.Load(session))
}

func TestStore_Clear(t *testing.T) {
	cat := testCatalog()
	store := cart.NewStore(cart.NewMemoryEntryStore(), cat)

	_, err := store.Add(session, mustProduct(t, cat, "p1"), 2)
	require.NoError(t, err)

	require.NoError(t, store.Clear(session))
	assert.Empty(t, store.Load(session))
}

func TestStore_RoundTrip(t *testing.T) {
	cat := testCatalog()
	entries := cart.NewMemoryEntryStore()
	store := cart.NewStore(entries, cat)

	want, err := store.Add(session, mustProduct(t, cat, "p1"), 2)
	require.NoError(t, err)

	// A fresh store over the same entries sees the identical cart.
	reloaded := cart.NewStore(entries, cat)
	assert.Equal(t, want, reloaded.Load(session))
}

func TestStore_LoadCorruptEntryYieldsEmptyCart(t *testing.T) {
	cat := testCatalog()
	entries := cart.NewMemoryEntryStore()
	require.NoError(t, entries.Write(session, []byte("{not json")))

	store := cart.NewStore(entries, cat)
	assert.Empty(t, store.Load(session))
}

func TestStore_LoadDropsDanglingAndNonPositiveLines(t *testing.T) {
	cat := testCatalog()
	entries := cart.NewMemoryEntryStore()
	require.NoError(t, entries.Write(session, []byte(
		`[{"productId":"gone","qty":1},{"productId":"p1","qty":0},{"productId":"p1","qty":2}]`,
	)))

	store := cart.NewStore(entries, cat)
	assert.Equal(t, []cart.Line{{ProductID: "p1", Qty: 2}}, store.Load(session))
}

func TestStore_LoadCollapsesDuplicateLines(t *testing.T) {
	cat := testCatalog()
	entries := cart.NewMemoryEntryStore()
	require.NoError(t, entries.Write(session, []byte(
		`[{"productId":"p1","qty":1},{"productId":"p1","qty":2}]`,
	)))

	store := cart.NewStore(entries, cat)
	assert.Equal(t, []cart.Line{{ProductID: "p1", Qty: 3}}, store.Load(session))
}

// The cart never contains duplicate product lines, lines with qty <= 0,
// or more than one distinct product, no matter the operation sequence.
func TestStore_InvariantsUnderOperationSequences(t *testing.T) {
	cat := testCatalog()
	store := cart.NewStore(cart.NewMemoryEntryStore(), cat)

	type op struct {
		kind      string
		productID string
		qty       int
	}

	ops := []op{
		{"add", "p1", 1},
		{"add", "p1", 3},
		{"update", "p1", 0},
		{"add", "p2", 2},
		{"update", "p2", -1},
		{"add", "p3", 1},
		{"remove", "gone", 0},
		{"add", "proto", 5},
		{"update", "gone", 7},
		{"remove", "p3", 0},
		{"add", "p1", 2},
	}

	check := func(lines []cart.Line) {
		seen := map[string]bool{}
		for _, l := range lines {
			assert.GreaterOrEqual(t, l.Qty, 1, "qty must be >= 1")
			assert.False(t, seen[l.ProductID], "duplicate line for %s", l.ProductID)
			seen[l.ProductID] = true
		}
		assert.LessOrEqual(t, len(seen), 1, "cart must hold at most one distinct product")
	}

	for _, o := range ops {
		var lines []cart.Line
		var err error
		switch o.kind {
		case "add":
			p, ok := cat.ByID(o.productID)
			require.True(t, ok)
			lines, err = store.Add(session, p, o.qty)
		case "update":
			lines, err = store.UpdateQty(session, o.productID, o.qty)
		case "remove":
			lines, err = store.Remove(session, o.productID)
		}
		require.NoError(t, err)
		check(lines)
		check(store.Load(session))
	}
}

func TestStore_SubtotalTreatsMissingPriceAsZero(t *testing.T) {
	cat := testCatalog()
	store := cart.NewStore(cart.NewMemoryEntryStore(), cat)

	lines := []cart.Line{
		{ProductID: "p3", Qty: 4},    // price 0
		{ProductID: "gone", Qty: 2},  // missing product
		{ProductID: "proto", Qty: 1}, // no price set
	}
	assert.Equal(t, int64(0), store.SubtotalCents(lines))
}

func TestStore_SessionsAreIsolated(t *testing.T) {
	cat := testCatalog()
	store := cart.NewStore(cart.NewMemoryEntryStore(), cat)

	_, err := store.Add("sess-a", mustProduct(t, cat, "p1"), 1)
	require.NoError(t, err)
	_, err = store.Add("sess-b", mustProduct(t, cat, "p2"), 2)
	require.NoError(t, err)

	assert.Equal(t, []cart.Line{{ProductID: "p1", Qty: 1}}, store.Load("sess-a"))
	assert.Equal(t, []cart.Line{{ProductID: "p2", Qty: 2}}, store.Load("sess-b"))
}

func TestLocalEntryStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	entries, err := cart.NewLocalEntryStore(dir)
	require.NoError(t, err)

	_, err = entries.Read("missing")
	assert.ErrorIs(t, err, cart.ErrEntryNotFound)

	require.NoError(t, entries.Write("sess", []byte(`[{"productId":"p1","qty":1}]`)))

	data, err := entries.Read("sess")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"productId":"p1","qty":1}]`, string(data))
}

func TestLocalEntryStore_SanitizesKeys(t *testing.T) {
	dir := t.TempDir()

	entries, err := cart.NewLocalEntryStore(dir)
	require.NoError(t, err)

	// A hostile session cookie must not escape the storage directory.
	require.NoError(t, entries.Write("../escape", []byte("[]")))

	data, err := entries.Read("../escape")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}
