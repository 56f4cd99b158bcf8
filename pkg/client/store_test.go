package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-inventory-tracker/pkg/model"
)

func item(id, name string, stock int) model.InventoryItem {
	return model.InventoryItem{ID: id, Name: name, CurrentStock: stock}
}

func TestReduce_FetchLifecycle(t *testing.T) {
	s := initialState()

	s = Reduce(s, FetchStart{})
	assert.True(t, s.Loading)
	assert.Empty(t, s.Err)

	s = Reduce(s, FetchSuccess{
		Items:      []model.InventoryItem{item("1", "Laptop", 5)},
		Pagination: model.Pagination{Page: 1, Limit: 10, Total: 1, TotalPages: 1},
	})
	assert.False(t, s.Loading)
	assert.Len(t, s.Items, 1)
	assert.Equal(t, 1, s.Pagination.Total)

	s = Reduce(s, FetchStart{})
	s = Reduce(s, FetchFailure{Message: "boom"})
	assert.False(t, s.Loading)
	assert.Equal(t, "boom", s.Err)
	// A failed fetch keeps the previously loaded items visible.
	assert.Len(t, s.Items, 1)

	s = Reduce(s, ErrorCleared{})
	assert.Empty(t, s.Err)
}

func TestReduce_ItemSetSemantics(t *testing.T) {
	t.Run("added item is prepended", func(t *testing.T) {
		s := initialState()
		s = Reduce(s, FetchSuccess{Items: []model.InventoryItem{item("1", "Laptop", 5)}})
		s = Reduce(s, ItemAdded{Item: item("2", "Mouse", 3)})

		require.Len(t, s.Items, 2)
		assert.Equal(t, "2", s.Items[0].ID)
		assert.Equal(t, "1", s.Items[1].ID)
	})

	t.Run("update replaces matching item only", func(t *testing.T) {
		s := initialState()
		s = Reduce(s, FetchSuccess{Items: []model.InventoryItem{
			item("1", "Laptop", 5),
			item("2", "Mouse", 3),
		}})

		s = Reduce(s, ItemUpdated{Item: item("2", "Gaming Mouse", 7)})

		require.Len(t, s.Items, 2)
		assert.Equal(t, "Laptop", s.Items[0].Name)
		assert.Equal(t, "Gaming Mouse", s.Items[1].Name)
		assert.Equal(t, 7, s.Items[1].CurrentStock)
	})

	t.Run("update of unknown id is a no-op", func(t *testing.T) {
		s := initialState()
		s = Reduce(s, FetchSuccess{Items: []model.InventoryItem{item("1", "Laptop", 5)}})

		before := s.Items
		s = Reduce(s, ItemUpdated{Item: item("nope", "Ghost", 1)})

		assert.Equal(t, before, s.Items)
	})

	t.Run("delete removes matching item", func(t *testing.T) {
		s := initialState()
		s = Reduce(s, FetchSuccess{Items: []model.InventoryItem{
			item("1", "Laptop", 5),
			item("2", "Mouse", 3),
		}})

		s = Reduce(s, ItemDeleted{ID: "1"})

		require.Len(t, s.Items, 1)
		assert.Equal(t, "2", s.Items[0].ID)
	})

	t.Run("delete of missing id is idempotent", func(t *testing.T) {
		s := initialState()
		s = Reduce(s, FetchSuccess{Items: []model.InventoryItem{item("1", "Laptop", 5)}})

		s = Reduce(s, ItemDeleted{ID: "1"})
		s = Reduce(s, ItemDeleted{ID: "1"})

		assert.Empty(t, s.Items)
	})
}

func TestReduce_SlicesAreCopied(t *testing.T) {
	original := []model.InventoryItem{item("1", "Laptop", 5), item("2", "Mouse", 3)}
	s := initialState()
	s = Reduce(s, FetchSuccess{Items: original})

	_ = Reduce(s, ItemUpdated{Item: item("1", "Changed", 9)})

	// The pre-update snapshot must be untouched.
	assert.Equal(t, "Laptop", s.Items[0].Name)
}

func TestReduce_FilterMerge(t *testing.T) {
	s := initialState()

	cat := "cat-1"
	s = Reduce(s, FiltersChanged{CategoryID: &cat})
	assert.Equal(t, "cat-1", s.Filters.CategoryID)

	// Merging a second patch keeps the first field.
	search := "laptop"
	s = Reduce(s, FiltersChanged{Search: &search})
	assert.Equal(t, "cat-1", s.Filters.CategoryID)
	assert.Equal(t, "laptop", s.Filters.Search)

	// Explicit empty string clears a field; absent fields stay.
	empty := ""
	s = Reduce(s, FiltersChanged{CategoryID: &empty})
	assert.Empty(t, s.Filters.CategoryID)
	assert.Equal(t, "laptop", s.Filters.Search)

	min := 5
	s = Reduce(s, FiltersChanged{MinStock: &min})
	require.NotNil(t, s.Filters.MinStock)
	assert.Equal(t, 5, *s.Filters.MinStock)

	s = Reduce(s, FiltersReset{})
	assert.Equal(t, model.InventoryFilters{}, s.Filters)
}

func TestReduce_FilterChangeKeepsPage(t *testing.T) {
	s := initialState()
	page := 3
	s = Reduce(s, PageChanged{Page: &page})

	search := "x"
	s = Reduce(s, FiltersChanged{Search: &search})

	// The reducer does not reset pagination; that is the store facade's job.
	assert.Equal(t, 3, s.Pagination.Page)
}

// storeTestServer is a minimal API double: it serves canned inventory data in
// the standard response envelope and counts requests per path.
func storeTestServer(t *testing.T, hits *atomic.Int64) *httptest.Server {
	t.Helper()

	write := func(w http.ResponseWriter, data any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/inventory", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		write(w, model.PaginatedItems{
			Items:      []model.InventoryItem{item("1", "Laptop", 5)},
			Pagination: model.Pagination{Page: 1, Limit: 10, Total: 1, TotalPages: 1},
		})
	})
	mux.HandleFunc("GET /api/v1/inventory/low-stock", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		write(w, []model.InventoryItem{item("2", "Cable", 1)})
	})
	mux.HandleFunc("GET /api/v1/inventory/value", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		write(w, model.InventoryValue{Value: 1250.50, Currency: "IDR"})
	})
	mux.HandleFunc("GET /api/v1/categories", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		write(w, []model.Category{{ID: "c1", Name: "Electronics"}})
	})
	mux.HandleFunc("GET /api/v1/warehouses", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		write(w, []model.Warehouse{{ID: "w1", Name: "Gudang Utama"}})
	})
	mux.HandleFunc("DELETE /api/v1/inventory/{id}", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		write(w, nil)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestStore(t *testing.T, srv *httptest.Server, authenticated bool) *Store {
	t.Helper()

	session := NewMemorySessionStore()
	if authenticated {
		session.SetTokens("test-token", "")
	}
	c := New(srv.URL, session)
	return NewStore(NewInventoryService(c), session)
}

func TestStore_LoadAnonymousSkipsNetwork(t *testing.T) {
	var hits atomic.Int64
	srv := storeTestServer(t, &hits)

	store := newTestStore(t, srv, false)
	err := store.Load(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int64(0), hits.Load())
	assert.Empty(t, store.State().Items)
}

func TestStore_LoadFansOut(t *testing.T) {
	var hits atomic.Int64
	srv := storeTestServer(t, &hits)

	store := newTestStore(t, srv, true)
	err := store.Load(context.Background())
	require.NoError(t, err)

	s := store.State()
	assert.Len(t, s.Items, 1)
	assert.Len(t, s.Categories, 1)
	assert.Len(t, s.Warehouses, 1)
	assert.Len(t, s.LowStockItems, 1)
	assert.Equal(t, 1250.50, s.InventoryValue)
	assert.False(t, s.Loading)
	assert.Equal(t, int64(5), hits.Load())
}

func TestStore_DeleteItemGuard(t *testing.T) {
	var hits atomic.Int64
	srv := storeTestServer(t, &hits)

	store := newTestStore(t, srv, true)
	store.Dispatch(FetchSuccess{Items: []model.InventoryItem{
		item("1", "Laptop", 5),
		item("2", "Empty Box", 0),
	}})

	t.Run("stock remaining is rejected without a request", func(t *testing.T) {
		err := store.DeleteItem(context.Background(), "1")

		assert.ErrorIs(t, err, model.ErrStockNotEmpty)
		assert.Equal(t, int64(0), hits.Load())
		assert.Len(t, store.State().Items, 2)
	})

	t.Run("zero stock deletes and updates state", func(t *testing.T) {
		err := store.DeleteItem(context.Background(), "2")

		assert.NoError(t, err)
		assert.Equal(t, int64(1), hits.Load())

		s := store.State()
		require.Len(t, s.Items, 1)
		assert.Equal(t, "1", s.Items[0].ID)
	})
}

func TestStore_SetFiltersResetsPage(t *testing.T) {
	var hits atomic.Int64
	srv := storeTestServer(t, &hits)

	store := newTestStore(t, srv, true)
	page := 4
	store.Dispatch(PageChanged{Page: &page})

	search := "laptop"
	err := store.SetFilters(context.Background(), FiltersChanged{Search: &search})
	require.NoError(t, err)

	s := store.State()
	assert.Equal(t, "laptop", s.Filters.Search)
	assert.Equal(t, 1, s.Pagination.Page)
}

func TestStore_FetchFailureLandsInState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"error":   map[string]string{"code": "INTERNAL", "message": "database down"},
		})
	}))
	t.Cleanup(srv.Close)

	store := newTestStore(t, srv, true)
	err := store.FetchItems(context.Background())

	assert.Error(t, err)
	s := store.State()
	assert.False(t, s.Loading)
	assert.Contains(t, s.Err, "database down")
}
