package client

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"go-inventory-tracker/pkg/model"
)

// Store owns the inventory State. All mutation flows through Dispatch; the
// network-facing methods fetch or write via the API and then dispatch the
// resulting actions. Reads hand out a copy of the state, so callers can
// inspect it without holding any lock.
type Store struct {
	mu      sync.Mutex
	state   State
	inv     *InventoryService
	session SessionStore
}

func NewStore(inv *InventoryService, session SessionStore) *Store {
	return &Store{
		state:   initialState(),
		inv:     inv,
		session: session,
	}
}

// State returns a snapshot of the current state.
func (st *Store) State() State {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state
}

// Dispatch applies one action through the reducer. It is the only place the
// state is replaced.
func (st *Store) Dispatch(a Action) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.state = Reduce(st.state, a)
}

// Load performs the initial fan-out: the item page for the current filters
// plus categories, warehouses, low-stock items, and the total value, fetched
// in parallel. With no session token it does nothing at all — an anonymous
// store stays empty and issues zero requests.
func (st *Store) Load(ctx context.Context) error {
	if !st.session.IsAuthenticated() {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return st.FetchItems(gctx) })
	g.Go(func() error {
		categories, err := st.inv.Categories(gctx)
		if err != nil {
			return err
		}
		st.Dispatch(CategoriesLoaded{Categories: categories})
		return nil
	})
	g.Go(func() error {
		warehouses, err := st.inv.Warehouses(gctx)
		if err != nil {
			return err
		}
		st.Dispatch(WarehousesLoaded{Warehouses: warehouses})
		return nil
	})
	g.Go(func() error {
		items, err := st.inv.LowStock(gctx)
		if err != nil {
			return err
		}
		st.Dispatch(LowStockLoaded{Items: items})
		return nil
	})
	g.Go(func() error {
		value, err := st.inv.TotalValue(gctx)
		if err != nil {
			return err
		}
		st.Dispatch(ValueLoaded{Value: value.Value})
		return nil
	})

	return g.Wait()
}

// FetchItems reloads the item page for the state's current filters and
// pagination. Failures land in the state as FetchFailure and are also
// returned.
func (st *Store) FetchItems(ctx context.Context) error {
	st.mu.Lock()
	q := ListQuery{
		Page:    st.state.Pagination.Page,
		Limit:   st.state.Pagination.Limit,
		Filters: st.state.Filters,
	}
	st.mu.Unlock()

	st.Dispatch(FetchStart{})

	page, err := st.inv.List(ctx, q)
	if err != nil {
		st.Dispatch(FetchFailure{Message: err.Error()})
		return err
	}

	st.Dispatch(FetchSuccess{Items: page.Items, Pagination: page.Pagination})
	return nil
}

// CreateItem creates the item on the server and prepends it to the list.
func (st *Store) CreateItem(ctx context.Context, in model.ItemInput) (model.InventoryItem, error) {
	item, err := st.inv.Create(ctx, in)
	if err != nil {
		return model.InventoryItem{}, err
	}
	st.Dispatch(ItemAdded{Item: item})
	return item, nil
}

// UpdateItem updates the item on the server and swaps the server's version
// into the list.
func (st *Store) UpdateItem(ctx context.Context, id string, in model.ItemUpdate) (model.InventoryItem, error) {
	item, err := st.inv.Update(ctx, id, in)
	if err != nil {
		return model.InventoryItem{}, err
	}
	st.Dispatch(ItemUpdated{Item: item})
	return item, nil
}

// DeleteItem removes the item. When the item is present in the state with
// stock remaining, the call is rejected locally without a network round trip;
// the server enforces the same rule for items the store has not seen.
func (st *Store) DeleteItem(ctx context.Context, id string) error {
	st.mu.Lock()
	for _, item := range st.state.Items {
		if item.ID == id && item.CurrentStock > 0 {
			st.mu.Unlock()
			return fmt.Errorf("%w: %s has %d units remaining", model.ErrStockNotEmpty, item.Name, item.CurrentStock)
		}
	}
	st.mu.Unlock()

	if err := st.inv.Delete(ctx, id); err != nil {
		return err
	}
	st.Dispatch(ItemDeleted{ID: id})
	return nil
}

// AdjustStock applies a stock movement and swaps the updated item into the
// list.
func (st *Store) AdjustStock(ctx context.Context, id string, req model.StockAdjustmentRequest) (model.StockAdjustmentResult, error) {
	result, err := st.inv.AdjustStock(ctx, id, req)
	if err != nil {
		return model.StockAdjustmentResult{}, err
	}
	st.Dispatch(ItemUpdated{Item: result.Item})
	return result, nil
}

// SetFilters merges the patch into the current filters, resets to page 1, and
// re-fetches.
func (st *Store) SetFilters(ctx context.Context, patch FiltersChanged) error {
	st.Dispatch(patch)
	page := 1
	st.Dispatch(PageChanged{Page: &page})
	return st.FetchItems(ctx)
}

// SetPage moves to the given page and re-fetches.
func (st *Store) SetPage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	st.Dispatch(PageChanged{Page: &page})
	return st.FetchItems(ctx)
}

// ClearError drops the state's error message.
func (st *Store) ClearError() {
	st.Dispatch(ErrorCleared{})
}

// Reset returns the store to its initial state, typically after logout.
func (st *Store) Reset() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.state = initialState()
}
