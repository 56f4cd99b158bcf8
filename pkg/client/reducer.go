package client

import "go-inventory-tracker/pkg/model"

// State is the single authoritative client-side view of inventory data. It is
// only ever replaced through Reduce; nothing mutates it in place.
type State struct {
	Items          []model.InventoryItem
	Categories     []model.Category
	Warehouses     []model.Warehouse
	LowStockItems  []model.InventoryItem
	InventoryValue float64
	Loading        bool
	Err            string
	Filters        model.InventoryFilters
	Pagination     model.Pagination
}

func initialState() State {
	return State{
		Items:         []model.InventoryItem{},
		Categories:    []model.Category{},
		Warehouses:    []model.Warehouse{},
		LowStockItems: []model.InventoryItem{},
		Pagination:    model.Pagination{Page: 1, Limit: 10},
	}
}

// Action is the sealed set of state transitions.
type Action interface {
	isAction()
}

type FetchStart struct{}

type FetchSuccess struct {
	Items      []model.InventoryItem
	Pagination model.Pagination
}

type FetchFailure struct {
	Message string
}

// ItemAdded prepends the new item regardless of the active filter and sort —
// the newest entry shows first until the next full fetch. Callers that need
// strict filter consistency must re-fetch.
type ItemAdded struct {
	Item model.InventoryItem
}

// ItemUpdated replaces the matching item in place; unknown ids are a no-op.
type ItemUpdated struct {
	Item model.InventoryItem
}

// ItemDeleted removes the matching item; deleting a missing id is a no-op.
type ItemDeleted struct {
	ID string
}

type CategoriesLoaded struct {
	Categories []model.Category
}

type WarehousesLoaded struct {
	Warehouses []model.Warehouse
}

type LowStockLoaded struct {
	Items []model.InventoryItem
}

type ValueLoaded struct {
	Value float64
}

// FiltersChanged shallow-merges into the current filters: only fields that
// are present in the patch change. It deliberately does not reset the page;
// a caller changing filters must also dispatch PageChanged back to page 1 or
// risk showing an out-of-range page.
type FiltersChanged struct {
	CategoryID  *string
	WarehouseID *string
	MinStock    *int
	MaxStock    *int
	Search      *string
	IsActive    *bool
}

// FiltersReset clears every filter.
type FiltersReset struct{}

// PageChanged shallow-merges into the current pagination.
type PageChanged struct {
	Page       *int
	Limit      *int
	Total      *int
	TotalPages *int
}

type ErrorCleared struct{}

type LoadingReset struct{}

func (FetchStart) isAction()       {}
func (FetchSuccess) isAction()     {}
func (FetchFailure) isAction()     {}
func (ItemAdded) isAction()        {}
func (ItemUpdated) isAction()      {}
func (ItemDeleted) isAction()      {}
func (CategoriesLoaded) isAction() {}
func (WarehousesLoaded) isAction() {}
func (LowStockLoaded) isAction()   {}
func (ValueLoaded) isAction()      {}
func (FiltersChanged) isAction()   {}
func (FiltersReset) isAction()     {}
func (PageChanged) isAction()      {}
func (ErrorCleared) isAction()     {}
func (LoadingReset) isAction()     {}

// Reduce is the pure transition function: (state, action) -> state. Slices
// touched by an action are copied, never mutated.
func Reduce(s State, a Action) State {
	switch act := a.(type) {
	case FetchStart:
		s.Loading = true
		s.Err = ""

	case FetchSuccess:
		s.Items = act.Items
		s.Pagination = act.Pagination
		s.Loading = false
		s.Err = ""

	case FetchFailure:
		s.Loading = false
		s.Err = act.Message

	case ItemAdded:
		items := make([]model.InventoryItem, 0, len(s.Items)+1)
		items = append(items, act.Item)
		items = append(items, s.Items...)
		s.Items = items

	case ItemUpdated:
		for i, item := range s.Items {
			if item.ID == act.Item.ID {
				items := make([]model.InventoryItem, len(s.Items))
				copy(items, s.Items)
				items[i] = act.Item
				s.Items = items
				break
			}
		}

	case ItemDeleted:
		for i, item := range s.Items {
			if item.ID == act.ID {
				items := make([]model.InventoryItem, 0, len(s.Items)-1)
				items = append(items, s.Items[:i]...)
				items = append(items, s.Items[i+1:]...)
				s.Items = items
				break
			}
		}

	case CategoriesLoaded:
		s.Categories = act.Categories

	case WarehousesLoaded:
		s.Warehouses = act.Warehouses

	case LowStockLoaded:
		s.LowStockItems = act.Items

	case ValueLoaded:
		s.InventoryValue = act.Value

	case FiltersChanged:
		if act.CategoryID != nil {
			s.Filters.CategoryID = *act.CategoryID
		}
		if act.WarehouseID != nil {
			s.Filters.WarehouseID = *act.WarehouseID
		}
		if act.MinStock != nil {
			v := *act.MinStock
			s.Filters.MinStock = &v
		}
		if act.MaxStock != nil {
			v := *act.MaxStock
			s.Filters.MaxStock = &v
		}
		if act.Search != nil {
			s.Filters.Search = *act.Search
		}
		if act.IsActive != nil {
			v := *act.IsActive
			s.Filters.IsActive = &v
		}

	case FiltersReset:
		s.Filters = model.InventoryFilters{}

	case PageChanged:
		if act.Page != nil {
			s.Pagination.Page = *act.Page
		}
		if act.Limit != nil {
			s.Pagination.Limit = *act.Limit
		}
		if act.Total != nil {
			s.Pagination.Total = *act.Total
		}
		if act.TotalPages != nil {
			s.Pagination.TotalPages = *act.TotalPages
		}

	case ErrorCleared:
		s.Err = ""

	case LoadingReset:
		s.Loading = false
	}

	return s
}
