package client

import (
	"context"
	"net/url"
	"strconv"

	"go-inventory-tracker/pkg/model"
)

// InventoryService is a set of stateless wrappers: one REST call per method,
// envelope unwrapped, errors passed through from the server.
type InventoryService struct {
	client *Client
}

func NewInventoryService(client *Client) *InventoryService {
	return &InventoryService{client: client}
}

// ListQuery carries the list endpoint's paging and filter state. Zero-valued
// fields are omitted from the query string.
type ListQuery struct {
	Page    int
	Limit   int
	Filters model.InventoryFilters
}

func (q ListQuery) values() url.Values {
	vals := url.Values{}
	if q.Page > 0 {
		vals.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		vals.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Filters.CategoryID != "" {
		vals.Set("category_id", q.Filters.CategoryID)
	}
	if q.Filters.WarehouseID != "" {
		vals.Set("warehouse_id", q.Filters.WarehouseID)
	}
	if q.Filters.MinStock != nil {
		vals.Set("min_stock", strconv.Itoa(*q.Filters.MinStock))
	}
	if q.Filters.MaxStock != nil {
		vals.Set("max_stock", strconv.Itoa(*q.Filters.MaxStock))
	}
	if q.Filters.Search != "" {
		vals.Set("search", q.Filters.Search)
	}
	if q.Filters.IsActive != nil {
		vals.Set("is_active", strconv.FormatBool(*q.Filters.IsActive))
	}
	return vals
}

func (s *InventoryService) List(ctx context.Context, q ListQuery) (model.PaginatedItems, error) {
	var page model.PaginatedItems
	if err := s.client.get(ctx, "/inventory", q.values(), &page); err != nil {
		return model.PaginatedItems{}, err
	}
	return page, nil
}

func (s *InventoryService) Get(ctx context.Context, id string) (model.InventoryItem, error) {
	var item model.InventoryItem
	if err := s.client.get(ctx, "/inventory/"+id, nil, &item); err != nil {
		return model.InventoryItem{}, err
	}
	return item, nil
}

// Create validates the payload at the form boundary first; a ValidationError
// never reaches the server.
func (s *InventoryService) Create(ctx context.Context, in model.ItemInput) (model.InventoryItem, error) {
	if err := in.Validate(); err != nil {
		return model.InventoryItem{}, err
	}

	var item model.InventoryItem
	if err := s.client.post(ctx, "/inventory", in, &item); err != nil {
		return model.InventoryItem{}, err
	}
	return item, nil
}

func (s *InventoryService) Update(ctx context.Context, id string, in model.ItemUpdate) (model.InventoryItem, error) {
	if err := in.Validate(); err != nil {
		return model.InventoryItem{}, err
	}

	var item model.InventoryItem
	if err := s.client.put(ctx, "/inventory/"+id, in, &item); err != nil {
		return model.InventoryItem{}, err
	}
	return item, nil
}

func (s *InventoryService) Delete(ctx context.Context, id string) error {
	return s.client.delete(ctx, "/inventory/"+id)
}

func (s *InventoryService) AdjustStock(ctx context.Context, id string, req model.StockAdjustmentRequest) (model.StockAdjustmentResult, error) {
	if err := req.Validate(); err != nil {
		return model.StockAdjustmentResult{}, err
	}

	var result model.StockAdjustmentResult
	if err := s.client.post(ctx, "/inventory/"+id+"/stock", req, &result); err != nil {
		return model.StockAdjustmentResult{}, err
	}
	return result, nil
}

func (s *InventoryService) LowStock(ctx context.Context) ([]model.InventoryItem, error) {
	items := []model.InventoryItem{}
	if err := s.client.get(ctx, "/inventory/low-stock", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *InventoryService) OutOfStock(ctx context.Context) ([]model.InventoryItem, error) {
	items := []model.InventoryItem{}
	if err := s.client.get(ctx, "/inventory/out-of-stock", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *InventoryService) Summary(ctx context.Context) (model.InventorySummary, error) {
	var summary model.InventorySummary
	if err := s.client.get(ctx, "/inventory/summary", nil, &summary); err != nil {
		return model.InventorySummary{}, err
	}
	return summary, nil
}

func (s *InventoryService) TotalValue(ctx context.Context) (model.InventoryValue, error) {
	var value model.InventoryValue
	if err := s.client.get(ctx, "/inventory/value", nil, &value); err != nil {
		return model.InventoryValue{}, err
	}
	return value, nil
}

func (s *InventoryService) Transactions(ctx context.Context, itemID string) ([]model.StockTransaction, error) {
	txs := []model.StockTransaction{}
	if err := s.client.get(ctx, "/inventory/"+itemID+"/transactions", nil, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

func (s *InventoryService) Categories(ctx context.Context) ([]model.Category, error) {
	categories := []model.Category{}
	if err := s.client.get(ctx, "/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *InventoryService) Warehouses(ctx context.Context) ([]model.Warehouse, error) {
	warehouses := []model.Warehouse{}
	if err := s.client.get(ctx, "/warehouses", nil, &warehouses); err != nil {
		return nil, err
	}
	return warehouses, nil
}
