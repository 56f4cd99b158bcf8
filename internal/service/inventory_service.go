package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-inventory-tracker/internal/repository"
	"go-inventory-tracker/pkg/apierror"
	"go-inventory-tracker/pkg/model"
)

type itemStore interface {
	List(ctx context.Context, f repository.ListFilter) ([]model.InventoryItem, int, error)
	FindByID(ctx context.Context, id string) (model.InventoryItem, error)
	Create(ctx context.Context, it model.InventoryItem, initial *model.StockTransaction) error
	Update(ctx context.Context, it model.InventoryItem) error
	AdjustStock(ctx context.Context, record model.StockTransaction, delta int) (model.StockTransaction, error)
	Delete(ctx context.Context, id string) error
	LowStock(ctx context.Context, warehouseID string) ([]model.InventoryItem, error)
	OutOfStock(ctx context.Context, warehouseID string) ([]model.InventoryItem, error)
	TotalValue(ctx context.Context, warehouseID string) (float64, error)
	Summary(ctx context.Context, warehouseID string) (model.InventorySummary, error)
}

type transactionStore interface {
	ListByItem(ctx context.Context, itemID string, offset int, limit int) ([]model.StockTransaction, error)
}

type categoryFinder interface {
	FindByID(ctx context.Context, id string) (model.Category, error)
}

type InventoryService struct {
	items      itemStore
	txs        transactionStore
	categories categoryFinder
	warehouses warehouseFinder
	currency   string
}

func NewInventoryService(items itemStore, txs transactionStore,
	categories categoryFinder, warehouses warehouseFinder, currency string) *InventoryService {
	if currency == "" {
		currency = "IDR"
	}
	return &InventoryService{
		items:      items,
		txs:        txs,
		categories: categories,
		warehouses: warehouses,
		currency:   currency,
	}
}

// ListQuery is the resolved query state of the list endpoint.
type ListQuery struct {
	Page    int
	Limit   int
	Filters model.InventoryFilters
}

// scopeWarehouse pins warehouse staff to their own warehouse regardless of
// the requested filter.
func scopeWarehouse(claims *model.AuthClaims, requested string) string {
	if claims != nil && claims.Role == model.RoleGudang && claims.WarehouseID != "" {
		return claims.WarehouseID
	}
	return requested
}

func (s *InventoryService) List(ctx context.Context, claims *model.AuthClaims, q ListQuery) (model.PaginatedItems, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 10
	}
	if q.Limit > 100 {
		q.Limit = 100
	}

	filter := repository.ListFilter{
		WarehouseID: scopeWarehouse(claims, q.Filters.WarehouseID),
		CategoryID:  q.Filters.CategoryID,
		MinStock:    q.Filters.MinStock,
		MaxStock:    q.Filters.MaxStock,
		Search:      strings.TrimSpace(q.Filters.Search),
		IsActive:    q.Filters.IsActive,
		Offset:      (q.Page - 1) * q.Limit,
		Limit:       q.Limit,
	}

	items, total, err := s.items.List(ctx, filter)
	if err != nil {
		return model.PaginatedItems{}, err
	}

	totalPages := 0
	if q.Limit > 0 {
		totalPages = (total + q.Limit - 1) / q.Limit
	}

	return model.PaginatedItems{
		Items: items,
		Pagination: model.Pagination{
			Page:       q.Page,
			Limit:      q.Limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

func (s *InventoryService) Get(ctx context.Context, claims *model.AuthClaims, id string) (model.InventoryItem, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return model.InventoryItem{}, err
	}

	if err := s.checkWarehouseAccess(claims, item); err != nil {
		return model.InventoryItem{}, err
	}
	return item, nil
}

func (s *InventoryService) Create(ctx context.Context, claims *model.AuthClaims, in model.ItemInput) (model.InventoryItem, error) {
	if claims.Role != model.RoleGudang {
		return model.InventoryItem{}, apierror.Forbidden("only warehouse staff can create items")
	}

	if err := in.Validate(); err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			return model.InventoryItem{}, apierror.BadRequest("invalid item payload", verr.Error())
		}
		return model.InventoryItem{}, err
	}

	if _, err := s.warehouses.FindByID(ctx, claims.WarehouseID); err != nil {
		if errors.Is(err, model.ErrWarehouseNotFound) {
			return model.InventoryItem{}, apierror.BadRequest("warehouse not found", claims.WarehouseID)
		}
		return model.InventoryItem{}, err
	}

	if _, err := s.categories.FindByID(ctx, in.CategoryID); err != nil {
		if errors.Is(err, model.ErrCategoryNotFound) {
			return model.InventoryItem{}, apierror.BadRequest("category not found", in.CategoryID)
		}
		return model.InventoryItem{}, err
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	unit := in.Unit
	if unit == "" {
		unit = "pcs"
	}

	warehouseID := claims.WarehouseID
	item := model.InventoryItem{
		ID:           uuid.NewString(),
		SKU:          generateSKU(),
		Barcode:      in.Barcode,
		Name:         in.Name,
		Description:  in.Description,
		CategoryID:   in.CategoryID,
		WarehouseID:  &warehouseID,
		Unit:         unit,
		CurrentStock: in.CurrentStock,
		MinStock:     in.MinStock,
		MaxStock:     in.MaxStock,
		BuyPrice:     in.BuyPrice,
		SellPrice:    in.SellPrice,
		IsActive:     active,
		CreatedBy:    &claims.UserID,
		CreatedAt:    time.Now().UTC(),
	}

	// The item row and its initial stock movement commit together.
	var initial *model.StockTransaction
	if item.CurrentStock > 0 {
		ref := "Initial stock"
		record := newStockTransaction(claims.UserID, item.ID, model.TransactionIn,
			item.CurrentStock, item.BuyPrice, 0, item.CurrentStock, &ref, nil)
		initial = &record
	}

	if err := s.items.Create(ctx, item, initial); err != nil {
		return model.InventoryItem{}, err
	}

	return item, nil
}

func (s *InventoryService) Update(ctx context.Context, claims *model.AuthClaims, id string, in model.ItemUpdate) (model.InventoryItem, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return model.InventoryItem{}, err
	}

	if claims.Role == model.RoleGudang {
		if err := s.checkWarehouseAccess(claims, item); err != nil {
			return model.InventoryItem{}, err
		}
		if in.IsActive != nil {
			return model.InventoryItem{}, apierror.Forbidden("cannot update is_active field")
		}
	}

	if err := in.Validate(); err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			return model.InventoryItem{}, apierror.BadRequest("invalid item payload", verr.Error())
		}
		return model.InventoryItem{}, err
	}

	previousStock := item.CurrentStock
	applyUpdate(&item, in)

	if err := s.items.Update(ctx, item); err != nil {
		return model.InventoryItem{}, err
	}

	// A direct stock edit goes through the atomic adjust path, recorded as a
	// manual adjustment so the transaction history stays complete.
	if in.CurrentStock != nil && *in.CurrentStock != previousStock {
		adjustment := *in.CurrentStock - previousStock
		txType := model.TransactionIn
		unitPrice := item.BuyPrice
		if adjustment < 0 {
			txType = model.TransactionOut
			unitPrice = item.SellPrice
		}
		ref := "Manual adjustment"
		record := newStockTransaction(claims.UserID, item.ID, txType,
			abs(adjustment), unitPrice, previousStock, *in.CurrentStock, &ref, nil)

		record, err = s.items.AdjustStock(ctx, record, adjustment)
		if err != nil {
			if errors.Is(err, model.ErrInsufficientStock) {
				return model.InventoryItem{}, apierror.BadRequest("insufficient stock", "")
			}
			return model.InventoryItem{}, err
		}
		item.CurrentStock = record.NewStock
	}

	return item, nil
}

func (s *InventoryService) Delete(ctx context.Context, claims *model.AuthClaims, id string) error {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if claims.Role == model.RoleGudang {
		if err := s.checkWarehouseAccess(claims, item); err != nil {
			return err
		}
	}

	if item.CurrentStock > 0 {
		return apierror.BadRequest("cannot delete item with stock > 0", "")
	}

	return s.items.Delete(ctx, id)
}

func (s *InventoryService) AdjustStock(ctx context.Context, claims *model.AuthClaims, id string, req model.StockAdjustmentRequest) (model.StockAdjustmentResult, error) {
	if err := req.Validate(); err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			return model.StockAdjustmentResult{}, apierror.BadRequest("invalid adjustment payload", verr.Error())
		}
		return model.StockAdjustmentResult{}, err
	}

	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return model.StockAdjustmentResult{}, err
	}

	if claims.Role == model.RoleGudang {
		if err := s.checkWarehouseAccess(claims, item); err != nil {
			return model.StockAdjustmentResult{}, err
		}
	}

	// Outbound and adjustment transactions subtract from stock.
	quantity := req.Quantity
	if req.TransactionType == model.TransactionOut || req.TransactionType == model.TransactionAdjustment {
		quantity = -quantity
	}

	newStock := item.CurrentStock + quantity
	if newStock < 0 {
		return model.StockAdjustmentResult{}, apierror.BadRequest("insufficient stock", "")
	}

	unitPrice := item.BuyPrice
	if quantity < 0 {
		unitPrice = item.SellPrice
	}

	// The stock update and the movement record commit in one database
	// transaction; the returned previous/new levels reflect the row the
	// update actually hit, not the stale read above.
	record := newStockTransaction(claims.UserID, item.ID, req.TransactionType,
		abs(quantity), unitPrice, item.CurrentStock, newStock, req.Reference, req.Notes)

	record, err = s.items.AdjustStock(ctx, record, quantity)
	if err != nil {
		if errors.Is(err, model.ErrInsufficientStock) {
			return model.StockAdjustmentResult{}, apierror.BadRequest("insufficient stock", "")
		}
		return model.StockAdjustmentResult{}, err
	}
	item.CurrentStock = record.NewStock

	return model.StockAdjustmentResult{
		Item:          item,
		PreviousStock: record.PreviousStock,
		NewStock:      record.NewStock,
		Adjustment:    quantity,
	}, nil
}

func (s *InventoryService) LowStock(ctx context.Context, claims *model.AuthClaims) ([]model.InventoryItem, error) {
	return s.items.LowStock(ctx, scopeWarehouse(claims, ""))
}

func (s *InventoryService) OutOfStock(ctx context.Context, claims *model.AuthClaims, warehouseID string) ([]model.InventoryItem, error) {
	return s.items.OutOfStock(ctx, scopeWarehouse(claims, warehouseID))
}

// Summary aggregates stock statistics, scoped to the caller's warehouse for
// warehouse staff.
func (s *InventoryService) Summary(ctx context.Context, claims *model.AuthClaims, warehouseID string) (model.InventorySummary, error) {
	scoped := scopeWarehouse(claims, warehouseID)
	summary, err := s.items.Summary(ctx, scoped)
	if err != nil {
		return model.InventorySummary{}, err
	}

	if scoped != "" {
		summary.WarehouseID = &scoped
	}
	return summary, nil
}

func (s *InventoryService) TotalValue(ctx context.Context, claims *model.AuthClaims, warehouseID string) (model.InventoryValue, error) {
	scoped := scopeWarehouse(claims, warehouseID)
	value, err := s.items.TotalValue(ctx, scoped)
	if err != nil {
		return model.InventoryValue{}, err
	}

	result := model.InventoryValue{Value: value, Currency: s.currency}
	if scoped != "" {
		result.WarehouseID = &scoped
	}
	return result, nil
}

func (s *InventoryService) Transactions(ctx context.Context, claims *model.AuthClaims, itemID string, offset int, limit int) ([]model.StockTransaction, error) {
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if err := s.checkWarehouseAccess(claims, item); err != nil {
		return nil, err
	}

	if limit < 1 || limit > 1000 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	return s.txs.ListByItem(ctx, itemID, offset, limit)
}

func (s *InventoryService) checkWarehouseAccess(claims *model.AuthClaims, item model.InventoryItem) error {
	if claims == nil || claims.Role != model.RoleGudang {
		return nil
	}
	if item.WarehouseID == nil || *item.WarehouseID != claims.WarehouseID {
		return apierror.Forbidden("cannot access items from other warehouses")
	}
	return nil
}

func newStockTransaction(userID string, itemID string, txType string, quantity int,
	unitPrice float64, previousStock int, newStock int, reference *string, notes *string) model.StockTransaction {
	return model.StockTransaction{
		ID:              uuid.NewString(),
		TransactionCode: generateTransactionCode(),
		ItemID:          itemID,
		TransactionType: txType,
		Quantity:        quantity,
		UnitPrice:       unitPrice,
		PreviousStock:   previousStock,
		NewStock:        newStock,
		Reference:       reference,
		Notes:           notes,
		CreatedBy:       userID,
		CreatedAt:       time.Now().UTC(),
	}
}

func applyUpdate(item *model.InventoryItem, in model.ItemUpdate) {
	if in.Name != nil {
		item.Name = *in.Name
	}
	if in.Description != nil {
		item.Description = in.Description
	}
	if in.Barcode != nil {
		item.Barcode = in.Barcode
	}
	if in.CategoryID != nil {
		item.CategoryID = *in.CategoryID
	}
	if in.Unit != nil {
		item.Unit = *in.Unit
	}
	if in.CurrentStock != nil {
		item.CurrentStock = *in.CurrentStock
	}
	if in.MinStock != nil {
		item.MinStock = *in.MinStock
	}
	if in.MaxStock != nil {
		item.MaxStock = in.MaxStock
	}
	if in.BuyPrice != nil {
		item.BuyPrice = *in.BuyPrice
	}
	if in.SellPrice != nil {
		item.SellPrice = *in.SellPrice
	}
	if in.IsActive != nil {
		item.IsActive = *in.IsActive
	}
}

func generateSKU() string {
	return "ITEM-" + strings.ToUpper(uuid.NewString()[:8])
}

func generateTransactionCode() string {
	return "TXN-" + strings.ToUpper(uuid.NewString()[:8])
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
