package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-inventory-tracker/internal/repository"
	"go-inventory-tracker/pkg/apierror"
	"go-inventory-tracker/pkg/model"
)

func gudangClaims() *model.AuthClaims {
	return &model.AuthClaims{UserID: "u1", Username: "staff_gudang", Role: model.RoleGudang, WarehouseID: "wh-1"}
}

func adminClaims() *model.AuthClaims {
	return &model.AuthClaims{UserID: "admin", Username: "admin", Role: model.RoleSuperAdmin}
}

func warehouseItem(id string, stock int) model.InventoryItem {
	wh := "wh-1"
	return model.InventoryItem{
		ID: id, Name: "Laptop", CategoryID: "c1", WarehouseID: &wh,
		CurrentStock: stock, MinStock: 1, BuyPrice: 100, SellPrice: 150,
	}
}

func newInventoryFixture() (*InventoryService, *mockItemStore, *mockTransactionStore, *mockCategoryFinder, *mockWarehouseFinder) {
	items := new(mockItemStore)
	txs := new(mockTransactionStore)
	categories := new(mockCategoryFinder)
	warehouses := new(mockWarehouseFinder)
	svc := NewInventoryService(items, txs, categories, warehouses, "IDR")
	return svc, items, txs, categories, warehouses
}

func TestInventoryService_List(t *testing.T) {
	t.Run("warehouse staff are pinned to their warehouse", func(t *testing.T) {
		svc, items, _, _, _ := newInventoryFixture()

		items.On("List", mock.Anything, mock.MatchedBy(func(f repository.ListFilter) bool {
			return f.WarehouseID == "wh-1"
		})).Return([]model.InventoryItem{}, 0, nil)

		// Requesting another warehouse is silently overridden.
		_, err := svc.List(context.Background(), gudangClaims(), ListQuery{
			Filters: model.InventoryFilters{WarehouseID: "wh-other"},
		})
		require.NoError(t, err)
		items.AssertExpectations(t)
	})

	t.Run("page and limit are clamped", func(t *testing.T) {
		svc, items, _, _, _ := newInventoryFixture()

		items.On("List", mock.Anything, mock.MatchedBy(func(f repository.ListFilter) bool {
			return f.Limit == 100 && f.Offset == 0
		})).Return([]model.InventoryItem{}, 0, nil)

		_, err := svc.List(context.Background(), adminClaims(), ListQuery{Page: -3, Limit: 9999})
		require.NoError(t, err)
		items.AssertExpectations(t)
	})

	t.Run("total pages are derived from the total count", func(t *testing.T) {
		svc, items, _, _, _ := newInventoryFixture()

		items.On("List", mock.Anything, mock.Anything).
			Return([]model.InventoryItem{warehouseItem("1", 5)}, 25, nil)

		page, err := svc.List(context.Background(), adminClaims(), ListQuery{Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 25, page.Pagination.Total)
		assert.Equal(t, 3, page.Pagination.TotalPages)
	})
}

func TestInventoryService_Create(t *testing.T) {
	input := model.ItemInput{
		Name: "Laptop", CategoryID: "c1", Unit: "pcs",
		CurrentStock: 5, MinStock: 1, BuyPrice: 100, SellPrice: 150,
	}

	t.Run("only warehouse staff can create", func(t *testing.T) {
		svc, items, _, _, _ := newInventoryFixture()

		_, err := svc.Create(context.Background(), adminClaims(), input)

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 403, apiErr.HTTPStatus)
		items.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("generated SKU and initial stock transaction", func(t *testing.T) {
		svc, items, _, categories, warehouses := newInventoryFixture()

		warehouses.On("FindByID", mock.Anything, "wh-1").Return(model.Warehouse{ID: "wh-1"}, nil)
		categories.On("FindByID", mock.Anything, "c1").Return(model.Category{ID: "c1"}, nil)
		// The initial movement rides along with the insert so both commit
		// together.
		items.On("Create", mock.Anything, mock.MatchedBy(func(it model.InventoryItem) bool {
			return strings.HasPrefix(it.SKU, "ITEM-") && len(it.SKU) == len("ITEM-")+8 &&
				it.SKU == strings.ToUpper(it.SKU)
		}), mock.MatchedBy(func(tx *model.StockTransaction) bool {
			return tx != nil && tx.TransactionType == model.TransactionIn &&
				tx.Quantity == 5 && tx.PreviousStock == 0 && tx.NewStock == 5
		})).Return(nil)

		item, err := svc.Create(context.Background(), gudangClaims(), input)
		require.NoError(t, err)
		assert.Equal(t, 5, item.CurrentStock)
		require.NotNil(t, item.WarehouseID)
		assert.Equal(t, "wh-1", *item.WarehouseID)

		items.AssertExpectations(t)
	})

	t.Run("zero stock records no transaction", func(t *testing.T) {
		svc, items, _, categories, warehouses := newInventoryFixture()

		warehouses.On("FindByID", mock.Anything, "wh-1").Return(model.Warehouse{ID: "wh-1"}, nil)
		categories.On("FindByID", mock.Anything, "c1").Return(model.Category{ID: "c1"}, nil)
		items.On("Create", mock.Anything, mock.Anything, (*model.StockTransaction)(nil)).Return(nil)

		in := input
		in.CurrentStock = 0
		_, err := svc.Create(context.Background(), gudangClaims(), in)
		require.NoError(t, err)

		items.AssertExpectations(t)
	})

	t.Run("invalid payload never reaches the stores", func(t *testing.T) {
		svc, items, _, _, _ := newInventoryFixture()

		in := input
		in.SellPrice = 50
		_, err := svc.Create(context.Background(), gudangClaims(), in)

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 400, apiErr.HTTPStatus)
		items.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestInventoryService_Delete(t *testing.T) {
	t.Run("remaining stock blocks deletion", func(t *testing.T) {
		svc, items, _, _, _ := newInventoryFixture()

		items.On("FindByID", mock.Anything, "i1").Return(warehouseItem("i1", 5), nil)

		err := svc.Delete(context.Background(), gudangClaims(), "i1")

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 400, apiErr.HTTPStatus)
		items.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("zero stock deletes", func(t *testing.T) {
		svc, items, _, _, _ := newInventoryFixture()

		items.On("FindByID", mock.Anything, "i1").Return(warehouseItem("i1", 0), nil)
		items.On("Delete", mock.Anything, "i1").Return(nil)

		require.NoError(t, svc.Delete(context.Background(), gudangClaims(), "i1"))
		items.AssertExpectations(t)
	})

	t.Run("other warehouse is forbidden for staff", func(t *testing.T) {
		svc, items, _, _, _ := newInventoryFixture()

		other := "wh-2"
		it := warehouseItem("i1", 0)
		it.WarehouseID = &other
		items.On("FindByID", mock.Anything, "i1").Return(it, nil)

		err := svc.Delete(context.Background(), gudangClaims(), "i1")

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 403, apiErr.HTTPStatus)
	})
}

func adjustedRecord(txType string, quantity int, previous int, next int) model.StockTransaction {
	return model.StockTransaction{
		ItemID: "i1", TransactionType: txType, Quantity: quantity,
		PreviousStock: previous, NewStock: next,
	}
}

func TestInventoryService_AdjustStock(t *testing.T) {
	t.Run("inbound adds stock", func(t *testing.T) {
		svc, items, _, _, _ := newInventoryFixture()

		items.On("FindByID", mock.Anything, "i1").Return(warehouseItem("i1", 15), nil)
		items.On("AdjustStock", mock.Anything, mock.MatchedBy(func(tx model.StockTransaction) bool {
			return tx.TransactionType == model.TransactionIn && tx.Quantity == 5
		}), 5).Return(adjustedRecord(model.TransactionIn, 5, 15, 20), nil)

		result, err := svc.AdjustStock(context.Background(), gudangClaims(), "i1",
			model.StockAdjustmentRequest{Quantity: 5, TransactionType: model.TransactionIn})
		require.NoError(t, err)

		assert.Equal(t, 15, result.PreviousStock)
		assert.Equal(t, 20, result.NewStock)
		assert.Equal(t, 20, result.Item.CurrentStock)
		items.AssertExpectations(t)
	})

	t.Run("outbound subtracts stock", func(t *testing.T) {
		svc, items, _, _, _ := newInventoryFixture()

		items.On("FindByID", mock.Anything, "i1").Return(warehouseItem("i1", 15), nil)
		items.On("AdjustStock", mock.Anything, mock.Anything, -5).
			Return(adjustedRecord(model.TransactionOut, 5, 15, 10), nil)

		result, err := svc.AdjustStock(context.Background(), gudangClaims(), "i1",
			model.StockAdjustmentRequest{Quantity: 5, TransactionType: model.TransactionOut})
		require.NoError(t, err)
		assert.Equal(t, 10, result.NewStock)
		assert.Equal(t, -5, result.Adjustment)
	})

	t.Run("result reflects the row the update hit", func(t *testing.T) {
		svc, items, _, _, _ := newInventoryFixture()

		// A concurrent adjustment moved the stock between the read and the
		// write; the result reports the store's levels, not the stale read.
		items.On("FindByID", mock.Anything, "i1").Return(warehouseItem("i1", 15), nil)
		items.On("AdjustStock", mock.Anything, mock.Anything, 5).
			Return(adjustedRecord(model.TransactionIn, 5, 20, 25), nil)

		result, err := svc.AdjustStock(context.Background(), gudangClaims(), "i1",
			model.StockAdjustmentRequest{Quantity: 5, TransactionType: model.TransactionIn})
		require.NoError(t, err)
		assert.Equal(t, 20, result.PreviousStock)
		assert.Equal(t, 25, result.NewStock)
		assert.Equal(t, 25, result.Item.CurrentStock)
	})

	t.Run("cannot go below zero", func(t *testing.T) {
		svc, items, _, _, _ := newInventoryFixture()

		items.On("FindByID", mock.Anything, "i1").Return(warehouseItem("i1", 3), nil)

		_, err := svc.AdjustStock(context.Background(), gudangClaims(), "i1",
			model.StockAdjustmentRequest{Quantity: 5, TransactionType: model.TransactionOut})

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 400, apiErr.HTTPStatus)
		items.AssertNotCalled(t, "AdjustStock", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("racing overdraw surfaces as bad request", func(t *testing.T) {
		svc, items, _, _, _ := newInventoryFixture()

		items.On("FindByID", mock.Anything, "i1").Return(warehouseItem("i1", 15), nil)
		items.On("AdjustStock", mock.Anything, mock.Anything, -5).
			Return(model.StockTransaction{}, model.ErrInsufficientStock)

		_, err := svc.AdjustStock(context.Background(), gudangClaims(), "i1",
			model.StockAdjustmentRequest{Quantity: 5, TransactionType: model.TransactionOut})

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 400, apiErr.HTTPStatus)
	})

	t.Run("invalid transaction type is rejected", func(t *testing.T) {
		svc, items, _, _, _ := newInventoryFixture()

		_, err := svc.AdjustStock(context.Background(), gudangClaims(), "i1",
			model.StockAdjustmentRequest{Quantity: 5, TransactionType: "teleport"})

		assert.Error(t, err)
		items.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}

func TestInventoryService_Update(t *testing.T) {
	t.Run("stock edit records a manual adjustment", func(t *testing.T) {
		svc, items, _, _, _ := newInventoryFixture()

		items.On("FindByID", mock.Anything, "i1").Return(warehouseItem("i1", 10), nil)
		items.On("Update", mock.Anything, mock.Anything).Return(nil)
		items.On("AdjustStock", mock.Anything, mock.MatchedBy(func(tx model.StockTransaction) bool {
			return tx.TransactionType == model.TransactionOut && tx.Quantity == 4
		}), -4).Return(adjustedRecord(model.TransactionOut, 4, 10, 6), nil)

		newStock := 6
		updated, err := svc.Update(context.Background(), gudangClaims(), "i1", model.ItemUpdate{CurrentStock: &newStock})
		require.NoError(t, err)
		assert.Equal(t, 6, updated.CurrentStock)
		items.AssertExpectations(t)
	})

	t.Run("non-stock edits skip the adjust path", func(t *testing.T) {
		svc, items, _, _, _ := newInventoryFixture()

		items.On("FindByID", mock.Anything, "i1").Return(warehouseItem("i1", 10), nil)
		items.On("Update", mock.Anything, mock.Anything).Return(nil)

		name := "Laptop Pro"
		_, err := svc.Update(context.Background(), gudangClaims(), "i1", model.ItemUpdate{Name: &name})
		require.NoError(t, err)
		items.AssertNotCalled(t, "AdjustStock", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("staff cannot toggle is_active", func(t *testing.T) {
		svc, items, _, _, _ := newInventoryFixture()

		items.On("FindByID", mock.Anything, "i1").Return(warehouseItem("i1", 10), nil)

		active := false
		_, err := svc.Update(context.Background(), gudangClaims(), "i1", model.ItemUpdate{IsActive: &active})

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 403, apiErr.HTTPStatus)
	})
}

func TestInventoryService_LowStockAndValue(t *testing.T) {
	svc, items, _, _, _ := newInventoryFixture()

	items.On("LowStock", mock.Anything, "wh-1").Return([]model.InventoryItem{warehouseItem("i1", 1)}, nil)
	items.On("TotalValue", mock.Anything, "wh-1").Return(1250.50, nil)

	low, err := svc.LowStock(context.Background(), gudangClaims())
	require.NoError(t, err)
	assert.Len(t, low, 1)

	value, err := svc.TotalValue(context.Background(), gudangClaims(), "")
	require.NoError(t, err)
	assert.Equal(t, 1250.50, value.Value)
	assert.Equal(t, "IDR", value.Currency)
	require.NotNil(t, value.WarehouseID)
	assert.Equal(t, "wh-1", *value.WarehouseID)
}

func TestInventoryService_SummaryAndOutOfStock(t *testing.T) {
	svc, items, _, _, _ := newInventoryFixture()

	items.On("Summary", mock.Anything, "wh-1").
		Return(model.InventorySummary{TotalItems: 4, TotalStock: 40, OutOfStockItems: 1}, nil)
	items.On("OutOfStock", mock.Anything, "wh-1").
		Return([]model.InventoryItem{warehouseItem("i1", 0)}, nil)

	// Warehouse staff cannot widen the scope by naming another warehouse.
	summary, err := svc.Summary(context.Background(), gudangClaims(), "wh-other")
	require.NoError(t, err)
	assert.Equal(t, 4, summary.TotalItems)
	require.NotNil(t, summary.WarehouseID)
	assert.Equal(t, "wh-1", *summary.WarehouseID)

	out, err := svc.OutOfStock(context.Background(), gudangClaims(), "wh-other")
	require.NoError(t, err)
	assert.Len(t, out, 1)
	items.AssertExpectations(t)
}
