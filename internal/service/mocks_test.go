package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"go-inventory-tracker/internal/repository"
	"go-inventory-tracker/pkg/model"
)

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) FindByID(ctx context.Context, id string) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockUserStore) FindByUsername(ctx context.Context, username string) (model.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockUserStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserStore) Create(ctx context.Context, u model.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserStore) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	args := m.Called(ctx, userID, at)
	return args.Error(0)
}

func (m *mockUserStore) UpdatePassword(ctx context.Context, userID string, passwordHash string) error {
	args := m.Called(ctx, userID, passwordHash)
	return args.Error(0)
}

func (m *mockUserStore) List(ctx context.Context) ([]model.SessionUser, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.SessionUser), args.Error(1)
}

type mockTokenStore struct{ mock.Mock }

func (m *mockTokenStore) Store(ctx context.Context, token string, userID string, expiresAt time.Time) error {
	args := m.Called(ctx, token, userID, expiresAt)
	return args.Error(0)
}

func (m *mockTokenStore) Validate(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

func (m *mockTokenStore) Revoke(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *mockTokenStore) RevokeAllForUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type mockWarehouseFinder struct{ mock.Mock }

func (m *mockWarehouseFinder) FindByID(ctx context.Context, id string) (model.Warehouse, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Warehouse), args.Error(1)
}

type mockCategoryFinder struct{ mock.Mock }

func (m *mockCategoryFinder) FindByID(ctx context.Context, id string) (model.Category, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Category), args.Error(1)
}

type mockItemStore struct{ mock.Mock }

func (m *mockItemStore) List(ctx context.Context, f repository.ListFilter) ([]model.InventoryItem, int, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]model.InventoryItem), args.Int(1), args.Error(2)
}

func (m *mockItemStore) FindByID(ctx context.Context, id string) (model.InventoryItem, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.InventoryItem), args.Error(1)
}

func (m *mockItemStore) Create(ctx context.Context, it model.InventoryItem, initial *model.StockTransaction) error {
	args := m.Called(ctx, it, initial)
	return args.Error(0)
}

func (m *mockItemStore) Update(ctx context.Context, it model.InventoryItem) error {
	args := m.Called(ctx, it)
	return args.Error(0)
}

func (m *mockItemStore) AdjustStock(ctx context.Context, record model.StockTransaction, delta int) (model.StockTransaction, error) {
	args := m.Called(ctx, record, delta)
	return args.Get(0).(model.StockTransaction), args.Error(1)
}

func (m *mockItemStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockItemStore) LowStock(ctx context.Context, warehouseID string) ([]model.InventoryItem, error) {
	args := m.Called(ctx, warehouseID)
	return args.Get(0).([]model.InventoryItem), args.Error(1)
}

func (m *mockItemStore) OutOfStock(ctx context.Context, warehouseID string) ([]model.InventoryItem, error) {
	args := m.Called(ctx, warehouseID)
	return args.Get(0).([]model.InventoryItem), args.Error(1)
}

func (m *mockItemStore) TotalValue(ctx context.Context, warehouseID string) (float64, error) {
	args := m.Called(ctx, warehouseID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *mockItemStore) Summary(ctx context.Context, warehouseID string) (model.InventorySummary, error) {
	args := m.Called(ctx, warehouseID)
	return args.Get(0).(model.InventorySummary), args.Error(1)
}

type mockTransactionStore struct{ mock.Mock }

func (m *mockTransactionStore) ListByItem(ctx context.Context, itemID string, offset int, limit int) ([]model.StockTransaction, error) {
	args := m.Called(ctx, itemID, offset, limit)
	return args.Get(0).([]model.StockTransaction), args.Error(1)
}
