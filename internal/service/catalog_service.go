package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-inventory-tracker/pkg/apierror"
	"go-inventory-tracker/pkg/model"
)

type categoryStore interface {
	List(ctx context.Context) ([]model.Category, error)
	FindByID(ctx context.Context, id string) (model.Category, error)
	Create(ctx context.Context, c model.Category) error
}

type warehouseStore interface {
	List(ctx context.Context) ([]model.Warehouse, error)
	FindByID(ctx context.Context, id string) (model.Warehouse, error)
	Create(ctx context.Context, w model.Warehouse) error
}

// CatalogService serves the reference entities that populate form dropdowns.
type CatalogService struct {
	categories categoryStore
	warehouses warehouseStore
}

func NewCatalogService(categories categoryStore, warehouses warehouseStore) *CatalogService {
	return &CatalogService{categories: categories, warehouses: warehouses}
}

func (s *CatalogService) Categories(ctx context.Context) ([]model.Category, error) {
	return s.categories.List(ctx)
}

func (s *CatalogService) CreateCategory(ctx context.Context, in model.CategoryInput) (model.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Category{}, apierror.BadRequest("category name is required", "")
	}

	slug := slugify(name)
	category := model.Category{
		ID:          uuid.NewString(),
		Name:        name,
		Description: in.Description,
		Slug:        &slug,
		ParentID:    in.ParentID,
		IsActive:    true,
		SortOrder:   in.SortOrder,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.categories.Create(ctx, category); err != nil {
		return model.Category{}, err
	}
	return category, nil
}

func (s *CatalogService) Warehouses(ctx context.Context) ([]model.Warehouse, error) {
	return s.warehouses.List(ctx)
}

func (s *CatalogService) CreateWarehouse(ctx context.Context, in model.WarehouseInput) (model.Warehouse, error) {
	name := strings.TrimSpace(in.Name)
	code := strings.TrimSpace(in.Code)
	if name == "" || code == "" {
		return model.Warehouse{}, apierror.BadRequest("warehouse name and code are required", "")
	}

	warehouse := model.Warehouse{
		ID:        uuid.NewString(),
		Name:      name,
		Code:      code,
		Address:   in.Address,
		Phone:     in.Phone,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.warehouses.Create(ctx, warehouse); err != nil {
		return model.Warehouse{}, err
	}
	return warehouse, nil
}

func slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteRune('-')
			lastDash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
