package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-inventory-tracker/pkg/model"
)

type WarehouseRepository struct {
	pool *pgxpool.Pool
}

func NewWarehouseRepository(pool *pgxpool.Pool) *WarehouseRepository {
	return &WarehouseRepository{pool: pool}
}

const warehouseColumns = `id, name, code, address, phone, is_active, created_at, updated_at`

func scanWarehouse(row pgx.Row) (model.Warehouse, error) {
	var w model.Warehouse
	err := row.Scan(&w.ID, &w.Name, &w.Code, &w.Address, &w.Phone,
		&w.IsActive, &w.CreatedAt, &w.UpdatedAt)
	return w, err
}

func (r *WarehouseRepository) List(ctx context.Context) ([]model.Warehouse, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+warehouseColumns+` FROM warehouses ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	defer rows.Close()

	warehouses := make([]model.Warehouse, 0)
	for rows.Next() {
		w, err := scanWarehouse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		warehouses = append(warehouses, w)
	}
	return warehouses, rows.Err()
}

func (r *WarehouseRepository) FindByID(ctx context.Context, id string) (model.Warehouse, error) {
	w, err := scanWarehouse(r.pool.QueryRow(ctx,
		`SELECT `+warehouseColumns+` FROM warehouses WHERE id = $1`, id))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Warehouse{}, model.ErrWarehouseNotFound
	}
	if err != nil {
		return model.Warehouse{}, fmt.Errorf("find warehouse by id: %w", err)
	}
	return w, nil
}

func (r *WarehouseRepository) Create(ctx context.Context, w model.Warehouse) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO warehouses (id, name, code, address, phone, is_active, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		w.ID, w.Name, w.Code, w.Address, w.Phone, w.IsActive, w.CreatedAt)
	if err != nil {
		return fmt.Errorf("create warehouse: %w", err)
	}
	return nil
}
