package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-inventory-tracker/pkg/model"
)

const itemColumns = `id, sku, barcode, name, description, category_id, warehouse_id, unit,
	current_stock, min_stock, max_stock, buy_price, sell_price, is_active,
	created_by, created_at, updated_at`

type InventoryRepository struct {
	pool *pgxpool.Pool
}

func NewInventoryRepository(pool *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{pool: pool}
}

func scanItem(row pgx.Row) (model.InventoryItem, error) {
	var it model.InventoryItem
	err := row.Scan(&it.ID, &it.SKU, &it.Barcode, &it.Name, &it.Description, &it.CategoryID,
		&it.WarehouseID, &it.Unit, &it.CurrentStock, &it.MinStock, &it.MaxStock,
		&it.BuyPrice, &it.SellPrice, &it.IsActive, &it.CreatedBy, &it.CreatedAt, &it.UpdatedAt)
	return it, err
}

// ListFilter mirrors the list endpoint's query parameters. Offset/Limit are
// resolved by the service from page/limit.
type ListFilter struct {
	WarehouseID string
	CategoryID  string
	MinStock    *int
	MaxStock    *int
	Search      string
	IsActive    *bool
	Offset      int
	Limit       int
}

func (f ListFilter) where() (string, []any) {
	clauses := []string{}
	args := []any{}

	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, strings.Replace(clause, "?", "$"+strconv.Itoa(len(args)), 1))
	}

	if f.WarehouseID != "" {
		add("warehouse_id = ?", f.WarehouseID)
	}
	if f.CategoryID != "" {
		add("category_id = ?", f.CategoryID)
	}
	if f.MinStock != nil {
		add("current_stock >= ?", *f.MinStock)
	}
	if f.MaxStock != nil {
		add("current_stock <= ?", *f.MaxStock)
	}
	if f.Search != "" {
		args = append(args, "%"+strings.ToLower(f.Search)+"%")
		n := "$" + strconv.Itoa(len(args))
		clauses = append(clauses, "(lower(name) LIKE "+n+" OR lower(sku) LIKE "+n+")")
	}
	if f.IsActive != nil {
		add("is_active = ?", *f.IsActive)
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// List returns one page of items plus the unpaginated total for the filter.
func (r *InventoryRepository) List(ctx context.Context, f ListFilter) ([]model.InventoryItem, int, error) {
	where, args := f.where()

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM inventory_items`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}

	limitArg := len(args) + 1
	offsetArg := len(args) + 2
	args = append(args, f.Limit, f.Offset)

	rows, err := r.pool.Query(ctx,
		`SELECT `+itemColumns+` FROM inventory_items`+where+
			` ORDER BY created_at DESC LIMIT $`+strconv.Itoa(limitArg)+` OFFSET $`+strconv.Itoa(offsetArg),
		args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := make([]model.InventoryItem, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	return items, total, rows.Err()
}

func (r *InventoryRepository) FindByID(ctx context.Context, id string) (model.InventoryItem, error) {
	it, err := scanItem(r.pool.QueryRow(ctx,
		`SELECT `+itemColumns+` FROM inventory_items WHERE id = $1`, id))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.InventoryItem{}, model.ErrItemNotFound
	}
	if err != nil {
		return model.InventoryItem{}, fmt.Errorf("find item by id: %w", err)
	}
	return it, nil
}

// Create inserts the item and, when an initial stock movement is supplied,
// records it in the same database transaction.
func (r *InventoryRepository) Create(ctx context.Context, it model.InventoryItem, initial *model.StockTransaction) error {
	dbTx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create item: %w", err)
	}
	defer func() { _ = dbTx.Rollback(ctx) }()

	_, err = dbTx.Exec(ctx,
		`INSERT INTO inventory_items (id, sku, barcode, name, description, category_id, warehouse_id,
		                              unit, current_stock, min_stock, max_stock, buy_price, sell_price,
		                              is_active, created_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		it.ID, it.SKU, it.Barcode, it.Name, it.Description, it.CategoryID, it.WarehouseID,
		it.Unit, it.CurrentStock, it.MinStock, it.MaxStock, it.BuyPrice, it.SellPrice,
		it.IsActive, it.CreatedBy, it.CreatedAt)
	if err != nil {
		return fmt.Errorf("create item: %w", err)
	}

	if initial != nil {
		if err := insertStockTransaction(ctx, dbTx, *initial); err != nil {
			return err
		}
	}

	if err := dbTx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create item: %w", err)
	}
	return nil
}

func (r *InventoryRepository) Update(ctx context.Context, it model.InventoryItem) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE inventory_items
		 SET barcode = $2, name = $3, description = $4, category_id = $5, unit = $6,
		     min_stock = $7, max_stock = $8, buy_price = $9,
		     sell_price = $10, is_active = $11, updated_at = now()
		 WHERE id = $1`,
		it.ID, it.Barcode, it.Name, it.Description, it.CategoryID, it.Unit,
		it.MinStock, it.MaxStock, it.BuyPrice, it.SellPrice, it.IsActive)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrItemNotFound
	}
	return nil
}

// AdjustStock applies a relative stock change and records the movement in one
// database transaction. The previous and new levels on the returned record
// come from the row the update actually hit, so concurrent adjustments never
// overwrite each other and a movement row never outlives a failed update.
func (r *InventoryRepository) AdjustStock(ctx context.Context, record model.StockTransaction, delta int) (model.StockTransaction, error) {
	dbTx, err := r.pool.Begin(ctx)
	if err != nil {
		return model.StockTransaction{}, fmt.Errorf("begin stock adjustment: %w", err)
	}
	defer func() { _ = dbTx.Rollback(ctx) }()

	var previous, next int
	err = dbTx.QueryRow(ctx,
		`UPDATE inventory_items
		 SET current_stock = current_stock + $2, updated_at = now()
		 WHERE id = $1 AND current_stock + $2 >= 0
		 RETURNING current_stock - $2, current_stock`,
		record.ItemID, delta).Scan(&previous, &next)
	if errors.Is(err, pgx.ErrNoRows) {
		// Either the item vanished or the delta would overdraw it.
		var exists bool
		if scanErr := dbTx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM inventory_items WHERE id = $1)`,
			record.ItemID).Scan(&exists); scanErr != nil {
			return model.StockTransaction{}, fmt.Errorf("check item: %w", scanErr)
		}
		if !exists {
			return model.StockTransaction{}, model.ErrItemNotFound
		}
		return model.StockTransaction{}, model.ErrInsufficientStock
	}
	if err != nil {
		return model.StockTransaction{}, fmt.Errorf("adjust stock: %w", err)
	}

	record.PreviousStock = previous
	record.NewStock = next
	if err := insertStockTransaction(ctx, dbTx, record); err != nil {
		return model.StockTransaction{}, err
	}

	if err := dbTx.Commit(ctx); err != nil {
		return model.StockTransaction{}, fmt.Errorf("commit stock adjustment: %w", err)
	}
	return record, nil
}

func (r *InventoryRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM inventory_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrItemNotFound
	}
	return nil
}

// LowStock returns items whose current stock is at or below their minimum.
// An empty warehouseID means all warehouses.
func (r *InventoryRepository) LowStock(ctx context.Context, warehouseID string) ([]model.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items
		 WHERE current_stock <= min_stock AND is_active`
	args := []any{}
	if warehouseID != "" {
		query += ` AND warehouse_id = $1`
		args = append(args, warehouseID)
	}
	query += ` ORDER BY current_stock ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list low stock items: %w", err)
	}
	defer rows.Close()

	items := make([]model.InventoryItem, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan low stock item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// OutOfStock returns active items whose stock has hit zero. An empty
// warehouseID means all warehouses.
func (r *InventoryRepository) OutOfStock(ctx context.Context, warehouseID string) ([]model.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items
		 WHERE current_stock = 0 AND is_active`
	args := []any{}
	if warehouseID != "" {
		query += ` AND warehouse_id = $1`
		args = append(args, warehouseID)
	}
	query += ` ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list out of stock items: %w", err)
	}
	defer rows.Close()

	items := make([]model.InventoryItem, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan out of stock item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Summary aggregates counts, stock, and value over active items, plus a
// per-category breakdown.
func (r *InventoryRepository) Summary(ctx context.Context, warehouseID string) (model.InventorySummary, error) {
	where := ` WHERE is_active`
	args := []any{}
	if warehouseID != "" {
		where += ` AND warehouse_id = $1`
		args = append(args, warehouseID)
	}

	var s model.InventorySummary
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(current_stock), 0),
		        COALESCE(SUM(current_stock * buy_price), 0),
		        COUNT(*) FILTER (WHERE current_stock > 0 AND current_stock <= min_stock),
		        COUNT(*) FILTER (WHERE current_stock = 0)
		 FROM inventory_items`+where, args...).
		Scan(&s.TotalItems, &s.TotalStock, &s.TotalValue, &s.LowStockItems, &s.OutOfStockItems)
	if err != nil {
		return model.InventorySummary{}, fmt.Errorf("inventory summary: %w", err)
	}

	catWhere := ` WHERE i.is_active`
	if warehouseID != "" {
		catWhere += ` AND i.warehouse_id = $1`
	}
	rows, err := r.pool.Query(ctx,
		`SELECT c.name,
		        COUNT(i.id),
		        COALESCE(SUM(i.current_stock), 0),
		        COALESCE(SUM(i.current_stock * i.buy_price), 0)
		 FROM categories c
		 JOIN inventory_items i ON i.category_id = c.id`+catWhere+`
		 GROUP BY c.id, c.name
		 ORDER BY c.name ASC`, args...)
	if err != nil {
		return model.InventorySummary{}, fmt.Errorf("category summary: %w", err)
	}
	defer rows.Close()

	s.Categories = make([]model.CategorySummary, 0)
	for rows.Next() {
		var cs model.CategorySummary
		if err := rows.Scan(&cs.Name, &cs.ItemCount, &cs.TotalStock, &cs.TotalValue); err != nil {
			return model.InventorySummary{}, fmt.Errorf("scan category summary: %w", err)
		}
		s.Categories = append(s.Categories, cs)
	}
	return s, rows.Err()
}

// TotalValue sums current_stock * buy_price across active items.
func (r *InventoryRepository) TotalValue(ctx context.Context, warehouseID string) (float64, error) {
	query := `SELECT COALESCE(SUM(current_stock * buy_price), 0)
		 FROM inventory_items WHERE is_active`
	args := []any{}
	if warehouseID != "" {
		query += ` AND warehouse_id = $1`
		args = append(args, warehouseID)
	}

	var value float64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&value); err != nil {
		return 0, fmt.Errorf("sum inventory value: %w", err)
	}
	return value, nil
}
