package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-inventory-tracker/pkg/model"
)

// execer is satisfied by both *pgxpool.Pool and pgx.Tx, so transaction rows
// can be written standalone or inside an item-level database transaction.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type TransactionRepository struct {
	pool *pgxpool.Pool
}

func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

func insertStockTransaction(ctx context.Context, db execer, tx model.StockTransaction) error {
	_, err := db.Exec(ctx,
		`INSERT INTO stock_transactions (id, transaction_code, item_id, transaction_type, quantity,
		                                 unit_price, previous_stock, new_stock, reference, notes,
		                                 created_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		tx.ID, tx.TransactionCode, tx.ItemID, tx.TransactionType, tx.Quantity,
		tx.UnitPrice, tx.PreviousStock, tx.NewStock, tx.Reference, tx.Notes,
		tx.CreatedBy, tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("create stock transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepository) ListByItem(ctx context.Context, itemID string, offset int, limit int) ([]model.StockTransaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, transaction_code, item_id, transaction_type, quantity, unit_price,
		        previous_stock, new_stock, reference, notes, created_by, created_at
		 FROM stock_transactions
		 WHERE item_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`, itemID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	txs := make([]model.StockTransaction, 0)
	for rows.Next() {
		var tx model.StockTransaction
		if err := rows.Scan(&tx.ID, &tx.TransactionCode, &tx.ItemID, &tx.TransactionType,
			&tx.Quantity, &tx.UnitPrice, &tx.PreviousStock, &tx.NewStock,
			&tx.Reference, &tx.Notes, &tx.CreatedBy, &tx.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}
