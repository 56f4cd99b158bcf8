package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Seed inserts the bootstrap dataset when the users table is empty: one
// super admin, one warehouse with its staff account, and a few categories.
// Running it against a populated database is a no-op.
func (db *DB) Seed(ctx context.Context) error {
	var count int
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	slog.Info("seeding database with default dataset")
	now := time.Now().UTC()

	warehouseID := uuid.NewString()
	if _, err := db.Pool.Exec(ctx,
		`INSERT INTO warehouses (id, name, code, address, is_active, created_at)
		 VALUES ($1, $2, $3, $4, TRUE, $5)`,
		warehouseID, "Gudang Utama", "WH-001", "Jl. Industri No. 1", now); err != nil {
		return fmt.Errorf("seed warehouse: %w", err)
	}

	adminHash, err := bcrypt.GenerateFromPassword([]byte("Admin123!"), 12)
	if err != nil {
		return err
	}
	if _, err := db.Pool.Exec(ctx,
		`INSERT INTO users (id, email, username, full_name, password_hash, role, is_active, is_verified, created_at)
		 VALUES ($1, $2, $3, $4, $5, 'super_admin', TRUE, TRUE, $6)`,
		uuid.NewString(), "admin@example.com", "admin", "Administrator", string(adminHash), now); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	staffHash, err := bcrypt.GenerateFromPassword([]byte("Staff123!"), 12)
	if err != nil {
		return err
	}
	if _, err := db.Pool.Exec(ctx,
		`INSERT INTO users (id, email, username, full_name, password_hash, role, warehouse_id, is_active, is_verified, created_at)
		 VALUES ($1, $2, $3, $4, $5, 'gudang', $6, TRUE, TRUE, $7)`,
		uuid.NewString(), "staff@example.com", "staff_gudang", "Staff Gudang", string(staffHash), warehouseID, now); err != nil {
		return fmt.Errorf("seed warehouse staff: %w", err)
	}

	for i, name := range []string{"Elektronik", "Alat Tulis", "Bahan Baku"} {
		if _, err := db.Pool.Exec(ctx,
			`INSERT INTO categories (id, name, is_active, sort_order, created_at)
			 VALUES ($1, $2, TRUE, $3, $4)`,
			uuid.NewString(), name, i, now); err != nil {
			return fmt.Errorf("seed category %q: %w", name, err)
		}
	}

	slog.Info("database seeded")
	return nil
}
