package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/ridloal/pos-forecast-engine/internal/platform/logger"
)

const (
	maxOpenConns    = 25
	maxIdleConns    = 25
	connMaxLifetime = 5 * time.Minute
)

const schema = `
CREATE TABLE IF NOT EXISTS products (
    id          TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
    name        TEXT NOT NULL,
    category    TEXT NOT NULL DEFAULT '',
    price       NUMERIC(12,2) NOT NULL CHECK (price > 0),
    stock       INTEGER NOT NULL CHECK (stock >= 0),
    image_url   TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS sales (
    id                TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
    product_id        TEXT NOT NULL,
    product_name      TEXT NOT NULL,
    product_category  TEXT NOT NULL DEFAULT '',
    unit_price        NUMERIC(12,2) NOT NULL,
    quantity          INTEGER NOT NULL CHECK (quantity > 0),
    total_amount      NUMERIC(14,2) NOT NULL,
    customer_name     TEXT NOT NULL DEFAULT '',
    payment_method    TEXT NOT NULL DEFAULT '',
    sale_date         TIMESTAMPTZ NOT NULL,
    created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_sales_sale_date ON sales (sale_date DESC);
CREATE INDEX IF NOT EXISTS idx_sales_product_id ON sales (product_id);`

func Connect(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	if err = db.Ping(); err != nil {
		db.Close() // Close connection if ping fails
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Successfully connected to the database")
	return db, nil
}

// EnsureSchema creates the products and sales tables when they do not exist yet.
// The CHECK on products.stock backs the conditional decrement in the repository.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
