package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ridloal/pos-forecast-engine/internal/platform/logger"
	"github.com/ridloal/pos-forecast-engine/internal/product/domain"
	"go.uber.org/zap"
)

const productColumns = `id, name, category, price, stock, image_url, created_at, updated_at`

type postgresProductRepository struct {
	db *sql.DB
}

func NewPostgresProductRepository(db *sql.DB) ProductRepository {
	return &postgresProductRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.Stock, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *postgresProductRepository) queryProducts(ctx context.Context, op, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error(op+": query failed", err)
		return nil, err
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			logger.Error(op+": scan failed", err)
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		logger.Error(op+": rows iteration error", err)
		return nil, err
	}
	return products, nil
}

func (r *postgresProductRepository) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	var conds []string
	var args []any
	if filter.Category != "" {
		args = append(args, filter.Category)
		conds = append(conds, fmt.Sprintf("LOWER(category) = LOWER($%d)", len(args)))
	}
	if filter.Search != "" {
		args = append(args, filter.Search)
		conds = append(conds, fmt.Sprintf("name ILIKE '%%' || $%d || '%%'", len(args)))
	}

	query := `SELECT ` + productColumns + ` FROM products`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC`
	return r.queryProducts(ctx, "ListProducts", query, args...)
}

func (r *postgresProductRepository) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT category FROM products WHERE category <> '' ORDER BY category`)
	if err != nil {
		logger.Error("ListCategories: query failed", err)
		return nil, err
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			logger.Error("ListCategories: scan failed", err)
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *postgresProductRepository) ListLowStock(ctx context.Context, threshold int) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE stock <= $1 ORDER BY stock ASC, name ASC`
	return r.queryProducts(ctx, "ListLowStock", query, threshold)
}

func (r *postgresProductRepository) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		logger.Error("GetProductByID: query failed", err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresProductRepository) CreateProduct(ctx context.Context, product *domain.Product) error {
	query := `INSERT INTO products (name, category, price, stock, image_url, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at, updated_at`
	product.CreatedAt = time.Now().UTC()
	product.UpdatedAt = product.CreatedAt

	err := r.db.QueryRowContext(ctx, query,
		product.Name, product.Category, product.Price, product.Stock, product.ImageURL,
		product.CreatedAt, product.UpdatedAt,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23514" { // check_violation
			return fmt.Errorf("product violates price/stock constraints: %w", err)
		}
		logger.Error("CreateProduct: failed to insert product", err)
		return err
	}
	return nil
}

func (r *postgresProductRepository) UpdateProduct(ctx context.Context, product *domain.Product) error {
	query := `UPDATE products SET name = $1, category = $2, price = $3, stock = $4, image_url = $5, updated_at = NOW()
              WHERE id = $6 RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		product.Name, product.Category, product.Price, product.Stock, product.ImageURL, product.ID,
	).Scan(&product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProductNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23514" { // check_violation
			return fmt.Errorf("product violates price/stock constraints: %w", err)
		}
		logger.Error("UpdateProduct: update failed", err, zap.String("product_id", product.ID))
		return err
	}
	return nil
}

func (r *postgresProductRepository) DeleteProduct(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		logger.Error("DeleteProduct: exec failed", err, zap.String("product_id", id))
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// ReserveStock runs the check and the decrement in a single UPDATE. Concurrent callers
// serialize on the row lock, and the WHERE clause is re-evaluated against the latest stock,
// so two sales can never both pass the check and oversell.
func (r *postgresProductRepository) ReserveStock(ctx context.Context, id string, quantity int) (*domain.ProductSnapshot, error) {
	query := `UPDATE products SET stock = stock - $1, updated_at = NOW()
              WHERE id = $2 AND stock >= $1
              RETURNING id, name, category, price, stock`
	var snap domain.ProductSnapshot
	err := r.db.QueryRowContext(ctx, query, quantity, id).
		Scan(&snap.ID, &snap.Name, &snap.Category, &snap.UnitPrice, &snap.RemainingStock)
	if err == nil {
		return &snap, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23514" { // check_violation
			return nil, ErrInsufficientStock
		}
		logger.Error("ReserveStock: exec failed", err, zap.String("product_id", id))
		return nil, err
	}

	// Tidak ada baris yang ter-update: produk tidak ada atau stok kurang. Probe hanya membaca.
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists); err != nil {
		logger.Error("ReserveStock: existence probe failed", err, zap.String("product_id", id))
		return nil, err
	}
	if !exists {
		return nil, ErrProductNotFound
	}
	return nil, ErrInsufficientStock
}

func (r *postgresProductRepository) ReleaseStock(ctx context.Context, id string, quantity int) error {
	query := `UPDATE products SET stock = stock + $1, updated_at = NOW() WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, quantity, id)
	if err != nil {
		logger.Error("ReleaseStock: exec failed", err, zap.String("product_id", id), zap.Int("quantity", quantity))
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}
