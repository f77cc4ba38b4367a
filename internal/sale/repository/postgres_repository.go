package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ridloal/pos-forecast-engine/internal/platform/logger"
	"github.com/ridloal/pos-forecast-engine/internal/sale/domain"
	"go.uber.org/zap"
)

const saleColumns = `id, product_id, product_name, product_category, unit_price, quantity, total_amount,
       customer_name, payment_method, sale_date, created_at`

type postgresSaleRepository struct {
	db *sql.DB
}

func NewPostgresSaleRepository(db *sql.DB) SaleRepository {
	return &postgresSaleRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSale(row rowScanner) (domain.Sale, error) {
	var s domain.Sale
	err := row.Scan(&s.ID, &s.ProductID, &s.ProductName, &s.ProductCategory, &s.UnitPrice, &s.Quantity,
		&s.TotalAmount, &s.CustomerName, &s.PaymentMethod, &s.SaleDate, &s.CreatedAt)
	return s, err
}

func (r *postgresSaleRepository) CreateSale(ctx context.Context, sale *domain.Sale) error {
	query := `INSERT INTO sales (product_id, product_name, product_category, unit_price, quantity, total_amount,
                                 customer_name, payment_method, sale_date, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id, created_at`
	if sale.CreatedAt.IsZero() {
		sale.CreatedAt = time.Now().UTC()
	}

	err := r.db.QueryRowContext(ctx, query,
		sale.ProductID, sale.ProductName, sale.ProductCategory, sale.UnitPrice, sale.Quantity, sale.TotalAmount,
		sale.CustomerName, sale.PaymentMethod, sale.SaleDate, sale.CreatedAt,
	).Scan(&sale.ID, &sale.CreatedAt)
	if err != nil {
		logger.Error("CreateSale: failed to insert sale", err, zap.String("product_id", sale.ProductID))
		return err
	}
	return nil
}

func (r *postgresSaleRepository) GetSaleByID(ctx context.Context, id string) (*domain.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	s, err := scanSale(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSaleNotFound
		}
		logger.Error("GetSaleByID: query failed", err)
		return nil, err
	}
	return &s, nil
}

func (r *postgresSaleRepository) ListSales(ctx context.Context, filter domain.SaleFilter) ([]domain.Sale, error) {
	var conds []string
	var args []any
	if filter.ProductID != "" {
		args = append(args, filter.ProductID)
		conds = append(conds, fmt.Sprintf("product_id = $%d", len(args)))
	}
	if filter.HasDateRange() {
		args = append(args, *filter.StartDate, *filter.EndDate)
		conds = append(conds, fmt.Sprintf("sale_date BETWEEN $%d AND $%d", len(args)-1, len(args)))
	}

	query := `SELECT ` + saleColumns + ` FROM sales`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY sale_date DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("ListSales: query failed", err)
		return nil, err
	}
	defer rows.Close()

	sales := []domain.Sale{}
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			logger.Error("ListSales: scan failed", err)
			return nil, err
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

func (r *postgresSaleRepository) UpdateSale(ctx context.Context, sale *domain.Sale) error {
	query := `UPDATE sales SET customer_name = $1, payment_method = $2, sale_date = $3 WHERE id = $4`
	res, err := r.db.ExecContext(ctx, query, sale.CustomerName, sale.PaymentMethod, sale.SaleDate, sale.ID)
	if err != nil {
		logger.Error("UpdateSale: exec failed", err, zap.String("sale_id", sale.ID))
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrSaleNotFound
	}
	return nil
}

func (r *postgresSaleRepository) DeleteSale(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		logger.Error("DeleteSale: exec failed", err, zap.String("sale_id", id))
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrSaleNotFound
	}
	return nil
}
