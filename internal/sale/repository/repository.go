package repository

import (
	"context"
	"errors"

	"github.com/ridloal/pos-forecast-engine/internal/sale/domain"
)

var ErrSaleNotFound = errors.New("sale not found")

type SaleRepository interface {
	CreateSale(ctx context.Context, sale *domain.Sale) error
	GetSaleByID(ctx context.Context, id string) (*domain.Sale, error)
	// ListSales returns matching sales, newest sale_date first.
	ListSales(ctx context.Context, filter domain.SaleFilter) ([]domain.Sale, error)
	// UpdateSale rewrites customer_name, payment_method and sale_date only.
	UpdateSale(ctx context.Context, sale *domain.Sale) error
	DeleteSale(ctx context.Context, id string) error
}
