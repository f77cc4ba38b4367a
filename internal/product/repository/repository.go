package repository

import (
	"context"
	"errors"

	"github.com/ridloal/pos-forecast-engine/internal/product/domain"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type ProductRepository interface {
	ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	ListCategories(ctx context.Context) ([]string, error)
	GetProductByID(ctx context.Context, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, product *domain.Product) error
	// UpdateProduct overwrites name, category, price, stock and image of an existing
	// product and refreshes UpdatedAt on the passed struct.
	UpdateProduct(ctx context.Context, product *domain.Product) error
	DeleteProduct(ctx context.Context, id string) error
	ListLowStock(ctx context.Context, threshold int) ([]domain.Product, error)

	// ReserveStock decrements stock by quantity only if stock >= quantity, as one atomic
	// operation at the storage layer. Nothing changes when it returns an error.
	ReserveStock(ctx context.Context, id string, quantity int) (*domain.ProductSnapshot, error)
	// ReleaseStock adds quantity back. Only used to undo a reservation.
	ReleaseStock(ctx context.Context, id string, quantity int) error
}
