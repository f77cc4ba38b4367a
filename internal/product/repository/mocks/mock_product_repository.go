package mocks

import (
	"context"

	pDomain "github.com/ridloal/pos-forecast-engine/internal/product/domain"

	"github.com/stretchr/testify/mock"
)

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) ListProducts(ctx context.Context, filter pDomain.ProductFilter) ([]pDomain.Product, error) {
	args := m.Called(ctx, filter)
	if res := args.Get(0); res != nil {
		return res.([]pDomain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) ListCategories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) ListLowStock(ctx context.Context, threshold int) ([]pDomain.Product, error) {
	args := m.Called(ctx, threshold)
	if res := args.Get(0); res != nil {
		return res.([]pDomain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) GetProductByID(ctx context.Context, id string) (*pDomain.Product, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*pDomain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) CreateProduct(ctx context.Context, product *pDomain.Product) error {
	args := m.Called(ctx, product)
	if product.ID == "" {
		product.ID = "mock-product-id"
	}
	return args.Error(0)
}

func (m *MockProductRepository) UpdateProduct(ctx context.Context, product *pDomain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) DeleteProduct(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) ReserveStock(ctx context.Context, id string, quantity int) (*pDomain.ProductSnapshot, error) {
	args := m.Called(ctx, id, quantity)
	if res := args.Get(0); res != nil {
		return res.(*pDomain.ProductSnapshot), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) ReleaseStock(ctx context.Context, id string, quantity int) error {
	args := m.Called(ctx, id, quantity)
	return args.Error(0)
}
