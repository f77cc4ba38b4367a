package mocks

import (
	"context"

	"github.com/ridloal/pos-forecast-engine/internal/sale/domain"
	"github.com/stretchr/testify/mock"
)

type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) CreateSale(ctx context.Context, sale *domain.Sale) error {
	args := m.Called(ctx, sale)
	if args.Error(0) == nil {
		sale.ID = "mock-sale-id"
	}
	return args.Error(0)
}

func (m *MockSaleRepository) GetSaleByID(ctx context.Context, id string) (*domain.Sale, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*domain.Sale), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSaleRepository) ListSales(ctx context.Context, filter domain.SaleFilter) ([]domain.Sale, error) {
	args := m.Called(ctx, filter)
	if res := args.Get(0); res != nil {
		return res.([]domain.Sale), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSaleRepository) UpdateSale(ctx context.Context, sale *domain.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockSaleRepository) DeleteSale(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
