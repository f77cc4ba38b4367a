package mocks

import (
	"context"

	"github.com/ridloal/pos-forecast-engine/internal/sale/domain"
	"github.com/stretchr/testify/mock"
)

type MockSaleService struct {
	mock.Mock
}

func (m *MockSaleService) PostSale(ctx context.Context, req domain.PostSaleRequest) (*domain.Sale, error) {
	args := m.Called(ctx, req)
	if res := args.Get(0); res != nil {
		return res.(*domain.Sale), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSaleService) GetSale(ctx context.Context, id string) (*domain.Sale, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*domain.Sale), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSaleService) ListSales(ctx context.Context, filter domain.SaleFilter) ([]domain.Sale, error) {
	args := m.Called(ctx, filter)
	if res := args.Get(0); res != nil {
		return res.([]domain.Sale), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSaleService) UpdateSale(ctx context.Context, id string, req domain.UpdateSaleRequest) (*domain.Sale, error) {
	args := m.Called(ctx, id, req)
	if res := args.Get(0); res != nil {
		return res.(*domain.Sale), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSaleService) DeleteSale(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSaleService) GetSalesStats(ctx context.Context, filter domain.SaleFilter) (*domain.SalesStats, error) {
	args := m.Called(ctx, filter)
	if res := args.Get(0); res != nil {
		return res.(*domain.SalesStats), args.Error(1)
	}
	return nil, args.Error(1)
}
