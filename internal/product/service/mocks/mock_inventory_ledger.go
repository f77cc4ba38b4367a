package mocks

import (
	"context"

	pDomain "github.com/ridloal/pos-forecast-engine/internal/product/domain"
	"github.com/stretchr/testify/mock"
)

type MockInventoryLedger struct {
	mock.Mock
}

func (m *MockInventoryLedger) ReserveStock(ctx context.Context, productID string, quantity int) (*pDomain.ProductSnapshot, error) {
	args := m.Called(ctx, productID, quantity)
	if res := args.Get(0); res != nil {
		return res.(*pDomain.ProductSnapshot), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockInventoryLedger) ReleaseStock(ctx context.Context, productID string, quantity int) error {
	args := m.Called(ctx, productID, quantity)
	return args.Error(0)
}
