package service

import (
	"context"
	"errors"
	"testing"

	pDomain "github.com/ridloal/pos-forecast-engine/internal/product/domain"
	pRepo "github.com/ridloal/pos-forecast-engine/internal/product/repository"
	"github.com/ridloal/pos-forecast-engine/internal/product/repository/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestInventoryLedger_ReserveStock(t *testing.T) {
	ctx := context.TODO()
	snapshot := &pDomain.ProductSnapshot{ID: "prod1", Name: "Red Summer Dress", Category: "Dresses", UnitPrice: decimal.RequireFromString("59.99"), RemainingStock: 20}

	t.Run("Successful reservation", func(t *testing.T) {
		mockRepo := new(mocks.MockProductRepository)
		ledger := NewInventoryLedger(mockRepo)
		mockRepo.On("ReserveStock", ctx, "prod1", 5).Return(snapshot, nil).Once()

		snap, err := ledger.ReserveStock(ctx, "prod1", 5)
		assert.NoError(t, err)
		assert.Equal(t, snapshot, snap)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Zero or negative quantity never reaches storage", func(t *testing.T) {
		mockRepo := new(mocks.MockProductRepository)
		ledger := NewInventoryLedger(mockRepo)

		for _, qty := range []int{0, -3} {
			snap, err := ledger.ReserveStock(ctx, "prod1", qty)
			assert.ErrorIs(t, err, ErrInvalidQuantity)
			assert.Nil(t, snap)
		}
		mockRepo.AssertNotCalled(t, "ReserveStock")
	})

	t.Run("Sentinel errors pass through unwrapped", func(t *testing.T) {
		mockRepo := new(mocks.MockProductRepository)
		ledger := NewInventoryLedger(mockRepo)
		mockRepo.On("ReserveStock", ctx, "missing", 1).Return(nil, pRepo.ErrProductNotFound).Once()
		mockRepo.On("ReserveStock", ctx, "prod1", 99).Return(nil, pRepo.ErrInsufficientStock).Once()

		_, err := ledger.ReserveStock(ctx, "missing", 1)
		assert.Equal(t, pRepo.ErrProductNotFound, err)
		_, err = ledger.ReserveStock(ctx, "prod1", 99)
		assert.Equal(t, pRepo.ErrInsufficientStock, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Storage failure is wrapped", func(t *testing.T) {
		mockRepo := new(mocks.MockProductRepository)
		ledger := NewInventoryLedger(mockRepo)
		dbErr := errors.New("connection reset")
		mockRepo.On("ReserveStock", ctx, "prod1", 1).Return(nil, dbErr).Once()

		_, err := ledger.ReserveStock(ctx, "prod1", 1)
		assert.ErrorIs(t, err, dbErr)
		assert.Contains(t, err.Error(), "prod1")
	})
}

func TestInventoryLedger_ReleaseStock(t *testing.T) {
	ctx := context.TODO()
	mockRepo := new(mocks.MockProductRepository)
	ledger := NewInventoryLedger(mockRepo)

	mockRepo.On("ReleaseStock", ctx, "prod1", 2).Return(nil).Once()
	assert.NoError(t, ledger.ReleaseStock(ctx, "prod1", 2))

	mockRepo.On("ReleaseStock", ctx, "gone", 2).Return(pRepo.ErrProductNotFound).Once()
	assert.ErrorIs(t, ledger.ReleaseStock(ctx, "gone", 2), pRepo.ErrProductNotFound)

	assert.ErrorIs(t, ledger.ReleaseStock(ctx, "prod1", 0), ErrInvalidQuantity)
	mockRepo.AssertExpectations(t)
}
