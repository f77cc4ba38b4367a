package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ridloal/pos-forecast-engine/internal/platform/logger"
	"github.com/ridloal/pos-forecast-engine/internal/platform/metrics"
	"github.com/ridloal/pos-forecast-engine/internal/product/domain"
	"github.com/ridloal/pos-forecast-engine/internal/product/repository"
	"go.uber.org/zap"
)

var ErrInvalidQuantity = errors.New("quantity must be greater than 0")

// InventoryLedger owns product stock counts. All stock mutations made by the
// sale flow go through it.
type InventoryLedger interface {
	// ReserveStock atomically checks stock >= quantity and decrements it.
	// Returns repository.ErrProductNotFound or repository.ErrInsufficientStock
	// without side effects when the reservation cannot be made.
	ReserveStock(ctx context.Context, productID string, quantity int) (*domain.ProductSnapshot, error)
	// ReleaseStock undoes a previous reservation.
	ReleaseStock(ctx context.Context, productID string, quantity int) error
}

type inventoryLedger struct {
	repo repository.ProductRepository
}

func NewInventoryLedger(repo repository.ProductRepository) InventoryLedger {
	return &inventoryLedger{repo: repo}
}

func (l *inventoryLedger) ReserveStock(ctx context.Context, productID string, quantity int) (*domain.ProductSnapshot, error) {
	if quantity <= 0 {
		metrics.StockReservations.WithLabelValues("invalid_quantity").Inc()
		return nil, fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}

	snap, err := l.repo.ReserveStock(ctx, productID, quantity)
	switch {
	case err == nil:
		metrics.StockReservations.WithLabelValues("reserved").Inc()
		return snap, nil
	case errors.Is(err, repository.ErrProductNotFound):
		metrics.StockReservations.WithLabelValues("not_found").Inc()
		return nil, err
	case errors.Is(err, repository.ErrInsufficientStock):
		metrics.StockReservations.WithLabelValues("insufficient_stock").Inc()
		return nil, err
	default:
		metrics.StockReservations.WithLabelValues("error").Inc()
		logger.Error("Ledger.ReserveStock: repo error", err, zap.String("product_id", productID), zap.Int("quantity", quantity))
		return nil, fmt.Errorf("reserve stock for product %s: %w", productID, err)
	}
}

func (l *inventoryLedger) ReleaseStock(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}
	if err := l.repo.ReleaseStock(ctx, productID, quantity); err != nil {
		metrics.StockReservations.WithLabelValues("release_failed").Inc()
		return fmt.Errorf("release stock for product %s: %w", productID, err)
	}
	metrics.StockReservations.WithLabelValues("released").Inc()
	return nil
}
