package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ridloal/pos-forecast-engine/internal/platform/logger"
	"github.com/ridloal/pos-forecast-engine/internal/platform/metrics"
	pRepo "github.com/ridloal/pos-forecast-engine/internal/product/repository"
	pService "github.com/ridloal/pos-forecast-engine/internal/product/service"
	"github.com/ridloal/pos-forecast-engine/internal/sale/domain"
	"github.com/ridloal/pos-forecast-engine/internal/sale/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const topProductsLimit = 5

var (
	ErrInvalidQuantity   = pService.ErrInvalidQuantity
	ErrProductNotFound   = pRepo.ErrProductNotFound
	ErrInsufficientStock = pRepo.ErrInsufficientStock
	ErrSaleNotFound      = repository.ErrSaleNotFound
	// ErrSaleNotRecorded means stock was reserved but the sale could not be stored;
	// the reservation has been released.
	ErrSaleNotRecorded = errors.New("sale could not be recorded")
)

type SaleService interface {
	PostSale(ctx context.Context, req domain.PostSaleRequest) (*domain.Sale, error)
	GetSale(ctx context.Context, id string) (*domain.Sale, error)
	ListSales(ctx context.Context, filter domain.SaleFilter) ([]domain.Sale, error)
	// UpdateSale edits customer, payment method and sale date. Stock is not touched.
	UpdateSale(ctx context.Context, id string, req domain.UpdateSaleRequest) (*domain.Sale, error)
	// DeleteSale removes the record only. Stock is not restored.
	DeleteSale(ctx context.Context, id string) error
	GetSalesStats(ctx context.Context, filter domain.SaleFilter) (*domain.SalesStats, error)
}

type saleServiceImpl struct {
	ledger   pService.InventoryLedger
	saleRepo repository.SaleRepository
	now      func() time.Time
}

func NewSaleService(ledger pService.InventoryLedger, saleRepo repository.SaleRepository) SaleService {
	return &saleServiceImpl{
		ledger:   ledger,
		saleRepo: saleRepo,
		now:      time.Now,
	}
}

// PostSale reserves stock and records the sale. A committed decrement always has exactly
// one committed Sale: if the insert fails the reservation is released before returning.
// The caller's cancellation does not interrupt the flow once started.
func (s *saleServiceImpl) PostSale(ctx context.Context, req domain.PostSaleRequest) (*domain.Sale, error) {
	if req.Quantity <= 0 {
		metrics.SalesPosted.WithLabelValues("invalid_quantity").Inc()
		return nil, fmt.Errorf("%w: got %d", ErrInvalidQuantity, req.Quantity)
	}
	ctx = context.WithoutCancel(ctx)

	snap, err := s.ledger.ReserveStock(ctx, req.ProductID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, ErrProductNotFound):
			metrics.SalesPosted.WithLabelValues("not_found").Inc()
		case errors.Is(err, ErrInsufficientStock):
			metrics.SalesPosted.WithLabelValues("insufficient_stock").Inc()
		default:
			metrics.SalesPosted.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	now := s.now().UTC()
	sale := &domain.Sale{
		ProductID:       req.ProductID,
		ProductName:     snap.Name,
		ProductCategory: snap.Category,
		UnitPrice:       snap.UnitPrice,
		Quantity:        req.Quantity,
		TotalAmount:     snap.UnitPrice.Mul(decimal.NewFromInt(int64(req.Quantity))),
		CustomerName:    strings.TrimSpace(req.CustomerName),
		PaymentMethod:   strings.TrimSpace(req.PaymentMethod),
		SaleDate:        now,
		CreatedAt:       now,
	}

	if err := s.saleRepo.CreateSale(ctx, sale); err != nil {
		logger.Error("PostSale: failed to record sale, releasing reserved stock", err,
			zap.String("product_id", req.ProductID), zap.Int("quantity", req.Quantity))
		if relErr := s.ledger.ReleaseStock(ctx, req.ProductID, req.Quantity); relErr != nil {
			// Stok sudah berkurang tanpa sale yang tercatat. Perlu rekonsiliasi manual.
			logger.Error("CRITICAL: failed to release stock after sale insert failure", relErr,
				zap.String("product_id", req.ProductID), zap.Int("quantity", req.Quantity))
		}
		metrics.SalesPosted.WithLabelValues("not_recorded").Inc()
		return nil, fmt.Errorf("%w: %v", ErrSaleNotRecorded, err)
	}

	metrics.SalesPosted.WithLabelValues("committed").Inc()
	logger.Info("Sale posted",
		zap.String("sale_id", sale.ID),
		zap.String("product_id", sale.ProductID),
		zap.Int("quantity", sale.Quantity),
		zap.String("total_amount", sale.TotalAmount.StringFixed(2)),
		zap.Int("remaining_stock", snap.RemainingStock),
	)
	return sale, nil
}

func (s *saleServiceImpl) GetSale(ctx context.Context, id string) (*domain.Sale, error) {
	return s.saleRepo.GetSaleByID(ctx, id)
}

func (s *saleServiceImpl) ListSales(ctx context.Context, filter domain.SaleFilter) ([]domain.Sale, error) {
	if filter.HasDateRange() && filter.EndDate.Before(*filter.StartDate) {
		return []domain.Sale{}, nil
	}
	return s.saleRepo.ListSales(ctx, filter)
}

func (s *saleServiceImpl) UpdateSale(ctx context.Context, id string, req domain.UpdateSaleRequest) (*domain.Sale, error) {
	sale, err := s.saleRepo.GetSaleByID(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Apply(sale)
	if err := s.saleRepo.UpdateSale(ctx, sale); err != nil {
		if !errors.Is(err, ErrSaleNotFound) {
			logger.Error("UpdateSale: repo error", err, zap.String("sale_id", id))
		}
		return nil, err
	}
	return sale, nil
}

func (s *saleServiceImpl) DeleteSale(ctx context.Context, id string) error {
	return s.saleRepo.DeleteSale(ctx, id)
}

func (s *saleServiceImpl) GetSalesStats(ctx context.Context, filter domain.SaleFilter) (*domain.SalesStats, error) {
	sales, err := s.ListSales(ctx, filter)
	if err != nil {
		return nil, err
	}
	return computeStats(sales), nil
}

func computeStats(sales []domain.Sale) *domain.SalesStats {
	stats := &domain.SalesStats{
		TotalSales:         decimal.Zero,
		TotalTransactions:  len(sales),
		AverageTransaction: decimal.Zero,
		TopProducts:        []domain.ProductQuantity{},
	}

	byProduct := map[string]*domain.ProductQuantity{}
	for _, sale := range sales {
		stats.TotalSales = stats.TotalSales.Add(sale.TotalAmount)
		pq, ok := byProduct[sale.ProductID]
		if !ok {
			pq = &domain.ProductQuantity{ProductID: sale.ProductID, ProductName: sale.ProductName}
			byProduct[sale.ProductID] = pq
		}
		pq.Quantity += sale.Quantity
	}
	if len(sales) > 0 {
		stats.AverageTransaction = stats.TotalSales.Div(decimal.NewFromInt(int64(len(sales)))).Round(2)
	}

	for _, pq := range byProduct {
		stats.TopProducts = append(stats.TopProducts, *pq)
	}
	sort.Slice(stats.TopProducts, func(i, j int) bool {
		a, b := stats.TopProducts[i], stats.TopProducts[j]
		if a.Quantity != b.Quantity {
			return a.Quantity > b.Quantity
		}
		return a.ProductName < b.ProductName
	})
	if len(stats.TopProducts) > topProductsLimit {
		stats.TopProducts = stats.TopProducts[:topProductsLimit]
	}
	return stats
}
