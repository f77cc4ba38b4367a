package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ridloal/pos-forecast-engine/internal/sale/domain"
)

type MemorySaleRepository struct {
	mu    sync.RWMutex
	sales map[string]domain.Sale
}

func NewMemorySaleRepository() *MemorySaleRepository {
	return &MemorySaleRepository{sales: make(map[string]domain.Sale)}
}

func (r *MemorySaleRepository) CreateSale(ctx context.Context, sale *domain.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sale.ID = uuid.NewString()
	if sale.CreatedAt.IsZero() {
		sale.CreatedAt = time.Now().UTC()
	}
	r.sales[sale.ID] = *sale
	return nil
}

func (r *MemorySaleRepository) GetSaleByID(ctx context.Context, id string) (*domain.Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sales[id]
	if !ok {
		return nil, ErrSaleNotFound
	}
	return &s, nil
}

func (r *MemorySaleRepository) ListSales(ctx context.Context, filter domain.SaleFilter) ([]domain.Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sales := []domain.Sale{}
	for _, s := range r.sales {
		if filter.Matches(s) {
			sales = append(sales, s)
		}
	}
	sort.Slice(sales, func(i, j int) bool { return sales[i].SaleDate.After(sales[j].SaleDate) })
	return sales, nil
}

func (r *MemorySaleRepository) UpdateSale(ctx context.Context, sale *domain.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.sales[sale.ID]
	if !ok {
		return ErrSaleNotFound
	}
	existing.CustomerName = sale.CustomerName
	existing.PaymentMethod = sale.PaymentMethod
	existing.SaleDate = sale.SaleDate
	r.sales[sale.ID] = existing
	return nil
}

func (r *MemorySaleRepository) DeleteSale(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sales[id]; !ok {
		return ErrSaleNotFound
	}
	delete(r.sales, id)
	return nil
}
