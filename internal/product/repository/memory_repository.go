package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ridloal/pos-forecast-engine/internal/product/domain"
)

// MemoryProductRepository keeps products in a map guarded by one mutex.
// Used by STORE_DRIVER=memory and by tests that need real concurrent semantics.
type MemoryProductRepository struct {
	mu       sync.Mutex
	products map[string]domain.Product
}

func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{products: make(map[string]domain.Product)}
}

func (r *MemoryProductRepository) sorted(keep func(domain.Product) bool, less func(a, b domain.Product) bool) []domain.Product {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []domain.Product{}
	for _, p := range r.products {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func (r *MemoryProductRepository) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	return r.sorted(
		filter.Matches,
		func(a, b domain.Product) bool { return a.CreatedAt.After(b.CreatedAt) },
	), nil
}

func (r *MemoryProductRepository) ListCategories(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]struct{})
	categories := []string{}
	for _, p := range r.products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	sort.Strings(categories)
	return categories, nil
}

func (r *MemoryProductRepository) ListLowStock(ctx context.Context, threshold int) ([]domain.Product, error) {
	return r.sorted(
		func(p domain.Product) bool { return p.Stock <= threshold },
		func(a, b domain.Product) bool {
			if a.Stock != b.Stock {
				return a.Stock < b.Stock
			}
			return a.Name < b.Name
		},
	), nil
}

func (r *MemoryProductRepository) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return &p, nil
}

func (r *MemoryProductRepository) CreateProduct(ctx context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	product.CreatedAt = time.Now().UTC()
	product.UpdatedAt = product.CreatedAt
	r.products[product.ID] = *product
	return nil
}

func (r *MemoryProductRepository) UpdateProduct(ctx context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[product.ID]
	if !ok {
		return ErrProductNotFound
	}
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = time.Now().UTC()
	r.products[product.ID] = *product
	return nil
}

func (r *MemoryProductRepository) DeleteProduct(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *MemoryProductRepository) ReserveStock(ctx context.Context, id string, quantity int) (*domain.ProductSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	if p.Stock < quantity {
		return nil, ErrInsufficientStock
	}
	p.Stock -= quantity
	p.UpdatedAt = time.Now().UTC()
	r.products[id] = p

	snap := p.Snapshot()
	return &snap, nil
}

func (r *MemoryProductRepository) ReleaseStock(ctx context.Context, id string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return ErrProductNotFound
	}
	p.Stock += quantity
	p.UpdatedAt = time.Now().UTC()
	r.products[id] = p
	return nil
}
