package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ridloal/pos-forecast-engine/internal/platform/logger"
	"github.com/ridloal/pos-forecast-engine/internal/product/domain"
	"github.com/ridloal/pos-forecast-engine/internal/product/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrInvalidProduct = errors.New("invalid product")

type ProductService interface {
	ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	ListCategories(ctx context.Context) ([]string, error)
	GetProductDetails(ctx context.Context, productID string) (*domain.Product, error)
	CreateProduct(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error)
	UpdateProduct(ctx context.Context, productID string, req domain.UpdateProductRequest) (*domain.Product, error)
	DeleteProduct(ctx context.Context, productID string) error
	// LowStockProducts returns products whose stock is at or below threshold.
	// threshold <= 0 uses the configured default.
	LowStockProducts(ctx context.Context, threshold int) ([]domain.Product, error)
}

type productServiceImpl struct {
	repo                     repository.ProductRepository
	defaultLowStockThreshold int
}

func NewProductService(repo repository.ProductRepository, defaultLowStockThreshold int) ProductService {
	return &productServiceImpl{
		repo:                     repo,
		defaultLowStockThreshold: defaultLowStockThreshold,
	}
}

func (s *productServiceImpl) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	filter.Category = strings.TrimSpace(filter.Category)
	filter.Search = strings.TrimSpace(filter.Search)
	return s.repo.ListProducts(ctx, filter)
}

func (s *productServiceImpl) ListCategories(ctx context.Context) ([]string, error) {
	return s.repo.ListCategories(ctx)
}

func (s *productServiceImpl) GetProductDetails(ctx context.Context, productID string) (*domain.Product, error) {
	return s.repo.GetProductByID(ctx, productID)
}

// validateProduct returns the trimmed name. Prices are stored as NUMERIC(12,2),
// so more than two decimal places is rejected instead of silently rounded.
func validateProduct(name string, price decimal.Decimal, stock int) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if !price.IsPositive() {
		return "", fmt.Errorf("%w: price must be greater than 0, got %s", ErrInvalidProduct, price)
	}
	if price.Exponent() < -2 && !price.Equal(price.Round(2)) {
		return "", fmt.Errorf("%w: price has more than 2 decimal places, got %s", ErrInvalidProduct, price)
	}
	if stock < 0 {
		return "", fmt.Errorf("%w: stock cannot be negative, got %d", ErrInvalidProduct, stock)
	}
	return name, nil
}

func (s *productServiceImpl) CreateProduct(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error) {
	name, err := validateProduct(req.Name, req.Price, req.Stock)
	if err != nil {
		return nil, err
	}

	p := &domain.Product{
		Name:     name,
		Category: strings.TrimSpace(req.Category),
		Price:    req.Price,
		Stock:    req.Stock,
		ImageURL: req.ImageURL,
	}
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		logger.Error("Svc.CreateProduct: repo error", err, zap.String("name", name))
		return nil, err
	}
	return p, nil
}

func (s *productServiceImpl) UpdateProduct(ctx context.Context, productID string, req domain.UpdateProductRequest) (*domain.Product, error) {
	name, err := validateProduct(req.Name, req.Price, req.Stock)
	if err != nil {
		return nil, err
	}

	p := &domain.Product{
		ID:       productID,
		Name:     name,
		Category: strings.TrimSpace(req.Category),
		Price:    req.Price,
		Stock:    req.Stock,
		ImageURL: req.ImageURL,
	}
	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		if !errors.Is(err, repository.ErrProductNotFound) {
			logger.Error("Svc.UpdateProduct: repo error", err, zap.String("product_id", productID))
		}
		return nil, err
	}
	return p, nil
}

func (s *productServiceImpl) DeleteProduct(ctx context.Context, productID string) error {
	return s.repo.DeleteProduct(ctx, productID)
}

func (s *productServiceImpl) LowStockProducts(ctx context.Context, threshold int) ([]domain.Product, error) {
	if threshold <= 0 {
		threshold = s.defaultLowStockThreshold
	}
	return s.repo.ListLowStock(ctx, threshold)
}
