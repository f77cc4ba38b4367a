package service

import (
	"context"
	"fmt"

	"github.com/ridloal/pos-forecast-engine/internal/platform/logger"
	"github.com/ridloal/pos-forecast-engine/internal/product/domain"
	"github.com/ridloal/pos-forecast-engine/internal/product/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func sampleCatalogue() []domain.Product {
	item := func(name, category, price string, stock int, image string) domain.Product {
		return domain.Product{
			Name:     name,
			Category: category,
			Price:    decimal.RequireFromString(price),
			Stock:    stock,
			ImageURL: "https://example.com/" + image,
		}
	}
	return []domain.Product{
		item("Classic White T-Shirt", "T-Shirts", "19.99", 50, "white-tshirt.jpg"),
		item("Blue Denim Jeans", "Jeans", "79.99", 30, "blue-jeans.jpg"),
		item("Red Summer Dress", "Dresses", "59.99", 25, "red-dress.jpg"),
		item("Black Leather Jacket", "Jackets", "149.99", 15, "leather-jacket.jpg"),
		item("Cotton Polo Shirt", "Polo Shirts", "34.99", 40, "polo-shirt.jpg"),
		item("Khaki Chinos", "Pants", "49.99", 35, "khaki-chinos.jpg"),
		item("Striped Long Sleeve Shirt", "Shirts", "39.99", 28, "striped-shirt.jpg"),
		item("Wool Winter Coat", "Coats", "199.99", 12, "winter-coat.jpg"),
	}
}

// SeedCatalogue inserts the sample clothing catalogue when the store has no products.
// It returns the number of products inserted.
func SeedCatalogue(ctx context.Context, repo repository.ProductRepository) (int, error) {
	existing, err := repo.ListProducts(ctx, domain.ProductFilter{})
	if err != nil {
		return 0, fmt.Errorf("seed: list products: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("Seed skipped, catalogue is not empty", zap.Int("products", len(existing)))
		return 0, nil
	}

	inserted := 0
	for _, p := range sampleCatalogue() {
		p := p
		if err := repo.CreateProduct(ctx, &p); err != nil {
			return inserted, fmt.Errorf("seed: create %q: %w", p.Name, err)
		}
		inserted++
	}
	logger.Info("Sample catalogue seeded", zap.Int("products", inserted))
	return inserted, nil
}
