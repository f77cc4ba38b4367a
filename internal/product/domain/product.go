package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	ImageURL  string          `json:"image_url,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ProductSnapshot is the state of a product right after a successful stock reservation.
// Sale records copy name, category and price from here.
type ProductSnapshot struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	RemainingStock int             `json:"remaining_stock"`
}

func (p Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		ID:             p.ID,
		Name:           p.Name,
		Category:       p.Category,
		UnitPrice:      p.Price,
		RemainingStock: p.Stock,
	}
}

type CreateProductRequest struct {
	Name     string          `json:"name" binding:"required"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock" binding:"gte=0"`
	ImageURL string          `json:"image_url"`
}

// UpdateProductRequest replaces the editable fields of a product. Stock here is an
// administrative correction, not a sale.
type UpdateProductRequest struct {
	Name     string          `json:"name" binding:"required"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock" binding:"gte=0"`
	ImageURL string          `json:"image_url"`
}

// ProductFilter narrows ListProducts. Category is an exact, case-insensitive match;
// Search is a case-insensitive substring of the name. Empty fields are ignored.
type ProductFilter struct {
	Category string
	Search   string
}

func (f ProductFilter) Matches(p Product) bool {
	if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search)) {
		return false
	}
	return true
}
