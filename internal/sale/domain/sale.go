package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Sale adalah catatan penjualan. Nama, kategori dan harga produk disalin saat penjualan
// dibuat, sehingga perubahan harga produk di kemudian hari tidak mengubah penjualan lama.
type Sale struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	ProductName     string          `json:"product_name"`
	ProductCategory string          `json:"product_category"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Quantity        int             `json:"quantity"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	CustomerName    string          `json:"customer_name"`
	PaymentMethod   string          `json:"payment_method"`
	SaleDate        time.Time       `json:"sale_date"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Untuk request pembuatan sale
type PostSaleRequest struct {
	ProductID     string `json:"product_id" binding:"required"`
	Quantity      int    `json:"quantity"`
	CustomerName  string `json:"customer_name"`
	PaymentMethod string `json:"payment_method"`
}

// UpdateSaleRequest edits the descriptive fields of a recorded sale. Product, quantity
// and amounts are fixed once stock has been taken, so they are not part of the request.
// Nil fields keep their current value.
type UpdateSaleRequest struct {
	CustomerName  *string    `json:"customer_name"`
	PaymentMethod *string    `json:"payment_method"`
	SaleDate      *time.Time `json:"sale_date"`
}

func (r UpdateSaleRequest) Apply(s *Sale) {
	if r.CustomerName != nil {
		s.CustomerName = strings.TrimSpace(*r.CustomerName)
	}
	if r.PaymentMethod != nil {
		s.PaymentMethod = strings.TrimSpace(*r.PaymentMethod)
	}
	if r.SaleDate != nil && !r.SaleDate.IsZero() {
		s.SaleDate = r.SaleDate.UTC()
	}
}

// SaleFilter narrows ListSales. Zero values mean "no constraint"; the date range
// applies only when both ends are set.
type SaleFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	ProductID string
}

func (f SaleFilter) HasDateRange() bool {
	return f.StartDate != nil && f.EndDate != nil
}

// Matches reports whether s passes the filter. Used by drivers without a query language.
func (f SaleFilter) Matches(s Sale) bool {
	if f.ProductID != "" && s.ProductID != f.ProductID {
		return false
	}
	if f.HasDateRange() && (s.SaleDate.Before(*f.StartDate) || s.SaleDate.After(*f.EndDate)) {
		return false
	}
	return true
}

type ProductQuantity struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

type SalesStats struct {
	TotalSales         decimal.Decimal   `json:"total_sales"`
	TotalTransactions  int               `json:"total_transactions"`
	AverageTransaction decimal.Decimal   `json:"average_transaction"`
	TopProducts        []ProductQuantity `json:"top_products"`
}
