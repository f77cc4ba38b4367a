package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TrendGrowing = "Growing"
	TrendStable  = "Stable"
)

// MonthLayout formats ForecastPoint.Month, e.g. "Mar 2024".
const MonthLayout = "Jan 2006"

// ForecastPoint adalah satu bulan dalam deret forecast. Tidak pernah disimpan.
type ForecastPoint struct {
	Month          string          `json:"month"`
	PredictedSales decimal.Decimal `json:"predicted_sales"`
	ActualSales    decimal.Decimal `json:"actual_sales"`
	Trend          string          `json:"trend"`
	Confidence     *int            `json:"confidence,omitempty"`
}

type ForecastSummary struct {
	TotalMonths         int             `json:"total_months"`
	TotalPredictedSales decimal.Decimal `json:"total_predicted_sales"`
	AverageMonthly      decimal.Decimal `json:"average_monthly"`
	GeneratedAt         time.Time       `json:"generated_at"`
	Source              string          `json:"source"`
	CategorySource      string          `json:"category_source"`
}

type ExtendedForecast struct {
	MonthlyForecast  []ForecastPoint            `json:"monthly_forecast"`
	CategoryForecast map[string]decimal.Decimal `json:"category_forecast"`
	Summary          ForecastSummary            `json:"summary"`
}

const (
	HealthStatusHealthy     = "Healthy"
	HealthStatusUnavailable = "Unavailable"
)

type ForecasterHealth struct {
	Status           string    `json:"status"`
	AIModelConnected bool      `json:"ai_model_connected"`
	Timestamp        time.Time `json:"timestamp"`
	FallbackEnabled  bool      `json:"fallback_enabled"`
}
