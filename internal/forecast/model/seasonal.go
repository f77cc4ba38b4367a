// Package model is the local forecast used when the remote forecaster cannot answer.
// Everything here is pure: the same inputs always give the same series.
package model

import (
	"time"

	"github.com/ridloal/pos-forecast-engine/internal/forecast/domain"
	"github.com/shopspring/decimal"
)

// DefaultBaseAmount is the monthly base used by the fallback series.
var DefaultBaseAmount = decimal.NewFromInt(1000)

var (
	growthStep     = decimal.RequireFromString("0.05")
	actualDiscount = decimal.RequireFromString("0.95")
)

// SeasonalFactor returns the demand multiplier for a calendar month.
func SeasonalFactor(m time.Month) decimal.Decimal {
	switch m {
	case time.December, time.January, time.February:
		return decimal.RequireFromString("1.3")
	case time.March, time.April, time.May:
		return decimal.RequireFromString("1.1")
	case time.June, time.July, time.August:
		return decimal.RequireFromString("0.9")
	case time.September, time.October, time.November:
		return decimal.RequireFromString("1.2")
	}
	return decimal.NewFromInt(1)
}

// FallbackForecast builds monthsAhead points starting at the month of start.
// Growth is linear by index (1 + 0.05*i). Only the first month carries a provisional actual.
func FallbackForecast(monthsAhead int, baseAmount decimal.Decimal, start time.Time) []domain.ForecastPoint {
	if monthsAhead <= 0 {
		return []domain.ForecastPoint{}
	}

	points := make([]domain.ForecastPoint, 0, monthsAhead)
	first := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location())
	for i := 0; i < monthsAhead; i++ {
		month := first.AddDate(0, i, 0)
		seasonal := SeasonalFactor(month.Month())
		growth := decimal.NewFromInt(1).Add(growthStep.Mul(decimal.NewFromInt(int64(i))))

		actual := decimal.Zero
		if i == 0 {
			actual = baseAmount.Mul(seasonal).Mul(actualDiscount)
		}
		trend := domain.TrendStable
		if i < 2 {
			trend = domain.TrendGrowing
		}

		points = append(points, domain.ForecastPoint{
			Month:          month.Format(domain.MonthLayout),
			PredictedSales: baseAmount.Mul(seasonal).Mul(growth),
			ActualSales:    actual,
			Trend:          trend,
		})
	}
	return points
}

// FallbackCategoryForecast returns a fresh copy of the reference category distribution.
func FallbackCategoryForecast() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"Men":         decimal.NewFromInt(3500),
		"Women":       decimal.NewFromInt(4200),
		"Unisex":      decimal.NewFromInt(2800),
		"Accessories": decimal.NewFromInt(1200),
	}
}
