package model

import (
	"testing"
	"time"

	"github.com/ridloal/pos-forecast-engine/internal/forecast/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestFallbackForecast(t *testing.T) {
	january := time.Date(2025, time.January, 20, 15, 0, 0, 0, time.UTC)

	t.Run("Three months from January", func(t *testing.T) {
		points := FallbackForecast(3, dec("1000"), january)
		require.Len(t, points, 3)

		want := []struct {
			month     string
			predicted string
			actual    string
			trend     string
		}{
			{"Jan 2025", "1300", "1235", domain.TrendGrowing},
			{"Feb 2025", "1365", "0", domain.TrendGrowing},
			{"Mar 2025", "1210", "0", domain.TrendStable},
		}
		for i, w := range want {
			assert.Equal(t, w.month, points[i].Month)
			assert.True(t, dec(w.predicted).Equal(points[i].PredictedSales), "month %d predicted %s", i, points[i].PredictedSales)
			assert.True(t, dec(w.actual).Equal(points[i].ActualSales), "month %d actual %s", i, points[i].ActualSales)
			assert.Equal(t, w.trend, points[i].Trend)
			assert.Nil(t, points[i].Confidence)
		}
	})

	t.Run("Crosses year boundary from a month-end date", func(t *testing.T) {
		points := FallbackForecast(3, dec("1000"), time.Date(2024, time.October, 31, 0, 0, 0, 0, time.UTC))
		require.Len(t, points, 3)
		assert.Equal(t, "Oct 2024", points[0].Month)
		assert.Equal(t, "Nov 2024", points[1].Month)
		assert.Equal(t, "Dec 2024", points[2].Month)
		// Dec: 1000 * 1.3 * 1.10
		assert.True(t, dec("1430").Equal(points[2].PredictedSales))
	})

	t.Run("Summer dip", func(t *testing.T) {
		points := FallbackForecast(1, dec("2000"), time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC))
		require.Len(t, points, 1)
		assert.True(t, dec("1800").Equal(points[0].PredictedSales))
		assert.True(t, dec("1710").Equal(points[0].ActualSales))
	})

	t.Run("Deterministic for the same inputs", func(t *testing.T) {
		assert.Equal(t, FallbackForecast(12, dec("1000"), january), FallbackForecast(12, dec("1000"), january))
	})

	t.Run("Non-positive horizon gives an empty series", func(t *testing.T) {
		assert.Empty(t, FallbackForecast(0, dec("1000"), january))
		assert.Empty(t, FallbackForecast(-4, dec("1000"), january))
		assert.NotNil(t, FallbackForecast(0, dec("1000"), january))
	})
}

func TestSeasonalFactor(t *testing.T) {
	cases := map[time.Month]string{
		time.December: "1.3", time.January: "1.3", time.February: "1.3",
		time.March: "1.1", time.April: "1.1", time.May: "1.1",
		time.June: "0.9", time.July: "0.9", time.August: "0.9",
		time.September: "1.2", time.October: "1.2", time.November: "1.2",
	}
	for m, want := range cases {
		assert.True(t, dec(want).Equal(SeasonalFactor(m)), m.String())
	}
}

func TestFallbackCategoryForecast(t *testing.T) {
	got := FallbackCategoryForecast()
	require.Len(t, got, 4)
	assert.True(t, dec("3500").Equal(got["Men"]))
	assert.True(t, dec("4200").Equal(got["Women"]))
	assert.True(t, dec("2800").Equal(got["Unisex"]))
	assert.True(t, dec("1200").Equal(got["Accessories"]))

	got["Men"] = decimal.Zero
	assert.True(t, dec("3500").Equal(FallbackCategoryForecast()["Men"]))
}
