package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ridloal/pos-forecast-engine/internal/forecast/client"
	"github.com/ridloal/pos-forecast-engine/internal/forecast/domain"
	"github.com/ridloal/pos-forecast-engine/internal/forecast/model"
	"github.com/ridloal/pos-forecast-engine/internal/forecast/service/mocks"
	"github.com/ridloal/pos-forecast-engine/internal/platform/metrics"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var january = time.Date(2025, time.January, 10, 9, 0, 0, 0, time.UTC)

func newTestGateway(remote Forecaster) ForecastGateway {
	g := NewForecastGateway(remote, decimal.NewFromInt(1000), time.Second)
	g.(*forecastGatewayImpl).now = func() time.Time { return january }
	return g
}

func upstreamErr(msg string) error {
	return fmt.Errorf("%w: %s", client.ErrUpstreamUnavailable, msg)
}

func TestForecastGateway_GetForecast(t *testing.T) {
	ctx := context.TODO()
	remotePoints := []domain.ForecastPoint{
		{Month: "Jan 2025", PredictedSales: decimal.NewFromInt(1500), ActualSales: decimal.Zero, Trend: domain.TrendGrowing},
	}

	t.Run("Remote success", func(t *testing.T) {
		remote := new(mocks.MockForecaster)
		remote.On("SalesForecast", mock.Anything, 1).Return(remotePoints, "RandomForest", nil).Once()

		points, source := newTestGateway(remote).ForecastWithSource(ctx, 1)
		assert.Equal(t, remotePoints, points)
		assert.Equal(t, metrics.SourceRemote, source)
		remote.AssertExpectations(t)
	})

	for _, cause := range []string{"GET /api/forecast/sales returned status 500", "context deadline exceeded", "decode sales forecast: unexpected EOF"} {
		t.Run("Falls back on "+cause, func(t *testing.T) {
			remote := new(mocks.MockForecaster)
			remote.On("SalesForecast", mock.Anything, 3).Return(nil, "", upstreamErr(cause)).Once()

			points, source := newTestGateway(remote).ForecastWithSource(ctx, 3)
			assert.Equal(t, metrics.SourceFallback, source)
			assert.Equal(t, model.FallbackForecast(3, decimal.NewFromInt(1000), january), points)
			require.Len(t, points, 3)
			assert.True(t, decimal.NewFromInt(1300).Equal(points[0].PredictedSales))
		})
	}

	t.Run("Non-positive months skip the remote", func(t *testing.T) {
		remote := new(mocks.MockForecaster)
		g := newTestGateway(remote)

		assert.Empty(t, g.GetForecast(ctx, 0))
		assert.Empty(t, g.GetForecast(ctx, -2))
		remote.AssertNotCalled(t, "SalesForecast")
	})

	t.Run("Cancelled caller still gets a remote attempt bounded by timeout", func(t *testing.T) {
		remote := new(mocks.MockForecaster)
		cctx, cancel := context.WithCancel(context.Background())
		cancel()

		remote.On("SalesForecast", mock.MatchedBy(func(c context.Context) bool {
			_, hasDeadline := c.Deadline()
			return c.Err() == nil && hasDeadline
		}), 1).Return(remotePoints, "", nil).Once()

		points := newTestGateway(remote).GetForecast(cctx, 1)
		assert.Equal(t, remotePoints, points)
		remote.AssertExpectations(t)
	})

	t.Run("Nil remote always uses fallback", func(t *testing.T) {
		points, source := newTestGateway(nil).ForecastWithSource(ctx, 2)
		assert.Equal(t, metrics.SourceFallback, source)
		assert.Len(t, points, 2)
	})
}

func TestForecastGateway_GetCategoryForecast(t *testing.T) {
	ctx := context.TODO()

	t.Run("Remote success", func(t *testing.T) {
		remote := new(mocks.MockForecaster)
		want := map[string]decimal.Decimal{"Men": decimal.NewFromInt(10)}
		remote.On("CategoryForecast", mock.Anything).Return(want, nil).Once()

		assert.Equal(t, want, newTestGateway(remote).GetCategoryForecast(ctx))
	})

	t.Run("Fixed distribution on failure", func(t *testing.T) {
		remote := new(mocks.MockForecaster)
		remote.On("CategoryForecast", mock.Anything).Return(nil, upstreamErr("connection refused")).Once()

		got := newTestGateway(remote).GetCategoryForecast(ctx)
		assert.Equal(t, model.FallbackCategoryForecast(), got)
		assert.True(t, decimal.NewFromInt(4200).Equal(got["Women"]))
	})
}

func TestForecastGateway_GetExtendedForecast(t *testing.T) {
	ctx := context.TODO()

	t.Run("Summary over fallback series", func(t *testing.T) {
		remote := new(mocks.MockForecaster)
		remote.On("SalesForecast", mock.Anything, 3).Return(nil, "", upstreamErr("timeout")).Once()
		remote.On("CategoryForecast", mock.Anything).Return(nil, upstreamErr("timeout")).Once()

		ext, err := newTestGateway(remote).GetExtendedForecast(ctx, 3)
		require.NoError(t, err)
		assert.Len(t, ext.MonthlyForecast, 3)
		assert.Len(t, ext.CategoryForecast, 4)
		assert.Equal(t, 3, ext.Summary.TotalMonths)
		// 1300 + 1365 + 1210
		assert.True(t, decimal.NewFromInt(3875).Equal(ext.Summary.TotalPredictedSales))
		assert.True(t, decimal.RequireFromString("1291.67").Equal(ext.Summary.AverageMonthly))
		assert.Equal(t, metrics.SourceFallback, ext.Summary.Source)
		assert.Equal(t, metrics.SourceFallback, ext.Summary.CategorySource)
		assert.Equal(t, january, ext.Summary.GeneratedAt)
	})

	t.Run("Horizon out of range", func(t *testing.T) {
		remote := new(mocks.MockForecaster)
		g := newTestGateway(remote)
		for _, months := range []int{0, 25} {
			ext, err := g.GetExtendedForecast(ctx, months)
			assert.ErrorIs(t, err, ErrInvalidHorizon)
			assert.Nil(t, ext)
		}
		remote.AssertNotCalled(t, "SalesForecast")
	})
}

func TestForecastGateway_Health(t *testing.T) {
	ctx := context.TODO()

	t.Run("Healthy", func(t *testing.T) {
		remote := new(mocks.MockForecaster)
		remote.On("Ping", mock.Anything).Return(nil).Once()

		h := newTestGateway(remote).ForecasterHealth(ctx)
		assert.Equal(t, domain.HealthStatusHealthy, h.Status)
		assert.True(t, h.AIModelConnected)
		assert.True(t, h.FallbackEnabled)
	})

	t.Run("Unavailable", func(t *testing.T) {
		remote := new(mocks.MockForecaster)
		remote.On("Ping", mock.Anything).Return(upstreamErr("status 503")).Once()

		h := newTestGateway(remote).ForecasterHealth(ctx)
		assert.Equal(t, domain.HealthStatusUnavailable, h.Status)
		assert.False(t, h.AIModelConnected)
		assert.True(t, h.FallbackEnabled)
	})

	t.Run("Unexpected error still reports false", func(t *testing.T) {
		remote := new(mocks.MockForecaster)
		remote.On("Ping", mock.Anything).Return(errors.New("boom")).Once()
		assert.False(t, newTestGateway(remote).IsForecasterHealthy(ctx))
	})

	t.Run("No remote configured", func(t *testing.T) {
		assert.False(t, newTestGateway(nil).IsForecasterHealthy(ctx))
	})
}

func TestHealthMonitor_Check(t *testing.T) {
	ctx := context.TODO()
	gw := new(mocks.MockForecastGateway)
	gw.On("IsForecasterHealthy", mock.Anything).Return(false).Once()
	gw.On("IsForecasterHealthy", mock.Anything).Return(true).Once()

	m := NewHealthMonitor(gw, "")
	_, known := m.Status()
	assert.False(t, known)

	assert.False(t, m.Check(ctx))
	up, known := m.Status()
	assert.True(t, known)
	assert.False(t, up)

	assert.True(t, m.Check(ctx))
	up, _ = m.Status()
	assert.True(t, up)
	gw.AssertExpectations(t)
}

func TestHealthMonitor_StartRejectsBadSpec(t *testing.T) {
	m := NewHealthMonitor(new(mocks.MockForecastGateway), "not a schedule")
	assert.Error(t, m.Start())
}

func TestForecastGateway_HealthCheckUsesShortDeadline(t *testing.T) {
	remote := new(mocks.MockForecaster)
	remote.On("Ping", mock.MatchedBy(func(ctx context.Context) bool {
		deadline, ok := ctx.Deadline()
		return ok && time.Until(deadline) <= HealthCheckTimeout
	})).Return(nil).Once()

	g := NewForecastGateway(remote, decimal.NewFromInt(1000), client.DefaultTimeout)
	assert.True(t, g.IsForecasterHealthy(context.TODO()))
	remote.AssertExpectations(t)
}

func TestHealthMonitor_StartDoesNotWaitForFirstCheck(t *testing.T) {
	release := make(chan time.Time)
	gw := new(mocks.MockForecastGateway)
	gw.On("IsForecasterHealthy", mock.Anything).WaitUntil(release).Return(true).Once()

	m := NewHealthMonitor(gw, "@every 1h")
	started := make(chan error, 1)
	go func() { started <- m.Start() }()

	select {
	case err := <-started:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Start blocked on a slow forecaster")
	}
	_, known := m.Status()
	assert.False(t, known)

	close(release)
	m.Stop()

	up, known := m.Status()
	assert.True(t, known)
	assert.True(t, up)
	gw.AssertExpectations(t)
}
