package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ridloal/pos-forecast-engine/internal/forecast/client"
	"github.com/ridloal/pos-forecast-engine/internal/forecast/domain"
	"github.com/ridloal/pos-forecast-engine/internal/forecast/model"
	"github.com/ridloal/pos-forecast-engine/internal/platform/logger"
	"github.com/ridloal/pos-forecast-engine/internal/platform/metrics"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	MinExtendedMonths = 1
	MaxExtendedMonths = 24

	// HealthCheckTimeout caps a health ping independently of the forecast timeout.
	HealthCheckTimeout = 5 * time.Second
)

var ErrInvalidHorizon = fmt.Errorf("months must be between %d and %d", MinExtendedMonths, MaxExtendedMonths)

// Forecaster is the remote forecasting capability. client.HTTPForecaster is the live implementation.
type Forecaster interface {
	SalesForecast(ctx context.Context, months int) ([]domain.ForecastPoint, string, error)
	CategoryForecast(ctx context.Context) (map[string]decimal.Decimal, error)
	Ping(ctx context.Context) error
}

// ForecastGateway serves forecasts from the remote forecaster and degrades to the local
// seasonal model on any failure. Forecast methods never return an upstream error.
type ForecastGateway interface {
	GetForecast(ctx context.Context, months int) []domain.ForecastPoint
	// ForecastWithSource is GetForecast plus the source that produced the series.
	ForecastWithSource(ctx context.Context, months int) ([]domain.ForecastPoint, string)
	GetCategoryForecast(ctx context.Context) map[string]decimal.Decimal
	GetExtendedForecast(ctx context.Context, months int) (*domain.ExtendedForecast, error)
	IsForecasterHealthy(ctx context.Context) bool
	ForecasterHealth(ctx context.Context) domain.ForecasterHealth
}

type forecastGatewayImpl struct {
	remote     Forecaster
	baseAmount decimal.Decimal
	timeout    time.Duration
	now        func() time.Time
}

// NewForecastGateway builds a gateway. A nil remote serves the fallback model only.
func NewForecastGateway(remote Forecaster, baseAmount decimal.Decimal, timeout time.Duration) ForecastGateway {
	if timeout <= 0 {
		timeout = client.DefaultTimeout
	}
	if !baseAmount.IsPositive() {
		baseAmount = model.DefaultBaseAmount
	}
	return &forecastGatewayImpl{
		remote:     remote,
		baseAmount: baseAmount,
		timeout:    timeout,
		now:        time.Now,
	}
}

// callContext detaches from the caller's cancellation; the timeout is the only bound.
func (g *forecastGatewayImpl) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), g.timeout)
}

func (g *forecastGatewayImpl) GetForecast(ctx context.Context, months int) []domain.ForecastPoint {
	points, _ := g.ForecastWithSource(ctx, months)
	return points
}

func (g *forecastGatewayImpl) ForecastWithSource(ctx context.Context, months int) ([]domain.ForecastPoint, string) {
	if months <= 0 {
		return []domain.ForecastPoint{}, metrics.SourceFallback
	}

	if g.remote != nil {
		callCtx, cancel := g.callContext(ctx)
		points, modelType, err := g.remote.SalesForecast(callCtx, months)
		cancel()
		if err == nil {
			metrics.ForecastRequests.WithLabelValues("sales", metrics.SourceRemote).Inc()
			logger.Info("Sales forecast served by remote forecaster",
				zap.Int("months", months), zap.Int("points", len(points)), zap.String("model_type", modelType))
			return points, metrics.SourceRemote
		}
		logger.Warn("Sales forecast falling back to seasonal model", zap.Int("months", months), zap.Error(err))
	}

	metrics.ForecastRequests.WithLabelValues("sales", metrics.SourceFallback).Inc()
	return model.FallbackForecast(months, g.baseAmount, g.now()), metrics.SourceFallback
}

func (g *forecastGatewayImpl) GetCategoryForecast(ctx context.Context) map[string]decimal.Decimal {
	cats, _ := g.categoryForecast(ctx)
	return cats
}

func (g *forecastGatewayImpl) categoryForecast(ctx context.Context) (map[string]decimal.Decimal, string) {
	if g.remote != nil {
		callCtx, cancel := g.callContext(ctx)
		cats, err := g.remote.CategoryForecast(callCtx)
		cancel()
		if err == nil {
			metrics.ForecastRequests.WithLabelValues("categories", metrics.SourceRemote).Inc()
			return cats, metrics.SourceRemote
		}
		logger.Warn("Category forecast falling back to reference distribution", zap.Error(err))
	}

	metrics.ForecastRequests.WithLabelValues("categories", metrics.SourceFallback).Inc()
	return model.FallbackCategoryForecast(), metrics.SourceFallback
}

func (g *forecastGatewayImpl) GetExtendedForecast(ctx context.Context, months int) (*domain.ExtendedForecast, error) {
	if months < MinExtendedMonths || months > MaxExtendedMonths {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidHorizon, months)
	}

	points, source := g.ForecastWithSource(ctx, months)
	cats, catSource := g.categoryForecast(ctx)

	total := decimal.Zero
	for _, p := range points {
		total = total.Add(p.PredictedSales)
	}
	average := decimal.Zero
	if len(points) > 0 {
		average = total.Div(decimal.NewFromInt(int64(len(points)))).Round(2)
	}

	return &domain.ExtendedForecast{
		MonthlyForecast:  points,
		CategoryForecast: cats,
		Summary: domain.ForecastSummary{
			TotalMonths:         len(points),
			TotalPredictedSales: total,
			AverageMonthly:      average,
			GeneratedAt:         g.now().UTC(),
			Source:              source,
			CategorySource:      catSource,
		},
	}, nil
}

func (g *forecastGatewayImpl) IsForecasterHealthy(ctx context.Context) bool {
	if g.remote == nil {
		return false
	}
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), min(g.timeout, HealthCheckTimeout))
	defer cancel()

	if err := g.remote.Ping(callCtx); err != nil {
		if !errors.Is(err, client.ErrUpstreamUnavailable) {
			logger.Warn("Forecaster health probe failed with unexpected error", zap.Error(err))
		}
		return false
	}
	return true
}

func (g *forecastGatewayImpl) ForecasterHealth(ctx context.Context) domain.ForecasterHealth {
	healthy := g.IsForecasterHealthy(ctx)
	status := domain.HealthStatusUnavailable
	if healthy {
		status = domain.HealthStatusHealthy
	}
	return domain.ForecasterHealth{
		Status:           status,
		AIModelConnected: healthy,
		Timestamp:        g.now().UTC(),
		FallbackEnabled:  true,
	}
}
