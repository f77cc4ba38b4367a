package mocks

import (
	"context"

	"github.com/ridloal/pos-forecast-engine/internal/forecast/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockForecaster struct {
	mock.Mock
}

func (m *MockForecaster) SalesForecast(ctx context.Context, months int) ([]domain.ForecastPoint, string, error) {
	args := m.Called(ctx, months)
	if res := args.Get(0); res != nil {
		return res.([]domain.ForecastPoint), args.String(1), args.Error(2)
	}
	return nil, args.String(1), args.Error(2)
}

func (m *MockForecaster) CategoryForecast(ctx context.Context) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.(map[string]decimal.Decimal), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockForecaster) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockForecastGateway struct {
	mock.Mock
}

func (m *MockForecastGateway) GetForecast(ctx context.Context, months int) []domain.ForecastPoint {
	args := m.Called(ctx, months)
	return args.Get(0).([]domain.ForecastPoint)
}

func (m *MockForecastGateway) ForecastWithSource(ctx context.Context, months int) ([]domain.ForecastPoint, string) {
	args := m.Called(ctx, months)
	return args.Get(0).([]domain.ForecastPoint), args.String(1)
}

func (m *MockForecastGateway) GetCategoryForecast(ctx context.Context) map[string]decimal.Decimal {
	args := m.Called(ctx)
	return args.Get(0).(map[string]decimal.Decimal)
}

func (m *MockForecastGateway) GetExtendedForecast(ctx context.Context, months int) (*domain.ExtendedForecast, error) {
	args := m.Called(ctx, months)
	if res := args.Get(0); res != nil {
		return res.(*domain.ExtendedForecast), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockForecastGateway) IsForecasterHealthy(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func (m *MockForecastGateway) ForecasterHealth(ctx context.Context) domain.ForecasterHealth {
	args := m.Called(ctx)
	return args.Get(0).(domain.ForecasterHealth)
}
