package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"APP_ENV", "SERVER_PORT", "STORE_DRIVER", "POS_DB_DSN", "MONGO_URI", "MONGO_DATABASE",
		"AI_MODEL_BASE_URL", "AI_MODEL_TIMEOUT_SECONDS", "FORECASTER_HEALTH_SPEC",
		"FORECAST_BASE_AMOUNT", "LOW_STOCK_THRESHOLD",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, ":8085", cfg.Server.Port)
	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
	assert.Equal(t, "clothing_pos", cfg.Mongo.Database)
	assert.Equal(t, "http://localhost:5001", cfg.Forecaster.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Forecaster.Timeout)
	assert.Equal(t, "@every 30s", cfg.Forecaster.HealthSpec)
	assert.True(t, cfg.Forecaster.BaseAmount.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, 10, cfg.LowStockThreshold)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("STORE_DRIVER", "Mongo")
	t.Setenv("AI_MODEL_BASE_URL", "http://forecaster:5001/")
	t.Setenv("AI_MODEL_TIMEOUT_SECONDS", "5")
	t.Setenv("FORECAST_BASE_AMOUNT", "2500.50")
	t.Setenv("LOW_STOCK_THRESHOLD", "3")

	cfg := Load()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, ":9000", cfg.Server.Port)
	assert.Equal(t, StoreDriverMongo, cfg.StoreDriver)
	assert.Equal(t, "http://forecaster:5001", cfg.Forecaster.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Forecaster.Timeout)
	assert.True(t, cfg.Forecaster.BaseAmount.Equal(decimal.RequireFromString("2500.50")))
	assert.Equal(t, 3, cfg.LowStockThreshold)
}

func TestGetEnvAsInt_InvalidFallsBack(t *testing.T) {
	t.Setenv("LOW_STOCK_THRESHOLD", "ten")
	assert.Equal(t, 10, GetEnvAsInt("LOW_STOCK_THRESHOLD", 10))
}
