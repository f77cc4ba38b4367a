package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	forecastAPI "github.com/ridloal/pos-forecast-engine/internal/forecast/api"
	forecastClient "github.com/ridloal/pos-forecast-engine/internal/forecast/client"
	forecastService "github.com/ridloal/pos-forecast-engine/internal/forecast/service"
	"github.com/ridloal/pos-forecast-engine/internal/platform/logger"
	"github.com/ridloal/pos-forecast-engine/internal/platform/metrics"
	"github.com/ridloal/pos-forecast-engine/internal/platform/middleware"
	productAPI "github.com/ridloal/pos-forecast-engine/internal/product/api"
	productService "github.com/ridloal/pos-forecast-engine/internal/product/service"
	saleAPI "github.com/ridloal/pos-forecast-engine/internal/sale/api"
	saleService "github.com/ridloal/pos-forecast-engine/internal/sale/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context())
	},
}

func newForecastGateway() forecastService.ForecastGateway {
	remote := forecastClient.NewHTTPForecaster(cfg.Forecaster.BaseURL, cfg.Forecaster.Timeout)
	return forecastService.NewForecastGateway(remote, cfg.Forecaster.BaseAmount, cfg.Forecaster.Timeout)
}

func runServer(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting POS Service...", zap.String("env", cfg.AppEnv))

	st, err := openStores(ctx, cfg)
	if err != nil {
		logger.Error("Failed to open store", err)
		return err
	}
	defer st.close()

	// Setup Dependencies
	ledger := productService.NewInventoryLedger(st.products)
	prodSvc := productService.NewProductService(st.products, cfg.LowStockThreshold)
	saleSvc := saleService.NewSaleService(ledger, st.sales)
	gateway := newForecastGateway()

	monitor := forecastService.NewHealthMonitor(gateway, cfg.Forecaster.HealthSpec)
	if err := monitor.Start(); err != nil {
		logger.Error("Failed to start forecaster health monitor", err)
		return err
	}
	defer monitor.Stop()

	// Setup Gin Router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog())
	router.RedirectTrailingSlash = false

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	apiV1 := router.Group("/api/v1")
	productAPI.NewProductHandler(prodSvc).RegisterRoutes(apiV1)
	saleAPI.NewSaleHandler(saleSvc).RegisterRoutes(apiV1)
	forecastAPI.NewForecastHandler(gateway).RegisterRoutes(apiV1)

	srv := &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("POS Service running on port "+cfg.Server.Port,
			zap.String("store", cfg.StoreDriver), zap.String("forecaster", cfg.Forecaster.BaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			logger.Error("Failed to run POS Service server", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down POS Service...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", err)
		return err
	}
	return nil
}
