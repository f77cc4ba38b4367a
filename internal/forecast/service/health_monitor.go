package service

import (
	"context"
	"sync"

	"github.com/ridloal/pos-forecast-engine/internal/platform/logger"
	"github.com/ridloal/pos-forecast-engine/internal/platform/metrics"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const DefaultHealthSpec = "@every 30s"

// HealthMonitor probes the remote forecaster on a cron schedule and exports the result
// as the pos_forecaster_up gauge. Only state changes are logged.
type HealthMonitor struct {
	gateway   ForecastGateway
	scheduler *cron.Cron
	spec      string

	initial sync.WaitGroup

	mu    sync.RWMutex
	known bool
	up    bool
}

func NewHealthMonitor(gateway ForecastGateway, spec string) *HealthMonitor {
	if spec == "" {
		spec = DefaultHealthSpec
	}
	return &HealthMonitor{
		gateway:   gateway,
		scheduler: cron.New(),
		spec:      spec,
	}
}

// Start schedules the checks and fires the first one in the background, so a slow
// forecaster never holds up the caller. Status reports known=false until it lands.
func (m *HealthMonitor) Start() error {
	if _, err := m.scheduler.AddFunc(m.spec, func() {
		// job latar belakang, tidak terikat request
		m.Check(context.Background())
	}); err != nil {
		return err
	}
	m.initial.Add(1)
	go func() {
		defer m.initial.Done()
		m.Check(context.Background())
	}()
	m.scheduler.Start()
	logger.Info("Forecaster health monitor started", zap.String("spec", m.spec))
	return nil
}

// Stop halts the schedule and waits for any running check to finish.
func (m *HealthMonitor) Stop() {
	<-m.scheduler.Stop().Done()
	m.initial.Wait()
}

// Check runs one probe and records its outcome.
func (m *HealthMonitor) Check(ctx context.Context) bool {
	up := m.gateway.IsForecasterHealthy(ctx)
	if up {
		metrics.ForecasterUp.Set(1)
	} else {
		metrics.ForecasterUp.Set(0)
	}

	m.mu.Lock()
	changed := !m.known || m.up != up
	m.known, m.up = true, up
	m.mu.Unlock()

	if changed {
		if up {
			logger.Info("Forecaster is reachable")
		} else {
			logger.Warn("Forecaster is unreachable, forecasts will use the seasonal fallback")
		}
	}
	return up
}

// Status returns the last probe result. known is false until the first probe completes.
func (m *HealthMonitor) Status() (up bool, known bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.up, m.known
}
