// Package metrics holds the Prometheus collectors exported by the POS service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pos"

// Forecast sources.
const (
	SourceRemote   = "remote"
	SourceFallback = "fallback"
)

var (
	// SalesPosted counts PostSale outcomes: "committed", "invalid_quantity",
	// "not_found", "insufficient_stock", "not_recorded", "error".
	SalesPosted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_posted_total",
			Help:      "Sale posting attempts by result.",
		},
		[]string{"result"},
	)

	StockReservations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_reservations_total",
			Help:      "Atomic stock reservations by result.",
		},
		[]string{"result"},
	)

	// ForecastRequests is labelled by kind ("sales" | "categories") and source.
	ForecastRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forecast_requests_total",
			Help:      "Forecast requests by kind and the source that served them.",
		},
		[]string{"kind", "source"},
	)

	ForecasterUp = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "forecaster_up",
		Help:      "1 when the last health probe of the remote forecaster succeeded.",
	})

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	Registry.MustRegister(
		SalesPosted,
		StockReservations,
		ForecastRequests,
		ForecasterUp,
		RequestDuration,
	)
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
