package http

import (
	"net/http"
	"strconv"
	"time"

	"allocator/internal/core/domain/model/allocation"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "allocator"

// Metrics holds the Prometheus collectors of the HTTP adapter.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	AllocationsTotal    *prometheus.CounterVec
	ShippedUnitsTotal   *prometheus.CounterVec
}

// NewMetrics registers the collectors on a fresh registry together with the
// standard Go and process collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		AllocationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "allocations_total",
			Help:      "Allocation passes by outcome",
		}, []string{"outcome", "dry_run"}),
		ShippedUnitsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "shipped_units_total",
			Help:      "Units shipped by committed allocations, per warehouse",
		}, []string{"warehouse"}),
	}

	registry.MustRegister(m.HTTPRequestsTotal, m.HTTPRequestDuration, m.AllocationsTotal, m.ShippedUnitsTotal)
	return m
}

// Middleware records request count and latency per route.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			m.HTTPRequestsTotal.WithLabelValues(c.Request().Method, path, strconv.Itoa(c.Response().Status)).Inc()
			m.HTTPRequestDuration.WithLabelValues(c.Request().Method, path).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}

// RecordAllocation counts the outcome and, for stock-consuming passes,
// the units shipped from each warehouse.
func (m *Metrics) RecordAllocation(record *allocation.Allocation) {
	m.AllocationsTotal.WithLabelValues(record.Outcome().String(), strconv.FormatBool(record.IsDryRun())).Inc()
	if record.IsDryRun() {
		return
	}
	for _, c := range record.Plan().Contributions() {
		units := 0
		for _, line := range c.Lines() {
			units += line.Quantity
		}
		m.ShippedUnitsTotal.WithLabelValues(c.Warehouse()).Add(float64(units))
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: false})
}
