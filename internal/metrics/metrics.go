// Package metrics exposes Prometheus collectors for HTTP traffic and shop activity.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"localshop/internal/domain"
)

const namespace = "localshop"

// Metrics owns a private registry so several instances can coexist in tests
type Metrics struct {
	registry *prometheus.Registry

	httpInFlight prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	sales        prometheus.Counter
	unitsSold    prometheus.Counter
	salesRevenue prometheus.Counter
	orders       *prometheus.CounterVec
}

// New creates and registers every collector
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		}, []string{"method", "route"}),
		sales: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "sales_total",
			Help:      "Number of recorded sales.",
		}),
		unitsSold: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "units_sold_total",
			Help:      "Units removed from stock by sales.",
		}),
		salesRevenue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "sales_revenue_total",
			Help:      "Sum of sale amounts.",
		}),
		orders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "saved_total",
			Help:      "Orders created or updated, by operation and resulting status.",
		}, []string{"operation", "status"}),
	}

	m.registry.MustRegister(
		m.httpInFlight,
		m.httpRequests,
		m.httpDuration,
		m.sales,
		m.unitsSold,
		m.salesRevenue,
		m.orders,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	return m
}

// Handler returns an HTTP handler exposing the registered metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware records request counts and latency labelled by chi route pattern
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		m.httpInFlight.Inc()
		defer m.httpInFlight.Dec()

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// SaleRecorded counts a completed sale
func (m *Metrics) SaleRecorded(sale *domain.Sale) {
	m.sales.Inc()
	m.unitsSold.Add(float64(sale.Quantity))
	m.salesRevenue.Add(sale.TotalAmount)
}

// OrderSaved counts an order write
func (m *Metrics) OrderSaved(order *domain.Order, created bool) {
	operation := "updated"
	if created {
		operation = "created"
	}
	m.orders.WithLabelValues(operation, string(order.Status)).Inc()
}
