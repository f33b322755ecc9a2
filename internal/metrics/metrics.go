// Package metrics exposes Prometheus instrumentation for the trip log server.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the set of observations the rest of the server makes.
type Recorder interface {
	ObserveStoreOp(op string, d time.Duration, err error)
	IncRequestsTotal(route string, status int)
	ObserveRequestDuration(route string, d time.Duration)
	SetTripsTotal(n int)
}

// Provider is the Prometheus-backed Recorder. It owns its registry so that
// several providers can coexist in one test binary.
type Provider struct {
	registry        *prometheus.Registry
	storeOps        *prometheus.CounterVec
	storeDuration   *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	tripsTotal      prometheus.Gauge
}

// New builds a Provider with all collectors registered.
func New() *Provider {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Provider{
		registry: reg,
		storeOps: f.NewCounterVec(prometheus.CounterOpts{
			Name: "triplog_store_ops_total",
			Help: "Key-value store operations by op and outcome",
		}, []string{"op", "outcome"}),
		storeDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "triplog_store_op_duration_seconds",
			Help:    "Key-value store operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
		requestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "triplog_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"route", "status"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "triplog_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		tripsTotal: f.NewGauge(prometheus.GaugeOpts{
			Name: "triplog_trips_total",
			Help: "Number of trip records seen at the last render",
		}),
	}
}

func (p *Provider) ObserveStoreOp(op string, d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	p.storeOps.WithLabelValues(op, outcome).Inc()
	p.storeDuration.WithLabelValues(op).Observe(d.Seconds())
}

func (p *Provider) IncRequestsTotal(route string, status int) {
	p.requestsTotal.WithLabelValues(route, statusBucket(status)).Inc()
}

func (p *Provider) ObserveRequestDuration(route string, d time.Duration) {
	p.requestDuration.WithLabelValues(route).Observe(d.Seconds())
}

func (p *Provider) SetTripsTotal(n int) {
	p.tripsTotal.Set(float64(n))
}

// Handler serves the registry in the Prometheus text format.
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (p *Provider) Registry() *prometheus.Registry {
	return p.registry
}

func statusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

// Noop discards every observation. Used when metrics are disabled.
type Noop struct{}

func (Noop) ObserveStoreOp(string, time.Duration, error)  {}
func (Noop) IncRequestsTotal(string, int)                 {}
func (Noop) ObserveRequestDuration(string, time.Duration) {}
func (Noop) SetTripsTotal(int)                            {}
