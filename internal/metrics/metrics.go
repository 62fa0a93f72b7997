// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records catalog mutations and HTTP traffic.
type Collector struct {
	mutations       *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	importedRecords *prometheus.CounterVec
}

// NewCollector creates a Collector and registers it with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "locallibrary_mutations_total",
			Help: "Catalog write operations by entity kind, operation and outcome.",
		}, []string{"kind", "op", "outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "locallibrary_http_requests_total",
			Help: "HTTP responses by method and status code.",
		}, []string{"method", "status_code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "locallibrary_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		importedRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "locallibrary_imported_records_total",
			Help: "Records created by the seeder, by entity kind.",
		}, []string{"kind"}),
	}

	reg.MustRegister(
		c.mutations,
		c.httpRequests,
		c.httpDuration,
		c.importedRecords,
	)

	return c
}

// ObserveMutation records the outcome of a catalog write.
func (c *Collector) ObserveMutation(kind, op, outcome string) {
	c.mutations.WithLabelValues(kind, op, outcome).Inc()
}

// ObserveHTTP records a served request.
func (c *Collector) ObserveHTTP(method string, status int, d time.Duration) {
	c.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method).Observe(d.Seconds())
}

// RecordImported counts records created by the seeder.
func (c *Collector) RecordImported(kind string, n int) {
	c.importedRecords.WithLabelValues(kind).Add(float64(n))
}

// Handler returns the Prometheus scrape handler.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
