// Package metrics exports Prometheus instrumentation and the standalone
// metrics server.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the process-wide instrumentation.
type Collector struct {
	generationLatency *prometheus.HistogramVec
	emailCounter      *prometheus.CounterVec
	batchCounter      *prometheus.CounterVec
	batchRowCounter   *prometheus.CounterVec
}

var (
	collectorOnce sync.Once
	collector     *Collector
)

// NewCollector creates (once) and returns the process-wide collector.
func NewCollector() *Collector {
	collectorOnce.Do(func() {
		collector = &Collector{
			generationLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "emailcraft_generation_latency_seconds",
				Help:    "Generation service call latency",
				Buckets: prometheus.DefBuckets,
			}, []string{"status"}),

			emailCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "emailcraft_emails_total",
				Help: "Total email generations",
			}, []string{"status", "source"}),

			batchCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "emailcraft_batches_total",
				Help: "Total batch runs by terminal state",
			}, []string{"result"}),

			batchRowCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "emailcraft_batch_rows_total",
				Help: "Total batch rows processed",
			}, []string{"status"}),
		}

		prometheus.MustRegister(
			collector.generationLatency,
			collector.emailCounter,
			collector.batchCounter,
			collector.batchRowCounter,
		)
	})

	return collector
}

// ObserveGeneration records one generation call with its latency. source is
// "single" or "batch", status is "success" or "failure".
func (c *Collector) ObserveGeneration(status, source string, latency time.Duration) {
	c.generationLatency.With(prometheus.Labels{"status": status}).Observe(latency.Seconds())
	c.EmailGenerated(status, source)
}

// EmailGenerated counts one generation without latency, for callers that
// only see the outcome.
func (c *Collector) EmailGenerated(status, source string) {
	c.emailCounter.With(prometheus.Labels{"status": status, "source": source}).Inc()
}

// BatchRow counts one processed batch row.
func (c *Collector) BatchRow(status string) {
	c.batchRowCounter.With(prometheus.Labels{"status": status}).Inc()
}

// BatchFinished counts one batch reaching a terminal state ("done" or
// "cancelled").
func (c *Collector) BatchFinished(result string) {
	c.batchCounter.With(prometheus.Labels{"result": result}).Inc()
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
