// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records application metrics. A nil *Collector is valid and
// records nothing, so tests can pass nil freely.
type Collector struct {
	generationRequests *prometheus.CounterVec
	generationLatency  prometheus.Histogram
	persistenceWrites  *prometheus.CounterVec
	streamSubscribers  *prometheus.GaugeVec
}

// NewCollector creates a Collector and registers its metrics with the
// given registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		generationRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lingoecho_generation_requests_total",
			Help: "Content generation requests by kind and status",
		}, []string{"kind", "status"}),
		generationLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "lingoecho_generation_latency_seconds",
			Help:    "Latency of content generation requests in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		persistenceWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lingoecho_persistence_writes_total",
			Help: "Record writes by record type and status",
		}, []string{"record", "status"}),
		streamSubscribers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "lingoecho_stream_subscribers",
			Help: "Currently connected stream subscribers by stream",
		}, []string{"stream"}),
	}

	reg.MustRegister(
		c.generationRequests,
		c.generationLatency,
		c.persistenceWrites,
		c.streamSubscribers,
	)

	return c
}

// RecordGeneration records one generation request outcome and its latency.
func (c *Collector) RecordGeneration(kind string, err error, duration time.Duration) {
	if c == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.generationRequests.WithLabelValues(kind, status).Inc()
	c.generationLatency.Observe(duration.Seconds())
}

// RecordWrite records one persistence write outcome.
func (c *Collector) RecordWrite(record string, err error) {
	if c == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.persistenceWrites.WithLabelValues(record, status).Inc()
}

// StreamOpened increments the subscriber gauge for a stream.
func (c *Collector) StreamOpened(stream string) {
	if c == nil {
		return
	}
	c.streamSubscribers.WithLabelValues(stream).Inc()
}

// StreamClosed decrements the subscriber gauge for a stream.
func (c *Collector) StreamClosed(stream string) {
	if c == nil {
		return
	}
	c.streamSubscribers.WithLabelValues(stream).Dec()
}

// Handler returns the HTTP handler for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
