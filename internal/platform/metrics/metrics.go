// Package metrics collects HTTP request metrics and exposes them for
// Prometheus scraping.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder records the outcome of one HTTP request.
type Recorder interface {
	RecordRequest(method, route string, status int, elapsed time.Duration)
	RecordRateLimited(class string)
}

// Collector is the Prometheus implementation of Recorder.
type Collector struct {
	requests    *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	rateLimited *prometheus.CounterVec
}

var _ Recorder = (*Collector)(nil)

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "carehire_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "carehire_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "carehire_rate_limited_total",
			Help: "Requests rejected by a rate limiter, by limiter class.",
		}, []string{"class"}),
	}

	reg.MustRegister(c.requests, c.latency, c.rateLimited)
	return c
}

// RecordRequest counts a finished request and observes its latency. route is
// the matched route pattern, never the raw path, to keep label cardinality
// bounded.
func (c *Collector) RecordRequest(method, route string, status int, elapsed time.Duration) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.latency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordRateLimited counts a request rejected by the limiter of class.
func (c *Collector) RecordRateLimited(class string) {
	c.rateLimited.WithLabelValues(class).Inc()
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop is a Recorder that discards everything.
type Nop struct{}

// RecordRequest implements Recorder.
func (Nop) RecordRequest(string, string, int, time.Duration) {}

// RecordRateLimited implements Recorder.
func (Nop) RecordRateLimited(string) {}
