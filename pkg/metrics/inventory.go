package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// InventoryMetrics records upstream inventory calls and the fallbacks they
// trigger.
type InventoryMetrics struct {
	upstreamDuration *prometheus.HistogramVec
	upstreamRequests *prometheus.CounterVec
	fallbacks        *prometheus.CounterVec
}

// NewInventoryMetrics registers the inventory metrics on the provided registerer.
func NewInventoryMetrics(reg prometheus.Registerer) *InventoryMetrics {
	if reg == nil {
		return &InventoryMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inventory_upstream_duration_seconds",
		Help:    "Duration of CARMS inventory requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_upstream_requests_total",
		Help: "CARMS inventory requests by operation and outcome.",
	}, []string{"operation", "outcome"})
	fallbacks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_fallback_total",
		Help: "Inventory responses served from the local catalog, by reason.",
	}, []string{"operation", "reason"})
	reg.MustRegister(duration, requests, fallbacks)
	return &InventoryMetrics{
		upstreamDuration: duration,
		upstreamRequests: requests,
		fallbacks:        fallbacks,
	}
}

// ObserveUpstream records one upstream call.
func (m *InventoryMetrics) ObserveUpstream(operation string, duration time.Duration, err error) {
	if m == nil || m.upstreamRequests == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.upstreamDuration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
	m.upstreamRequests.WithLabelValues(normalizeLabel(operation), outcome).Inc()
}

// IncFallback counts a response that was served from the fallback catalog.
func (m *InventoryMetrics) IncFallback(operation, reason string) {
	if m == nil || m.fallbacks == nil {
		return
	}
	m.fallbacks.WithLabelValues(normalizeLabel(operation), normalizeLabel(reason)).Inc()
}

// ImageProxyMetrics counts image proxy responses.
type ImageProxyMetrics struct {
	responses *prometheus.CounterVec
}

// NewImageProxyMetrics registers the image proxy metrics on the provided registerer.
func NewImageProxyMetrics(reg prometheus.Registerer) *ImageProxyMetrics {
	if reg == nil {
		return &ImageProxyMetrics{}
	}
	responses := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "image_proxy_responses_total",
		Help: "Image proxy responses by HTTP status class.",
	}, []string{"class"})
	reg.MustRegister(responses)
	return &ImageProxyMetrics{responses: responses}
}

// IncResponse counts a response with the given HTTP status.
func (m *ImageProxyMetrics) IncResponse(status int) {
	if m == nil || m.responses == nil {
		return
	}
	m.responses.WithLabelValues(statusClass(status)).Inc()
}

// RateLimitMetrics counts rate limiter decisions at the HTTP edge.
type RateLimitMetrics struct {
	decisions *prometheus.CounterVec
}

// NewRateLimitMetrics registers the limiter counters on reg. A nil reg gives
// a no-op recorder.
func NewRateLimitMetrics(reg prometheus.Registerer) *RateLimitMetrics {
	if reg == nil {
		return &RateLimitMetrics{}
	}
	decisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_rate_limit_decisions_total",
		Help: "Rate limiter outcomes: allowed, blocked or store_error.",
	}, []string{"decision"})
	reg.MustRegister(decisions)
	return &RateLimitMetrics{decisions: decisions}
}

func (m *RateLimitMetrics) Observe(decision string) {
	if m == nil || m.decisions == nil {
		return
	}
	m.decisions.WithLabelValues(normalizeLabel(decision)).Inc()
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	}
	return "unknown"
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
