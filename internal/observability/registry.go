package observability

import "time"

// MetricsRegistry provides an interface for recording application metrics,
// so handlers depend on an injected registry rather than global Prometheus
// state.
type MetricsRegistry interface {
	// HTTP request metrics
	IncrementRequests(endpoint, method, status string)
	RecordRequestLatency(endpoint, method string, duration time.Duration)

	// Redirect outcome metrics
	IncrementRedirects(destination string)
	IncrementResolutionMisses(reason string)
	IncrementTopOfferEmpty()

	// Audit pipeline metrics
	IncrementAuditDropped()

	// Catalog metrics
	SetCatalogOffers(count int)
	IncrementCatalogReloads(status string)
}

// PrometheusRegistry implements MetricsRegistry on the package's Prometheus
// collectors.
type PrometheusRegistry struct{}

// NewPrometheusRegistry creates a new PrometheusRegistry.
func NewPrometheusRegistry() *PrometheusRegistry {
	return &PrometheusRegistry{}
}

func (r *PrometheusRegistry) IncrementRequests(endpoint, method, status string) {
	RequestCount.WithLabelValues(endpoint, method, status).Inc()
}

func (r *PrometheusRegistry) RecordRequestLatency(endpoint, method string, duration time.Duration) {
	RequestLatency.WithLabelValues(endpoint, method).Observe(duration.Seconds())
}

func (r *PrometheusRegistry) IncrementRedirects(destination string) {
	RedirectCount.WithLabelValues(destination).Inc()
}

func (r *PrometheusRegistry) IncrementResolutionMisses(reason string) {
	ResolutionMissCount.WithLabelValues(reason).Inc()
}

func (r *PrometheusRegistry) IncrementTopOfferEmpty() {
	TopOfferEmptyCount.Inc()
}

func (r *PrometheusRegistry) IncrementAuditDropped() {
	AuditDroppedCount.Inc()
}

func (r *PrometheusRegistry) SetCatalogOffers(count int) {
	CatalogOffers.Set(float64(count))
}

func (r *PrometheusRegistry) IncrementCatalogReloads(status string) {
	CatalogReloads.WithLabelValues(status).Inc()
}
