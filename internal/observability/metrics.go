package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// total requests per endpoint, method and status code
	RequestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "offerserve_requests_total",
			Help: "Total API requests received",
		},
		[]string{"endpoint", "method", "status"},
	)

	// request latency in seconds per endpoint/method
	RequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "offerserve_request_duration_seconds",
			Help:    "Histogram of request latencies",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method"},
	)

	// redirects issued, labelled by destination kind
	RedirectCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "offerserve_redirects_total",
			Help: "Total redirects issued",
		},
		[]string{"destination"},
	)

	// resolution misses, labelled by business reason
	ResolutionMissCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "offerserve_resolution_misses_total",
			Help: "Total resolutions that produced no offer",
		},
		[]string{"reason"},
	)

	// top-offer queries that found nothing to display
	TopOfferEmptyCount = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "offerserve_top_offer_empty_total",
			Help: "Total top-offer queries with an empty result",
		},
	)

	// audit records dropped because the writer queue was full
	AuditDroppedCount = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "offerserve_audit_dropped_total",
			Help: "Total audit records dropped",
		},
	)

	// offers in the current catalog snapshot
	CatalogOffers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "offerserve_catalog_offers",
			Help: "Number of offers in the active catalog snapshot",
		},
	)

	// catalog reloads, labelled by outcome
	CatalogReloads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "offerserve_catalog_reloads_total",
			Help: "Total catalog reload attempts",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestCount,
		RequestLatency,
		RedirectCount,
		ResolutionMissCount,
		TopOfferEmptyCount,
		AuditDroppedCount,
		CatalogOffers,
		CatalogReloads,
	)
}
