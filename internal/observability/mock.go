package observability

import "time"

// NoOpRegistry implements MetricsRegistry without recording anything.
// Used in tests to avoid polluting the global Prometheus registry.
type NoOpRegistry struct{}

// NewNoOpRegistry creates a new NoOpRegistry.
func NewNoOpRegistry() *NoOpRegistry {
	return &NoOpRegistry{}
}

func (r *NoOpRegistry) IncrementRequests(endpoint, method, status string)             {}
func (r *NoOpRegistry) RecordRequestLatency(endpoint, method string, d time.Duration) {}
func (r *NoOpRegistry) IncrementRedirects(destination string)                         {}
func (r *NoOpRegistry) IncrementResolutionMisses(reason string)                       {}
func (r *NoOpRegistry) IncrementTopOfferEmpty()                                       {}
func (r *NoOpRegistry) IncrementAuditDropped()                                        {}
func (r *NoOpRegistry) SetCatalogOffers(count int)                                    {}
func (r *NoOpRegistry) IncrementCatalogReloads(status string)                         {}
