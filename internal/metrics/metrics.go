package metrics

import "github.com/prometheus/client_golang/prometheus"

// NewClaimConflictsTotal returns a Prometheus counter for claim attempts lost to a version conflict
func NewClaimConflictsTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "claim_conflicts_total",
		Help: "Total number of claim attempts rejected by the ledger version check",
	})
}

// NewPricingFallbacksTotal returns a Prometheus counter for pricing computations that fell back to the minimum fee
func NewPricingFallbacksTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pricing_fallbacks_total",
		Help: "Total number of fee computations that fell back to the minimum fee",
	})
}

// NewRateLimitExceededTotal returns a Prometheus counter for the number of rejected HTTP requests due to rate limiting
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected HTTP requests due to rate limiting",
	})
}

// NewGatewayFailuresTotal returns a Prometheus counter vector for collaborator call failures, labeled by gateway
func NewGatewayFailuresTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_failures_total",
		Help: "Total number of failed collaborator calls",
	}, []string{"gateway"})
}
