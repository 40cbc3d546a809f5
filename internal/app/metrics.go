package app

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/DevLaukey/cesi-delivery-ms/internal/metrics"
)

func newClaimConflictsCounter() prometheus.Counter {
	return registerCounter(metrics.NewClaimConflictsTotal())
}

func newPricingFallbacksCounter() prometheus.Counter {
	return registerCounter(metrics.NewPricingFallbacksTotal())
}

func newRateLimitExceededCounter() prometheus.Counter {
	return registerCounter(metrics.NewRateLimitExceededTotal())
}

func newGatewayFailuresVec() *prometheus.CounterVec {
	vec := metrics.NewGatewayFailuresTotal()
	if existing, ok := register(vec).(*prometheus.CounterVec); ok {
		return existing
	}
	return vec
}

func registerCounter(c prometheus.Counter) prometheus.Counter {
	if existing, ok := register(c).(prometheus.Counter); ok {
		return existing
	}
	return c
}

// register adds the collector to the default registry. When an equal
// collector is already registered (containers get rebuilt in tests),
// the existing one is returned instead.
func register(c prometheus.Collector) prometheus.Collector {
	if err := prometheus.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector
		}
	}
	return c
}
