package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all OTel metric instruments for tenant-hub.
var Metrics *TenantHubMetrics

// TenantHubMetrics contains all metric instruments.
type TenantHubMetrics struct {
	BridgeResolvedTotal  metric.Int64Counter
	BridgeExhaustedTotal metric.Int64Counter
	BridgeAttempts       metric.Int64Histogram
	TenantMismatchTotal  metric.Int64Counter
	SessionCacheHits     metric.Int64Counter
	SessionCacheMisses   metric.Int64Counter
}

// InitMetrics initializes all metric instruments.
func InitMetrics() error {
	meter := otel.Meter("tenant-hub")

	bridgeResolved, err := meter.Int64Counter("tenant_hub_bridge_resolved_total",
		metric.WithDescription("Total number of successful session bridge resolutions"),
	)
	if err != nil {
		return err
	}

	bridgeExhausted, err := meter.Int64Counter("tenant_hub_bridge_exhausted_total",
		metric.WithDescription("Total number of bridge resolutions that hit the attempt cap"),
	)
	if err != nil {
		return err
	}

	bridgeAttempts, err := meter.Int64Histogram("tenant_hub_bridge_attempts",
		metric.WithDescription("Attempts taken per successful bridge resolution"),
	)
	if err != nil {
		return err
	}

	tenantMismatch, err := meter.Int64Counter("tenant_hub_tenant_mismatch_total",
		metric.WithDescription("Total number of cross-tenant path accesses redirected"),
	)
	if err != nil {
		return err
	}

	cacheHits, err := meter.Int64Counter("tenant_hub_session_cache_hits_total",
		metric.WithDescription("Total number of session cache hits"),
	)
	if err != nil {
		return err
	}

	cacheMisses, err := meter.Int64Counter("tenant_hub_session_cache_misses_total",
		metric.WithDescription("Total number of session cache misses"),
	)
	if err != nil {
		return err
	}

	Metrics = &TenantHubMetrics{
		BridgeResolvedTotal:  bridgeResolved,
		BridgeExhaustedTotal: bridgeExhausted,
		BridgeAttempts:       bridgeAttempts,
		TenantMismatchTotal:  tenantMismatch,
		SessionCacheHits:     cacheHits,
		SessionCacheMisses:   cacheMisses,
	}

	return nil
}
