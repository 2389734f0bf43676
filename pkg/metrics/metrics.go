// Package metrics documents the Prometheus metrics of swapi-export and
// reads them back for run summaries. The metrics themselves are defined in
// their packages (cache, client) to avoid import cycles.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the registerer the swapi-export metrics are registered with.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Gatherer reads back what Registry holds.
var Gatherer = prometheus.DefaultGatherer

// Metric names read by Snapshot callers.
const (
	CacheHits     = "swapi_cache_hits_total"
	CacheMisses   = "swapi_cache_misses_total"
	CacheErrors   = "swapi_cache_errors_total"
	Requests      = "swapi_requests_total"
	RequestErrors = "swapi_errors_total"
	PagesFetched  = "swapi_pages_fetched_total"
)

// Snapshot sums every counter and gauge series of the named metric
// families. Families that were never touched are reported as 0.
func Snapshot(g prometheus.Gatherer, names ...string) (map[string]float64, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}

	values := make(map[string]float64, len(names))
	for _, name := range names {
		values[name] = 0
	}

	for _, mf := range families {
		if _, wanted := values[mf.GetName()]; !wanted {
			continue
		}
		var sum float64
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				sum += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				sum += m.GetGauge().GetValue()
			}
		}
		values[mf.GetName()] = sum
	}

	return values, nil
}

// WriteTextfile writes all gathered metrics to path in the text exposition
// format, for node_exporter's textfile collector.
func WriteTextfile(g prometheus.Gatherer, path string) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}

// Metrics Documentation
//
// Cache Metrics (pkg/cache):
//   - swapi_cache_hits_total{layer} (Counter): Cache hits by layer (memory, redis, bolt)
//   - swapi_cache_misses_total{layer} (Counter): Cache misses by layer
//   - swapi_cache_errors_total{layer, operation} (Counter): Cache operation errors
//
// Request Metrics (pkg/client):
//   - swapi_requests_total{status} (Counter): Requests by HTTP status, "cache_hit" or "network_error"
//   - swapi_request_duration_seconds (Histogram): Network round-trip duration
//   - swapi_errors_total{class} (Counter): Errors by class (client, server, network, unexpected)
//   - swapi_pages_fetched_total (Counter): Collection pages read, cached or not
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(swapi_cache_hits_total[5m])) /
//   (sum(rate(swapi_cache_hits_total[5m])) + sum(rate(swapi_cache_misses_total[5m])))
//
//   # Request Error Rate
//   rate(swapi_errors_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(swapi_request_duration_seconds_bucket[5m]))
