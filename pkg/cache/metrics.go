package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Layer label values.
const (
	LayerMemory = "memory"
	LayerRedis  = "redis"
	LayerBolt   = "bolt"
)

var (
	// CacheHits tracks cache hits by layer
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swapi_cache_hits_total",
			Help: "Total number of SWAPI cache hits",
		},
		[]string{"layer"},
	)

	// CacheMisses tracks cache misses by layer
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swapi_cache_misses_total",
			Help: "Total number of SWAPI cache misses",
		},
		[]string{"layer"},
	)

	// CacheErrors tracks cache operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swapi_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"layer", "operation"}, // "get", "set"
	)
)
