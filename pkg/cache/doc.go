// Package cache provides the response cache used by the SWAPI client.
//
// A cache entry is keyed by the full request URL and holds the response body
// exactly as it was received. Entries are created on the first successful
// fetch of a URL and are never updated, expired or evicted.
//
// # Backends
//
//   - MemoryStore: process-lifetime map, the default
//   - RedisStore: shared between runs, keys are namespaced as "swapi:<url>"
//   - BoltStore: single-file on-disk cache
//
// All backends are safe for concurrent use.
//
// # Basic Usage
//
//	store := cache.NewMemoryStore()
//
//	entry, err := store.Get(ctx, "https://swapi.dev/api/people/1/")
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// fetch from SWAPI, then
//		_ = store.Set(ctx, url, entry)
//	}
//
// A miss is reported through ErrCacheMiss and never through the entry
// value, so a cached empty JSON object is still a hit.
//
// # Metrics
//
//   - swapi_cache_hits_total{layer} - Cache hits
//   - swapi_cache_misses_total{layer} - Cache misses
//   - swapi_cache_errors_total{layer,operation} - Backend errors
package cache
