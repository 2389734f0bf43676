package cache

import (
	"errors"
	"time"
)

var (
	// ErrCacheMiss indicates the requested key was not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidEntry indicates the cache entry is invalid or corrupted
	ErrInvalidEntry = errors.New("invalid cache entry")
)

// Entry represents a cached SWAPI response.
type Entry struct {
	// URL is the request URL the response was fetched from
	URL string `json:"url"`

	// Data is the response body, stored verbatim
	Data []byte `json:"data"`

	// StatusCode is the HTTP status code of the cached response
	StatusCode int `json:"status_code"`

	// CachedAt is when we cached this response
	CachedAt time.Time `json:"cached_at"`
}

// Size returns the number of body bytes held by the entry.
func (e *Entry) Size() int {
	if e == nil {
		return 0
	}
	return len(e.Data)
}
