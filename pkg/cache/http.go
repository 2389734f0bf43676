package cache

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrNilResponse is returned by ResponseToEntry when given no response.
var ErrNilResponse = errors.New("cache: nil response")

// ResponseToEntry snapshots a SWAPI response into an Entry keyed by the
// request URL. The body is consumed and replaced with an in-memory copy,
// so the caller can still decode it.
func ResponseToEntry(resp *http.Response) (*Entry, error) {
	if resp == nil {
		return nil, ErrNilResponse
	}

	payload, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("read body of %d response: %w", resp.StatusCode, err)
	}
	resp.Body = io.NopCloser(bytes.NewReader(payload))

	var url string
	if req := resp.Request; req != nil && req.URL != nil {
		url = req.URL.String()
	}

	return &Entry{
		URL:        url,
		Data:       payload,
		StatusCode: resp.StatusCode,
		CachedAt:   time.Now(),
	}, nil
}
