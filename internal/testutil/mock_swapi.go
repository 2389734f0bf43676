// Package testutil provides testing utilities for the SWAPI client.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockSWAPI is a configurable mock SWAPI server for testing.
type MockSWAPI struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	RequestCount      int
	LastRequestHeader http.Header
	requestsByURI     map[string]int
}

// NewMockSWAPI creates a new mock SWAPI server.
func NewMockSWAPI() *MockSWAPI {
	mock := &MockSWAPI{
		handlers:      make(map[string]func(w http.ResponseWriter, r *http.Request)),
		requestsByURI: make(map[string]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.requestsByURI[r.URL.RequestURI()]++
		mock.LastRequestHeader = r.Header.Clone()
		handler, exists := mock.handlers[normalizePath(r.URL.Path)]
		mock.mu.Unlock()

		if exists {
			handler(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail": "Not found"}`))
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockSWAPI) URL() string {
	return m.server.URL
}

// BaseURL returns the API root, the value to use as client base URL.
func (m *MockSWAPI) BaseURL() string {
	return m.server.URL + "/api"
}

// Close shuts down the mock server.
func (m *MockSWAPI) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockSWAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.LastRequestHeader = nil
	m.requestsByURI = make(map[string]int)
}

// SetHandler sets a custom handler for a specific path.
// Trailing slashes are ignored when matching.
func (m *MockSWAPI) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[normalizePath(path)] = handler
}

// SetResponse configures a simple response for a path.
func (m *MockSWAPI) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}

		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// SetJSON serves v encoded as JSON with status 200 on path.
func (m *MockSWAPI) SetJSON(path string, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("testutil: marshal fixture: %v", err))
	}
	m.SetResponse(path, NewJSONResponse(string(body)))
}

// SetPages serves a SWAPI collection on path. pages[i] holds the results of
// page i+1; every page but the last carries a next link "?page=N".
func (m *MockSWAPI) SetPages(path string, pages ...[]any) {
	total := 0
	for _, p := range pages {
		total += len(p)
	}

	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		n := 1
		if q := r.URL.Query().Get("page"); q != "" {
			parsed, err := strconv.Atoi(q)
			if err != nil || parsed < 1 || parsed > len(pages) {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`{"detail": "Not found"}`))
				return
			}
			n = parsed
		}

		body := map[string]any{
			"count":    total,
			"next":     nil,
			"previous": nil,
			"results":  pages[n-1],
		}
		pageURL := m.server.URL + normalizePath(path) + "/"
		if n < len(pages) {
			body["next"] = fmt.Sprintf("%s?page=%d", pageURL, n+1)
		}
		if n > 1 {
			body["previous"] = fmt.Sprintf("%s?page=%d", pageURL, n-1)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(body)
	})
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockSWAPI) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// RequestsFor returns how many requests hit the given request URI
// (path plus query, e.g. "/api/people/?page=2").
func (m *MockSWAPI) RequestsFor(requestURI string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requestsByURI[requestURI]
}

// NewJSONResponse creates a standard 200 OK JSON response.
func NewJSONResponse(data string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       data,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"detail": "Internal server error"}`,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}
}

// NewNotFoundResponse creates a 404 Not Found response.
func NewNotFoundResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusNotFound,
		Body:       `{"detail": "Not found"}`,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}
}

func normalizePath(path string) string {
	if path == "/" {
		return path
	}
	return strings.TrimSuffix(path, "/")
}
