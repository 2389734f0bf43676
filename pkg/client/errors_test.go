package client

import (
	"errors"
	"fmt"
	"testing"
)

func TestTransportError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *TransportError
		expected string
	}{
		{
			name: "error with wrapped error",
			err: &TransportError{
				URL:        "https://swapi.dev/api/people",
				ErrorClass: ErrorClassNetwork,
				Message:    "request failed",
				Err:        errors.New("connection refused"),
			},
			expected: "network error (status 0): request failed: GET https://swapi.dev/api/people: connection refused",
		},
		{
			name: "error without wrapped error",
			err: &TransportError{
				URL:        "https://swapi.dev/api/species/99/",
				StatusCode: 404,
				ErrorClass: ErrorClassClient,
				Message:    "404 Not Found",
			},
			expected: "client error (status 404): 404 Not Found: GET https://swapi.dev/api/species/99/",
		},
		{
			name: "non-GET method",
			err: &TransportError{
				Method:     "POST",
				URL:        "http://httpbin.org/post",
				StatusCode: 401,
				ErrorClass: ErrorClassClient,
				Message:    "Unauthorized",
			},
			expected: "client error (status 401): Unauthorized: POST http://httpbin.org/post",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := tt.err.Error(); result != tt.expected {
				t.Errorf("Error() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestTransportError_Unwrap(t *testing.T) {
	wrappedErr := errors.New("wrapped error")
	err := &TransportError{
		StatusCode: 500,
		ErrorClass: ErrorClassServer,
		Message:    "server error",
		Err:        wrappedErr,
	}

	if unwrapped := err.Unwrap(); unwrapped != wrappedErr {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, wrappedErr)
	}

	if !errors.Is(err, wrappedErr) {
		t.Error("errors.Is should work with wrapped error")
	}
}

func TestTransportError_IsSentinel(t *testing.T) {
	err := fmt.Errorf("fetch people: %w", &TransportError{StatusCode: 503, ErrorClass: ErrorClassServer})

	if !errors.Is(err, ErrTransport) {
		t.Error("errors.Is(err, ErrTransport) should match a wrapped TransportError")
	}
	if errors.Is(errors.New("other"), ErrTransport) {
		t.Error("unrelated error matched ErrTransport")
	}
}
