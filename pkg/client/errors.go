package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorClass represents a classification of transport errors.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassUnexpected represents 1xx/3xx statuses that were not followed.
	ErrorClassUnexpected ErrorClass = "unexpected"
)

// Common errors returned by the client.
var (
	// ErrTransport matches every *TransportError via errors.Is.
	ErrTransport = errors.New("transport error")

	// ErrInvalidJSON is returned when a success response is not JSON.
	ErrInvalidJSON = errors.New("response is not valid json")

	// ErrPaginationLoop is returned when a next link points to a page already read.
	ErrPaginationLoop = errors.New("pagination loop")
)

// TransportError is returned for non-success statuses and network failures.
// It is never retried.
type TransportError struct {
	// Method defaults to GET when empty
	Method     string
	URL        string
	StatusCode int
	ErrorClass ErrorClass
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	method := e.Method
	if method == "" {
		method = http.MethodGet
	}
	if e.Err != nil {
		return fmt.Sprintf("%s error (status %d): %s: %s %s: %v",
			e.ErrorClass, e.StatusCode, e.Message, method, e.URL, e.Err)
	}
	return fmt.Sprintf("%s error (status %d): %s: %s %s",
		e.ErrorClass, e.StatusCode, e.Message, method, e.URL)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrTransport.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// ClassifyStatus categorizes a non-success HTTP status.
func ClassifyStatus(statusCode int) ErrorClass {
	switch {
	case statusCode >= 400 && statusCode < 500:
		return ErrorClassClient
	case statusCode >= 500:
		return ErrorClassServer
	default:
		return ErrorClassUnexpected
	}
}
