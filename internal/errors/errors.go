// Package errors provides the error types for requests to the chat endpoint.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrRequestFailed   = errors.New("chat request failed")
	ErrInvalidResponse = errors.New("invalid response format")
	ErrEmptyMessage    = errors.New("message cannot be empty")
	ErrClientClosed    = errors.New("client is closed")
)

// Kind classifies a request failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindNetwork
	KindTimeout
	KindStatus
	KindParse
)

// String returns a human-readable name for the kind
func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindStatus:
		return "status"
	case KindParse:
		return "parse"
	default:
		return "unknown"
	}
}

// RequestError describes why a chat request did not produce a reply.
type RequestError struct {
	Kind       Kind
	StatusCode int
	Endpoint   string
	Message    string
	Err        error
}

func (e *RequestError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("chat request failed [%d] at %s: %s", e.StatusCode, e.Endpoint, msg)
	}
	if e.Endpoint != "" {
		return fmt.Sprintf("chat request failed (%s) at %s: %s", e.Kind, e.Endpoint, msg)
	}
	return fmt.Sprintf("chat request failed (%s): %s", e.Kind, msg)
}

// Unwrap returns the underlying cause
func (e *RequestError) Unwrap() error {
	return e.Err
}

// Is allows comparison with sentinel errors
func (e *RequestError) Is(target error) bool {
	if target == ErrRequestFailed {
		return true
	}
	if target == ErrInvalidResponse {
		return e.Kind == KindParse
	}
	t, ok := target.(*RequestError)
	if !ok {
		return false
	}
	return t.Kind == KindUnknown || t.Kind == e.Kind
}

// NewNetworkError wraps a transport failure
func NewNetworkError(endpoint string, err error) *RequestError {
	return &RequestError{Kind: KindNetwork, Endpoint: endpoint, Err: err}
}

// NewTimeoutError wraps a deadline expiry
func NewTimeoutError(endpoint string, err error) *RequestError {
	return &RequestError{Kind: KindTimeout, Endpoint: endpoint, Message: "request timed out", Err: err}
}

// NewStatusError reports a non-2xx response
func NewStatusError(statusCode int, endpoint, message string) *RequestError {
	return &RequestError{Kind: KindStatus, StatusCode: statusCode, Endpoint: endpoint, Message: message}
}

// NewParseError reports a body that is not a valid chat response
func NewParseError(endpoint, message string) *RequestError {
	return &RequestError{Kind: KindParse, Endpoint: endpoint, Message: message}
}

// KindOf returns the failure kind of err, or KindUnknown.
func KindOf(err error) Kind {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Kind
	}
	return KindUnknown
}

// IsNetworkError reports whether err is a transport failure
func IsNetworkError(err error) bool {
	return KindOf(err) == KindNetwork
}

// IsTimeoutError reports whether err is a deadline expiry
func IsTimeoutError(err error) bool {
	return KindOf(err) == KindTimeout
}

// IsStatusError reports whether err is a non-2xx response
func IsStatusError(err error) bool {
	return KindOf(err) == KindStatus
}

// IsParseError reports whether err is a malformed response body
func IsParseError(err error) bool {
	return KindOf(err) == KindParse
}

// GetHTTPStatus extracts the HTTP status code, or 0 if none.
func GetHTTPStatus(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode
	}
	return 0
}

// GetEndpoint extracts the endpoint a failed request was sent to.
func GetEndpoint(err error) string {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Endpoint
	}
	return ""
}
