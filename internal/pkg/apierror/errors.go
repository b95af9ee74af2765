package apierror

import (
	"fmt"
	"net/http"
)

// Kind is the failure taxonomy every caller consumes.
type Kind string

const (
	KindNetwork    Kind = "network"
	KindTimeout    Kind = "timeout"
	KindServer     Kind = "server"
	KindClient     Kind = "client"
	KindUnexpected Kind = "unexpected"
)

// Error is the normalized API error. Domain clients never return anything
// else on failure.
type Error struct {
	Kind    Kind
	Message string
	// Status is the HTTP status, or 0 when no response was received.
	Status         int
	IsNetworkError bool
	IsServerError  bool
	IsTimeout      bool
	// Unauthorized marks a 401. Nothing reacts to it automatically.
	Unauthorized bool
	Cause        error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Retryable reports whether offering "try again" makes sense.
func (e *Error) Retryable() bool {
	return e.IsNetworkError || e.IsTimeout || e.IsServerError
}

// ResponseError carries a non-2xx HTTP response so Classify can extract a
// message from its body.
type ResponseError struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("http status %d", e.StatusCode)
}

func network(cause error) *Error {
	return &Error{
		Kind:           KindNetwork,
		Message:        MsgNoInternet,
		IsNetworkError: true,
		Cause:          cause,
	}
}

func timeout(cause error) *Error {
	return &Error{
		Kind:          KindTimeout,
		Message:       MsgTimedOut,
		Status:        http.StatusRequestTimeout,
		IsServerError: true,
		IsTimeout:     true,
		Cause:         cause,
	}
}

func unexpected(cause error) *Error {
	return &Error{
		Kind:    KindUnexpected,
		Message: MsgUnexpected,
		Cause:   cause,
	}
}

// Invalid wraps a local validation failure. No request was sent.
func Invalid(cause error) *Error {
	return &Error{
		Kind:    KindClient,
		Message: cause.Error(),
		Status:  http.StatusBadRequest,
		Cause:   cause,
	}
}

// Rejected builds the error for a 2xx response whose envelope reports
// isSuccess=false.
func Rejected(status int, message string) *Error {
	if message == "" {
		message = MsgGeneric
	}
	return &Error{
		Kind:    KindClient,
		Message: message,
		Status:  status,
	}
}

// Unavailable is returned while the circuit breaker is open.
func Unavailable(cause error) *Error {
	return &Error{
		Kind:          KindServer,
		Message:       DefaultMessageForStatus(http.StatusServiceUnavailable),
		Status:        http.StatusServiceUnavailable,
		IsServerError: true,
		Cause:         cause,
	}
}
