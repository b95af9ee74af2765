package apierror

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"

	"github.com/cmlabs-hris/hris-client-go/internal/pkg/netstate"
)

// Classify maps any failure into the normalized shape. It is pure: the same
// input always produces the same output and nothing is logged or shown.
//
// Precedence:
//  1. already normalized errors pass through
//  2. errors without transport or response information are unexpected,
//     and so is a cancellation not caused by going offline
//  3. transport failures without a response are network errors
//  4. timeouts
//  5. HTTP responses: body message, then the status table
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var normalized *Error
	if errors.As(err, &normalized) {
		return normalized
	}

	var respErr *ResponseError
	hasResponse := errors.As(err, &respErr)

	if !hasResponse && !isTransport(err) {
		return unexpected(err)
	}

	// The caller gave up; the network is not to blame.
	if !hasResponse && errors.Is(err, context.Canceled) && !errors.Is(err, netstate.ErrOffline) {
		return unexpected(err)
	}

	if !hasResponse && !isTimeout(err) {
		return network(err)
	}

	if isTimeout(err) {
		return timeout(err)
	}

	if hasResponse {
		return fromResponse(respErr, err)
	}

	return unexpected(err)
}

// ShouldRetry reports whether err is a network failure, a timeout or a
// server error. Client failures never are.
func ShouldRetry(err error) bool {
	e := Classify(err)
	if e == nil {
		return false
	}
	return e.Retryable()
}

func fromResponse(resp *ResponseError, cause error) *Error {
	status := resp.StatusCode
	message := messageFromBody(resp.Body)
	if message == "" {
		message = DefaultMessageForStatus(status)
	}

	e := &Error{
		Kind:          KindClient,
		Message:       message,
		Status:        status,
		IsServerError: status >= 500,
		Unauthorized:  status == http.StatusUnauthorized,
		Cause:         cause,
	}
	switch {
	case status >= 500:
		e.Kind = KindServer
	case status == http.StatusRequestTimeout:
		e.Kind = KindTimeout
		e.IsTimeout = true
	}
	return e
}

// messageFromBody looks for message, error and msg, in that order. An error
// object with its own message field (the {"error":{"message":...}} shape) is
// accepted too.
func messageFromBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return ""
	}
	for _, key := range []string{"message", "error", "msg"} {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
			continue
		}
		var nested struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(raw, &nested); err == nil && strings.TrimSpace(nested.Message) != "" {
			return strings.TrimSpace(nested.Message)
		}
	}
	return ""
}

func isTransport(err error) bool {
	if errors.Is(err, netstate.ErrOffline) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ENETUNREACH) ||
		errors.Is(err, syscall.EHOSTUNREACH)
}

func isTimeout(err error) bool {
	if errors.Is(err, netstate.ErrOffline) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var respErr *ResponseError
	if errors.As(err, &respErr) {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "timeout")
}
