package apierror

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"testing"

	"github.com/cmlabs-hris/hris-client-go/internal/pkg/netstate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_Nil(t *testing.T) {
	assert.Nil(t, Classify(nil))
	assert.False(t, ShouldRetry(nil))
}

func TestClassify_ApplicationErrorIsUnexpected(t *testing.T) {
	// Messages that look network-ish must not be misclassified without
	// transport information.
	for _, msg := range []string{"boom", "Network Error", "read timeout in parser"} {
		e := Classify(errors.New(msg))
		require.NotNil(t, e)
		assert.Equal(t, KindUnexpected, e.Kind, msg)
		assert.Equal(t, MsgUnexpected, e.Message)
		assert.False(t, e.IsNetworkError)
		assert.False(t, e.IsServerError)
		assert.False(t, e.IsTimeout)
	}
}

func TestClassify_TransportFailureIsNetwork(t *testing.T) {
	cases := []error{
		&url.Error{Op: "Post", URL: "http://x/create", Err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}},
		&net.DNSError{Err: "no such host", Name: "api.example.com"},
		fmt.Errorf("%w: %w", netstate.ErrOffline, context.Canceled),
	}
	for _, err := range cases {
		e := Classify(err)
		assert.Equal(t, KindNetwork, e.Kind, err.Error())
		assert.True(t, e.IsNetworkError)
		assert.Equal(t, MsgNoInternet, e.Message)
		assert.Zero(t, e.Status)
		assert.True(t, ShouldRetry(err))
	}
}

func TestClassify_CallerCancellationIsUnexpected(t *testing.T) {
	err := &url.Error{Op: "Get", URL: "http://x/report", Err: context.Canceled}
	e := Classify(err)
	assert.Equal(t, KindUnexpected, e.Kind)
	assert.False(t, e.IsNetworkError)
	assert.False(t, ShouldRetry(err))

	offline := fmt.Errorf("%w: %w", netstate.ErrOffline, err)
	assert.Equal(t, KindNetwork, Classify(offline).Kind)
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o deadline reached" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassify_Timeout(t *testing.T) {
	cases := []error{
		context.DeadlineExceeded,
		&url.Error{Op: "Get", URL: "http://x/report", Err: timeoutErr{}},
		&url.Error{Op: "Get", URL: "http://x/report", Err: errors.New("net/http: request canceled (Client.Timeout exceeded while awaiting headers)")},
	}
	for _, err := range cases {
		e := Classify(err)
		assert.Equal(t, KindTimeout, e.Kind, err.Error())
		assert.True(t, e.IsTimeout)
		assert.True(t, e.IsServerError)
		assert.False(t, e.IsNetworkError)
		assert.Equal(t, http.StatusRequestTimeout, e.Status)
		assert.Equal(t, MsgTimedOut, e.Message)
		assert.True(t, ShouldRetry(err))
	}
}

func TestClassify_ResponseBodyMessagePriority(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"message wins", `{"message":"m","error":"e","msg":"g"}`, "m"},
		{"error before msg", `{"error":"e","msg":"g"}`, "e"},
		{"msg last", `{"msg":"g"}`, "g"},
		{"empty message skipped", `{"message":"","msg":"g"}`, "g"},
		{"nested error object", `{"success":false,"error":{"code":"CONFLICT","message":"Leave request already processed"}}`, "Leave request already processed"},
		{"no fields falls back", `{"isSuccess":false}`, DefaultMessageForStatus(http.StatusConflict)},
		{"not json falls back", `<html>bad</html>`, DefaultMessageForStatus(http.StatusConflict)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := Classify(&ResponseError{StatusCode: http.StatusConflict, Body: []byte(tc.body)})
			assert.Equal(t, tc.want, e.Message)
			assert.Equal(t, KindClient, e.Kind)
			assert.Equal(t, http.StatusConflict, e.Status)
		})
	}
}

func TestClassify_StatusTable(t *testing.T) {
	cases := map[int]string{
		400: "Invalid request. Please check your input.",
		401: "Session expired. Please login again.",
		403: "You don't have permission to perform this action.",
		404: "The requested resource was not found.",
		408: "Request timeout. Please try again.",
		429: "Too many requests. Please wait a moment and try again.",
		500: "Server error. Our team has been notified.",
		502: "Bad gateway. The server is temporarily unavailable.",
		503: "Service unavailable. Please try again later.",
		504: "Gateway timeout. The server is not responding.",
		507: "Server error. Please try again later.",
		418: "Something went wrong. Please try again.",
	}
	for status, want := range cases {
		e := Classify(&ResponseError{StatusCode: status})
		assert.Equal(t, want, e.Message, "status %d", status)
		assert.Equal(t, status >= 500, e.IsServerError, "status %d", status)
	}
}

func TestShouldRetry_ByStatus(t *testing.T) {
	for status := 400; status < 600; status++ {
		err := fmt.Errorf("calling api: %w", &ResponseError{StatusCode: status})
		want := status >= 500 || status == http.StatusRequestTimeout
		assert.Equal(t, want, ShouldRetry(err), "status %d", status)
	}
}

func TestClassify_Unauthorized(t *testing.T) {
	e := Classify(&ResponseError{StatusCode: http.StatusUnauthorized})
	assert.True(t, e.Unauthorized)
	assert.Equal(t, KindClient, e.Kind)
	assert.False(t, e.Retryable())
}

func TestClassify_PassesThroughNormalized(t *testing.T) {
	original := Rejected(http.StatusOK, "Already checked in")
	wrapped := fmt.Errorf("toggle attendance: %w", original)
	assert.Same(t, original, Classify(wrapped))
}

func TestInvalid(t *testing.T) {
	e := Invalid(errors.New("email: email is required"))
	assert.Equal(t, http.StatusBadRequest, e.Status)
	assert.Equal(t, "email: email is required", e.Message)
	assert.False(t, ShouldRetry(e))
}

func TestUnavailable(t *testing.T) {
	e := Unavailable(errors.New("circuit breaker is open"))
	assert.True(t, e.IsServerError)
	assert.Equal(t, http.StatusServiceUnavailable, e.Status)
	assert.True(t, ShouldRetry(e))
}
