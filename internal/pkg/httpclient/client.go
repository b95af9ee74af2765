package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-client-go/internal/pkg/apierror"
	"github.com/cmlabs-hris/hris-client-go/internal/pkg/netstate"
	"github.com/google/go-querystring/query"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"
)

const (
	DefaultTimeout = 15 * time.Second
	UploadTimeout  = 30 * time.Second

	// maxResponseBody caps how much of a response is buffered.
	maxResponseBody = 10 << 20
)

// TokenSource supplies the current access token. An empty token means the
// request goes out without an Authorization header.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// Options configures one domain client.
type Options struct {
	// Origin is the backend origin, e.g. https://attendance.curelogics.org
	Origin string
	// Path is the domain base path, e.g. /service/attendance
	Path    string
	Timeout time.Duration
	Tokens  TokenSource
	// Monitor enables the offline short-circuit and cancellation of
	// in-flight requests when connectivity is lost
	Monitor netstate.Monitor
	Logger  *slog.Logger
	// Breaker is optional. Only retryable failures count against it
	Breaker *gobreaker.CircuitBreaker
	// HTTPClient supplies the base transport. Its Timeout is ignored
	HTTPClient *http.Client
}

// Client is the configured HTTP client for one domain base path. It is safe
// for concurrent use.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	monitor netstate.Monitor
	logger  *slog.Logger
	breaker *gobreaker.CircuitBreaker

	mu       sync.Mutex
	nextID   uint64
	inFlight map[uint64]context.CancelCauseFunc

	unsubscribe func()
}

// Request describes one call relative to the client's base URL.
type Request struct {
	Method string
	Path   string
	// Query is a url.Values or a struct with `url` tags
	Query any
	// Body is JSON-encoded when non-nil
	Body any
	// Timeout overrides the client timeout when positive
	Timeout time.Duration

	raw         io.Reader
	contentType string
}

// Response is a successful (2xx) response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	base := http.DefaultTransport
	if opts.HTTPClient != nil && opts.HTTPClient.Transport != nil {
		base = opts.HTTPClient.Transport
	}

	c := &Client{
		baseURL: strings.TrimRight(opts.Origin, "/") + opts.Path,
		timeout: timeout,
		http: &http.Client{
			Transport: &authTransport{base: base, tokens: opts.Tokens, logger: logger},
		},
		monitor:  opts.Monitor,
		logger:   logger,
		breaker:  opts.Breaker,
		inFlight: make(map[uint64]context.CancelCauseFunc),
	}

	if opts.Monitor != nil {
		c.unsubscribe = opts.Monitor.Subscribe(func(s netstate.State) {
			if s.Offline() {
				c.cancelInFlight(netstate.ErrOffline)
			}
		})
	}
	return c
}

// BaseURL returns origin + domain path.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Close detaches the client from its network monitor.
func (c *Client) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
}

// InFlight returns the number of requests currently dispatched.
func (c *Client) InFlight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.inFlight)
}

// Do sends req. Any failure is returned as *apierror.Error.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if c.monitor != nil && c.monitor.Current(ctx).Offline() {
		return nil, apierror.Classify(fmt.Errorf("%s %s: %w", req.Method, req.Path, netstate.ErrOffline))
	}

	if c.breaker == nil {
		resp, err := c.send(ctx, req)
		if err != nil {
			return nil, apierror.Classify(err)
		}
		return resp, nil
	}

	var (
		resp    *Response
		sendErr error
	)
	_, err := c.breaker.Execute(func() (any, error) {
		resp, sendErr = c.send(ctx, req)
		if sendErr != nil && apierror.ShouldRetry(sendErr) {
			return nil, sendErr
		}
		return nil, nil
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, apierror.Unavailable(err)
	}
	if sendErr != nil {
		return nil, apierror.Classify(sendErr)
	}
	return resp, nil
}

func (c *Client) send(ctx context.Context, req Request) (*Response, error) {
	target, err := c.url(req)
	if err != nil {
		return nil, err
	}

	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, err
	}

	timeout := c.timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}

	ctx, cancel := context.WithCancelCause(ctx)
	id := c.track(cancel)
	defer c.untrack(id)
	defer cancel(nil)

	// A transition between the check in Do and track above is not
	// delivered to this request.
	if c.monitor != nil && c.monitor.Current(ctx).Offline() {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, netstate.ErrOffline)
	}

	ctx, cancelTimeout := context.WithTimeout(ctx, timeout)
	defer cancelTimeout()

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	requestID := uuid.NewString()
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		if cause := context.Cause(ctx); errors.Is(cause, netstate.ErrOffline) {
			err = fmt.Errorf("%w: %w", netstate.ErrOffline, err)
		}
		c.logger.DebugContext(ctx, "api request failed",
			"method", req.Method, "url", target, "request_id", requestID, "error", err)
		return nil, err
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBody))
	if err != nil {
		if cause := context.Cause(ctx); errors.Is(cause, netstate.ErrOffline) {
			err = fmt.Errorf("%w: %w", netstate.ErrOffline, err)
		}
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.DebugContext(ctx, "api request",
		"method", req.Method,
		"url", target,
		"status", httpResp.StatusCode,
		"duration", time.Since(start),
		"request_id", requestID,
	)

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, responseError(httpResp, data)
	}

	return &Response{StatusCode: httpResp.StatusCode, Header: httpResp.Header, Body: data}, nil
}

// responseError applies the client's own messages on top of the classifier:
// any 5xx gets the generic unavailability message.
func responseError(resp *http.Response, body []byte) error {
	e := apierror.Classify(&apierror.ResponseError{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	})
	if e.IsServerError && resp.StatusCode >= 500 {
		e.Message = apierror.MsgServerUnavailable
	}
	return e
}

func (c *Client) url(req Request) (string, error) {
	target := c.baseURL + req.Path
	if req.Query == nil {
		return target, nil
	}

	var values url.Values
	switch q := req.Query.(type) {
	case url.Values:
		values = q
	default:
		v, err := query.Values(q)
		if err != nil {
			return "", fmt.Errorf("failed to encode query: %w", err)
		}
		values = v
	}
	if encoded := values.Encode(); encoded != "" {
		target += "?" + encoded
	}
	return target, nil
}

func encodeBody(req Request) (io.Reader, string, error) {
	if req.raw != nil {
		return req.raw, req.contentType, nil
	}
	if req.Body == nil {
		return nil, "application/json", nil
	}
	data, err := json.Marshal(req.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode body: %w", err)
	}
	return bytes.NewReader(data), "application/json", nil
}

func (c *Client) track(cancel context.CancelCauseFunc) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.inFlight[id] = cancel
	return id
}

func (c *Client) untrack(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inFlight, id)
}

func (c *Client) cancelInFlight(cause error) {
	c.mu.Lock()
	cancels := make([]context.CancelCauseFunc, 0, len(c.inFlight))
	for _, cancel := range c.inFlight {
		cancels = append(cancels, cancel)
	}
	c.mu.Unlock()

	if len(cancels) > 0 {
		c.logger.Info("network lost, cancelling in-flight requests", "count", len(cancels), "base_url", c.baseURL)
	}
	for _, cancel := range cancels {
		cancel(cause)
	}
}
