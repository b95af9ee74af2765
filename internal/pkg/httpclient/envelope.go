package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/hris-client-go/internal/pkg/apierror"
)

// Envelope is the response shape of every backend endpoint. List endpoints
// carry the rows in Data and the total in TotalCount.
type Envelope[T any] struct {
	IsSuccess  bool   `json:"isSuccess"`
	Message    string `json:"message"`
	Data       T      `json:"data"`
	TotalCount int    `json:"totalCount,omitempty"`
}

// Page is a list response with its total row count.
type Page[T any] struct {
	Items []T
	Total int
}

// PageOf converts a list envelope. Total falls back to the number of rows
// when the backend omits totalCount.
func PageOf[T any](env Envelope[[]T]) Page[T] {
	total := env.TotalCount
	if total == 0 {
		total = len(env.Data)
	}
	return Page[T]{Items: env.Data, Total: total}
}

// Decode parses resp into an envelope. isSuccess=false becomes a client
// error carrying the envelope message. 204 No Content is a success with a
// zero payload; any other empty body is malformed.
func Decode[T any](resp *Response) (Envelope[T], error) {
	var env Envelope[T]
	if resp.StatusCode == http.StatusNoContent {
		env.IsSuccess = true
		return env, nil
	}
	if len(resp.Body) == 0 {
		return env, apierror.Classify(fmt.Errorf("empty response body (status %d)", resp.StatusCode))
	}
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return env, apierror.Classify(fmt.Errorf("failed to decode response: %w", err))
	}
	if !env.IsSuccess {
		return env, apierror.Rejected(resp.StatusCode, env.Message)
	}
	return env, nil
}

func call[T any](ctx context.Context, c *Client, req Request) (Envelope[T], error) {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return Envelope[T]{}, err
	}
	return Decode[T](resp)
}

func GetJSON[T any](ctx context.Context, c *Client, path string, query any) (Envelope[T], error) {
	return call[T](ctx, c, Request{Method: http.MethodGet, Path: path, Query: query})
}

func PostJSON[T any](ctx context.Context, c *Client, path string, body any) (Envelope[T], error) {
	return call[T](ctx, c, Request{Method: http.MethodPost, Path: path, Body: body})
}

func PatchJSON[T any](ctx context.Context, c *Client, path string, body any) (Envelope[T], error) {
	return call[T](ctx, c, Request{Method: http.MethodPatch, Path: path, Body: body})
}

func DeleteJSON[T any](ctx context.Context, c *Client, path string, body any) (Envelope[T], error) {
	return call[T](ctx, c, Request{Method: http.MethodDelete, Path: path, Body: body})
}
