package apierror

import (
	"context"
	"log/slog"

	"github.com/getsentry/sentry-go"
)

// Notifier surfaces a short transient message to the user.
type Notifier interface {
	ShowError(message string)
}

// Reporter is the presentation and observability side of error handling.
// Classification stays in Classify; Reporter only displays and records.
type Reporter struct {
	notifier  Notifier
	logger    *slog.Logger
	hub       *sentry.Hub
	retryHint string
}

type ReporterOption func(*Reporter)

// WithSentry forwards unexpected and server failures to a Sentry hub.
func WithSentry(hub *sentry.Hub) ReporterOption {
	return func(r *Reporter) {
		r.hub = hub
	}
}

// WithRetryHint appends hint to the message of retryable failures so the
// user knows the action can be repeated. Client failures never get it.
func WithRetryHint(hint string) ReporterOption {
	return func(r *Reporter) {
		r.retryHint = hint
	}
}

func NewReporter(notifier Notifier, logger *slog.Logger, opts ...ReporterOption) *Reporter {
	r := &Reporter{notifier: notifier, logger: logger}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ShowError displays customMessage, or the classified message when empty,
// followed by the retry hint when err is retryable.
func (r *Reporter) ShowError(err error, customMessage string) {
	if err == nil || r.notifier == nil {
		return
	}
	e := Classify(err)
	message := customMessage
	if message == "" {
		message = e.Message
	}
	if r.retryHint != "" && e.Retryable() {
		message += " " + r.retryHint
	}
	r.notifier.ShowError(message)
}

// LogError records err with the operation it came from.
func (r *Reporter) LogError(ctx context.Context, err error, where string) {
	if err == nil {
		return
	}
	e := Classify(err)
	r.logger.ErrorContext(ctx, "API request failed",
		"where", where,
		"kind", string(e.Kind),
		"status", e.Status,
		"message", e.Message,
		"error", err,
	)

	if r.hub == nil || (e.Kind != KindUnexpected && e.Kind != KindServer) {
		return
	}
	r.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("where", where)
		scope.SetTag("kind", string(e.Kind))
		r.hub.CaptureException(err)
	})
}

// Handle logs err and shows it to the user. It returns the classified error
// so callers can decide whether to offer a retry.
func (r *Reporter) Handle(ctx context.Context, err error, where string) *Error {
	if err == nil {
		return nil
	}
	r.LogError(ctx, err, where)
	r.ShowError(err, "")
	return Classify(err)
}
