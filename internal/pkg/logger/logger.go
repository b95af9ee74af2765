package logger

import (
	"io"
	"log/slog"

	"github.com/cmlabs-hris/hris-client-go/internal/config"
	"github.com/go-chi/httplog/v3"
)

// New builds the application logger: JSON output in the ECS schema,
// tagged with app name, version and environment.
func New(w io.Writer, cfg *config.Config) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(false)
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("env", cfg.App.Env),
	)
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
