package httpclient

import (
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerSettings configures NewBreaker.
type BreakerSettings struct {
	Name        string
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	// Failures is the number of consecutive failures that opens the breaker
	Failures uint32
}

// NewBreaker builds a circuit breaker for one domain client and logs its
// state changes.
func NewBreaker(s BreakerSettings, logger *slog.Logger) *gobreaker.CircuitBreaker {
	failures := s.Failures
	if failures == 0 {
		failures = 5
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if logger != nil {
				logger.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
			}
		},
	})
}
