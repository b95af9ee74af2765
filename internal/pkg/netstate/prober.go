package netstate

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

const defaultProbeTimeout = 3 * time.Second

// Prober derives connectivity by periodically sending a HEAD request to a
// probe URL. Any HTTP response counts as reachable; a transport failure
// counts as offline.
type Prober struct {
	url      string
	interval time.Duration
	client   *http.Client
	logger   *slog.Logger

	mu    sync.RWMutex
	state State
	b     broadcaster

	started  atomic.Bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewProber(url string, interval time.Duration, logger *slog.Logger) *Prober {
	return &Prober{
		url:      url,
		interval: interval,
		client:   &http.Client{Timeout: defaultProbeTimeout},
		logger:   logger,
		state:    Unknown(),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (p *Prober) Current(ctx context.Context) State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

func (p *Prober) Subscribe(fn func(State)) func() {
	return p.b.subscribe(fn)
}

// Check probes once and publishes the result if it changed.
func (p *Prober) Check(ctx context.Context) State {
	st := p.probe(ctx)

	p.mu.Lock()
	changed := !sameState(p.state, st)
	p.state = st
	p.mu.Unlock()

	if changed {
		p.logger.Debug("network state changed",
			"is_connected", st.IsConnected != nil && *st.IsConnected,
			"type", st.Type,
		)
		p.b.publish(st)
	}
	return st
}

// Start runs the probe loop in the background until Close is called or ctx
// is cancelled.
func (p *Prober) Start(ctx context.Context) {
	if !p.started.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer close(p.done)
		p.Check(ctx)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-p.stop:
				return
			case <-ticker.C:
				p.Check(ctx)
			}
		}
	}()
}

// Close stops the probe loop started by Start and waits for it to exit.
func (p *Prober) Close() {
	p.stopOnce.Do(func() {
		close(p.stop)
	})
	if p.started.Load() {
		<-p.done
	}
}

func (p *Prober) probe(ctx context.Context) State {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.url, nil)
	if err != nil {
		p.logger.Error("Failed to build probe request", "error", err)
		return Unknown()
	}
	resp, err := p.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return p.Current(ctx)
		}
		return State{IsConnected: Bool(false), IsInternetReachable: Bool(false), Type: "none"}
	}
	resp.Body.Close()
	return State{IsConnected: Bool(true), IsInternetReachable: Bool(true), Type: "probe"}
}
