package netstate

import (
	"context"
	"sync"
)

// Switch is a Monitor whose state is set by the caller. The CLI uses it
// with --offline and tests use it to simulate connectivity loss.
type Switch struct {
	mu    sync.RWMutex
	state State
	b     broadcaster
}

func NewSwitch(initial State) *Switch {
	return &Switch{state: initial}
}

func (s *Switch) Current(ctx context.Context) State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Switch) Subscribe(fn func(State)) func() {
	return s.b.subscribe(fn)
}

// Set stores st and notifies subscribers if it differs from the current state.
func (s *Switch) Set(st State) {
	s.mu.Lock()
	changed := !sameState(s.state, st)
	s.state = st
	s.mu.Unlock()

	if changed {
		s.b.publish(st)
	}
}

// GoOffline is shorthand for an explicit disconnect.
func (s *Switch) GoOffline() {
	s.Set(State{IsConnected: Bool(false), IsInternetReachable: Bool(false), Type: "none"})
}

// GoOnline is shorthand for a reachable wifi connection.
func (s *Switch) GoOnline() {
	s.Set(State{IsConnected: Bool(true), IsInternetReachable: Bool(true), Type: "wifi"})
}

// Subscribers returns the number of active subscriptions.
func (s *Switch) Subscribers() int {
	return s.b.count()
}
