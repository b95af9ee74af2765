package netstate

import (
	"context"
	"errors"
	"sync"
)

// ErrOffline is the cancellation cause attached to requests aborted because
// the device lost connectivity.
var ErrOffline = errors.New("network is offline")

// State mirrors the device connectivity. A nil pointer means "not yet known"
// and must not be treated as offline.
type State struct {
	IsConnected         *bool  `json:"isConnected"`
	IsInternetReachable *bool  `json:"isInternetReachable"`
	Type                string `json:"type"`
}

// Offline reports an explicit loss of connectivity.
func (s State) Offline() bool {
	return s.IsConnected != nil && !*s.IsConnected
}

// Online reports whether the device is connected and the internet has not
// been reported unreachable.
func (s State) Online() bool {
	if s.IsConnected == nil || !*s.IsConnected {
		return false
	}
	return s.IsInternetReachable == nil || *s.IsInternetReachable
}

// Bool returns a pointer to b, for building States.
func Bool(b bool) *bool {
	return &b
}

// Unknown is the initial state before the first observation.
func Unknown() State {
	return State{Type: "unknown"}
}

// Monitor reports connectivity transitions.
type Monitor interface {
	Current(ctx context.Context) State
	// Subscribe registers fn for every state change and returns a function
	// that removes the subscription.
	Subscribe(fn func(State)) func()
}

// broadcaster fans a state out to subscribers. Shared by the monitor
// implementations.
type broadcaster struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(State)
	order  []int
}

func (b *broadcaster) subscribe(fn func(State)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs == nil {
		b.subs = make(map[int]func(State))
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.order = append(b.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			for i, v := range b.order {
				if v == id {
					b.order = append(b.order[:i], b.order[i+1:]...)
					break
				}
			}
		})
	}
}

func (b *broadcaster) publish(s State) {
	b.mu.RLock()
	fns := make([]func(State), 0, len(b.order))
	for _, id := range b.order {
		fns = append(fns, b.subs[id])
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(s)
	}
}

func (b *broadcaster) count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func sameState(a, b State) bool {
	return eqBool(a.IsConnected, b.IsConnected) &&
		eqBool(a.IsInternetReachable, b.IsInternetReachable) &&
		a.Type == b.Type
}

func eqBool(a, b *bool) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
