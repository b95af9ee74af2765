// Package push is the push-notification provider seen by the session: it
// hands out the device token, reports when the provider rotates it and
// drops it on logout.
package push

import (
	"context"
	"errors"
	"sync"
)

var ErrNoToken = errors.New("push token unavailable")

type Provider interface {
	// DeviceToken returns the token the backend should deliver to.
	DeviceToken(ctx context.Context) (string, error)

	// OnRefresh registers fn for every token rotation and returns a
	// function that removes it.
	OnRefresh(fn func(token string)) func()

	// Delete invalidates the token on the provider side.
	Delete(ctx context.Context) error
}

// Static returns a fixed token. An empty token yields ErrNoToken. It never
// rotates and Delete is a no-op.
type Static struct {
	Token string
}

func (s Static) DeviceToken(ctx context.Context) (string, error) {
	if s.Token == "" {
		return "", ErrNoToken
	}
	return s.Token, nil
}

func (Static) OnRefresh(fn func(string)) func() { return func() {} }

func (Static) Delete(ctx context.Context) error { return nil }

// Device holds a token that can be rotated and deleted at runtime.
type Device struct {
	mu        sync.Mutex
	token     string
	nextID    int
	listeners map[int]func(string)
}

func NewDevice(token string) *Device {
	return &Device{token: token, listeners: make(map[int]func(string))}
}

func (d *Device) DeviceToken(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.token == "" {
		return "", ErrNoToken
	}
	return d.token, nil
}

func (d *Device) OnRefresh(fn func(string)) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.nextID
	d.nextID++
	d.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			defer d.mu.Unlock()
			delete(d.listeners, id)
		})
	}
}

// Refresh replaces the token and notifies listeners outside the lock.
func (d *Device) Refresh(token string) {
	d.mu.Lock()
	d.token = token
	listeners := make([]func(string), 0, len(d.listeners))
	for _, fn := range d.listeners {
		listeners = append(listeners, fn)
	}
	d.mu.Unlock()

	for _, fn := range listeners {
		fn(token)
	}
}

func (d *Device) Delete(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.token = ""
	return nil
}
