// Package navigation models the screen stack the session orchestrator
// guards.
package navigation

import "sync"

type Route string

const (
	Dashboard       Route = "Dashboard"
	HomeTab         Route = "HomeTab"
	History         Route = "History"
	Settings        Route = "Settings"
	Profile         Route = "Profile"
	LeaveRequest    Route = "LeaveRequest"
	LeaveStatus     Route = "LeaveStatus"
	Notifications   Route = "Notifications"
	Welcome         Route = "Welcome"
	Login           Route = "Login"
	PrivacyPolicy   Route = "PrivacyPolicy"
	SupportPolicy   Route = "SupportPolicy"
	TermsConditions Route = "TermsConditions"
)

var protected = map[Route]bool{
	Dashboard:     true,
	HomeTab:       true,
	History:       true,
	Settings:      true,
	Profile:       true,
	LeaveRequest:  true,
	LeaveStatus:   true,
	Notifications: true,
}

// Protected reports whether route needs an authenticated session.
func (r Route) Protected() bool {
	return protected[r]
}

// Entry reports whether route is one of the unauthenticated entry screens.
func (r Route) Entry() bool {
	return r == Login || r == Welcome
}

// Navigator is the navigation container. Reset replaces the whole history
// so back navigation cannot reach what was there before.
type Navigator interface {
	Current() Route
	Reset(route Route)
	// Subscribe registers fn for every change of the active route and
	// returns a function that removes it.
	Subscribe(fn func(Route)) func()
}

// Stack is an in-memory Navigator with a back stack. Listeners run
// synchronously after each change, outside the lock.
type Stack struct {
	mu        sync.Mutex
	routes    []Route
	nextID    int
	listeners map[int]func(Route)
	order     []int
}

var _ Navigator = (*Stack)(nil)

func NewStack() *Stack {
	return &Stack{listeners: make(map[int]func(Route))}
}

// Current returns the active route, or "" before the first navigation.
func (s *Stack) Current() Route {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.routes) == 0 {
		return ""
	}
	return s.routes[len(s.routes)-1]
}

// History returns the stack from bottom to top.
func (s *Stack) History() []Route {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Route(nil), s.routes...)
}

func (s *Stack) Navigate(route Route) {
	s.mu.Lock()
	s.routes = append(s.routes, route)
	s.mu.Unlock()
	s.notify(route)
}

// Back pops the active route. It reports false when there is nothing to go
// back to.
func (s *Stack) Back() bool {
	s.mu.Lock()
	if len(s.routes) < 2 {
		s.mu.Unlock()
		return false
	}
	s.routes = s.routes[:len(s.routes)-1]
	current := s.routes[len(s.routes)-1]
	s.mu.Unlock()
	s.notify(current)
	return true
}

func (s *Stack) Reset(route Route) {
	s.mu.Lock()
	s.routes = []Route{route}
	s.mu.Unlock()
	s.notify(route)
}

func (s *Stack) Subscribe(fn func(Route)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.order = append(s.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.listeners, id)
			for i, v := range s.order {
				if v == id {
					s.order = append(s.order[:i], s.order[i+1:]...)
					break
				}
			}
		})
	}
}

func (s *Stack) notify(route Route) {
	s.mu.Lock()
	fns := make([]func(Route), 0, len(s.order))
	for _, id := range s.order {
		fns = append(fns, s.listeners[id])
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(route)
	}
}
