package session

import "sync/atomic"

// AuthState is the process-wide "is the session authenticated" flag. Reads
// are synchronous and lock-free so navigation listeners can consult it at
// any time; only the Orchestrator writes it.
type AuthState struct {
	authenticated atomic.Bool
}

func (a *AuthState) IsAuthenticated() bool {
	return a.authenticated.Load()
}

func (a *AuthState) set(v bool) {
	a.authenticated.Store(v)
}
