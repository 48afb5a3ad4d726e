// Package session tracks the backend browser sessions bound to browser
// windows. Each browser window owns exactly one session for its lifetime;
// closing the window releases the binding.
package session

import (
	"sync"

	"github.com/GriffinCanCode/AgentDesk/internal/shared/id"
)

// Table maps window IDs to browser session IDs.
type Table struct {
	mu       sync.RWMutex
	byWindow map[string]string
	gen      *id.Generator
}

// NewTable creates an empty session table.
func NewTable() *Table {
	return &Table{
		byWindow: make(map[string]string),
		gen:      id.Default(),
	}
}

// Allocate creates a session for the window and returns its ID. If the
// window already has a session, that session is returned unchanged.
func (t *Table) Allocate(windowID string) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if existing, ok := t.byWindow[windowID]; ok {
		return existing
	}
	sid := t.gen.BrowserSessionID()
	t.byWindow[windowID] = sid
	return sid
}

// Bind attaches a backend-issued session id to the window, replacing any
// locally allocated one. Batched navigations hand out their own ids.
func (t *Table) Bind(windowID, sessionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.byWindow[windowID] = sessionID
}

// Lookup returns the session bound to the window.
func (t *Table) Lookup(windowID string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	sid, ok := t.byWindow[windowID]
	return sid, ok
}

// Release unbinds the window's session and returns it so the caller can
// tear it down remotely.
func (t *Table) Release(windowID string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	sid, ok := t.byWindow[windowID]
	if ok {
		delete(t.byWindow, windowID)
	}
	return sid, ok
}

// Len returns the number of bound sessions.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byWindow)
}
