// internal/store/memory.go
//
// In-memory registry of browser sessions.
// Each browser session (identified by its cookie ID) owns one
// *game.Controller for as long as the tab keeps talking to us.
//
// Characteristics:
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Tracks last access so idle sessions can be swept; a server never sees
//     a tab close, so idleness stands in for teardown.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/guesscity/internal/game"
)

// ErrNotFound is returned by Get for unknown session IDs.
var ErrNotFound = errors.New("session not found")

// Store defines the registry interface for session controllers.
type Store interface {
	// Save registers or replaces the controller for id.
	Save(ctx context.Context, id string, c *game.Controller) error

	// Get retrieves the controller for id and marks it as recently used.
	// Returns ErrNotFound if the id is unknown.
	Get(ctx context.Context, id string) (*game.Controller, error)

	// Sweep drops sessions not accessed within idle and reports how many.
	Sweep(idle time.Duration) int

	// Len reports the number of live sessions.
	Len() int
}

type entry struct {
	ctrl     *game.Controller
	lastSeen time.Time
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex      // guards sessions
	sessions map[string]*entry // keyed by session ID
	now      func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return newMemory(time.Now)
}

func newMemory(now func() time.Time) *memory {
	return &memory{sessions: make(map[string]*entry), now: now}
}

// Save adds or updates the controller in the map.
func (m *memory) Save(ctx context.Context, id string, c *game.Controller) error {
	if id == "" {
		return errors.New("empty session id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = &entry{ctrl: c, lastSeen: m.now()}
	return nil
}

// Get looks up a controller by session ID.
// Takes the write lock since it refreshes lastSeen.
func (m *memory) Get(ctx context.Context, id string) (*game.Controller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	e.lastSeen = m.now()
	return e.ctrl, nil
}

// Sweep removes sessions idle for longer than idle.
func (m *memory) Sweep(idle time.Duration) int {
	cutoff := m.now().Add(-idle)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// Len reports the number of live sessions.
func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
