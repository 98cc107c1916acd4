// Package registry manages bust sessions per group with thread-safe access.
package registry

import (
	"sync"

	"github.com/anoadragon453/busty-sub000/internal/app/bust"
)

// Registry holds at most one bust session per group. Finished sessions
// are evicted lazily on lookup, so stale sessions never need explicit
// cleanup.
type Registry struct {
	mu        sync.Mutex
	sessions  map[string]*bust.Controller
	listLocks map[string]*sync.Mutex
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		sessions:  make(map[string]*bust.Controller),
		listLocks: make(map[string]*sync.Mutex),
	}
}

// Get returns the session registered for a group, evicting and returning
// nil if it has finished.
func (r *Registry) Get(groupID string) *bust.Controller {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[groupID]
	if !ok {
		return nil
	}
	if session.Phase() == bust.PhaseFinished {
		delete(r.sessions, groupID)
		return nil
	}
	return session
}

// Register stores a session for a group, replacing any previous one.
// Callers are expected to check for an active session first.
func (r *Registry) Register(groupID string, session *bust.Controller) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[groupID] = session
}

// Remove explicitly evicts a group's session.
func (r *Registry) Remove(groupID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, groupID)
}

// ListLock returns the per-group lock serializing session construction,
// creating it on first use. The lock is held only while building a new
// session, never for the lifetime of playback.
func (r *Registry) ListLock(groupID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	lock, ok := r.listLocks[groupID]
	if !ok {
		lock = &sync.Mutex{}
		r.listLocks[groupID] = lock
	}
	return lock
}
