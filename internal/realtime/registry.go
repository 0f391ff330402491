package realtime

import (
	"sort"
	"sync"
)

// Session is a single transport connection bound to a user.
// The actual network conn is managed by the ws handler; the registry only
// needs to push bytes and close.
type Session interface {
	Send(message []byte) bool
	Close()
}

// Registry maps a user id to its one active session. A later Bind replaces an
// earlier session for the same user (last writer wins); Unbind removes the
// mapping only when the given session is still the bound one, so a late
// disconnect from a superseded connection never clobbers its replacement.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]Session)}
}

// Bind associates userID with session, replacing any prior session. The
// replaced session (if any) is returned so the caller can close it.
func (r *Registry) Bind(userID string, session Session) Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev := r.sessions[userID]
	r.sessions[userID] = session
	if prev == session {
		return nil
	}
	return prev
}

// Unbind removes the mapping for userID if session is the one currently bound.
// Returns whether a mapping was removed.
func (r *Registry) Unbind(userID string, session Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.sessions[userID]; ok && cur == session {
		delete(r.sessions, userID)
		return true
	}
	return false
}

// Lookup returns the session bound to userID, if any.
func (r *Registry) Lookup(userID string) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[userID]
	return s, ok
}

// OnlineIDs returns the ids of all currently bound users, sorted for stable
// payloads.
func (r *Registry) OnlineIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// snapshot returns all bound sessions; used by the router for broadcasts.
func (r *Registry) snapshot() []Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out
}
