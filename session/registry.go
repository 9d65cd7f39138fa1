package session

import (
	"context"
	"sync"

	"github.com/lromero/docchat/api"
)

// Registry holds the authoritative local snapshot of the sessions visible to
// the current view. The server contract sorts the list by descending
// last-accessed-at, so the first entry is the most recent.
type Registry struct {
	mu       sync.RWMutex
	service  Service
	sessions []api.Session
}

// NewRegistry creates a registry backed by the given service
func NewRegistry(service Service) *Registry {
	return &Registry{service: service}
}

// Refresh fetches the session list and replaces the snapshot atomically. On
// failure the previous snapshot is retained and a RegistryFetchError is
// returned; the registry never goes empty because of a failed refresh.
func (r *Registry) Refresh(ctx context.Context, ownerFilter, statusFilter string) ([]api.Session, error) {
	sessions, _, err := r.service.ListSessions(ctx, ownerFilter, statusFilter)
	if err != nil {
		return nil, &RegistryFetchError{Err: err}
	}

	r.mu.Lock()
	r.sessions = sessions
	r.mu.Unlock()

	return r.Sessions(), nil
}

// Sessions returns a copy of the current snapshot
func (r *Registry) Sessions() []api.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make([]api.Session, len(r.sessions))
	copy(snapshot, r.sessions)
	return snapshot
}

// Contains reports whether the snapshot holds a session with the given id
func (r *Registry) Contains(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.sessions {
		if s.ID == id {
			return true
		}
	}
	return false
}

// MostRecent returns the most recently accessed session in the snapshot, or
// nil when the snapshot is empty
func (r *Registry) MostRecent() *api.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.sessions) == 0 {
		return nil
	}
	recent := r.sessions[0]
	return &recent
}
