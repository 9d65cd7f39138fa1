package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/lromero/docchat/api"
	"github.com/lromero/docchat/internal/logger"
)

// State is the switcher's position in the active-session lifecycle
type State int

const (
	// StateNoSession means no session is active; sends are rejected.
	StateNoSession State = iota
	// StateSwitching means a switch is in flight; sends are rejected.
	StateSwitching
	// StateReady means the active session's full detail is loaded and it is
	// safe to message against.
	StateReady
)

// Switcher is the state machine governing which session is active. At most
// one session is active at a time, and its id always refers to a session
// present in the last registry snapshot. All mutation goes through the
// operations below; UI surfaces read snapshots and invoke them.
type Switcher struct {
	mu       sync.Mutex
	service  Service
	registry *Registry
	buffer   *Buffer
	pointer  PointerStore
	owner    string

	state    State
	activeID string
	// target is the most recently requested switch destination. Every switch
	// re-checks it after its fetch resolves, so stale completions are
	// discarded even when network responses arrive out of order.
	target string
}

// NewSwitcher creates a switcher for the given owner's sessions
func NewSwitcher(service Service, registry *Registry, buffer *Buffer, pointer PointerStore, owner string) *Switcher {
	return &Switcher{
		service:  service,
		registry: registry,
		buffer:   buffer,
		pointer:  pointer,
		owner:    owner,
		state:    StateNoSession,
	}
}

// State returns the current lifecycle state
func (s *Switcher) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Active returns the active session id and whether it is ready to message
// against. The id is empty unless a switch has completed successfully.
func (s *Switcher) Active() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID, s.state == StateReady
}

// SwitchTo makes the given session active. Readiness drops immediately,
// pre-empting in-flight sends; it returns only after the session's full
// detail (including stored history) has been fetched and loaded into the
// buffer. A switch requested while another is in flight supersedes it: the
// older result is discarded when it resolves.
func (s *Switcher) SwitchTo(ctx context.Context, id string) error {
	if id == "" {
		return &SwitchError{Target: id, Err: errors.New("empty session id")}
	}

	s.mu.Lock()
	s.target = id
	s.state = StateSwitching
	s.mu.Unlock()

	sess, err := s.service.GetSession(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()

	// Stale-response guard: a newer switch request owns the machine now.
	if s.target != id {
		return &SwitchError{Target: id, Superseded: true}
	}

	if err != nil {
		s.state = StateNoSession
		s.activeID = ""
		s.buffer.Clear()
		return &SwitchError{Target: id, Err: err}
	}

	s.activeID = id
	s.state = StateReady
	s.buffer.Load(sess.History)
	s.savePointer(id)

	return nil
}

// Bootstrap restores the last-used session at startup. It reads the durable
// pointer, refreshes the registry, and switches to the pointed-to session if
// it is still known; otherwise it clears the pointer and falls back to the
// most recently accessed session, or stays in NoSession when none exist.
func (s *Switcher) Bootstrap(ctx context.Context) error {
	pointer, err := s.pointer.Load()
	if err != nil {
		logger.Warn("unreadable session pointer, starting fresh: %v", err)
		pointer = ""
	}

	if _, err := s.RefreshSessions(ctx, ""); err != nil {
		return err
	}

	if pointer != "" && s.registry.Contains(pointer) {
		return s.SwitchTo(ctx, pointer)
	}

	// RefreshSessions already cleared a stale pointer.
	if recent := s.registry.MostRecent(); recent != nil {
		return s.SwitchTo(ctx, recent.ID)
	}

	s.mu.Lock()
	s.state = StateNoSession
	s.activeID = ""
	s.target = ""
	s.mu.Unlock()
	s.buffer.Clear()

	return nil
}

// CreateAndSwitch creates a session on the service and makes it active. The
// registry is refreshed before the switch so the new session is already
// visible when the UI can next select one.
func (s *Switcher) CreateAndSwitch(ctx context.Context, settings *api.Settings, ttlMinutes int) (*api.Session, error) {
	req := api.CreateSessionRequest{
		OwnerID:    s.owner,
		TTLMinutes: ttlMinutes,
		Settings:   settings,
	}
	if settings != nil {
		req.CollectionName = settings.DefaultCollection
	}

	created, err := s.service.CreateSession(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	if _, err := s.RefreshSessions(ctx, ""); err != nil {
		return nil, err
	}
	if err := s.SwitchTo(ctx, created.ID); err != nil {
		return nil, err
	}

	return created, nil
}

// RefreshSessions refreshes the registry for this owner and reconciles the
// durable pointer against the fresh list: a pointer to a session the service
// no longer reports is cleared. The active session never changes here; only
// SwitchTo and Bootstrap do that.
func (s *Switcher) RefreshSessions(ctx context.Context, statusFilter string) ([]api.Session, error) {
	sessions, err := s.registry.Refresh(ctx, s.owner, statusFilter)
	if err != nil {
		return nil, err
	}

	if pointer, err := s.pointer.Load(); err == nil && pointer != "" && !s.registry.Contains(pointer) {
		if err := s.pointer.Clear(); err != nil {
			logger.Warn("failed to clear stale session pointer: %v", err)
		}
	}

	return sessions, nil
}

// ClearHistory asks the service to delete the active session's stored
// history, then mirrors the deletion into the local buffer. The buffer is
// untouched when the remote call fails.
func (s *Switcher) ClearHistory(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateReady {
		s.mu.Unlock()
		return ErrSessionNotReady
	}
	id := s.activeID
	s.mu.Unlock()

	if _, err := s.service.ClearHistory(ctx, id); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateReady && s.activeID == id {
		s.buffer.Clear()
	}
	return nil
}

// savePointer writes the durable pointer, skipping the write when the stored
// value already matches. Pointer write failures degrade restore-on-restart
// but never fail the switch itself.
func (s *Switcher) savePointer(id string) {
	if current, err := s.pointer.Load(); err == nil && current == id {
		return
	}
	if err := s.pointer.Save(id); err != nil {
		logger.Warn("failed to persist session pointer: %v", err)
	}
}
