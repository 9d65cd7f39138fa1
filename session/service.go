// Package session implements the session and conversation lifecycle: the
// registry of known sessions, the ready/not-ready switch state machine, the
// bounded in-memory conversation buffer, and the dispatcher that gates
// outgoing messages on readiness.
package session

import (
	"context"

	"github.com/lromero/docchat/api"
)

// Service is the remote-service surface this package depends on. *api.Client
// satisfies it; tests substitute fakes.
type Service interface {
	CreateSession(ctx context.Context, req api.CreateSessionRequest) (*api.Session, error)
	GetSession(ctx context.Context, id string) (*api.Session, error)
	ListSessions(ctx context.Context, owner, status string) ([]api.Session, int, error)
	SendMessage(ctx context.Context, req *api.ChatRequest) (*api.ChatResponse, error)
	ClearHistory(ctx context.Context, id string) (*api.Session, error)
}

// PointerStore persists the last-used session id across restarts. A missing
// value reads as the empty string.
type PointerStore interface {
	Load() (string, error)
	Save(id string) error
	Clear() error
}
