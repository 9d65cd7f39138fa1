package session

import (
	"context"
	"sync"
	"testing"

	"github.com/lromero/docchat/api"
)

// fakeService implements Service with per-call hooks so tests can script the
// remote side and observe what reached it.
type fakeService struct {
	createFn func(ctx context.Context, req api.CreateSessionRequest) (*api.Session, error)
	getFn    func(ctx context.Context, id string) (*api.Session, error)
	listFn   func(ctx context.Context, owner, status string) ([]api.Session, int, error)
	sendFn   func(ctx context.Context, req *api.ChatRequest) (*api.ChatResponse, error)
	clearFn  func(ctx context.Context, id string) (*api.Session, error)

	mu         sync.Mutex
	sendCalls  int
	getCalls   int
	listCalls  int
	clearCalls int
	callLog    []string
}

func (f *fakeService) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callLog = append(f.callLog, name)
}

func (f *fakeService) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.callLog))
	copy(out, f.callLog)
	return out
}

func (f *fakeService) CreateSession(ctx context.Context, req api.CreateSessionRequest) (*api.Session, error) {
	f.record("create")
	if f.createFn != nil {
		return f.createFn(ctx, req)
	}
	return &api.Session{ID: "s-new"}, nil
}

func (f *fakeService) GetSession(ctx context.Context, id string) (*api.Session, error) {
	f.mu.Lock()
	f.getCalls++
	f.mu.Unlock()
	f.record("get")
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return &api.Session{ID: id}, nil
}

func (f *fakeService) ListSessions(ctx context.Context, owner, status string) ([]api.Session, int, error) {
	f.mu.Lock()
	f.listCalls++
	f.mu.Unlock()
	f.record("list")
	if f.listFn != nil {
		return f.listFn(ctx, owner, status)
	}
	return nil, 0, nil
}

func (f *fakeService) SendMessage(ctx context.Context, req *api.ChatRequest) (*api.ChatResponse, error) {
	f.mu.Lock()
	f.sendCalls++
	f.mu.Unlock()
	f.record("send")
	if f.sendFn != nil {
		return f.sendFn(ctx, req)
	}
	return &api.ChatResponse{Response: "ok", SessionID: req.SessionID}, nil
}

func (f *fakeService) ClearHistory(ctx context.Context, id string) (*api.Session, error) {
	f.mu.Lock()
	f.clearCalls++
	f.mu.Unlock()
	f.record("clear")
	if f.clearFn != nil {
		return f.clearFn(ctx, id)
	}
	return &api.Session{ID: id}, nil
}

// fakePointer implements PointerStore in memory and counts writes
type fakePointer struct {
	mu     sync.Mutex
	value  string
	saves  int
	clears int
}

func (p *fakePointer) Load() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value, nil
}

func (p *fakePointer) Save(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.value = id
	p.saves++
	return nil
}

func (p *fakePointer) Clear() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.value = ""
	p.clears++
	return nil
}

func (p *fakePointer) saveCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.saves
}

func (p *fakePointer) clearCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clears
}

func (p *fakePointer) current() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value
}

// newTestSwitcher wires a switcher over fakes for the "owner-1" view
func newTestSwitcher(svc *fakeService, ptr *fakePointer) (*Switcher, *Registry, *Buffer) {
	registry := NewRegistry(svc)
	buffer := NewBuffer()
	switcher := NewSwitcher(svc, registry, buffer, ptr, "owner-1")
	return switcher, registry, buffer
}

func userMsg(content string) api.Message {
	return api.Message{Role: api.RoleUser, Content: content}
}

func assistantMsg(content string) api.Message {
	return api.Message{Role: api.RoleAssistant, Content: content}
}

func assertMessages(t *testing.T, got []api.Message, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d messages, got %d: %+v", len(want), len(got), got)
	}
	for i, content := range want {
		if got[i].Content != content {
			t.Fatalf("message %d: expected %q, got %q", i, content, got[i].Content)
		}
	}
}
