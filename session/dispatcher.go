package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lromero/docchat/api"
)

// Flags are the per-request feature toggles forwarded to the chat endpoint
type Flags struct {
	EnableURLScraping  bool
	EnableAutoIndexing bool
	AgentType          string
}

// Reply is a successful exchange as returned to the UI layer
type Reply struct {
	Text             string
	ScrapedURLs      []string
	Sources          []api.Source
	IndexedDocuments int
}

// Render formats the reply text with its source and URL annotations for
// display
func (r *Reply) Render() string {
	return r.Text + r.Annotations()
}

// Annotations formats the auxiliary source/URL information attached to the
// reply, or returns the empty string when there is none
func (r *Reply) Annotations() string {
	var b strings.Builder

	if len(r.Sources) > 0 {
		b.WriteString("\n\nSources:")
		for _, src := range r.Sources {
			b.WriteString("\n  - ")
			if src.Title != "" {
				b.WriteString(src.Title)
			}
			if src.URL != "" {
				if src.Title != "" {
					b.WriteString(" ")
				}
				b.WriteString("(" + src.URL + ")")
			}
		}
	}

	if len(r.ScrapedURLs) > 0 {
		b.WriteString("\n\nScraped URLs:")
		for _, u := range r.ScrapedURLs {
			b.WriteString("\n  - " + u)
		}
	}

	if r.IndexedDocuments > 0 {
		b.WriteString(fmt.Sprintf("\n\nIndexed %d new document(s).", r.IndexedDocuments))
	}

	return b.String()
}

// Dispatcher is the single gate through which user-authored text becomes a
// request to the service and a buffer mutation. It assumes at most one
// in-flight send per session; callers wanting true serialization add their
// own per-session lock.
type Dispatcher struct {
	service  Service
	switcher *Switcher
	buffer   *Buffer
	flags    Flags
}

// NewDispatcher creates a dispatcher bound to the given switcher and buffer
func NewDispatcher(service Service, switcher *Switcher, buffer *Buffer, flags Flags) *Dispatcher {
	return &Dispatcher{
		service:  service,
		switcher: switcher,
		buffer:   buffer,
		flags:    flags,
	}
}

// Send dispatches a user message against the active session. It fails with
// ErrSessionNotReady before touching the network unless the switcher is in
// Ready state, so a message typed during a switch can never be attributed to
// the wrong session. On success the user and assistant entries are appended
// to the buffer; on any failure the buffer is left unchanged.
func (d *Dispatcher) Send(ctx context.Context, text string) (*Reply, error) {
	id, ready := d.switcher.Active()
	if !ready {
		return nil, ErrSessionNotReady
	}

	req := &api.ChatRequest{
		Message:            text,
		SessionID:          id,
		History:            d.buffer.Snapshot(),
		EnableURLScraping:  d.flags.EnableURLScraping,
		EnableAutoIndexing: d.flags.EnableAutoIndexing,
		AgentType:          d.flags.AgentType,
	}

	resp, err := d.service.SendMessage(ctx, req)
	if err != nil {
		return nil, &DispatchError{Err: err}
	}
	if resp.Error != "" {
		return nil, &DispatchError{Err: errors.New(resp.Error)}
	}

	// A response claiming a different session would cross-contaminate
	// conversations if adopted; drop the exchange instead.
	if resp.SessionID != id {
		return nil, &IdentityMismatchError{Requested: id, Received: resp.SessionID}
	}

	// A switch may have completed while the send was in flight; its rehydrated
	// buffer belongs to another session, so this exchange is stale.
	if currentID, stillReady := d.switcher.Active(); !stillReady || currentID != id {
		return nil, &DispatchError{Err: errors.New("active session changed during send")}
	}

	d.buffer.Append(api.Message{Role: api.RoleUser, Content: text, Timestamp: time.Now()})
	d.buffer.Append(api.Message{Role: api.RoleAssistant, Content: resp.Response, Timestamp: time.Now()})

	return &Reply{
		Text:             resp.Response,
		ScrapedURLs:      resp.ScrapedURLs,
		Sources:          resp.Sources,
		IndexedDocuments: resp.IndexedDocuments,
	}, nil
}
