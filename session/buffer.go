package session

import (
	"sync"

	"github.com/lromero/docchat/api"
)

// MaxBufferMessages is the conversation buffer cap. Eviction is plain FIFO
// truncation by index and may split a user/assistant pair.
const MaxBufferMessages = 20

// Buffer is the in-memory ordered log of the active session's messages. It
// holds content only for the lifetime of the active session; the service
// remains the durable store of record.
type Buffer struct {
	mu       sync.RWMutex
	messages []api.Message
}

// NewBuffer creates an empty conversation buffer
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Load replaces the buffer wholesale with the given history, used when a
// switch rehydrates the conversation. Only the most recent MaxBufferMessages
// entries are retained.
func (b *Buffer) Load(history []api.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(history) > MaxBufferMessages {
		history = history[len(history)-MaxBufferMessages:]
	}
	b.messages = make([]api.Message, len(history))
	copy(b.messages, history)
}

// Append inserts a message at the end, evicting from the front past the cap
func (b *Buffer) Append(msg api.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.messages = append(b.messages, msg)
	if len(b.messages) > MaxBufferMessages {
		b.messages = b.messages[len(b.messages)-MaxBufferMessages:]
	}
}

// Snapshot returns an ordered copy of the buffer, safe for callers to keep
func (b *Buffer) Snapshot() []api.Message {
	b.mu.RLock()
	defer b.mu.RUnlock()

	snapshot := make([]api.Message, len(b.messages))
	copy(snapshot, b.messages)
	return snapshot
}

// Len returns the current number of buffered messages
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.messages)
}

// Clear empties the buffer
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = nil
}
