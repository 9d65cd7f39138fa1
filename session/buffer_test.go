package session

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/lromero/docchat/api"
)

func TestBufferAppendEvictsOldestFirst(t *testing.T) {
	b := NewBuffer()
	for i := 0; i < MaxBufferMessages+5; i++ {
		b.Append(userMsg(fmt.Sprintf("m%d", i)))
	}

	snapshot := b.Snapshot()
	if len(snapshot) != MaxBufferMessages {
		t.Fatalf("expected %d messages, got %d", MaxBufferMessages, len(snapshot))
	}
	// The retained entries are exactly the most recent 20 in original order.
	if snapshot[0].Content != "m5" || snapshot[len(snapshot)-1].Content != "m24" {
		t.Fatalf("unexpected window: first=%q last=%q", snapshot[0].Content, snapshot[len(snapshot)-1].Content)
	}
}

func TestBufferLoadSnapshotRoundTrip(t *testing.T) {
	history := []api.Message{
		userMsg("how do I authenticate?"),
		assistantMsg("Use a bearer token."),
		userMsg("which header?"),
	}

	b := NewBuffer()
	b.Load(history)

	if got := b.Snapshot(); !reflect.DeepEqual(got, history) {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestBufferLoadRetainsTailPastCap(t *testing.T) {
	history := make([]api.Message, MaxBufferMessages+10)
	for i := range history {
		history[i] = userMsg(fmt.Sprintf("m%d", i))
	}

	b := NewBuffer()
	b.Load(history)

	snapshot := b.Snapshot()
	if len(snapshot) != MaxBufferMessages {
		t.Fatalf("expected %d messages, got %d", MaxBufferMessages, len(snapshot))
	}
	if snapshot[0].Content != "m10" || snapshot[len(snapshot)-1].Content != fmt.Sprintf("m%d", MaxBufferMessages+9) {
		t.Fatalf("unexpected tail: first=%q last=%q", snapshot[0].Content, snapshot[len(snapshot)-1].Content)
	}
}

func TestBufferSnapshotIsACopy(t *testing.T) {
	b := NewBuffer()
	b.Append(userMsg("original"))

	snapshot := b.Snapshot()
	snapshot[0].Content = "mutated"

	if got := b.Snapshot()[0].Content; got != "original" {
		t.Fatalf("buffer mutated through snapshot: %q", got)
	}
}

func TestBufferClear(t *testing.T) {
	b := NewBuffer()
	b.Append(userMsg("one"))
	b.Append(assistantMsg("two"))

	b.Clear()

	if b.Len() != 0 {
		t.Fatalf("expected empty buffer, got %d entries", b.Len())
	}
}
