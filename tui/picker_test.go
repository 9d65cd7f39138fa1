package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lromero/docchat/api"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func pickerSessions() []api.Session {
	return []api.Session{
		{ID: "s-recent", Status: api.StatusActive, LastAccessedAt: time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)},
		{ID: "s-older", Status: api.StatusInactive, LastAccessedAt: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)},
	}
}

func TestPickerSelectsSession(t *testing.T) {
	p := NewSessionPicker(pickerSessions(), 80, 24)

	if _, done := p.Handle(key("j")); done {
		t.Fatal("navigation should not close the picker")
	}
	picked, done := p.Handle(key("enter"))
	if !done || picked != "s-older" {
		t.Fatalf("expected s-older, got %q done=%v", picked, done)
	}
}

func TestPickerCancelReturnsEmpty(t *testing.T) {
	p := NewSessionPicker(pickerSessions(), 80, 24)

	picked, done := p.Handle(key("esc"))
	if !done || picked != "" {
		t.Fatalf("expected cancel, got %q done=%v", picked, done)
	}
}

func TestPickerNavigationStaysInBounds(t *testing.T) {
	p := NewSessionPicker(pickerSessions(), 80, 24)

	p.Handle(key("k")) // already at the top
	picked, _ := p.Handle(key("enter"))
	if picked != "s-recent" {
		t.Fatalf("expected s-recent, got %q", picked)
	}

	p = NewSessionPicker(pickerSessions(), 80, 24)
	p.Handle(key("j"))
	p.Handle(key("j")) // already at the bottom
	picked, _ = p.Handle(key("enter"))
	if picked != "s-older" {
		t.Fatalf("expected s-older, got %q", picked)
	}
}

func TestPickerViewListsSessions(t *testing.T) {
	view := NewSessionPicker(pickerSessions(), 80, 24).View()

	for _, want := range []string{"s-recent", "s-older", "active", "inactive"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestPickerViewEmpty(t *testing.T) {
	view := NewSessionPicker(nil, 80, 24).View()
	if !strings.Contains(view, "No sessions found") {
		t.Fatalf("unexpected empty view:\n%s", view)
	}
}
