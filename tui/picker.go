package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lromero/docchat/api"
)

// SessionPicker is the overlay for selecting a session to switch to
type SessionPicker struct {
	sessions []api.Session
	selected int
	width    int
	height   int
}

// NewSessionPicker creates a picker over the given registry snapshot
func NewSessionPicker(sessions []api.Session, width, height int) *SessionPicker {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	return &SessionPicker{
		sessions: sessions,
		width:    width,
		height:   height,
	}
}

// Handle processes one key press. done reports whether the overlay should
// close; picked is the chosen session id, empty on cancel.
func (p *SessionPicker) Handle(msg tea.KeyMsg) (picked string, done bool) {
	switch msg.String() {
	case "up", "k":
		if p.selected > 0 {
			p.selected--
		}
	case "down", "j":
		if p.selected < len(p.sessions)-1 {
			p.selected++
		}
	case "enter":
		if len(p.sessions) > 0 {
			return p.sessions[p.selected].ID, true
		}
		return "", true
	case "esc", "q", "ctrl+c":
		return "", true
	}
	return "", false
}

func (p *SessionPicker) View() string {
	if len(p.sessions) == 0 {
		return "\nNo sessions found.\n\nPress [Esc] to go back and ctrl+n to start a new one."
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("75")).
		MarginBottom(1)

	selectedStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("75")).
		Bold(true)

	normalStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("246"))

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		MarginTop(1)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Select a session:"))
	b.WriteString("\n\n")

	visibleHeight := p.height - 6
	startIdx := 0
	endIdx := len(p.sessions)

	if visibleHeight > 0 && visibleHeight < len(p.sessions) {
		if p.selected > visibleHeight/2 {
			startIdx = p.selected - visibleHeight/2
			if startIdx+visibleHeight > len(p.sessions) {
				startIdx = len(p.sessions) - visibleHeight
			}
		}
		endIdx = startIdx + visibleHeight
		if endIdx > len(p.sessions) {
			endIdx = len(p.sessions)
		}
	}

	for i := startIdx; i < endIdx; i++ {
		sess := p.sessions[i]
		cursor := "  "
		style := normalStyle
		if i == p.selected {
			cursor = "▸ "
			style = selectedStyle
		}

		line := fmt.Sprintf("%s%s - %s  last used %s",
			cursor,
			shortID(sess.ID),
			sess.Status,
			sess.LastAccessedAt.Format("Jan 02 15:04"))
		if sess.CollectionName != "" {
			line += "  [" + sess.CollectionName + "]"
		}

		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	if startIdx > 0 || endIdx < len(p.sessions) {
		b.WriteString(normalStyle.Render(fmt.Sprintf("\n[%d-%d of %d sessions]", startIdx+1, endIdx, len(p.sessions))))
	}

	b.WriteString(helpStyle.Render("\n[↑/↓/j/k] Navigate  [Enter] Select  [Esc/q] Cancel"))

	return b.String()
}
