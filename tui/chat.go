// Package tui implements the terminal chat surface over the session
// subsystem. It reads buffer and registry snapshots and invokes the
// lifecycle operations; it never mutates session state directly.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lromero/docchat/api"
	"github.com/lromero/docchat/session"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	noticeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// ChatModel is the main chat view
type ChatModel struct {
	switcher   *session.Switcher
	dispatcher *session.Dispatcher
	buffer     *session.Buffer

	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model
	picker   *SessionPicker

	isProcessing bool
	pending      string
	annotations  string
	notice       string
	width        int
	height       int
	uiReady      bool
}

// NewChat creates the chat surface over an already-bootstrapped switcher
func NewChat(switcher *session.Switcher, dispatcher *session.Dispatcher, buffer *session.Buffer) *ChatModel {
	ta := textarea.New()
	ta.Placeholder = "Ask about the indexed documentation..."
	ta.Focus()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(false) // Enter sends

	s := spinner.New(spinner.WithSpinner(spinner.Line))
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))

	return &ChatModel{
		switcher:   switcher,
		dispatcher: dispatcher,
		buffer:     buffer,
		textarea:   ta,
		spinner:    s,
	}
}

func (m ChatModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, textarea.Blink)
}

// Message types

type replyMsg struct {
	reply *session.Reply
	err   error
}

type switchedMsg struct {
	err error
}

type sessionsMsg struct {
	sessions []api.Session
	err      error
}

type clearedMsg struct {
	err error
}

func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// While the picker overlay is up it owns the keyboard.
	if m.picker != nil {
		if key, ok := msg.(tea.KeyMsg); ok {
			picked, done := m.picker.Handle(key)
			if done {
				m.picker = nil
				if picked != "" {
					m.isProcessing = true
					return m, tea.Batch(m.switchCmd(picked), m.spinner.Tick)
				}
			}
			return m, nil
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.uiReady {
			m.viewport = viewport.New(msg.Width, msg.Height-7)
			m.uiReady = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 7
		}
		m.textarea.SetWidth(msg.Width - 4)
		m.textarea.SetHeight(3)
		m.refreshView()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD:
			return m, tea.Quit

		case tea.KeyCtrlS:
			if !m.isProcessing {
				return m, m.loadSessionsCmd()
			}

		case tea.KeyCtrlN:
			if !m.isProcessing {
				m.isProcessing = true
				return m, tea.Batch(m.newSessionCmd(), m.spinner.Tick)
			}

		case tea.KeyCtrlL:
			if !m.isProcessing {
				m.isProcessing = true
				return m, tea.Batch(m.clearCmd(), m.spinner.Tick)
			}

		case tea.KeyEnter:
			if m.isProcessing {
				return m, nil
			}
			text := strings.TrimSpace(m.textarea.Value())
			if text == "" {
				return m, nil
			}
			if _, ready := m.switcher.Active(); !ready {
				m.notice = "No session is ready yet. Press ctrl+n to start one."
				return m, nil
			}
			m.textarea.Reset()
			m.notice = ""
			m.annotations = ""
			m.pending = text
			m.isProcessing = true
			m.refreshView()
			return m, tea.Batch(m.sendCmd(text), m.spinner.Tick)
		}

	case replyMsg:
		m.isProcessing = false
		m.pending = ""
		if msg.err != nil {
			m.notice = msg.err.Error()
		} else if msg.reply != nil {
			m.annotations = msg.reply.Annotations()
		}
		m.refreshView()

	case switchedMsg:
		m.isProcessing = false
		m.annotations = ""
		if msg.err != nil {
			m.notice = msg.err.Error()
		} else {
			m.notice = ""
		}
		m.refreshView()

	case sessionsMsg:
		if msg.err != nil {
			m.notice = msg.err.Error()
		} else {
			m.picker = NewSessionPicker(msg.sessions, m.width, m.height)
		}

	case clearedMsg:
		m.isProcessing = false
		if msg.err != nil {
			m.notice = msg.err.Error()
		} else {
			m.notice = ""
		}
		m.refreshView()

	case spinner.TickMsg:
		if m.isProcessing {
			s, cmd := m.spinner.Update(msg)
			m.spinner = s
			cmds = append(cmds, cmd)
		}
	}

	if !m.isProcessing {
		ta, cmd := m.textarea.Update(msg)
		m.textarea = ta
		cmds = append(cmds, cmd)
	}

	vp, cmd := m.viewport.Update(msg)
	m.viewport = vp
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m ChatModel) View() string {
	if !m.uiReady {
		return "\nInitializing..."
	}
	if m.picker != nil {
		return m.picker.View()
	}

	var b strings.Builder

	id, ready := m.switcher.Active()
	status := "no session"
	if id != "" {
		status = shortID(id)
		if !ready {
			status += " (loading)"
		}
	}
	b.WriteString(headerStyle.Render("docchat") + statusStyle.Render("  session: "+status))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render("[enter] send  [ctrl+s] sessions  [ctrl+n] new  [ctrl+l] clear history  [ctrl+c] quit"))
	b.WriteString("\n" + strings.Repeat("─", max(m.width, 1)) + "\n")

	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice) + "\n")
	}
	if m.isProcessing {
		b.WriteString(fmt.Sprintf("%s Waiting for the assistant...\n", m.spinner.View()))
	} else {
		b.WriteString(m.textarea.View())
	}

	return b.String()
}

// refreshView rebuilds the viewport from the buffer snapshot
func (m *ChatModel) refreshView() {
	if !m.uiReady {
		return
	}

	var content strings.Builder
	for _, msg := range m.buffer.Snapshot() {
		switch msg.Role {
		case api.RoleUser:
			content.WriteString("\n" + userStyle.Render("> "+msg.Content) + "\n")
		case api.RoleAssistant:
			content.WriteString("\n" + assistantStyle.Render(msg.Content) + "\n")
		default:
			content.WriteString("\n" + statusStyle.Render("["+msg.Content+"]") + "\n")
		}
	}
	if m.annotations != "" {
		content.WriteString(statusStyle.Render(m.annotations) + "\n")
	}
	if m.pending != "" {
		content.WriteString("\n" + userStyle.Render("> "+m.pending) + "\n")
	}

	m.viewport.SetContent(content.String())
	m.viewport.GotoBottom()
}

// Commands

func (m *ChatModel) sendCmd(text string) tea.Cmd {
	return func() tea.Msg {
		reply, err := m.dispatcher.Send(context.Background(), text)
		return replyMsg{reply: reply, err: err}
	}
}

func (m *ChatModel) switchCmd(id string) tea.Cmd {
	return func() tea.Msg {
		return switchedMsg{err: m.switcher.SwitchTo(context.Background(), id)}
	}
}

func (m *ChatModel) loadSessionsCmd() tea.Cmd {
	return func() tea.Msg {
		sessions, err := m.switcher.RefreshSessions(context.Background(), "")
		return sessionsMsg{sessions: sessions, err: err}
	}
}

func (m *ChatModel) newSessionCmd() tea.Cmd {
	return func() tea.Msg {
		settings := api.DefaultSettings()
		_, err := m.switcher.CreateAndSwitch(context.Background(), &settings, 0)
		return switchedMsg{err: err}
	}
}

func (m *ChatModel) clearCmd() tea.Cmd {
	return func() tea.Msg {
		return clearedMsg{err: m.switcher.ClearHistory(context.Background())}
	}
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
