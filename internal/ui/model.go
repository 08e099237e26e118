// Package ui renders the chat window in the terminal.
package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/foxseedlab/dove/internal/chat"
)

// Rows below the chat log: the bordered input and the status line.
const footerHeight = 4

type tickMsg time.Time

type Model struct {
	controller   *chat.Controller
	pollInterval time.Duration

	keys   KeyMap
	styles Styles
	input  textinput.Model
	log    viewport.Model

	width  int
	height int
}

func New(controller *chat.Controller, pollInterval time.Duration) Model {
	input := textinput.New()
	input.Placeholder = "Type your message..."
	input.Prompt = "> "
	input.CharLimit = 0
	input.Focus()

	m := Model{
		controller:   controller,
		pollInterval: pollInterval,
		keys:         DefaultKeyMap(),
		styles:       DefaultStyles(),
		input:        input,
		log:          viewport.New(0, 0),
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.tick())
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.log.Width = msg.Width
		m.log.Height = max(msg.Height-footerHeight, 1)
		m.input.Width = max(msg.Width-6, 1)
		m.refresh()
		return m, nil

	case tickMsg:
		if m.controller.Poll() {
			m.refresh()
		}
		return m, m.tick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Submit):
		text := m.input.Value()
		m.input.Reset()
		m.controller.Submit(text)
		m.refresh()
		if m.controller.ShouldExit() {
			return m, tea.Quit
		}
		return m, nil

	case key.Matches(msg, m.keys.ScrollUp):
		m.log.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.ScrollDown):
		m.log.HalfViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// refresh re-renders the chat log and keeps it pinned to the newest line.
func (m *Model) refresh() {
	m.log.SetContent(m.renderLines())
	m.log.GotoBottom()
}

func (m Model) renderLines() string {
	lines := m.controller.Lines()
	rendered := make([]string, 0, len(lines))
	for _, line := range lines {
		rendered = append(rendered, m.renderLine(line))
	}
	content := strings.Join(rendered, "\n")
	if m.width > 0 {
		content = lipgloss.NewStyle().Width(m.width).Render(content)
	}
	return content
}

func (m Model) renderLine(line chat.Line) string {
	switch line.Kind {
	case chat.LineError:
		return m.styles.Error.Render(line.Text)
	case chat.LineMessage:
		return m.styles.Author.Render(line.Author) + ": " + line.Text
	default:
		return m.styles.System.Render(line.Text)
	}
}

func (m Model) View() string {
	status := "no channel selected"
	if id := m.controller.ChannelID(); id != "" {
		status = "channel " + id
	}
	status += " · /help for commands · ctrl+c to quit"

	return lipgloss.JoinVertical(lipgloss.Left,
		m.log.View(),
		m.styles.Input.Render(m.input.View()),
		m.styles.Status.Render(status),
	)
}
