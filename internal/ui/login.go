package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// connectDelay is the fake "entering the Matrix" latency before a login
// completes. It is pure theatre; there is nothing to connect to.
const connectDelay = 1500 * time.Millisecond

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00AF00")).
			Padding(1, 3)
	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00D700"))
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#5A5A5A"))
	connectStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#AFFFAF")).Blink(true)
)

// connectedMsg fires when the fake connect delay elapses. The app model
// performs the actual login.
type connectedMsg struct {
	username string
}

type typeTickMsg struct{}

type glitchTickMsg struct{}

type loginModel struct {
	input      textinput.Model
	banner     Glitch
	subtitle   Typewriter
	connecting bool
	cancel     context.CancelFunc
}

func newLoginModel() loginModel {
	ti := textinput.New()
	ti.Placeholder = "Enter anonymous identifier"
	ti.Prompt = "> "
	ti.CharLimit = 32
	ti.Focus()

	return loginModel{
		input:    ti,
		banner:   NewGlitch("THE MATRIX"),
		subtitle: NewTypewriter("Anonymous Access Terminal", 70*time.Millisecond),
	}
}

func (m loginModel) init() tea.Cmd {
	return tea.Batch(typeTick(m.subtitle.Speed()), glitchTick(), textinput.Blink)
}

func typeTick(speed time.Duration) tea.Cmd {
	return tea.Tick(speed, func(time.Time) tea.Msg { return typeTickMsg{} })
}

func glitchTick() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(time.Time) tea.Msg { return glitchTickMsg{} })
}

// connect waits out the fake delay. The context lets teardown cancel it so
// a dismissed login screen can never complete a login afterwards.
func connect(ctx context.Context, username string) tea.Cmd {
	return func() tea.Msg {
		t := time.NewTimer(connectDelay)
		defer t.Stop()
		select {
		case <-t.C:
			return connectedMsg{username: username}
		case <-ctx.Done():
			return nil
		}
	}
}

func (m loginModel) update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case typeTickMsg:
		if m.subtitle.Advance() {
			return m, nil
		}
		return m, typeTick(m.subtitle.Speed())

	case glitchTickMsg:
		m.banner.Flicker()
		return m, glitchTick()

	case tea.KeyMsg:
		if msg.Type == tea.KeyEnter {
			if m.connecting {
				return m, nil
			}
			m.connecting = true
			ctx, cancel := context.WithCancel(context.Background())
			m.cancel = cancel
			return m, connect(ctx, m.input.Value())
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// teardown cancels a pending connect. Safe to call at any time.
func (m *loginModel) teardown() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.connecting = false
}

func (m loginModel) view(width int) string {
	status := hintStyle.Render("enter to connect • ctrl+c to quit")
	if m.connecting {
		status = connectStyle.Render("Connecting...")
	}

	card := cardStyle.Render(lipgloss.JoinVertical(
		lipgloss.Center,
		m.banner.View(),
		subtitleStyle.Render(m.subtitle.View()),
		"",
		subtitleStyle.Render("Enter a username to connect."),
		subtitleStyle.Render("No personal information required."),
		"",
		m.input.View(),
		"",
		status,
	))

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, card)
}
