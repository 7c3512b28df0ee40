package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"matrixchat/internal/chat"
	"matrixchat/internal/identity"
	"matrixchat/internal/models"
)

// Styles for the chat screen
var (
	appStyle    = lipgloss.NewStyle().Padding(1, 2)
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FF00")).PaddingBottom(1)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5A5A5A")).PaddingTop(1)
	inputStyle  = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A3FFA3")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00AF00")).
			Padding(0, 1).
			MarginRight(2)
	msgStyle      = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder(), false, false, false, true)
	userStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FF00"))
	timeStyle     = lipgloss.NewStyle().Faint(true)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#AFFFAF")).Background(lipgloss.Color("#003700"))
	roomDescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00875F"))
)

// logoutMsg asks the app model to destroy the identity and return to the
// login screen.
type logoutMsg struct{}

type chatFocus int

const (
	focusRooms chatFocus = iota
	focusNewRoom
	focusRoom
)

type chatKeys struct {
	up, down, enter, back, newRoom, logout, nextField key.Binding
}

var keys = chatKeys{
	up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	newRoom:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new room")),
	logout:    key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "logout")),
	nextField: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
}

// chatModel drives the room list, the new-room form and the message feed.
type chatModel struct {
	ids       *identity.Manager
	store     *chat.Store
	viewport  viewport.Model
	textarea  textarea.Model
	nameInput textinput.Model
	descInput textinput.Model
	focus     chatFocus
	cursor    int
	width     int
	height    int
	ready     bool
}

func newChatModel(ids *identity.Manager, store *chat.Store) chatModel {
	ta := textarea.New()
	ta.Placeholder = "Type your message..."
	ta.Prompt = "│ "
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.SetWidth(50)
	ta.SetHeight(2)
	ta.CharLimit = 280

	name := textinput.New()
	name.Placeholder = "Room name"
	name.Prompt = "> "
	name.CharLimit = 48

	desc := textinput.New()
	desc.Placeholder = "Description"
	desc.Prompt = "> "
	desc.CharLimit = 120

	return chatModel{
		ids:       ids,
		store:     store,
		textarea:  ta,
		nameInput: name,
		descInput: desc,
	}
}

func (m chatModel) update(msg tea.Msg) (chatModel, tea.Cmd) {
	switch m.focus {
	case focusRooms:
		return m.updateRooms(msg)
	case focusNewRoom:
		return m.updateNewRoom(msg)
	default:
		return m.updateRoom(msg)
	}
}

func (m chatModel) updateRooms(msg tea.Msg) (chatModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	rooms := m.store.Rooms()

	switch {
	case key.Matches(keyMsg, keys.up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, keys.down):
		if m.cursor < len(rooms)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, keys.enter):
		if m.cursor < len(rooms) {
			if room := m.store.JoinRoom(rooms[m.cursor].ID); room != nil {
				m.focus = focusRoom
				m.textarea.Focus()
				m.refreshFeed()
			}
		}
	case key.Matches(keyMsg, keys.newRoom):
		m.focus = focusNewRoom
		m.nameInput.Focus()
		m.descInput.Blur()
		return m, textinput.Blink
	case key.Matches(keyMsg, keys.logout):
		return m, func() tea.Msg { return logoutMsg{} }
	}
	return m, nil
}

func (m chatModel) updateNewRoom(msg tea.Msg) (chatModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, keys.back):
			m.focus = focusRooms
			m.nameInput.Reset()
			m.descInput.Reset()
			return m, nil
		case key.Matches(keyMsg, keys.nextField):
			if m.nameInput.Focused() {
				m.nameInput.Blur()
				m.descInput.Focus()
			} else {
				m.descInput.Blur()
				m.nameInput.Focus()
			}
			return m, textinput.Blink
		case key.Matches(keyMsg, keys.enter):
			name := strings.TrimSpace(m.nameInput.Value())
			if name == "" {
				return m, nil
			}
			room := m.store.CreateRoom(name, strings.TrimSpace(m.descInput.Value()), m.ids.Current())
			m.nameInput.Reset()
			m.descInput.Reset()
			if room != nil {
				m.store.JoinRoom(room.ID)
				m.focus = focusRoom
				m.textarea.Focus()
				m.refreshFeed()
			} else {
				m.focus = focusRooms
			}
			return m, nil
		}
	}

	var nameCmd, descCmd tea.Cmd
	m.nameInput, nameCmd = m.nameInput.Update(msg)
	m.descInput, descCmd = m.descInput.Update(msg)
	return m, tea.Batch(nameCmd, descCmd)
}

func (m chatModel) updateRoom(msg tea.Msg) (chatModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, keys.back):
			m.store.LeaveRoom()
			m.focus = focusRooms
			m.textarea.Reset()
			m.textarea.Blur()
			return m, nil
		case key.Matches(keyMsg, keys.enter):
			// Empty input never reaches the store.
			if strings.TrimSpace(m.textarea.Value()) == "" {
				return m, nil
			}
			m.store.SendMessage(m.textarea.Value(), m.ids.Current())
			m.textarea.Reset()
			m.refreshFeed()
			return m, nil
		}
	}

	var taCmd, vpCmd tea.Cmd
	m.textarea, taCmd = m.textarea.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(taCmd, vpCmd)
}

func (m *chatModel) resize(width, height int) {
	m.width = width
	m.height = height
	vpWidth, vpHeight := width-6, height-11
	if vpWidth < 10 {
		vpWidth = 10
	}
	if vpHeight < 1 {
		vpHeight = 1
	}
	if !m.ready {
		m.viewport = viewport.New(vpWidth, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = vpWidth
		m.viewport.Height = vpHeight
	}
	m.textarea.SetWidth(vpWidth)
	m.refreshFeed()
}

func (m *chatModel) refreshFeed() {
	m.viewport.SetContent(formatMessages(m.store.Messages(), m.width))
	m.viewport.GotoBottom()
}

func (m chatModel) view() string {
	switch m.focus {
	case focusNewRoom:
		return m.viewNewRoom()
	case focusRoom:
		return m.viewRoom()
	default:
		return m.viewRooms()
	}
}

func (m chatModel) viewRooms() string {
	var b strings.Builder
	user := ""
	if u := m.ids.Current(); u != nil {
		user = " - " + u.Username
	}
	b.WriteString(titleStyle.Render("CHANNELS"+user) + "\n")

	for i, room := range m.store.Rooms() {
		name := room.Name
		if i == m.cursor {
			name = selectedStyle.Render(" " + name + " ")
		} else {
			name = userStyle.Render(name)
		}
		b.WriteString(fmt.Sprintf("%s\n%s\n\n", name, roomDescStyle.Render("  "+room.Description)))
	}

	b.WriteString(statusStyle.Render("enter to join • n for new room • ctrl+l to logout • ctrl+c to quit"))
	return appStyle.Render(b.String())
}

func (m chatModel) viewNewRoom() string {
	view := lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render("NEW CHANNEL"),
		"Name",
		m.nameInput.View(),
		"",
		"Description",
		m.descInput.View(),
		statusStyle.Render("enter to create • tab to switch • esc to cancel"),
	)
	return appStyle.Render(view)
}

func (m chatModel) viewRoom() string {
	if !m.ready {
		return "\n  Initializing..."
	}
	room := m.store.Active()
	if room == nil {
		return m.viewRooms()
	}

	title := titleStyle.Render("# " + room.Name)
	view := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		m.viewport.View(),
		lipgloss.NewStyle().PaddingTop(1).Render(inputStyle.Render(m.textarea.View())),
		statusStyle.Render("enter to send • esc to leave room • ctrl+c to quit"),
	)
	return appStyle.Render(view)
}

// formatMessages formats the feed for display
func formatMessages(messages []models.Message, width int) string {
	var formatted strings.Builder
	contentWidth := width - 30
	if contentWidth < 20 {
		contentWidth = 20
	}

	for _, msg := range messages {
		user := userStyle.Render(msg.SenderName + ":")
		ts := timeStyle.Render(msg.Timestamp.Format("15:04"))
		content := msgStyle.Render(lipgloss.NewStyle().Width(contentWidth).Render(msg.Content))

		line := lipgloss.JoinHorizontal(
			lipgloss.Top,
			lipgloss.NewStyle().Width(25).Render(lipgloss.JoinVertical(lipgloss.Left, user, ts)),
			content,
		)
		formatted.WriteString(line + "\n")
	}
	return formatted.String()
}
