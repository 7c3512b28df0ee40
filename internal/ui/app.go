package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"matrixchat/internal/chat"
	"matrixchat/internal/identity"
	"matrixchat/internal/notify"
	"matrixchat/internal/rain"
	"matrixchat/internal/store"
)

// rainInterval is the redraw cadence of the background effect.
const rainInterval = 50 * time.Millisecond

var toastStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#AFFFAF")).
	Background(lipgloss.Color("#003700")).
	Padding(0, 1)

type screen int

const (
	screenLogin screen = iota
	screenChat
)

type rainTickMsg time.Time

type toastMsg notify.Notification

type toastExpiredMsg struct {
	seq int
}

// app is the root model. It owns the two services, the rain engine and
// whichever screen is active.
type app struct {
	ids      *identity.Manager
	store    *chat.Store
	rain     *rain.Engine
	login    loginModel
	chat     chatModel
	screen   screen
	toasts   chan notify.Notification
	toast    *notify.Notification
	toastSeq int
	width    int
	height   int
	ready    bool
}

// Run wires the services to a fresh bubbletea program and blocks until the
// user quits.
func Run(kv store.KV) error {
	toasts := make(chan notify.Notification, 8)
	notifier := func(n notify.Notification) {
		select {
		case toasts <- n:
		default:
		}
	}

	ids := identity.NewManager(kv, notifier)
	st := chat.NewStore(kv, notifier)
	st.InitRooms()

	a := app{
		ids:    ids,
		store:  st,
		rain:   rain.New(0, 0),
		login:  newLoginModel(),
		chat:   newChatModel(ids, st),
		toasts: toasts,
	}
	// A surviving identity skips the login screen, as a reload would.
	if ids.Load() != nil {
		a.screen = screenChat
	}

	p := tea.NewProgram(a)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %v", err)
	}
	return nil
}

func (a app) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		rainTick(),
		waitForToast(a.toasts),
		a.login.init(),
	)
}

func rainTick() tea.Cmd {
	return tea.Tick(rainInterval, func(t time.Time) tea.Msg { return rainTickMsg(t) })
}

func waitForToast(toasts chan notify.Notification) tea.Cmd {
	return func() tea.Msg {
		return toastMsg(<-toasts)
	}
}

func expireToast(seq int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return toastExpiredMsg{seq: seq} })
}

func (a app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			a.rain.Stop()
			a.login.teardown()
			return a, tea.Quit
		}

	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.rain.Resize(msg.Width, msg.Height)
		a.chat.resize(msg.Width, msg.Height)
		a.ready = true
		return a, nil

	case rainTickMsg:
		if a.rain.Stopped() {
			return a, nil
		}
		a.rain.Tick()
		return a, rainTick()

	case toastMsg:
		n := notify.Notification(msg)
		a.toast = &n
		a.toastSeq++
		return a, tea.Batch(waitForToast(a.toasts), expireToast(a.toastSeq, n.Duration))

	case toastExpiredMsg:
		if msg.seq == a.toastSeq {
			a.toast = nil
		}
		return a, nil

	case connectedMsg:
		a.ids.Login(msg.username)
		a.login.teardown()
		a.screen = screenChat
		return a, nil

	case logoutMsg:
		a.store.LeaveRoom()
		a.ids.Logout()
		a.screen = screenLogin
		a.login = newLoginModel()
		return a, a.login.init()
	}

	var cmd tea.Cmd
	if a.screen == screenLogin {
		a.login, cmd = a.login.update(msg)
	} else {
		a.chat, cmd = a.chat.update(msg)
	}
	return a, cmd
}

func (a app) View() string {
	if !a.ready {
		return "\n  Initializing..."
	}

	var body string
	if a.screen == screenLogin {
		body = a.loginView()
	} else {
		body = a.chat.view()
	}

	if a.toast != nil {
		toast := toastStyle.Render(a.toast.Title + " " + a.toast.Message)
		body += "\n" + lipgloss.PlaceHorizontal(a.width, lipgloss.Center, toast)
	}
	return body
}

// loginView centers the login card between two live slices of the rain
// frame, so the effect fills the screen around it.
func (a app) loginView() string {
	card := a.login.view(a.width)
	cardH := lipgloss.Height(card)

	avail := a.height - cardH - 1
	if avail <= 0 {
		return card
	}
	top := avail / 2
	bottom := avail - top

	lines := strings.Split(a.rain.Frame(), "\n")
	if len(lines) < a.height {
		return card
	}

	parts := make([]string, 0, 3)
	if top > 0 {
		parts = append(parts, strings.Join(lines[:top], "\n"))
	}
	parts = append(parts, card)
	if bottom > 0 {
		parts = append(parts, strings.Join(lines[len(lines)-bottom:], "\n"))
	}
	return strings.Join(parts, "\n")
}
