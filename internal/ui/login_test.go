package ui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectDeliversUsername(t *testing.T) {
	ctx := context.Background()
	cmd := connect(ctx, "neo")

	msg := cmd()
	connected, ok := msg.(connectedMsg)
	require.True(t, ok)
	assert.Equal(t, "neo", connected.username)
}

func TestConnectCancelledBeforeCompletion(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cmd := connect(ctx, "neo")

	// Tear the screen down before the delay elapses: the pending login
	// must die with it instead of firing later.
	cancel()

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	select {
	case msg := <-done:
		assert.Nil(t, msg)
	case <-time.After(connectDelay / 2):
		t.Fatal("cancelled connect did not return promptly")
	}
}

func TestEnterStartsSingleConnect(t *testing.T) {
	m := newLoginModel()

	m, cmd := m.update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.connecting)
	assert.NotNil(t, cmd)

	// A second enter while connecting must not launch another attempt.
	m, cmd = m.update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)

	m.teardown()
	assert.False(t, m.connecting)
}
