package identity

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matrixchat/internal/notify"
	"matrixchat/internal/store"
)

func TestLoginKeepsRequestedUsername(t *testing.T) {
	m := NewManager(store.NewMemory(), nil)

	u := m.Login("neo")
	require.NotNil(t, u)
	assert.Equal(t, "neo", u.Username)
	assert.NotEmpty(t, u.ID)
	assert.False(t, u.JoinedAt.IsZero())
}

func TestLoginSynthesizesAnonymousName(t *testing.T) {
	m := NewManager(store.NewMemory(), nil)

	u := m.Login("")
	require.NotNil(t, u)
	assert.Regexp(t, regexp.MustCompile(`^Anonymous\d{1,4}$`), u.Username)
}

func TestLoginSurvivesReload(t *testing.T) {
	kv := store.NewMemory()

	first := NewManager(kv, nil).Login("trinity")

	// A fresh manager on the same store plays the part of a reload.
	loaded := NewManager(kv, nil).Load()
	require.NotNil(t, loaded)
	assert.Equal(t, first.ID, loaded.ID)
	assert.Equal(t, first.Username, loaded.Username)
}

func TestLoginReplacesPriorIdentity(t *testing.T) {
	kv := store.NewMemory()
	m := NewManager(kv, nil)

	old := m.Login("neo")
	fresh := m.Login("neo")
	assert.NotEqual(t, old.ID, fresh.ID)

	loaded := NewManager(kv, nil).Load()
	require.NotNil(t, loaded)
	assert.Equal(t, fresh.ID, loaded.ID)
}

func TestLogoutDestroysIdentity(t *testing.T) {
	kv := store.NewMemory()
	m := NewManager(kv, nil)

	m.Login("neo")
	m.Logout()

	assert.Nil(t, m.Current())
	assert.Nil(t, NewManager(kv, nil).Load())
}

func TestLoadPurgesCorruptIdentity(t *testing.T) {
	kv := store.NewMemory()
	require.NoError(t, kv.Set("matrixUser", []byte("{not json")))

	m := NewManager(kv, nil)
	assert.Nil(t, m.Load())

	raw, err := kv.Get("matrixUser")
	require.NoError(t, err)
	assert.Nil(t, raw, "corrupt record should be removed from the store")
}

func TestNotifications(t *testing.T) {
	var got []notify.Notification
	m := NewManager(store.NewMemory(), func(n notify.Notification) {
		got = append(got, n)
	})

	m.Login("neo")
	m.Logout()

	require.Len(t, got, 2)
	assert.Equal(t, notify.Granted, got[0].Kind)
	assert.Equal(t, "Access Granted", got[0].Title)
	assert.Equal(t, notify.Disconnected, got[1].Kind)
}
