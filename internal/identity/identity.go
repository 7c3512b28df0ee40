package identity

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"matrixchat/internal/models"
	"matrixchat/internal/notify"
	"matrixchat/internal/store"
)

const userKey = "matrixUser"

// Manager owns the local pseudonymous identity. It is the only writer of
// the identity record in the store.
type Manager struct {
	kv     store.KV
	user   *models.Identity
	notify notify.Notifier
}

func NewManager(kv store.KV, n notify.Notifier) *Manager {
	if n == nil {
		n = notify.Nop
	}
	return &Manager{kv: kv, notify: n}
}

// Load restores a previously persisted identity, if any. A corrupt record
// is purged and treated as absent; Load never fails.
func (m *Manager) Load() *models.Identity {
	raw, err := m.kv.Get(userKey)
	if err != nil || raw == nil {
		return nil
	}
	var u models.Identity
	if err := json.Unmarshal(raw, &u); err != nil {
		log.Warn().Err(err).Msg("stored identity is corrupt, discarding")
		_ = m.kv.Delete(userKey)
		return nil
	}
	m.user = &u
	return m.user
}

// Login mints a fresh identity, replacing any prior one. An empty username
// gets an Anonymous<n> name with n in [0, 10000).
func (m *Manager) Login(username string) *models.Identity {
	if username == "" {
		username = fmt.Sprintf("Anonymous%d", rand.Intn(10000))
	}
	u := &models.Identity{
		ID:       uuid.NewString(),
		Username: username,
		JoinedAt: time.Now(),
	}
	raw, _ := json.Marshal(u)
	if err := m.kv.Set(userKey, raw); err != nil {
		log.Error().Err(err).Msg("persist identity failed")
	}
	m.user = u

	m.notify(notify.Notification{
		Kind:     notify.Granted,
		Title:    "Access Granted",
		Message:  "You have entered the Matrix.",
		Duration: 3 * time.Second,
	})
	return u
}

// Logout destroys the persisted identity. Rooms and messages are untouched.
func (m *Manager) Logout() {
	if err := m.kv.Delete(userKey); err != nil {
		log.Error().Err(err).Msg("delete identity failed")
	}
	m.user = nil

	m.notify(notify.Notification{
		Kind:     notify.Disconnected,
		Title:    "Disconnected",
		Message:  "You have been disconnected from the Matrix.",
		Duration: 3 * time.Second,
	})
}

// Current returns the in-memory identity, or nil when logged out.
func (m *Manager) Current() *models.Identity {
	return m.user
}
