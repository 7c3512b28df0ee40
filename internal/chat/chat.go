package chat

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"matrixchat/internal/models"
	"matrixchat/internal/notify"
	"matrixchat/internal/store"
)

const (
	roomsKey       = "matrixChatRooms"
	messagesKeyFmt = "matrixMessages_%s"
)

// Store owns the room collection and the per-room message logs. It is the
// only writer of those keys; the identity record belongs to the identity
// manager.
type Store struct {
	kv       store.KV
	rooms    []models.Room
	active   *models.Room
	messages []models.Message
	notify   notify.Notifier
}

func NewStore(kv store.KV, n notify.Notifier) *Store {
	if n == nil {
		n = notify.Nop
	}
	return &Store{kv: kv, notify: n}
}

func messagesKey(roomID string) string {
	return fmt.Sprintf(messagesKeyFmt, roomID)
}

// InitRooms loads the persisted room collection, seeding the default rooms
// when the store is empty or unreadable. Calling it again is harmless.
func (s *Store) InitRooms() []models.Room {
	raw, err := s.kv.Get(roomsKey)
	if err == nil && raw != nil {
		var rooms []models.Room
		if jerr := json.Unmarshal(raw, &rooms); jerr != nil {
			log.Warn().Err(jerr).Msg("stored rooms are corrupt, reseeding")
		} else if len(rooms) > 0 {
			s.rooms = rooms
			return s.rooms
		}
	}
	s.seedRooms()
	return s.rooms
}

func (s *Store) seedRooms() {
	now := time.Now()
	s.rooms = []models.Room{
		{ID: "matrix-main", Name: "The Matrix", Description: "Main discussion channel", CreatedAt: now},
		{ID: "red-pill", Name: "Red Pill", Description: "For those who seek the truth", CreatedAt: now},
		{ID: "blue-pill", Name: "Blue Pill", Description: "Blissful ignorance", CreatedAt: now},
	}
	s.persistRooms()
}

func (s *Store) persistRooms() {
	raw, _ := json.Marshal(s.rooms)
	if err := s.kv.Set(roomsKey, raw); err != nil {
		log.Error().Err(err).Msg("persist rooms failed")
	}
}

// CreateRoom appends a new room. Returns nil without touching anything
// when no identity is present.
func (s *Store) CreateRoom(name, description string, creator *models.Identity) *models.Room {
	if creator == nil {
		return nil
	}
	room := models.Room{
		ID:          s.newRoomID(),
		Name:        name,
		Description: description,
		CreatedAt:   time.Now(),
		CreatedBy:   creator.ID,
	}
	s.rooms = append(s.rooms, room)
	s.persistRooms()

	s.notify(notify.Notification{
		Kind:     notify.RoomCreated,
		Title:    "Room Created",
		Message:  fmt.Sprintf("%s has been created.", name),
		Duration: 3 * time.Second,
	})
	return &s.rooms[len(s.rooms)-1]
}

// newRoomID derives an id from the creation time, bumping until it is
// unique among the current rooms.
func (s *Store) newRoomID() string {
	n := time.Now().UnixNano()
	for {
		id := fmt.Sprintf("room-%d", n)
		if s.findRoom(id) == nil {
			return id
		}
		n++
	}
}

func (s *Store) findRoom(id string) *models.Room {
	for i := range s.rooms {
		if s.rooms[i].ID == id {
			return &s.rooms[i]
		}
	}
	return nil
}

// Rooms returns the room collection in insertion order.
func (s *Store) Rooms() []models.Room {
	return s.rooms
}

// JoinRoom makes the named room active and loads its message log. An
// unknown id returns nil and leaves the active room unchanged.
func (s *Store) JoinRoom(roomID string) *models.Room {
	room := s.findRoom(roomID)
	if room == nil {
		return nil
	}
	s.active = room
	s.messages = s.loadMessages(roomID)
	return room
}

// LeaveRoom clears the active room and the in-memory log. Persisted
// messages stay in the store.
func (s *Store) LeaveRoom() {
	s.active = nil
	s.messages = nil
}

// Active returns the currently joined room, or nil.
func (s *Store) Active() *models.Room {
	return s.active
}

// Messages returns the in-memory log for the active room.
func (s *Store) Messages() []models.Message {
	return s.messages
}

func (s *Store) loadMessages(roomID string) []models.Message {
	raw, err := s.kv.Get(messagesKey(roomID))
	if err != nil || raw == nil {
		return []models.Message{}
	}
	var msgs []models.Message
	if jerr := json.Unmarshal(raw, &msgs); jerr != nil {
		log.Warn().Err(jerr).Str("room", roomID).Msg("stored messages are corrupt, starting empty")
		return []models.Message{}
	}
	return msgs
}

// SendMessage appends a message to the active room's log with a snapshot
// of the sender's current username. Returns nil when there is no sender
// or no active room. Content is not validated here; the presentation
// layer rejects empty input before calling.
func (s *Store) SendMessage(content string, sender *models.Identity) *models.Message {
	if sender == nil || s.active == nil {
		return nil
	}
	msg := models.Message{
		ID:         fmt.Sprintf("msg-%d", time.Now().UnixNano()),
		RoomID:     s.active.ID,
		SenderID:   sender.ID,
		SenderName: sender.Username,
		Content:    content,
		Timestamp:  time.Now(),
	}
	s.messages = append(s.messages, msg)

	raw, _ := json.Marshal(s.messages)
	if err := s.kv.Set(messagesKey(s.active.ID), raw); err != nil {
		log.Error().Err(err).Str("room", s.active.ID).Msg("persist messages failed")
	}
	return &s.messages[len(s.messages)-1]
}
