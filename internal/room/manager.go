package room

import (
	"errors"
	"sort"
	"sync"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/SithilSemitha/omi-web/internal/game"
)

var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrInvalidRoomID     = errors.New("invalid room id")
	ErrInvalidPlayerName = errors.New("invalid player name")
)

const (
	MaxRoomIDLength     = 64
	MaxPlayerNameLength = 32
)

// Manager is the room registry: it owns every room and routes player
// actions to the right one. Rooms are created on first join and never
// removed.
type Manager struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	transport Transport
	newGame   func() *game.Game
	log       zerolog.Logger
}

type Option func(*Manager)

// WithGameFactory sets how a new room's game is built.
func WithGameFactory(f func() *game.Game) Option {
	return func(m *Manager) {
		m.newGame = f
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(m *Manager) {
		m.log = logger
	}
}

func NewManager(t Transport, opts ...Option) *Manager {
	m := &Manager{
		rooms:     make(map[string]*Room),
		transport: t,
		newGame:   func() *game.Game { return game.NewGame() },
		log:       log.Logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.With().Str("component", "rooms").Logger()
	return m
}

// getOrCreate returns the room for id, creating it if needed. Concurrent
// first joins to the same id get the same room.
func (m *Manager) getOrCreate(roomID string) *Room {
	m.mu.RLock()
	rm, ok := m.rooms[roomID]
	m.mu.RUnlock()
	if ok {
		return rm
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if rm, ok := m.rooms[roomID]; ok {
		return rm
	}
	rm = NewRoom(roomID, m.newGame(), m.log)
	m.rooms[roomID] = rm
	m.log.Info().Str("room", roomID).Msg("room created")
	return rm
}

// GetRoom returns a room by id, or nil
func (m *Manager) GetRoom(roomID string) *Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rooms[roomID]
}

// JoinRoom seats playerID in roomID, creating the room if it does not
// exist yet. The fourth join starts the game.
func (m *Manager) JoinRoom(roomID, playerID, playerName string) (int, error) {
	if err := validateJoin(roomID, playerName); err != nil {
		m.transport.Send(playerID, errorEvent(roomID, err))
		return -1, err
	}
	return m.getOrCreate(roomID).join(m.transport, playerID, playerName)
}

// PlayCard plays cardID for playerID in roomID. Unknown rooms are ignored.
func (m *Manager) PlayCard(roomID, playerID, cardID string) error {
	rm := m.GetRoom(roomID)
	if rm == nil {
		return ErrRoomNotFound
	}
	return rm.playCard(m.transport, playerID, cardID)
}

// Disconnect removes playerID from every room it sits in and returns the
// ids of those rooms.
func (m *Manager) Disconnect(playerID string) []string {
	var left []string
	for _, rm := range m.snapshotRooms() {
		if rm.leave(m.transport, playerID) {
			left = append(left, rm.ID)
		}
	}
	return left
}

// Snapshot returns the public state of a room
func (m *Manager) Snapshot(roomID string) (game.Snapshot, bool) {
	rm := m.GetRoom(roomID)
	if rm == nil {
		return game.Snapshot{}, false
	}
	return rm.Snapshot(), true
}

// Hand returns the cards playerID holds in roomID
func (m *Manager) Hand(roomID, playerID string) ([]game.Card, bool) {
	rm := m.GetRoom(roomID)
	if rm == nil || !rm.HasPlayer(playerID) {
		return nil, false
	}
	return rm.Hand(playerID), true
}

// RoomCount returns the number of rooms
func (m *Manager) RoomCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// RoomIDs lists room ids in sorted order
func (m *Manager) RoomIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.rooms))
	for id := range m.rooms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (m *Manager) snapshotRooms() []*Room {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rooms := make([]*Room, 0, len(m.rooms))
	for _, rm := range m.rooms {
		rooms = append(rooms, rm)
	}
	return rooms
}

// validateJoin only bounds what a client may store on the server. Names
// are taken as sent, blank ones included.
func validateJoin(roomID, playerName string) error {
	if roomID == "" || len(roomID) > MaxRoomIDLength {
		return ErrInvalidRoomID
	}
	if utf8.RuneCountInString(playerName) > MaxPlayerNameLength {
		return ErrInvalidPlayerName
	}
	return nil
}
