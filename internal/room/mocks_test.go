package room

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"

	"github.com/SithilSemitha/omi-web/internal/game"
)

// --- Transport ---

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Send(playerID string, ev Event) {
	m.Called(playerID, ev)
}

func (m *MockTransport) Broadcast(roomID string, ev Event) {
	m.Called(roomID, ev)
}

func (m *MockTransport) Subscribe(roomID, playerID string) {
	m.Called(roomID, playerID)
}

func (m *MockTransport) Unsubscribe(roomID, playerID string) {
	m.Called(roomID, playerID)
}

// --- recorder ---

// recorder is a Transport that remembers everything it was asked to do.
// Sends are logged as "player:type", broadcasts as "#room:type".
type recorder struct {
	mu     sync.Mutex
	log    []string
	events []Event
	groups map[string]map[string]bool
}

func newRecorder() *recorder {
	return &recorder{groups: make(map[string]map[string]bool)}
}

func (r *recorder) Send(playerID string, ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log = append(r.log, fmt.Sprintf("%s:%s", playerID, ev.Type))
	r.events = append(r.events, ev)
}

func (r *recorder) Broadcast(roomID string, ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log = append(r.log, fmt.Sprintf("#%s:%s", roomID, ev.Type))
	r.events = append(r.events, ev)
}

func (r *recorder) Subscribe(roomID, playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.groups[roomID] == nil {
		r.groups[roomID] = make(map[string]bool)
	}
	r.groups[roomID][playerID] = true
}

func (r *recorder) Unsubscribe(roomID, playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.groups[roomID], playerID)
}

// since returns the log entries and events recorded after mark.
func (r *recorder) since(mark int) ([]string, []Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.log[mark:]...), append([]Event{}, r.events[mark:]...)
}

func (r *recorder) mark() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.log)
}

func (r *recorder) members(roomID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.groups[roomID])
}

// --- deterministic games ---

// noShuffle deals NewDeck order: seat 0 hearts, 1 diamonds, 2 clubs,
// 3 spades. Trump is always hearts.
type noShuffle struct{}

func (noShuffle) Shuffle(n int, swap func(i, j int)) {}

func (noShuffle) Intn(n int) int { return 0 }

func newTestManager(t Transport, opts ...game.Option) *Manager {
	opts = append([]game.Option{game.WithRand(noShuffle{})}, opts...)
	return NewManager(t,
		WithLogger(zerolog.Nop()),
		WithGameFactory(func() *game.Game {
			return game.NewGame(opts...)
		}),
	)
}
