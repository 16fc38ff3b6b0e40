package room

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SithilSemitha/omi-web/internal/game"
)

func fillRoom(t *testing.T, m *Manager, roomID string) {
	t.Helper()
	for i := 0; i < game.NumSeats; i++ {
		seat, err := m.JoinRoom(roomID, fmt.Sprintf("p%d", i), fmt.Sprintf("Player %d", i))
		require.NoError(t, err)
		require.Equal(t, i, seat)
	}
}

// currentPlayer returns the id of whoever is to act in roomID.
func currentPlayer(t *testing.T, m *Manager, roomID string) string {
	t.Helper()
	snap, ok := m.Snapshot(roomID)
	require.True(t, ok)
	for _, p := range snap.Players {
		if p.Seat == snap.CurrentTurn {
			return p.ID
		}
	}
	t.Fatalf("nobody to act in %s", roomID)
	return ""
}

func TestJoinRoomFillsAndStarts(t *testing.T) {
	rec := newRecorder()
	m := newTestManager(rec)

	fillRoom(t, m, "r1")

	log, events := rec.since(0)
	assert.Equal(t, []string{
		"p0:joined-room", "#r1:game-update",
		"p1:joined-room", "#r1:game-update",
		"p2:joined-room", "#r1:game-update",
		"p3:joined-room", "#r1:game-update",
		"#r1:game-started", "#r1:game-update",
		"p0:your-cards", "p1:your-cards", "p2:your-cards", "p3:your-cards",
	}, log)

	assert.Equal(t, "p0", events[0].PlayerID)
	assert.Equal(t, "r1", events[0].RoomID)

	// the update sent before the auto-start still shows a waiting table
	assert.Equal(t, game.StateWaiting, events[7].State.State)
	assert.Len(t, events[7].State.Players, 4)

	started := events[9].State
	assert.Equal(t, game.StatePlaying, started.State)
	assert.Equal(t, "r1", started.RoomID)
	assert.Equal(t, 1, started.CurrentTurn)
	assert.Equal(t, game.Hearts, started.TrumpSuit)

	for i, ev := range events[10:] {
		assert.Len(t, ev.Cards, game.CardsPerHand)
		assert.Equal(t, game.AllSuits[i], ev.Cards[0].Suit)
	}

	assert.Equal(t, 4, rec.members("r1"))
	assert.Equal(t, 1, m.RoomCount())
}

func TestJoinRoomFull(t *testing.T) {
	rec := newRecorder()
	m := newTestManager(rec)
	fillRoom(t, m, "r1")
	before, _ := m.Snapshot("r1")
	mark := rec.mark()

	seat, err := m.JoinRoom("r1", "p4", "Fifth")
	assert.ErrorIs(t, err, game.ErrRoomFull)
	assert.Equal(t, -1, seat)

	log, events := rec.since(mark)
	assert.Equal(t, []string{"p4:room-full"}, log)
	assert.Equal(t, "r1", events[0].RoomID)

	after, _ := m.Snapshot("r1")
	assert.Equal(t, before, after)
	assert.Equal(t, 4, rec.members("r1"))
}

func TestJoinRoomFullOnlyTellsJoiner(t *testing.T) {
	mt := &MockTransport{}
	m := newTestManager(mt)

	mt.On("Subscribe", "r1", mock.Anything).Return().Times(4)
	mt.On("Send", mock.Anything, mock.Anything).Return().Times(8)
	mt.On("Broadcast", "r1", mock.Anything).Return().Times(6)
	fillRoom(t, m, "r1")

	mt.On("Send", "late", Event{Type: EventRoomFull, RoomID: "r1"}).Return().Once()
	_, err := m.JoinRoom("r1", "late", "Late")
	assert.ErrorIs(t, err, game.ErrRoomFull)

	mt.AssertExpectations(t)
	mt.AssertNotCalled(t, "Subscribe", "r1", "late")
	mt.AssertNumberOfCalls(t, "Broadcast", 6)
}

func TestJoinRoomRejectsDuplicateAndBadInput(t *testing.T) {
	rec := newRecorder()
	m := newTestManager(rec)

	_, err := m.JoinRoom("r1", "p0", "Ann")
	require.NoError(t, err)
	mark := rec.mark()

	_, err = m.JoinRoom("r1", "p0", "Ann")
	assert.ErrorIs(t, err, game.ErrAlreadySeated)

	_, err = m.JoinRoom("", "p1", "Bob")
	assert.ErrorIs(t, err, ErrInvalidRoomID)

	_, err = m.JoinRoom(strings.Repeat("r", MaxRoomIDLength+1), "p1", "Bob")
	assert.ErrorIs(t, err, ErrInvalidRoomID)

	_, err = m.JoinRoom("r2", "p1", strings.Repeat("é", MaxPlayerNameLength+1))
	assert.ErrorIs(t, err, ErrInvalidPlayerName)

	log, events := rec.since(mark)
	assert.Equal(t, []string{"p0:error", "p1:error", "p1:error", "p1:error"}, log)
	assert.Equal(t, "already-seated", events[0].Error)
	assert.Equal(t, "invalid-room-id", events[1].Error)
	assert.Equal(t, "invalid-room-id", events[2].Error)
	assert.Equal(t, "invalid-player-name", events[3].Error)
	assert.Equal(t, 1, m.RoomCount())
}

func TestJoinRoomTakesIDsAndNamesAsSent(t *testing.T) {
	rec := newRecorder()
	m := newTestManager(rec)

	tests := []struct {
		roomID, playerID, name string
	}{
		{" padded ", "p0", "Ann"},
		{"r1", "p1", ""},
		{"r1", "p2", "   "},
		{"r1", "p3", strings.Repeat("é", MaxPlayerNameLength)},
	}
	for _, tt := range tests {
		_, err := m.JoinRoom(tt.roomID, tt.playerID, tt.name)
		require.NoError(t, err, "%q/%q", tt.roomID, tt.name)
	}

	assert.Equal(t, []string{" padded ", "r1"}, m.RoomIDs())

	snap, ok := m.Snapshot("r1")
	require.True(t, ok)
	require.Len(t, snap.Players, 3)
	assert.Equal(t, "", snap.Players[0].Name)
	assert.Equal(t, "   ", snap.Players[1].Name)
}

func TestPlayCard(t *testing.T) {
	rec := newRecorder()
	m := newTestManager(rec)
	fillRoom(t, m, "r1")

	mark := rec.mark()
	require.NoError(t, m.PlayCard("r1", "p1", "diamonds-7"))

	log, events := rec.since(mark)
	assert.Equal(t, []string{"p1:your-cards", "#r1:game-update"}, log)
	assert.Len(t, events[0].Cards, game.CardsPerHand-1)
	require.Len(t, events[1].State.Trick, 1)
	assert.Equal(t, "p1", events[1].State.Trick[0].PlayerID)
	assert.Equal(t, game.Diamonds, events[1].State.LeadSuit)
	assert.Equal(t, 2, events[1].State.CurrentTurn)

	hand, ok := m.Hand("r1", "p1")
	require.True(t, ok)
	assert.Len(t, hand, game.CardsPerHand-1)
}

func TestPlayCardRejected(t *testing.T) {
	rec := newRecorder()
	m := newTestManager(rec)
	fillRoom(t, m, "r1")
	before, _ := m.Snapshot("r1")

	tests := []struct {
		name   string
		player string
		card   string
		err    error
		reason string
	}{
		{"out of turn", "p0", "hearts-7", game.ErrNotYourTurn, "not-your-turn"},
		{"not in hand", "p1", "hearts-7", game.ErrCardNotInHand, "card-not-in-hand"},
		{"unknown card", "p1", "diamonds-2", game.ErrUnknownCard, "unknown-card"},
		{"not seated", "stranger", "hearts-7", game.ErrNotSeated, "not-seated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mark := rec.mark()
			err := m.PlayCard("r1", tt.player, tt.card)
			assert.ErrorIs(t, err, tt.err)

			log, events := rec.since(mark)
			assert.Equal(t, []string{tt.player + ":error"}, log, "no broadcast on rejection")
			assert.Equal(t, tt.reason, events[0].Error)

			after, _ := m.Snapshot("r1")
			assert.Equal(t, before, after)
		})
	}
}

func TestPlayCardUnknownRoom(t *testing.T) {
	rec := newRecorder()
	m := newTestManager(rec)

	err := m.PlayCard("nowhere", "p0", "hearts-7")
	assert.ErrorIs(t, err, ErrRoomNotFound)
	assert.Equal(t, 0, rec.mark())
	assert.Equal(t, 0, m.RoomCount())
}

func TestRoundRolloverSendsEveryoneCards(t *testing.T) {
	rec := newRecorder()
	m := newTestManager(rec)
	fillRoom(t, m, "r1")

	for i := 0; i < game.TricksPerRound*game.NumSeats-1; i++ {
		id := currentPlayer(t, m, "r1")
		hand, _ := m.Hand("r1", id)
		require.NoError(t, m.PlayCard("r1", id, hand[0].ID))
	}

	id := currentPlayer(t, m, "r1")
	hand, _ := m.Hand("r1", id)
	mark := rec.mark()
	require.NoError(t, m.PlayCard("r1", id, hand[0].ID))

	log, events := rec.since(mark)
	assert.Equal(t, []string{
		"p0:your-cards", "p1:your-cards", "p2:your-cards", "p3:your-cards", "#r1:game-update",
	}, log)
	for _, ev := range events[:4] {
		assert.Len(t, ev.Cards, game.CardsPerHand)
	}

	snap := events[4].State
	assert.Equal(t, 2, snap.Round)
	assert.Equal(t, [2]int{3, 0}, snap.Tokens)
	assert.Equal(t, 2, snap.TrumpChooserSeat)
	require.NotNil(t, snap.LastRound)
	assert.Equal(t, game.TeamA, snap.LastRound.Winner)
}

func TestMatchEndSendsEmptyHand(t *testing.T) {
	rec := newRecorder()
	m := newTestManager(rec, game.WithTarget(3))
	fillRoom(t, m, "r1")

	for i := 0; i < game.TricksPerRound*game.NumSeats-1; i++ {
		id := currentPlayer(t, m, "r1")
		hand, _ := m.Hand("r1", id)
		require.NoError(t, m.PlayCard("r1", id, hand[0].ID))
	}

	// seat 0 takes every trick and leads the last one, so seat 3 plays last
	id := currentPlayer(t, m, "r1")
	require.Equal(t, "p3", id)
	hand, _ := m.Hand("r1", id)
	require.Len(t, hand, 1)

	mark := rec.mark()
	require.NoError(t, m.PlayCard("r1", id, hand[0].ID))

	log, events := rec.since(mark)
	assert.Equal(t, []string{"p3:your-cards", "#r1:game-update"}, log)

	frame, err := json.Marshal(events[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"your-cards","roomId":"r1","cards":[]}`, string(frame))

	snap := events[1].State
	assert.Equal(t, game.StateFinished, snap.State)
	assert.Equal(t, -1, snap.CurrentTurn)
	assert.Equal(t, [2]int{3, 0}, snap.Tokens)
	require.NotNil(t, snap.WinningTeam)
	assert.Equal(t, game.TeamA, *snap.WinningTeam)

	mark = rec.mark()
	assert.ErrorIs(t, m.PlayCard("r1", "p0", "hearts-7"), game.ErrWrongState)
	log, events = rec.since(mark)
	assert.Equal(t, []string{"p0:error"}, log)
	assert.Equal(t, "wrong-state", events[0].Error)
}

func TestDisconnect(t *testing.T) {
	mt := &MockTransport{}
	m := newTestManager(mt)

	mt.On("Subscribe", mock.Anything, mock.Anything).Return()
	mt.On("Send", mock.Anything, mock.Anything).Return()
	mt.On("Broadcast", "a", mock.Anything).Return().Twice()
	mt.On("Broadcast", "b", mock.Anything).Return().Once()

	_, err := m.JoinRoom("a", "p0", "Ann")
	require.NoError(t, err)
	_, err = m.JoinRoom("a", "p1", "Bob")
	require.NoError(t, err)
	_, err = m.JoinRoom("b", "p2", "Cid")
	require.NoError(t, err)

	mt.On("Unsubscribe", "a", "p0").Return().Once()
	mt.On("Broadcast", "a", mock.MatchedBy(func(ev Event) bool {
		return ev.Type == EventGameUpdate && len(ev.State.Players) == 1 && ev.State.Players[0].ID == "p1"
	})).Return().Once()

	left := m.Disconnect("p0")

	assert.Equal(t, []string{"a"}, left)
	mt.AssertExpectations(t)
	mt.AssertNumberOfCalls(t, "Broadcast", 4)
	mt.AssertNotCalled(t, "Unsubscribe", "b", mock.Anything)

	assert.Empty(t, m.Disconnect("ghost"))
	mt.AssertNumberOfCalls(t, "Broadcast", 4)
}

func TestDisconnectMidGameStalls(t *testing.T) {
	rec := newRecorder()
	m := newTestManager(rec)
	fillRoom(t, m, "r1")

	mark := rec.mark()
	assert.Equal(t, []string{"r1"}, m.Disconnect("p1"))

	log, events := rec.since(mark)
	assert.Equal(t, []string{"#r1:game-update"}, log)
	assert.Len(t, events[0].State.Players, 3)
	assert.Equal(t, 1, events[0].State.CurrentTurn, "the vacated seat stays current")
	assert.Equal(t, game.StatePlaying, events[0].State.State)

	for _, id := range []string{"p0", "p2", "p3"} {
		hand, _ := m.Hand("r1", id)
		assert.ErrorIs(t, m.PlayCard("r1", id, hand[0].ID), game.ErrNotYourTurn)
	}

	_, err := m.JoinRoom("r1", "p9", "Replacement")
	assert.ErrorIs(t, err, game.ErrRoomFull)
	assert.Equal(t, 3, rec.members("r1"))
}

func TestConcurrentFirstJoins(t *testing.T) {
	rec := newRecorder()
	m := newTestManager(rec)

	const joiners = 24
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		seated  int
		rejects int
	)
	for i := 0; i < joiners; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := m.JoinRoom("race", fmt.Sprintf("p%d", i), "racer")
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				seated++
			} else if assert.ErrorIs(t, err, game.ErrRoomFull) {
				rejects++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, m.RoomCount())
	assert.Equal(t, game.NumSeats, seated)
	assert.Equal(t, joiners-game.NumSeats, rejects)

	snap, ok := m.Snapshot("race")
	require.True(t, ok)
	assert.Equal(t, game.StatePlaying, snap.State)
	assert.Len(t, snap.Players, game.NumSeats)
}

func TestConcurrentRoomsAreIndependent(t *testing.T) {
	rec := newRecorder()
	m := newTestManager(rec)

	const rooms = 8
	for r := 0; r < rooms; r++ {
		fillRoom(t, m, fmt.Sprintf("room-%d", r))
	}

	var wg sync.WaitGroup
	for r := 0; r < rooms; r++ {
		wg.Add(1)
		go func(roomID string) {
			defer wg.Done()
			// every seat hammers the room; only the current one gets through
			for plays := 0; plays < game.TricksPerRound*game.NumSeats; {
				for i := 0; i < game.NumSeats; i++ {
					id := fmt.Sprintf("p%d", i)
					hand, ok := m.Hand(roomID, id)
					if !ok || len(hand) == 0 {
						continue
					}
					if m.PlayCard(roomID, id, hand[0].ID) == nil {
						plays++
					}
				}
			}
		}(fmt.Sprintf("room-%d", r))
	}
	wg.Wait()

	for _, id := range m.RoomIDs() {
		snap, _ := m.Snapshot(id)
		assert.Equal(t, 2, snap.Round, id)
		assert.Equal(t, [2]int{3, 0}, snap.Tokens, id)
	}
}
