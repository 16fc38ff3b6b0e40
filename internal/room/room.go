package room

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/SithilSemitha/omi-web/internal/game"
)

// Room owns one game. Every action on the game, and the events it
// produces, happens with mu held.
type Room struct {
	mu sync.Mutex

	ID   string
	game *game.Game
	log  zerolog.Logger
}

func NewRoom(id string, g *game.Game, logger zerolog.Logger) *Room {
	return &Room{
		ID:   id,
		game: g,
		log:  logger.With().Str("room", id).Logger(),
	}
}

// join seats the player and, when the fourth seat fills, starts the match.
func (r *Room) join(t Transport, playerID, playerName string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seat, err := r.game.AddPlayer(playerID, playerName)
	if err != nil {
		if errors.Is(err, game.ErrRoomFull) {
			t.Send(playerID, Event{Type: EventRoomFull, RoomID: r.ID})
		} else {
			t.Send(playerID, errorEvent(r.ID, err))
		}
		r.log.Debug().Str("player", playerID).Err(err).Msg("join rejected")
		return -1, err
	}

	t.Subscribe(r.ID, playerID)
	t.Send(playerID, Event{Type: EventJoinedRoom, RoomID: r.ID, PlayerID: playerID})
	t.Broadcast(r.ID, r.update())
	r.log.Info().Str("player", playerID).Str("name", playerName).Int("seat", seat).Msg("player joined")

	if r.game.State == game.StateWaiting && r.game.PlayerCount() == game.NumSeats {
		if err := r.game.Start(); err != nil {
			r.log.Error().Err(err).Msg("failed to start game")
			return seat, nil
		}
		t.Broadcast(r.ID, Event{Type: EventGameStarted, RoomID: r.ID})
		t.Broadcast(r.ID, r.update())
		r.sendHands(t)
		r.log.Info().Str("trump", string(r.game.Trump)).Int("chooser", r.game.ChooserSeat).Msg("game started")
	}

	return seat, nil
}

// playCard applies a play. A rejected play is reported to the actor only.
func (r *Room) playCard(t Transport, playerID, cardID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seat := r.game.SeatOf(playerID)
	if seat < 0 {
		t.Send(playerID, errorEvent(r.ID, game.ErrNotSeated))
		return game.ErrNotSeated
	}

	round := r.game.RoundNumber
	if err := r.game.PlayCard(seat, cardID); err != nil {
		r.log.Debug().Str("player", playerID).Int("seat", seat).Str("card", cardID).Err(err).Msg("play rejected")
		t.Send(playerID, errorEvent(r.ID, err))
		return err
	}

	if r.game.RoundNumber != round || r.game.State == game.StateFinished {
		r.logRoundEnd()
	}

	if r.game.RoundNumber != round {
		r.sendHands(t)
	} else {
		t.Send(playerID, Event{Type: EventYourCards, RoomID: r.ID, Cards: r.game.Hand(playerID)})
	}
	t.Broadcast(r.ID, r.update())

	return nil
}

// leave vacates the player's seat, if they hold one.
func (r *Room) leave(t Transport, playerID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	seat, ok := r.game.RemovePlayer(playerID)
	if !ok {
		return false
	}

	t.Unsubscribe(r.ID, playerID)
	t.Broadcast(r.ID, r.update())

	ev := r.log.Info().Str("player", playerID).Int("seat", seat)
	if r.game.State == game.StatePlaying && r.game.CurrentSeat == seat {
		ev = ev.Bool("stalled", true)
	}
	ev.Msg("player left")
	return true
}

func (r *Room) sendHands(t Transport) {
	for _, id := range r.game.PlayerIDs() {
		t.Send(id, Event{Type: EventYourCards, RoomID: r.ID, Cards: r.game.Hand(id)})
	}
}

func (r *Room) logRoundEnd() {
	res := r.game.LastResult()
	if res == nil {
		return
	}
	r.log.Info().
		Int("round", res.Round).
		Ints("tricks", res.TricksWon[:]).
		Int("winner", int(res.Winner)).
		Int("awarded", res.Tokens).
		Ints("tokens", r.game.Tokens[:]).
		Str("state", string(r.game.State)).
		Msg("round scored")
}

func (r *Room) update() Event {
	snap := r.snapshot()
	return Event{Type: EventGameUpdate, RoomID: r.ID, State: &snap}
}

func (r *Room) snapshot() game.Snapshot {
	snap := r.game.Snapshot()
	snap.RoomID = r.ID
	return snap
}

// Snapshot returns the public view of the room's game
func (r *Room) Snapshot() game.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot()
}

// Hand returns the cards held by playerID
func (r *Room) Hand(playerID string) []game.Card {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.game.Hand(playerID)
}

// HasPlayer reports whether playerID holds a seat
func (r *Room) HasPlayer(playerID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.game.SeatOf(playerID) >= 0
}
