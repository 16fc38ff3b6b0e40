package room

import (
	"encoding/json"
	"errors"

	"github.com/SithilSemitha/omi-web/internal/game"
)

// EventType names a server -> client message
type EventType string

const (
	EventJoinedRoom  EventType = "joined-room"
	EventRoomFull    EventType = "room-full"
	EventGameUpdate  EventType = "game-update"
	EventGameStarted EventType = "game-started"
	EventYourCards   EventType = "your-cards"
	EventError       EventType = "error"
)

// Event is one message emitted by the registry, either to a single player
// or to everyone in a room.
type Event struct {
	Type     EventType      `json:"type"`
	RoomID   string         `json:"roomId,omitempty"`
	PlayerID string         `json:"playerId,omitempty"`
	State    *game.Snapshot `json:"state,omitempty"`
	Cards    []game.Card    `json:"cards,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// MarshalJSON always writes cards on your-cards, even when the hand is
// empty, so clients can rely on the array being there.
func (e Event) MarshalJSON() ([]byte, error) {
	type plain Event
	if e.Type != EventYourCards {
		return json.Marshal(plain(e))
	}

	cards := e.Cards
	if cards == nil {
		cards = []game.Card{}
	}
	return json.Marshal(struct {
		plain
		Cards []game.Card `json:"cards"`
	}{plain(e), cards})
}

// Transport is the message channel the registry talks through. Send and
// Broadcast must not block: they are called while a room is locked.
type Transport interface {
	Send(playerID string, ev Event)
	Broadcast(roomID string, ev Event)
	Subscribe(roomID, playerID string)
	Unsubscribe(roomID, playerID string)
}

// Reason maps an error to the code sent in an error event.
func Reason(err error) string {
	switch {
	case errors.Is(err, game.ErrNotYourTurn):
		return "not-your-turn"
	case errors.Is(err, game.ErrCardNotInHand):
		return "card-not-in-hand"
	case errors.Is(err, game.ErrUnknownCard):
		return "unknown-card"
	case errors.Is(err, game.ErrMustFollowSuit):
		return "must-follow-suit"
	case errors.Is(err, game.ErrWrongState):
		return "wrong-state"
	case errors.Is(err, game.ErrSeatVacant):
		return "seat-vacant"
	case errors.Is(err, game.ErrNotSeated):
		return "not-seated"
	case errors.Is(err, game.ErrRoomFull):
		return "room-full"
	case errors.Is(err, game.ErrAlreadySeated):
		return "already-seated"
	case errors.Is(err, ErrRoomNotFound):
		return "room-not-found"
	case errors.Is(err, ErrInvalidRoomID):
		return "invalid-room-id"
	case errors.Is(err, ErrInvalidPlayerName):
		return "invalid-player-name"
	default:
		return "unknown-error"
	}
}

func errorEvent(roomID string, err error) Event {
	return Event{Type: EventError, RoomID: roomID, Error: Reason(err)}
}
