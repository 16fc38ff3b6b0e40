package ws

import (
	"encoding/json"

	"github.com/SithilSemitha/omi-web/internal/room"
)

// MessageType represents the type of a client -> server message
type MessageType string

const (
	MsgJoinRoom MessageType = "join-room"
	MsgPlayCard MessageType = "play-card"
)

// ClientMessage represents incoming messages from clients
type ClientMessage struct {
	Type       MessageType `json:"type"`
	RoomID     string      `json:"roomId,omitempty"`
	PlayerName string      `json:"playerName,omitempty"`
	CardID     string      `json:"cardId,omitempty"`
}

// Reason codes produced by the transport itself rather than the rooms.
const (
	reasonInvalidMessage = "invalid-message"
	reasonUnknownType    = "unknown-message-type"
	reasonRateLimited    = "rate-limited"
)

func decodeClientMessage(data []byte) (ClientMessage, error) {
	var msg ClientMessage
	err := json.Unmarshal(data, &msg)
	return msg, err
}

func encodeEvent(ev room.Event) ([]byte, error) {
	return json.Marshal(ev)
}
