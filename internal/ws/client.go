package ws

import (
	"errors"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/SithilSemitha/omi-web/internal/room"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 4096
	outboxSize     = 64
)

// Rooms is what a connection needs from the room registry.
type Rooms interface {
	JoinRoom(roomID, playerID, playerName string) (int, error)
	PlayCard(roomID, playerID, cardID string) error
	Disconnect(playerID string) []string
}

// Client is one WebSocket connection, and therefore one player.
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	limiter      *rate.Limiter
	pingInterval time.Duration
	log          zerolog.Logger
}

func newClient(id string, hub *Hub, conn *websocket.Conn, opts Options) *Client {
	return &Client{
		id:           id,
		hub:          hub,
		conn:         conn,
		send:         make(chan []byte, outboxSize),
		limiter:      rate.NewLimiter(opts.RateLimit, opts.RateBurst),
		pingInterval: opts.PingInterval,
		log:          hub.log.With().Str("player", id).Logger(),
	}
}

// enqueue queues a frame without blocking. Must be called with the hub
// lock held so it cannot race with close(c.send).
func (c *Client) enqueue(data []byte) {
	select {
	case c.send <- data:
	default:
		c.log.Warn().Int("queued", len(c.send)).Msg("outbox full, dropping frame")
	}
}

// pongWait is how long the connection may stay silent.
func (c *Client) pongWait() time.Duration {
	return 2 * c.pingInterval
}

// readPump reads frames until the connection fails, dispatching each one
// to rooms. The player is removed from every room once it returns.
func (c *Client) readPump(rooms Rooms) {
	defer func() {
		c.hub.unregister(c)
		left := rooms.Disconnect(c.id)
		c.conn.Close()
		c.log.Info().Strs("rooms", left).Msg("disconnected")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.pongWait()))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.pongWait()))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn().Err(err).Msg("read failed")
			}
			return
		}

		if !c.limiter.Allow() {
			c.reject("", reasonRateLimited)
			continue
		}

		msg, err := decodeClientMessage(data)
		if err != nil {
			c.log.Debug().Err(err).Msg("malformed message")
			c.reject("", reasonInvalidMessage)
			continue
		}
		c.dispatch(rooms, msg)
	}
}

func (c *Client) dispatch(rooms Rooms, msg ClientMessage) {
	switch msg.Type {
	case MsgJoinRoom:
		// failures are reported to the player by the room itself
		rooms.JoinRoom(msg.RoomID, c.id, msg.PlayerName)
	case MsgPlayCard:
		err := rooms.PlayCard(msg.RoomID, c.id, msg.CardID)
		if errors.Is(err, room.ErrRoomNotFound) {
			c.log.Debug().Str("room", msg.RoomID).Msg("play for unknown room ignored")
		}
	default:
		c.log.Debug().Str("type", string(msg.Type)).Msg("unknown message type")
		c.reject(msg.RoomID, reasonUnknownType)
	}
}

func (c *Client) reject(roomID, reason string) {
	c.hub.Send(c.id, room.Event{Type: room.EventError, RoomID: roomID, Error: reason})
}

// writePump drains the outbox onto the socket and keeps the connection
// alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(c.pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.log.Warn().Err(err).Msg("write failed")
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
