package ws

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Options tunes every connection accepted by a Handler.
type Options struct {
	AllowedOrigins []string
	RateLimit      rate.Limit
	RateBurst      int
	PingInterval   time.Duration
}

func DefaultOptions() Options {
	return Options{
		AllowedOrigins: []string{"http://localhost:3000"},
		RateLimit:      5,
		RateBurst:      10,
		PingInterval:   30 * time.Second,
	}
}

type Handler struct {
	hub      *Hub
	rooms    Rooms
	opts     Options
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

func NewHandler(hub *Hub, rooms Rooms, opts Options) *Handler {
	h := &Handler{
		hub:   hub,
		rooms: rooms,
		opts:  opts,
		log:   hub.log.With().Str("component", "ws").Logger(),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// checkOrigin lets through non-browser clients (no Origin header) and
// browsers on an allowed origin.
func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return slices.Contains(h.opts.AllowedOrigins, "*") || slices.Contains(h.opts.AllowedOrigins, origin)
}

// ServeWS upgrades the request and serves the connection until it closes.
// Every connection is a new player with a fresh id.
func (h *Handler) ServeWS(ctx *gin.Context) {
	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Str("ip", ctx.ClientIP()).Msg("websocket upgrade failed")
		return
	}

	c := newClient(uuid.NewString(), h.hub, conn, h.opts)
	h.hub.register(c)
	c.log.Info().Str("ip", ctx.ClientIP()).Msg("connected")

	go c.writePump()
	c.readPump(h.rooms)
}
