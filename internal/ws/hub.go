package ws

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/SithilSemitha/omi-web/internal/room"
)

// Hub tracks live connections and which rooms they listen to. It is the
// room.Transport of the server: Send and Broadcast only queue frames on the
// clients' outboxes and never wait on a socket.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	groups  map[string]map[string]struct{}

	log zerolog.Logger
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		groups:  make(map[string]map[string]struct{}),
		log:     logger.With().Str("component", "hub").Logger(),
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.id] = c
}

// unregister forgets the client and closes its outbox, which stops its
// write pump.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if cur, ok := h.clients[c.id]; !ok || cur != c {
		return
	}
	delete(h.clients, c.id)
	for roomID, members := range h.groups {
		delete(members, c.id)
		if len(members) == 0 {
			delete(h.groups, roomID)
		}
	}
	close(c.send)
}

func (h *Hub) Send(playerID string, ev room.Event) {
	data, err := encodeEvent(ev)
	if err != nil {
		h.log.Error().Err(err).Str("type", string(ev.Type)).Msg("failed to encode event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if c, ok := h.clients[playerID]; ok {
		c.enqueue(data)
	}
}

func (h *Hub) Broadcast(roomID string, ev room.Event) {
	data, err := encodeEvent(ev)
	if err != nil {
		h.log.Error().Err(err).Str("type", string(ev.Type)).Msg("failed to encode event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for id := range h.groups[roomID] {
		if c, ok := h.clients[id]; ok {
			c.enqueue(data)
		}
	}
}

// Subscribe adds playerID to roomID's broadcast group. Players without a
// live connection are ignored.
func (h *Hub) Subscribe(roomID, playerID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[playerID]; !ok {
		return
	}
	members, ok := h.groups[roomID]
	if !ok {
		members = make(map[string]struct{})
		h.groups[roomID] = members
	}
	members[playerID] = struct{}{}
}

func (h *Hub) Unsubscribe(roomID, playerID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.groups[roomID]
	if !ok {
		return
	}
	delete(members, playerID)
	if len(members) == 0 {
		delete(h.groups, roomID)
	}
}

// ClientCount returns the number of live connections
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
