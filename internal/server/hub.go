package server

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/petitionmap/internal/petition"
	"github.com/ziadkadry99/petitionmap/internal/snapshot"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

const (
	writeWait  = 10 * time.Second
	sendBuffer = 8
)

// Message is the outgoing websocket message format.
type Message struct {
	Type           string    `json:"type"` // "hello" or "refresh"
	ClientID       string    `json:"client_id,omitempty"`
	PetitionID     string    `json:"petition_id"`
	SignatureCount int       `json:"signature_count,omitempty"`
	LoadedAt       time.Time `json:"loaded_at,omitempty"`
}

// RefreshMessage announces a new State to watchers of its petition.
func RefreshMessage(st *snapshot.State) Message {
	return Message{
		Type:           "refresh",
		PetitionID:     st.PetitionID,
		SignatureCount: st.Petition.Data.Attributes.SignatureCount,
		LoadedAt:       st.LoadedAt,
	}
}

type client struct {
	id       string
	petition string
	conn     *websocket.Conn
	send     chan Message
}

// Hub tracks websocket clients by the petition they watch.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client
	closed  bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[string]*client)}
}

// ServeWS upgrades the request and registers a client for ?petition=<id>.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("petition")
	if !petition.ValidID(id) {
		writeError(w, http.StatusBadRequest, "petition query parameter must be a numeric id")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade", "error", err)
		return
	}

	c := &client{
		id:       uuid.New().String(),
		petition: id,
		conn:     conn,
		send:     make(chan Message, sendBuffer),
	}
	// Queued before the client is visible to Close, which closes send.
	c.send <- Message{Type: "hello", ClientID: c.id, PetitionID: id}
	if !h.register(c) {
		conn.Close()
		return
	}

	go c.writeLoop()
	c.readLoop()
	h.unregister(c)
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c.id] = c
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.id]; ok {
		delete(h.clients, c.id)
		close(c.send)
	}
}

// Broadcast queues msg for every client watching msg.PetitionID and returns
// how many were queued. Clients with a full buffer miss the message.
func (h *Hub) Broadcast(msg Message) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, c := range h.clients {
		if c.petition != msg.PetitionID {
			continue
		}
		select {
		case c.send <- msg:
			n++
		default:
			slog.Warn("websocket client too slow, dropping message", "client", c.id)
		}
	}
	return n
}

// Len is the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for id, c := range h.clients {
		delete(h.clients, id)
		close(c.send)
	}
}

// readLoop discards client messages until the connection ends.
func (c *client) readLoop() {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("websocket read", "client", c.id, "error", err)
			}
			return
		}
	}
}

func (c *client) writeLoop() {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(msg); err != nil {
			slog.Debug("websocket write", "client", c.id, "error", err)
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
