package main

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"lg/vital-balance-go-api/internal/nutrition"
)

/* ─── Events ─────────────────────────────────────────────────────────── */

// EventKind names what happened to the user's log.
type EventKind string

const (
	KindRecordCreated  EventKind = "record.created"
	KindRecordDeleted  EventKind = "record.deleted"
	KindRecordRejected EventKind = "record.rejected"
	KindProfileUpdated EventKind = "profile.updated"
)

// EventLevel mirrors the success/warning/error feedback a client shows.
type EventLevel string

const (
	LevelSuccess EventLevel = "success"
	LevelWarning EventLevel = "warning"
	LevelError   EventLevel = "error"
)

// Event is pushed to a user's clients after a mutation. Summary is today's
// recomputed summary and is omitted for rejected input.
type Event struct {
	Kind     EventKind          `json:"kind"`
	Level    EventLevel         `json:"level"`
	Message  string             `json:"message,omitempty"`
	Record   *nutrition.Record  `json:"record,omitempty"`
	RecordID string             `json:"record_id,omitempty"`
	Summary  *nutrition.Summary `json:"summary,omitempty"`
}

// Notifier delivers events to whoever is watching a user's log.
type Notifier interface {
	Notify(userID int, ev Event)
}

// watcher is implemented by notifiers that know whether anyone would receive
// an event, so the summary is not recomputed for nobody.
type watcher interface {
	Watching(userID int) bool
}

/* ─── Hub ────────────────────────────────────────────────────────────── */

const (
	pingInterval  = 25 * time.Second
	writeTimeout  = 10 * time.Second
	sendQueueSize = 16
)

// wsClient is one open socket. Only writeLoop writes to conn.
type wsClient struct {
	userID    int
	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newWSClient(userID int, conn *websocket.Conn) *wsClient {
	return &wsClient{
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, sendQueueSize),
		done:   make(chan struct{}),
	}
}

func (c *wsClient) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// writeLoop drains the send queue and keeps the connection alive with pings
// until the client is closed or a write fails.
func (c *wsClient) writeLoop(h *Hub) {
	t := time.NewTicker(pingInterval)
	defer t.Stop()
	for {
		var err error
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			err = c.conn.WriteMessage(websocket.TextMessage, msg)
		case <-t.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			err = c.conn.WriteMessage(websocket.PingMessage, nil)
		}
		if err != nil {
			log.Printf("[hub] write to user %d failed: %v", c.userID, err)
			h.unregister(c)
			return
		}
	}
}

// Hub fans events out to every websocket a user has open.
type Hub struct {
	mu      sync.RWMutex
	clients map[int]map[*wsClient]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[int]map[*wsClient]struct{})}
}

func (h *Hub) register(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.userID] == nil {
		h.clients[c.userID] = make(map[*wsClient]struct{})
	}
	h.clients[c.userID][c] = struct{}{}
}

// unregister is safe to call more than once for the same client.
func (h *Hub) unregister(c *wsClient) {
	h.mu.Lock()
	if set := h.clients[c.userID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.userID)
		}
	}
	h.mu.Unlock()
	c.close()
}

// Watching reports whether the user has any socket open.
func (h *Hub) Watching(userID int) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

// Notify implements Notifier. It only queues; a client whose queue is full
// is dropped rather than waited on.
func (h *Hub) Notify(userID int, ev Event) {
	msg, err := json.Marshal(ev)
	if err != nil {
		log.Printf("[hub] failed to encode %s event: %v", ev.Kind, err)
		return
	}

	var stalled []*wsClient
	h.mu.RLock()
	for c := range h.clients[userID] {
		select {
		case c.send <- msg:
		default:
			stalled = append(stalled, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range stalled {
		log.Printf("[hub] dropping stalled socket for user %d", userID)
		h.unregister(c)
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// realtime upgrades GET /api/ws and keeps the socket registered until the
// client goes away. Incoming messages are ignored.
func (h *Handler) realtime(c *gin.Context) {
	userID := c.GetInt("user_id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[realtime] upgrade failed for user %d: %v", userID, err)
		return
	}
	cl := newWSClient(userID, conn)
	h.hub.register(cl)
	defer h.hub.unregister(cl)

	go cl.writeLoop(h.hub)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
