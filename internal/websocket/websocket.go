// Package websocket pushes live state changes to connected displays.
//
// Displays only ever need the newest state, so each client holds a single
// pending slot instead of a queue. A slow display skips intermediate
// revisions rather than being disconnected.
package websocket

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/u83213089-oss/cat-lottery/internal/logger"
	"github.com/u83213089-oss/cat-lottery/internal/models"
)

// MsgLiveState is the only message type sent to displays
const MsgLiveState = "live_state"

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	readLimit  = 512
)

var upgrader = websocket.Upgrader{
	// displays are opened from phones on the venue LAN
	CheckOrigin: func(r *http.Request) bool { return true },
}

// LiveStateProvider supplies the state sent to a display when it connects
type LiveStateProvider interface {
	CurrentState(ctx context.Context) (*models.LiveState, error)
}

// Hub tracks connected displays and fans live state out to them
type Hub struct {
	log   logger.Logger
	state LiveStateProvider

	mu      sync.Mutex
	clients map[*Client]struct{}
	done    chan struct{} // closed when the hub stops
}

// Client is one display connection
type Client struct {
	conn *websocket.Conn

	mu   sync.Mutex
	next *models.LiveState
	sent bool

	wake chan struct{}
	quit chan struct{}
	once sync.Once
}

func New(log logger.Logger, state LiveStateProvider) *Hub {
	return &Hub{
		log:     log.With("component", "websocket"),
		state:   state,
		clients: make(map[*Client]struct{}),
		done:    make(chan struct{}),
	}
}

func newClient(conn *websocket.Conn) *Client {
	return &Client{
		conn: conn,
		wake: make(chan struct{}, 1),
		quit: make(chan struct{}),
	}
}

// Start stops the hub and disconnects every client once ctx is canceled
func (h *Hub) Start(ctx context.Context) {
	go func() {
		<-ctx.Done()
		h.mu.Lock()
		close(h.done)
		for c := range h.clients {
			delete(h.clients, c)
			c.close()
		}
		h.mu.Unlock()
		h.log.Debug("Hub stopped")
	}()
}

func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// BroadcastLiveState implements services.Broadcaster. It never blocks.
func (h *Hub) BroadcastLiveState(state *models.LiveState) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.offer(state)
	}
}

func (h *Hub) add(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	select {
	case <-h.done:
		return false
	default:
	}
	h.clients[c] = struct{}{}
	h.log.Debug("Display connected", "total_clients", len(h.clients))
	return true
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		h.log.Debug("Display disconnected", "total_clients", len(h.clients))
	}
	h.mu.Unlock()
	c.close()
}

// ServeWs upgrades the request and sends the current state. The client is
// registered before the state is read so a concurrent draw is never missed.
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("WebSocket upgrade failed", "error", err)
		return
	}

	c := newClient(conn)
	if !h.add(c) {
		conn.Close()
		return
	}
	go c.writePump()
	go h.readPump(c)

	if h.state == nil {
		return
	}
	state, err := h.state.CurrentState(r.Context())
	if err != nil {
		h.log.Error("Failed to load live state for new display", "error", err)
		return
	}
	c.offerInitial(state)
}

// offer replaces the pending state and wakes the writer
func (c *Client) offer(state *models.LiveState) {
	c.mu.Lock()
	c.next = state
	c.mu.Unlock()
	c.notify()
}

// offerInitial queues state only if no broadcast reached the client first
func (c *Client) offerInitial(state *models.LiveState) {
	c.mu.Lock()
	if c.next != nil || c.sent {
		c.mu.Unlock()
		return
	}
	c.next = state
	c.mu.Unlock()
	c.notify()
}

func (c *Client) notify() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *Client) take() *models.LiveState {
	c.mu.Lock()
	defer c.mu.Unlock()
	state := c.next
	c.next = nil
	if state != nil {
		c.sent = true
	}
	return state
}

func (c *Client) close() {
	c.once.Do(func() { close(c.quit) })
}

// readPump discards anything the display sends and keeps the pong deadline
func (h *Hub) readPump(c *Client) {
	defer func() {
		h.remove(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(readLimit)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.NextReader(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Debug("WebSocket read error", "error", err)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.quit:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
			return

		case <-c.wake:
			state := c.take()
			if state == nil {
				continue
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(models.WSMessage{Type: MsgLiveState, Payload: state}); err != nil {
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
