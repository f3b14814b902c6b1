// Package livereload implements the development-only browser reload layer.
//
// A Hub accepts websocket connections from the client script the Middleware
// injects into HTML pages, and broadcasts a reload message to every connected
// browser when source files change. The layer is only attached in development
// mode and never alters what handlers produce; it only appends the client
// script to outgoing HTML.
package livereload

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed between reads from the peer before the connection is
	// considered dead.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// reloadMessage is what connected clients receive when files change.
var reloadMessage = []byte(`{"type":"reload"}`)

// Hub tracks connected browsers and fans reload notifications out to them.
type Hub struct {
	clientsMu sync.RWMutex
	clients   map[*websocket.Conn]*client

	broadcast  chan []byte
	register   chan *client
	unregister chan *websocket.Conn
}

// NewHub returns a Hub ready to accept connections. Run must be started for
// registration and broadcasting to make progress.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]*client),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *client),
		unregister: make(chan *websocket.Conn, 16),
	}
}

// Run processes client lifecycle events and broadcasts until ctx is
// cancelled. All remaining connections are closed on the way out.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case c := <-h.register:
			h.clientsMu.Lock()
			h.clients[c.conn] = c
			count := len(h.clients)
			h.clientsMu.Unlock()
			log.Printf("livereload: client connected, total: %d", count)

		case conn := <-h.unregister:
			h.clientsMu.Lock()
			if c, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				close(c.send)
			}
			count := len(h.clients)
			h.clientsMu.Unlock()
			log.Printf("livereload: client disconnected, total: %d", count)

		case message := <-h.broadcast:
			h.clientsMu.RLock()
			var stalled []*websocket.Conn
			for conn, c := range h.clients {
				select {
				case c.send <- message:
				default:
					// Send buffer full, drop the client.
					stalled = append(stalled, conn)
				}
			}
			h.clientsMu.RUnlock()

			if len(stalled) > 0 {
				h.clientsMu.Lock()
				for _, conn := range stalled {
					if c, ok := h.clients[conn]; ok {
						delete(h.clients, conn)
						close(c.send)
						conn.Close(websocket.StatusNormalClosure, "")
					}
				}
				h.clientsMu.Unlock()
			}
		}
	}
}

// NotifyReload broadcasts a reload message to all connected clients. It never
// blocks; if the hub is saturated the notification is dropped, which is fine
// because another one follows on the next change.
func (h *Hub) NotifyReload() {
	select {
	case h.broadcast <- reloadMessage:
	default:
	}
}

// ClientCount reports how many browsers are currently connected.
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request to a websocket connection and registers it
// with the hub.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// The endpoint only ever pushes reload notifications; client input is
	// never acted on, so origin checking is relaxed for development use.
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		log.Printf("livereload: websocket upgrade error: %v", err)
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, 16),
		hub:  h,
	}

	go c.writePump()
	go c.readPump()

	h.register <- c
}

func (h *Hub) closeAll() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	for conn, c := range h.clients {
		delete(h.clients, conn)
		close(c.send)
		conn.Close(websocket.StatusGoingAway, "server shutting down")
	}
}
