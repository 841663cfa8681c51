// Package fanout pushes pipeline events (slate refreshes, scoring
// completions) to dashboard WebSocket clients.
package fanout

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mhopper/edgeboard/internal/telemetry"
)

const (
	clientSendBuf = 64
	writeDeadline = 5 * time.Second
	pongWait      = 30 * time.Second
	pingInterval  = 20 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(_ *http.Request) bool { return true },
}

type client struct {
	league string // "" subscribes to every league
	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
}

// Hub fans published events out to connected dashboard clients.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

// Publish serializes the event and enqueues it to matching clients'
// send channels without blocking. Satisfies grading.Publisher.
func (h *Hub) Publish(eventType string, payload any) {
	h.PublishLeague(eventType, "", payload)
}

// PublishLeague is Publish with a league filter; clients subscribed to a
// different league don't receive it.
func (h *Hub) PublishLeague(eventType, lg string, payload any) {
	data, err := marshalEnvelope(eventType, lg, time.Now(), payload)
	if err != nil {
		telemetry.Warnf("fanout: marshal error: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		if lg != "" && c.league != "" && c.league != lg {
			continue
		}
		select {
		case c.send <- data:
		default:
			telemetry.Warnf("fanout: dropping message for slow client league=%q", c.league)
		}
	}
}

// HandleWS is the HTTP handler for WebSocket upgrade requests. Clients
// may narrow their feed with ?league=nba (etc.); no param means all.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		telemetry.Warnf("fanout: upgrade failed: %v", err)
		return
	}

	c := &client{
		league: r.URL.Query().Get("league"),
		conn:   conn,
		send:   make(chan []byte, clientSendBuf),
		done:   make(chan struct{}),
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	telemetry.FanoutClients.Inc()
	telemetry.Infof("fanout: client connected league=%q", c.league)

	go h.writePump(c)
	go h.readPump(c)
}

// writePump drains the client's send channel and writes to the WS
// connection. It owns the client lifecycle: on exit it removes the
// client from the map (so Publish never sends to a stale channel) and
// closes the connection.
func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		h.removeClient(c)
		c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				telemetry.Warnf("fanout: write error league=%q: %v", c.league, err)
				return
			}
		case <-c.done:
			return
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump keeps the connection alive by reading pongs / close frames.
// Dashboard clients send nothing upstream. On exit it signals writePump
// via c.done (never closes c.send).
func (h *Hub) readPump(c *client) {
	defer close(c.done)

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) removeClient(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	telemetry.FanoutClients.Dec()
	telemetry.Infof("fanout: client disconnected league=%q", c.league)
}
