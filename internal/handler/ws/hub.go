package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"parkgate/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBufferSize = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin is enforced by the CORS layer; the dashboard connects with the
	// same bearer token as the REST API.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// alertEnvelope is what every dashboard client receives.
type alertEnvelope struct {
	Kind    string    `json:"kind"`
	At      time.Time `json:"at"`
	Payload any       `json:"payload"`
}

// Hub fans lifecycle alerts out to connected dashboard clients. It is the
// AlertPublisher the command layer talks to; publishing never blocks on a
// slow client, their buffer just overflows and the connection is dropped.
type Hub struct {
	clients    map[*client]bool
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
}

var _ commands.AlertPublisher = (*Hub)(nil)

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, 64),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			slog.Debug("dashboard client connected", "clients", len(h.clients))
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					delete(h.clients, c)
					close(c.send)
				}
			}
		}
	}
}

func (h *Hub) Publish(kind string, payload any) {
	msg, err := json.Marshal(alertEnvelope{
		Kind:    kind,
		At:      time.Now().UTC(),
		Payload: payload,
	})
	if err != nil {
		slog.Error("failed to marshal alert", "kind", kind, "error", err.Error())
		return
	}

	select {
	case h.broadcast <- msg:
	default:
		slog.Warn("alert dropped, broadcast buffer full", "kind", kind)
	}
}

// Serve upgrades the request and attaches the connection to the hub.
func (h *Hub) Serve(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err.Error())
		return
	}

	cl := &client{hub: h, conn: conn, send: make(chan []byte, sendBufferSize)}
	h.register <- cl

	go cl.writePump()
	go cl.readPump()
}

// readPump discards client frames; the alert stream is one-way. It exists to
// process pongs and to notice the peer going away.
func (c *client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
