package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"KickRelay/internal/model"
)

const (
	writeWait  = 10 * time.Second
	sendBuffer = 16
)

// Message is the frame pushed to websocket clients.
type Message struct {
	Type string         `json:"type"`
	Data model.Snapshot `json:"data"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans engine snapshots out to websocket clients.
type Hub struct {
	game     Game
	upgrader websocket.Upgrader

	mu          sync.Mutex
	clients     map[*client]struct{}
	unsubscribe func()
}

func NewHub(game Game) *Hub {
	return &Hub{
		game: game,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[*client]struct{}),
	}
}

// Start subscribes the hub to the engine.
func (h *Hub) Start() {
	h.unsubscribe = h.game.Subscribe(h.broadcast)
}

// Close unsubscribes and disconnects every client.
func (h *Hub) Close() {
	if h.unsubscribe != nil {
		h.unsubscribe()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.dropLocked(c)
	}
}

// Handle upgrades the request and streams snapshots until the client leaves.
func (h *Hub) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WARN] websocket upgrade failed: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	// Registered and primed under one lock so no broadcast slips in between.
	h.mu.Lock()
	first, err := encode(h.game.Snapshot())
	if err != nil {
		h.mu.Unlock()
		log.Printf("[ERROR] encode snapshot: %v", err)
		conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	c.send <- first
	count := len(h.clients)
	h.mu.Unlock()
	log.Printf("[INFO] websocket client connected (%d total)", count)

	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) broadcast(snap model.Snapshot) {
	data, err := encode(snap)
	if err != nil {
		log.Printf("[ERROR] encode snapshot: %v", err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			log.Printf("[WARN] websocket client too slow, disconnecting")
			h.dropLocked(c)
		}
	}
}

func (h *Hub) dropLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	h.dropLocked(c)
	h.mu.Unlock()
}

// readPump discards client frames; it only notices disconnects.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.remove(c)
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	defer c.conn.Close()
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.remove(c)
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func encode(snap model.Snapshot) ([]byte, error) {
	return json.Marshal(Message{Type: "snapshot", Data: snap})
}
