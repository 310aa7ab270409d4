package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/slidehand/internal/app"
)

// BroadcastInterval is the status feed period, about 15 Hz.
const BroadcastInterval = 66 * time.Millisecond

const (
	writeWait = 10 * time.Second
	pongWait  = 60 * time.Second
	pingEvery = (pongWait * 9) / 10
)

// StatusReader returns the current controller status.
type StatusReader interface {
	Status() app.Status
}

// Hub pushes the controller status to every connected websocket client.
// Clients may send {"type":"snapshot_request"} for an immediate status.
type Hub struct {
	source   StatusReader
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]*sync.Mutex

	stop chan struct{}
	once sync.Once
}

// NewHub starts broadcasting source's status every interval.
func NewHub(source StatusReader, interval time.Duration) *Hub {
	h := &Hub{
		source: source,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]*sync.Mutex),
		stop:    make(chan struct{}),
	}
	go h.broadcast(interval)
	return h
}

type clientRequest struct {
	Type string `json:"type"`
}

// ServeHTTP upgrades the request and serves the client until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	conn.SetReadLimit(4096)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	writeMu := &sync.Mutex{}
	h.mu.Lock()
	h.clients[conn] = writeMu
	h.mu.Unlock()
	defer h.removeClient(conn)

	if err := writeJSON(conn, writeMu, h.source.Status()); err != nil {
		return
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(pingEvery)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := writeMessage(conn, writeMu, websocket.PingMessage, nil); err != nil {
					_ = conn.Close()
					return
				}
			}
		}
	}()

	for {
		messageType, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		var req clientRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			continue
		}
		if req.Type == "snapshot_request" {
			if err := writeJSON(conn, writeMu, h.source.Status()); err != nil {
				return
			}
		}
	}
}

func (h *Hub) broadcast(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-h.stop:
			return
		case <-ticker.C:
		}

		if h.ClientCount() == 0 {
			continue
		}

		payload, err := json.Marshal(h.source.Status())
		if err != nil {
			log.Printf("Failed to encode status: %v", err)
			continue
		}

		var stale []*websocket.Conn
		h.mu.Lock()
		for conn, writeMu := range h.clients {
			if err := writeMessage(conn, writeMu, websocket.TextMessage, payload); err != nil {
				stale = append(stale, conn)
			}
		}
		h.mu.Unlock()

		for _, conn := range stale {
			h.removeClient(conn)
		}
	}
}

func (h *Hub) removeClient(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close stops broadcasting and disconnects all clients.
func (h *Hub) Close() {
	h.once.Do(func() {
		close(h.stop)
		h.mu.Lock()
		for conn := range h.clients {
			conn.Close()
		}
		h.mu.Unlock()
	})
}

func writeJSON(conn *websocket.Conn, writeMu *sync.Mutex, payload any) error {
	writeMu.Lock()
	defer writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(payload)
}

func writeMessage(conn *websocket.Conn, writeMu *sync.Mutex, messageType int, payload []byte) error {
	writeMu.Lock()
	defer writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(messageType, payload)
}
