package services

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client is one websocket subscriber following a single tracking id.
type Client struct {
	TrackingID string
	Conn       *websocket.Conn
	Send       chan []byte
	Hub        *Hub
}

// Hub fans tracking events out to the clients following each tracking id.
type Hub struct {
	clients    map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mutex      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run processes registrations until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			return

		case client := <-h.register:
			h.mutex.Lock()
			if h.clients[client.TrackingID] == nil {
				h.clients[client.TrackingID] = make(map[*Client]bool)
			}
			h.clients[client.TrackingID][client] = true
			h.mutex.Unlock()
			log.Printf("Tracking subscriber connected for %s", client.TrackingID)

		case client := <-h.unregister:
			h.mutex.Lock()
			h.remove(client)
			h.mutex.Unlock()
			log.Printf("Tracking subscriber disconnected for %s", client.TrackingID)
		}
	}
}

// remove must be called with the write lock held.
func (h *Hub) remove(client *Client) {
	subs, ok := h.clients[client.TrackingID]
	if !ok {
		return
	}
	if _, ok := subs[client]; ok {
		delete(subs, client)
		close(client.Send)
	}
	if len(subs) == 0 {
		delete(h.clients, client.TrackingID)
	}
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for _, subs := range h.clients {
		for client := range subs {
			h.remove(client)
		}
	}
}

// Register adds a client; it blocks until Run picks it up. After the hub
// stops the client is closed instead.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.Send)
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// BroadcastToTracking sends message to every subscriber of trackingID.
// Subscribers whose buffers are full are dropped.
func (h *Hub) BroadcastToTracking(trackingID string, message []byte) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for client := range h.clients[trackingID] {
		select {
		case client.Send <- message:
		default:
			log.Printf("Warning: dropping slow tracking subscriber for %s", trackingID)
			h.remove(client)
		}
	}
}

// Subscribers returns the number of clients following trackingID.
func (h *Hub) Subscribers(trackingID string) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients[trackingID])
}

// WebSocketMessage is the envelope written to subscribers.
type WebSocketMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// ServeTracking upgrades the request and streams events for trackingID.
func ServeTracking(hub *Hub, w http.ResponseWriter, r *http.Request, trackingID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := &Client{
		TrackingID: trackingID,
		Conn:       conn,
		Send:       make(chan []byte, 64),
		Hub:        hub,
	}
	hub.Register(client)

	go client.writePump()
	go client.readPump()
}

// readPump only drains control frames; subscribers never send data.
func (c *Client) readPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(512)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("WebSocket write error: %v", err)
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func encodeMessage(msgType string, data interface{}) ([]byte, error) {
	return json.Marshal(WebSocketMessage{Type: msgType, Data: data})
}
