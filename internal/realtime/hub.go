package realtime

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// AlertChannel is the redis channel violation alerts arrive on.
const AlertChannel = "huntguard:alerts"

// Message is the envelope every websocket frame carries.
type Message struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// Hub maintains the set of active connections and broadcasts messages.
// The first connect and last disconnect fire the presence hooks, which
// drive the simulator lifecycle.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex

	// OnFirstClient runs when the client count goes 0 -> 1,
	// OnLastClient when it goes 1 -> 0. Both run on the hub goroutine.
	OnFirstClient func()
	OnLastClient  func()
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub loop. Call in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mutex.Unlock()
			log.Printf("🔌 [REALTIME] Client connected (%d active)", count)
			if count == 1 && h.OnFirstClient != nil {
				h.OnFirstClient()
			}

		case client := <-h.unregister:
			h.mutex.Lock()
			count := len(h.clients)
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				count = len(h.clients)
			}
			h.mutex.Unlock()
			log.Printf("🔌 [REALTIME] Client disconnected (%d active)", count)
			if count == 0 && h.OnLastClient != nil {
				h.OnLastClient()
			}

		case message := <-h.broadcast:
			h.mutex.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Broadcast wraps a payload in the message envelope and fans it out.
func (h *Hub) Broadcast(messageType string, payload interface{}) {
	data, err := json.Marshal(Message{
		Type:      messageType,
		Payload:   payload,
		Timestamp: time.Now(),
	})
	if err != nil {
		log.Printf("❌ [REALTIME] Failed to marshal %s message: %v", messageType, err)
		return
	}

	select {
	case h.broadcast <- data:
	default:
		log.Printf("⚠️ [REALTIME] Broadcast buffer full, dropping %s message", messageType)
	}
}

// ConnectedClients returns the number of active connections.
func (h *Hub) ConnectedClients() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// SubscribeAlerts relays violation alerts published on redis to every
// connected client. Blocks until ctx is cancelled; call in a goroutine.
func (h *Hub) SubscribeAlerts(ctx context.Context, rdb *redis.Client) {
	pubsub := rdb.Subscribe(ctx, AlertChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			// Alerts arrive pre-enveloped from the notifier
			select {
			case h.broadcast <- []byte(msg.Payload):
			default:
			}
		}
	}
}
