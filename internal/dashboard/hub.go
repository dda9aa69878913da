// Package dashboard pushes todo changes to WebSocket clients.
//
// Clients connect to the hub's HTTP handler (mounted at /ws by the API
// server) and receive JSON messages whenever a todo is created, updated,
// deleted or toggled, and whenever the backing file changes on disk.
package dashboard

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/steveyegge/weekdo/internal/todos"
)

// MessageType defines the type of dashboard message
type MessageType string

const (
	// MessageTypeTodoUpdate indicates a todo was created, updated, deleted or toggled
	MessageTypeTodoUpdate MessageType = "todo_update"

	// MessageTypeStats carries collection statistics
	MessageTypeStats MessageType = "stats"

	// MessageTypeStoreChanged indicates the backing file changed on disk
	MessageTypeStoreChanged MessageType = "store_changed"
)

// Message is a dashboard broadcast message
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// broadcastBuffer is how many messages may queue before new ones are dropped.
const broadcastBuffer = 100

// writeTimeout bounds a single send to one client.
const writeTimeout = 5 * time.Second

// Config holds hub configuration
type Config struct {
	// Stats returns the statistics sent to newly connected clients.
	// When nil, new clients get a stats message without data.
	Stats func() todos.Stats

	// Logger for hub activity (default: stderr logger)
	Logger *log.Logger
}

// Hub manages WebSocket clients and broadcasts messages to them.
type Hub struct {
	clients   map[*websocket.Conn]bool
	clientsMu sync.RWMutex

	broadcast chan Message
	stats     func() todos.Stats

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *log.Logger
}

// NewHub creates a hub. Call Start before broadcasting.
func NewHub(config *Config) *Hub {
	if config == nil {
		config = &Config{}
	}
	logger := config.Logger
	if logger == nil {
		logger = log.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Hub{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan Message, broadcastBuffer),
		stats:     config.Stats,
		ctx:       ctx,
		cancel:    cancel,
		logger:    logger,
	}
}

// Start runs the broadcast loop in the background.
func (h *Hub) Start() {
	h.wg.Add(1)
	go h.broadcastLoop()
}

// Stop disconnects all clients and waits for the broadcast loop to exit.
func (h *Hub) Stop() {
	h.cancel()

	h.clientsMu.Lock()
	for conn := range h.clients {
		_ = conn.Close(websocket.StatusGoingAway, "Server shutting down")
		delete(h.clients, conn)
	}
	h.clientsMu.Unlock()

	h.wg.Wait()
}

// Broadcast queues msg for all clients. It never blocks; when the queue is
// full the message is dropped.
func (h *Hub) Broadcast(msg Message) {
	select {
	case <-h.ctx.Done():
		return
	default:
	}

	select {
	case h.broadcast <- msg:
	default:
		h.logger.Println("Warning: broadcast channel full, dropping message")
	}
}

// BroadcastData marshals data into a message of the given type and queues it.
func (h *Hub) BroadcastData(typ MessageType, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		h.logger.Printf("Failed to marshal %s data: %v", typ, err)
		return
	}
	h.Broadcast(Message{
		Type:      typ,
		Timestamp: time.Now(),
		Data:      raw,
	})
}

// broadcastLoop sends queued messages to every connected client
func (h *Hub) broadcastLoop() {
	defer h.wg.Done()

	for {
		select {
		case <-h.ctx.Done():
			return

		case msg := <-h.broadcast:
			if msg.Timestamp.IsZero() {
				msg.Timestamp = time.Now()
			}

			data, err := json.Marshal(msg)
			if err != nil {
				h.logger.Printf("Failed to marshal message: %v", err)
				continue
			}

			h.clientsMu.RLock()
			clients := make([]*websocket.Conn, 0, len(h.clients))
			for conn := range h.clients {
				clients = append(clients, conn)
			}
			h.clientsMu.RUnlock()

			for _, conn := range clients {
				ctx, cancel := context.WithTimeout(h.ctx, writeTimeout)
				err := conn.Write(ctx, websocket.MessageText, data)
				cancel()

				if err != nil {
					h.logger.Printf("Failed to send to client: %v", err)
					h.removeClient(conn)
				}
			}
		}
	}
}

// ServeHTTP upgrades the request to a WebSocket and registers the client.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.logger.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	h.clientsMu.Lock()
	h.clients[conn] = true
	clientCount := len(h.clients)
	h.clientsMu.Unlock()

	h.logger.Printf("Client connected (total: %d)", clientCount)

	welcome := Message{
		Type:      MessageTypeStats,
		Timestamp: time.Now(),
	}
	if h.stats != nil {
		if raw, err := json.Marshal(h.stats()); err == nil {
			welcome.Data = raw
		}
	}
	welcomeData, _ := json.Marshal(welcome)
	ctx, cancel := context.WithTimeout(h.ctx, writeTimeout)
	_ = conn.Write(ctx, websocket.MessageText, welcomeData)
	cancel()

	go h.readLoop(conn)
}

// readLoop keeps the connection open until the client goes away.
// Client messages are ignored.
func (h *Hub) readLoop(conn *websocket.Conn) {
	defer h.removeClient(conn)

	for {
		if _, _, err := conn.Read(h.ctx); err != nil {
			return
		}
	}
}

func (h *Hub) removeClient(conn *websocket.Conn) {
	h.clientsMu.Lock()
	if _, exists := h.clients[conn]; !exists {
		h.clientsMu.Unlock()
		return
	}
	delete(h.clients, conn)
	clientCount := len(h.clients)
	h.clientsMu.Unlock()

	_ = conn.Close(websocket.StatusNormalClosure, "")
	h.logger.Printf("Client disconnected (total: %d)", clientCount)
}

// ClientCount returns the current number of connected clients
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}
