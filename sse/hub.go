package sse

import (
	"path/filepath"
	"sync"

	"github.com/kbukum/opgate/logger"
)

const defaultClientBuffer = 256

// Frame is one SSE event queued for a client.
type Frame struct {
	Event string
	Data  []byte
}

// Client represents a connected SSE client.
type Client struct {
	id        string            // Unique client ID, "{topic}:{uuid}"
	metadata  map[string]string // Optional metadata (request_id, remote_addr)
	frames    chan Frame
	closeOnce sync.Once
}

// ClientOption configures a Client.
type ClientOption func(*clientOptions)

type clientOptions struct {
	metadata map[string]string
	buffer   int
}

// WithMetadata adds a metadata key-value pair to the client.
func WithMetadata(key, value string) ClientOption {
	return func(o *clientOptions) {
		if o.metadata == nil {
			o.metadata = make(map[string]string)
		}
		o.metadata[key] = value
	}
}

// WithRequestID records the request that opened the stream.
func WithRequestID(id string) ClientOption {
	return WithMetadata("request_id", id)
}

// WithRemoteAddr records the peer address.
func WithRemoteAddr(addr string) ClientOption {
	return WithMetadata("remote_addr", addr)
}

// WithBuffer sets how many frames may queue before the client is considered slow.
func WithBuffer(n int) ClientOption {
	return func(o *clientOptions) {
		if n > 0 {
			o.buffer = n
		}
	}
}

// NewClient creates a new SSE client with optional metadata.
func NewClient(id string, opts ...ClientOption) *Client {
	o := &clientOptions{buffer: defaultClientBuffer}
	for _, opt := range opts {
		opt(o)
	}
	if o.metadata == nil {
		o.metadata = make(map[string]string)
	}
	return &Client{
		id:       id,
		metadata: o.metadata,
		frames:   make(chan Frame, o.buffer),
	}
}

// ID returns the client's unique identifier.
func (c *Client) ID() string {
	return c.id
}

// Metadata returns all client metadata.
func (c *Client) Metadata() map[string]string {
	return c.metadata
}

// GetMetadata returns a specific metadata value.
func (c *Client) GetMetadata(key string) string {
	return c.metadata[key]
}

// Frames returns the channel of queued frames. It is closed when the
// client is unregistered or the hub stops.
func (c *Client) Frames() <-chan Frame {
	return c.frames
}

// Send queues a frame for the client.
// Returns false if the buffer is full (client is slow).
func (c *Client) Send(f Frame) bool {
	select {
	case c.frames <- f:
		return true
	default:
		logger.Warn("[SSE] Client buffer full, dropping frame", map[string]interface{}{
			"client_id": c.id,
			"event":     f.Event,
		})
		return false
	}
}

// Close closes the client's frame channel. Safe to call multiple times.
func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.frames) })
}

// Message represents a frame to broadcast.
type Message struct {
	Pattern string // Glob pattern for matching client IDs
	Event   string
	Data    []byte
}

// Hub manages SSE client connections and message broadcasting.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
	done       chan struct{}
	stopped    bool
	mu         sync.RWMutex // Protects clients and stopped
	log        *logger.Logger
}

// NewHub creates a new SSE hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 256),
		done:       make(chan struct{}),
		log:        logger.WithComponent("sse"),
	}
}

// Run starts the hub's main event loop.
// It blocks until Stop is called and should be run in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.closeAllClients()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.id] = client
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Debug("Client registered", map[string]interface{}{
				"client_id":     client.id,
				"total_clients": total,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.id]; ok {
				delete(h.clients, client.id)
				client.Close()
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Debug("Client unregistered", map[string]interface{}{
				"client_id":     client.id,
				"total_clients": total,
			})

		case msg := <-h.broadcast:
			h.broadcastWithPattern(msg)
		}
	}
}

// Stop signals the hub to shut down. It closes all client connections
// and causes Run to return. Safe to call multiple times.
func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.stopped {
		h.stopped = true
		close(h.done)
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, client := range h.clients {
		client.Close()
		delete(h.clients, id)
	}
	h.log.Debug("All clients closed during shutdown")
}

// Register adds a client to the hub. A client registered after Stop is
// closed immediately.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.Close()
	}
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast queues a frame for every client whose ID matches pattern.
// Pattern uses glob-style matching (e.g., "records:*"). It never blocks:
// when the queue is full or the hub has stopped the frame is dropped.
func (h *Hub) Broadcast(pattern, event string, data []byte) {
	select {
	case <-h.done:
		return
	default:
	}
	select {
	case h.broadcast <- &Message{Pattern: pattern, Event: event, Data: data}:
	default:
		h.log.Warn("Broadcast queue full, dropping frame", map[string]interface{}{
			"pattern": pattern,
			"event":   event,
		})
	}
}

// broadcastWithPattern runs on the hub goroutine.
func (h *Hub) broadcastWithPattern(msg *Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	matchCount := 0
	for clientID, client := range h.clients {
		matched, err := filepath.Match(msg.Pattern, clientID)
		if err != nil {
			h.log.Error("Pattern match error", map[string]interface{}{
				"pattern": msg.Pattern,
				"error":   err.Error(),
			})
			return
		}
		if matched && client.Send(Frame{Event: msg.Event, Data: msg.Data}) {
			matchCount++
		}
	}

	h.log.Debug("Broadcast sent", map[string]interface{}{
		"pattern":     msg.Pattern,
		"event":       msg.Event,
		"match_count": matchCount,
		"data_size":   len(msg.Data),
	})
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ClientIDs returns the IDs of all connected clients.
func (h *Hub) ClientIDs() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	return ids
}

// Client returns a client by ID, or nil if not found.
func (h *Hub) Client(id string) *Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clients[id]
}

// Ensure Hub implements Broadcaster.
var _ Broadcaster = (*Hub)(nil)
