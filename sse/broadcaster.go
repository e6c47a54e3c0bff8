package sse

// Broadcaster is an interface for broadcasting events to clients.
// This allows handlers to depend on an abstraction rather than a concrete Hub.
type Broadcaster interface {
	// Broadcast sends an event to all clients whose ID matches pattern.
	Broadcast(pattern, event string, data []byte)
}
