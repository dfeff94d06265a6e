// Package feed streams engine events to connected presentation clients over
// WebSocket. It is the notification collaborator: purely one-way, it never
// mutates engine state.
package feed

import (
	"context"
	"encoding/json"
	"log"

	"tapforge/internal/telemetry"
)

// Hub maintains the set of active clients and fans engine events out to
// them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	logger     *log.Logger
}

func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

// Publish queues an engine event for every connected client. Drops the
// event when nobody can keep up rather than blocking the engine.
func (h *Hub) Publish(e telemetry.Event) {
	b, err := json.Marshal(e)
	if err != nil {
		return
	}
	select {
	case h.broadcast <- b:
	default:
	}
}

// Run is the hub's event loop; run it in its own goroutine.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Send buffer full; assume the client hung up.
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}
