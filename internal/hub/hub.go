// Package hub fans persisted chat messages out to live per-team websocket
// subscribers. All registry mutation happens inside the Run loop, so
// registration, teardown and publishing never race.
package hub

import (
	"context"

	"github.com/nikhil/teamtask/internal/logger"
)

// Event carries one committed message payload addressed to a team.
type Event struct {
	TeamID  int64
	Payload []byte
}

// Hub maintains the set of active clients grouped by team and broadcasts
// committed messages to them in publish order.
type Hub struct {
	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Committed messages awaiting fan-out, in commit order.
	broadcast chan Event

	// Registered clients.
	clients map[*Client]bool

	// Team-based message routing.
	teams map[int64]map[*Client]bool

	log *logger.Logger
}

// New creates a Hub. Call Run before registering clients or publishing.
func New() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Event, 256),
		clients:    make(map[*Client]bool),
		teams:      make(map[int64]map[*Client]bool),
		log:        logger.NewLogger("hub"),
	}
}

// Run owns the subscription registry until ctx is cancelled. Clients that
// cannot keep up with their send queue are dropped rather than stalling
// delivery to other subscribers.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.drop(client)
			}
			return

		case client := <-h.register:
			h.clients[client] = true
			if _, exists := h.teams[client.TeamID]; !exists {
				h.teams[client.TeamID] = make(map[*Client]bool)
			}
			h.teams[client.TeamID][client] = true
			h.log.Debug("Client registered", "client_id", client.ID, "team_id", client.TeamID, "user_id", client.UserID)

		case client := <-h.unregister:
			h.drop(client)

		case event := <-h.broadcast:
			for client := range h.teams[event.TeamID] {
				select {
				case client.Send <- event.Payload:
				default:
					h.log.Warn("Dropping slow client", "client_id", client.ID, "team_id", client.TeamID)
					h.drop(client)
				}
			}
		}
	}
}

// Register subscribes the client to its team's stream.
func (h *Hub) Register(c *Client) {
	h.register <- c
}

// Unregister removes the client from its group. Safe to call concurrently
// with in-flight publishes to the same team, and more than once per client.
func (h *Hub) Unregister(c *Client) {
	h.unregister <- c
}

// Publish delivers the payload to every live subscriber of the team. It is
// invoked synchronously after the message row is committed, so subscribers
// see messages in commit order.
func (h *Hub) Publish(teamID int64, payload []byte) {
	h.broadcast <- Event{TeamID: teamID, Payload: payload}
}

// drop removes the client from both indexes and closes its send queue.
// Only the Run loop calls this.
func (h *Hub) drop(c *Client) {
	if !h.clients[c] {
		return
	}
	delete(h.clients, c)
	if team, exists := h.teams[c.TeamID]; exists {
		delete(team, c)
		if len(team) == 0 {
			delete(h.teams, c.TeamID)
		}
	}
	close(c.Send)
}
