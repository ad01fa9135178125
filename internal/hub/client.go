package hub

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period.
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound frame size allowed.
	maxMessageSize = 4096

	// Outbound queue capacity per connection.
	sendQueueSize = 256
)

// Client is one live websocket subscription. The principal's user id is
// fixed at connect time for the connection's lifetime; the token is not
// re-validated mid-session.
type Client struct {
	ID     string
	UserID int64
	TeamID int64

	// The websocket connection.
	Conn *websocket.Conn

	// Buffered channel of outbound messages.
	Send chan []byte

	hub *Hub
}

func NewClient(h *Hub, conn *websocket.Conn, userID, teamID int64) *Client {
	return &Client{
		ID:     uuid.NewString(),
		UserID: userID,
		TeamID: teamID,
		Conn:   conn,
		Send:   make(chan []byte, sendQueueSize),
		hub:    h,
	}
}

// InboundFrame is the shape clients send over the socket.
type InboundFrame struct {
	Content string `json:"content"`
}

// InboundFunc handles a chat frame received from the client.
type InboundFunc func(ctx context.Context, c *Client, content string)

// ReadPump pumps inbound frames from the websocket connection to the
// handler. It deregisters the client when the connection drops, before
// further publishes can target it.
func (c *Client) ReadPump(onInbound InboundFunc) {
	defer func() {
		c.hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			break
		}

		var frame InboundFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			continue
		}
		if frame.Content == "" {
			continue
		}

		if onInbound != nil {
			onInbound(context.Background(), c, frame.Content)
		}
	}
}

// WritePump pumps messages from the hub to the websocket connection and
// keeps the connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the queue.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
