package models

import "time"

// Message is an immutable chat message scoped to a team. Ordering is by
// (created_at, id) in persistence commit order.
type Message struct {
	ID        int64     `json:"id"`
	TeamID    int64     `json:"team_id"`
	UserID    int64     `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageUser is the compact sender representation in message payloads.
type MessageUser struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// MessagePayload is the boundary shape for history responses and live
// broadcast frames.
type MessagePayload struct {
	ID        int64       `json:"id"`
	Content   string      `json:"content"`
	User      MessageUser `json:"user"`
	CreatedAt time.Time   `json:"created_at"`
}
