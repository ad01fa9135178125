package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"

	"github.com/nikhil/teamtask/internal/hub"
	"github.com/nikhil/teamtask/internal/logger"
	"github.com/nikhil/teamtask/internal/middleware"
	"github.com/nikhil/teamtask/internal/service/message"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // In production, replace with proper origin checking
	},
}

// WebSocketHandler upgrades authenticated connections and subscribes them
// to a team's message stream.
type WebSocketHandler struct {
	Hub      *hub.Hub
	Messages *message.Service
	Log      *logger.Logger
}

func NewWebSocketHandler(h *hub.Hub, messages *message.Service) *WebSocketHandler {
	return &WebSocketHandler{
		Hub:      h,
		Messages: messages,
		Log:      logger.NewLogger("websocket-handler"),
	}
}

// HandleWebSocket handles GET /ws?team_id=...&token=... . The token is
// verified by the middleware before this runs; a failed verification
// refuses the handshake with 401 and no subscription happens.
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	teamID, err := strconv.ParseInt(r.URL.Query().Get("team_id"), 10, 64)
	if err != nil {
		http.Error(w, "Team ID is required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Log.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := hub.NewClient(h.Hub, conn, principal.UserID, teamID)
	h.Hub.Register(client)

	go client.WritePump()
	go client.ReadPump(h.onInbound)
}

// onInbound persists an inbound chat frame; the message service publishes
// it back through the hub after commit. Errors only end up in the log: a
// rejected frame is dropped, the connection stays up.
func (h *WebSocketHandler) onInbound(ctx context.Context, c *hub.Client, content string) {
	if _, err := h.Messages.Create(ctx, c.TeamID, c.UserID, content); err != nil {
		h.Log.Warn("Inbound message rejected", "error", err, "team_id", c.TeamID, "user_id", c.UserID)
	}
}
