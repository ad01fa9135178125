package routes

import (
	"net/http"

	"github.com/gorilla/mux"
)

func registerWebSocketRoutes(router *mux.Router, s Services) {
	// Token travels as a query parameter; browsers cannot set headers on
	// websocket handshakes.
	router.Handle("/ws", s.Middleware.AuthenticateWebSocket(http.HandlerFunc(s.WebSocket.HandleWebSocket))).Methods(http.MethodGet)
}
