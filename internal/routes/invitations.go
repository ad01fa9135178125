package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nikhil/teamtask/internal/middleware"
)

func registerInvitationRoutes(router *mux.Router, s Services) {
	invitations := router.PathPrefix("/api/v1/invitations").Subrouter()
	invitations.Use(s.Middleware.Authenticate, middleware.ResponseWrapper)
	invitations.HandleFunc("/{id}/accept", s.Teams.HandleAcceptInvitation).Methods(http.MethodPatch)
	invitations.HandleFunc("/{id}/reject", s.Teams.HandleRejectInvitation).Methods(http.MethodDelete)
}
