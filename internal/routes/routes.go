// Package routes registers all HTTP and websocket routes on a mux router.
package routes

import (
	"github.com/gorilla/mux"

	"github.com/nikhil/teamtask/internal/handlers"
	"github.com/nikhil/teamtask/internal/middleware"
	"github.com/nikhil/teamtask/internal/service/dashboard"
	"github.com/nikhil/teamtask/internal/service/message"
	"github.com/nikhil/teamtask/internal/service/task"
	"github.com/nikhil/teamtask/internal/service/team"
	"github.com/nikhil/teamtask/internal/service/user"
)

// Services bundles everything the routes need.
type Services struct {
	Middleware *middleware.Middleware
	Users      *user.Service
	Teams      *team.Service
	Tasks      *task.Service
	Messages   *message.Service
	Dashboard  *dashboard.Service
	WebSocket  *handlers.WebSocketHandler
}

// RegisterAllRoutes builds the router for the whole API.
func RegisterAllRoutes(s Services) *mux.Router {
	router := mux.NewRouter()

	registerAuthRoutes(router, s)
	registerTeamRoutes(router, s)
	registerInvitationRoutes(router, s)
	registerDashboardRoutes(router, s)
	registerWebSocketRoutes(router, s)

	return router
}
