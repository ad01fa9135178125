package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nikhil/teamtask/internal/middleware"
)

func registerTeamRoutes(router *mux.Router, s Services) {
	teams := router.PathPrefix("/api/v1/teams").Subrouter()
	teams.Use(s.Middleware.Authenticate, middleware.ResponseWrapper)

	teams.HandleFunc("", s.Teams.HandleCreateTeam).Methods(http.MethodPost)
	teams.HandleFunc("", s.Teams.HandleListTeams).Methods(http.MethodGet)
	teams.HandleFunc("/{id}", s.Teams.HandleGetTeam).Methods(http.MethodGet)

	teams.HandleFunc("/{team_id}/members", s.Teams.HandleInviteMember).Methods(http.MethodPost)
	teams.HandleFunc("/{team_id}/members", s.Teams.HandleListMembers).Methods(http.MethodGet)
	teams.HandleFunc("/{team_id}/members/{id}", s.Teams.HandleRemoveMember).Methods(http.MethodDelete)

	teams.HandleFunc("/{team_id}/tasks", s.Tasks.HandleListTasks).Methods(http.MethodGet)
	teams.HandleFunc("/{team_id}/tasks", s.Tasks.HandleCreateTask).Methods(http.MethodPost)
	teams.HandleFunc("/{team_id}/tasks/{id}", s.Tasks.HandleUpdateTask).Methods(http.MethodPut)
	teams.HandleFunc("/{team_id}/tasks/{id}", s.Tasks.HandleDeleteTask).Methods(http.MethodDelete)

	teams.HandleFunc("/{team_id}/messages", s.Messages.HandleListMessages).Methods(http.MethodGet)
	teams.HandleFunc("/{team_id}/messages", s.Messages.HandleCreateMessage).Methods(http.MethodPost)
}
