// Package dashboard aggregates the caller's pending invitations and
// upcoming tasks into a single read.
package dashboard

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/nikhil/teamtask/internal/apperr"
	"github.com/nikhil/teamtask/internal/logger"
	"github.com/nikhil/teamtask/internal/middleware"
	"github.com/nikhil/teamtask/internal/models"
	"github.com/nikhil/teamtask/internal/service/task"
	"github.com/nikhil/teamtask/internal/service/team"
)

// UpcomingWindow is how far ahead the dashboard looks for task deadlines.
const UpcomingWindow = 3 * 24 * time.Hour

type Service struct {
	Teams *team.Service
	Tasks *task.Service
	Log   *logger.Logger
}

func NewService(teams *team.Service, tasks *task.Service) *Service {
	return &Service{
		Teams: teams,
		Tasks: tasks,
		Log:   logger.NewLogger("dashboard-service"),
	}
}

// Response is the dashboard payload.
type Response struct {
	PendingInvitations []models.Invitation        `json:"pending_invitations"`
	UpcomingTasks      []models.TaskWithAssignees `json:"upcoming_tasks"`
}

// HandleIndex handles GET /api/v1/dashboard.
func (s *Service) HandleIndex(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	invitations, err := s.Teams.ListPendingInvitations(r.Context(), principal.UserID)
	if err != nil {
		s.Log.Error("Failed to list pending invitations", "error", err, "user_id", principal.UserID)
		respondWithError(w, apperr.Status(err), apperr.Message(err))
		return
	}

	now := time.Now()
	tasks, err := s.Tasks.ListUpcoming(r.Context(), principal.UserID, now, now.Add(UpcomingWindow))
	if err != nil {
		s.Log.Error("Failed to list upcoming tasks", "error", err, "user_id", principal.UserID)
		respondWithError(w, apperr.Status(err), apperr.Message(err))
		return
	}

	resp := Response{
		PendingInvitations: invitations,
		UpcomingTasks:      tasks,
	}
	if resp.PendingInvitations == nil {
		resp.PendingInvitations = []models.Invitation{}
	}
	if resp.UpcomingTasks == nil {
		resp.UpcomingTasks = []models.TaskWithAssignees{}
	}

	respondWithJSON(w, http.StatusOK, resp)
}

// Helper functions for HTTP responses.
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshaling JSON: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
