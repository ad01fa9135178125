package task

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/nikhil/teamtask/internal/apperr"
	"github.com/nikhil/teamtask/internal/middleware"
	"github.com/nikhil/teamtask/internal/models"
)

// CreateTaskRequest represents the request body for task creation.
type CreateTaskRequest struct {
	Title    string     `json:"title"`
	Content  string     `json:"content"`
	Deadline *time.Time `json:"deadline"`
	UserIDs  []int64    `json:"user_ids"`
}

// UpdateTaskRequest represents the request body for task updates. Absent
// fields are left unchanged.
type UpdateTaskRequest struct {
	Title    *string    `json:"title"`
	Content  *string    `json:"content"`
	Deadline *time.Time `json:"deadline"`
	Status   *string    `json:"status"`
	UserIDs  []int64    `json:"user_ids"`
}

// HandleCreateTask handles POST /api/v1/teams/{team_id}/tasks.
func (s *Service) HandleCreateTask(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	teamID, err := pathID(r, "team_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid team ID")
		return
	}

	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := s.Create(r.Context(), teamID, principal.UserID, CreateInput{
		Title:       req.Title,
		Content:     req.Content,
		Deadline:    req.Deadline,
		AssigneeIDs: req.UserIDs,
	})
	if err != nil {
		s.Log.Warn("Task creation rejected", "error", err, "team_id", teamID, "user_id", principal.UserID)
		respondWithError(w, apperr.Status(err), apperr.Message(err))
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

// HandleUpdateTask handles PUT /api/v1/teams/{team_id}/tasks/{id}.
func (s *Service) HandleUpdateTask(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	teamID, err := pathID(r, "team_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid team ID")
		return
	}
	taskID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid task ID")
		return
	}

	var req UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	input := UpdateInput{
		Title:       req.Title,
		Content:     req.Content,
		Deadline:    req.Deadline,
		AssigneeIDs: req.UserIDs,
	}
	if req.Status != nil {
		status := models.TaskStatus(*req.Status)
		input.Status = &status
	}

	updated, err := s.Update(r.Context(), teamID, principal.UserID, taskID, input)
	if err != nil {
		s.Log.Warn("Task update rejected", "error", err, "task_id", taskID, "user_id", principal.UserID)
		respondWithError(w, apperr.Status(err), apperr.Message(err))
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}

// HandleDeleteTask handles DELETE /api/v1/teams/{team_id}/tasks/{id}.
func (s *Service) HandleDeleteTask(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	teamID, err := pathID(r, "team_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid team ID")
		return
	}
	taskID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid task ID")
		return
	}

	if err := s.Delete(r.Context(), teamID, principal.UserID, taskID); err != nil {
		respondWithError(w, apperr.Status(err), apperr.Message(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleListTasks handles GET /api/v1/teams/{team_id}/tasks.
func (s *Service) HandleListTasks(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	teamID, err := pathID(r, "team_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid team ID")
		return
	}

	tasks, err := s.List(r.Context(), teamID, principal.UserID)
	if err != nil {
		respondWithError(w, apperr.Status(err), apperr.Message(err))
		return
	}
	if tasks == nil {
		tasks = []models.TaskWithAssignees{}
	}

	respondWithJSON(w, http.StatusOK, tasks)
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
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
