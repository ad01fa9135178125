package message

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/nikhil/teamtask/internal/apperr"
	"github.com/nikhil/teamtask/internal/middleware"
	"github.com/nikhil/teamtask/internal/models"
)

// SendMessageRequest represents the request body for message creation.
type SendMessageRequest struct {
	Content string `json:"content"`
}

// HandleCreateMessage handles POST /api/v1/teams/{team_id}/messages.
func (s *Service) HandleCreateMessage(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	teamID, err := strconv.ParseInt(mux.Vars(r)["team_id"], 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid team ID")
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	payload, err := s.Create(r.Context(), teamID, principal.UserID, req.Content)
	if err != nil {
		s.Log.Warn("Message rejected", "error", err, "team_id", teamID, "user_id", principal.UserID)
		respondWithError(w, apperr.Status(err), apperr.Message(err))
		return
	}

	respondWithJSON(w, http.StatusCreated, payload)
}

// HandleListMessages handles GET /api/v1/teams/{team_id}/messages.
func (s *Service) HandleListMessages(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	teamID, err := strconv.ParseInt(mux.Vars(r)["team_id"], 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid team ID")
		return
	}

	messages, err := s.History(r.Context(), teamID, principal.UserID)
	if err != nil {
		respondWithError(w, apperr.Status(err), apperr.Message(err))
		return
	}
	if messages == nil {
		messages = []models.MessagePayload{}
	}

	respondWithJSON(w, http.StatusOK, messages)
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
