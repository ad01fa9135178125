package team

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/nikhil/teamtask/internal/apperr"
	"github.com/nikhil/teamtask/internal/middleware"
)

// CreateTeamRequest represents the request body for team creation.
type CreateTeamRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// InviteRequest represents the request body for inviting a user.
type InviteRequest struct {
	UserID int64 `json:"user_id"`
}

// HandleCreateTeam handles POST /api/v1/teams.
func (s *Service) HandleCreateTeam(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	var req CreateTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	team, err := s.CreateTeam(r.Context(), principal.UserID, req.Name, req.Description)
	if err != nil {
		s.Log.Error("Failed to create team", "error", err, "user_id", principal.UserID)
		respondWithError(w, apperr.Status(err), apperr.Message(err))
		return
	}

	respondWithJSON(w, http.StatusCreated, team)
}

// HandleListTeams handles GET /api/v1/teams.
func (s *Service) HandleListTeams(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	teams, err := s.ListTeams(r.Context(), principal.UserID)
	if err != nil {
		s.Log.Error("Failed to list teams", "error", err, "user_id", principal.UserID)
		respondWithError(w, apperr.Status(err), apperr.Message(err))
		return
	}

	respondWithJSON(w, http.StatusOK, teams)
}

// HandleGetTeam handles GET /api/v1/teams/{id}.
func (s *Service) HandleGetTeam(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	teamID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid team ID")
		return
	}

	team, err := s.GetTeam(r.Context(), teamID, principal.UserID)
	if err != nil {
		respondWithError(w, apperr.Status(err), apperr.Message(err))
		return
	}

	respondWithJSON(w, http.StatusOK, team)
}

// HandleInviteMember handles POST /api/v1/teams/{team_id}/members.
func (s *Service) HandleInviteMember(w http.ResponseWriter, r *http.Request) {
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

	var req InviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	invitation, err := s.Invite(r.Context(), teamID, principal.UserID, req.UserID)
	if err != nil {
		s.Log.Warn("Invite rejected", "error", err, "team_id", teamID, "inviter_id", principal.UserID)
		respondWithError(w, apperr.Status(err), apperr.Message(err))
		return
	}

	respondWithJSON(w, http.StatusCreated, invitation)
}

// HandleListMembers handles GET /api/v1/teams/{team_id}/members.
func (s *Service) HandleListMembers(w http.ResponseWriter, r *http.Request) {
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

	members, err := s.ListMembers(r.Context(), teamID, principal.UserID)
	if err != nil {
		respondWithError(w, apperr.Status(err), apperr.Message(err))
		return
	}

	respondWithJSON(w, http.StatusOK, members)
}

// HandleRemoveMember handles DELETE /api/v1/teams/{team_id}/members/{id}.
func (s *Service) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
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
	membershipID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid membership ID")
		return
	}

	if err := s.RemoveMember(r.Context(), teamID, principal.UserID, membershipID); err != nil {
		s.Log.Warn("Member removal rejected", "error", err, "team_id", teamID, "user_id", principal.UserID)
		respondWithError(w, apperr.Status(err), apperr.Message(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleAcceptInvitation handles PATCH /api/v1/invitations/{id}/accept.
func (s *Service) HandleAcceptInvitation(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	invitationID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid invitation ID")
		return
	}

	team, err := s.Accept(r.Context(), invitationID, principal.UserID)
	if err != nil {
		respondWithError(w, apperr.Status(err), apperr.Message(err))
		return
	}

	respondWithJSON(w, http.StatusOK, team)
}

// HandleRejectInvitation handles DELETE /api/v1/invitations/{id}/reject.
func (s *Service) HandleRejectInvitation(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	invitationID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid invitation ID")
		return
	}

	if err := s.Reject(r.Context(), invitationID, principal.UserID); err != nil {
		respondWithError(w, apperr.Status(err), apperr.Message(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
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
