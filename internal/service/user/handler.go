// Package user exposes the credential and profile endpoints: signup,
// login, user listing for the invite flow, and profile show/update.
package user

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/nikhil/teamtask/internal/apperr"
	"github.com/nikhil/teamtask/internal/auth"
	"github.com/nikhil/teamtask/internal/logger"
	"github.com/nikhil/teamtask/internal/middleware"
	"github.com/nikhil/teamtask/internal/models"
	"github.com/nikhil/teamtask/internal/store"
)

type Service struct {
	Users store.UserStore
	Auth  *auth.Service
	Log   *logger.Logger
}

func NewService(users store.UserStore, authService *auth.Service) *Service {
	return &Service{
		Users: users,
		Auth:  authService,
		Log:   logger.NewLogger("user-service"),
	}
}

// SignupRequest represents the request body for user registration.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the request body for authentication.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest represents the request body for profile updates.
// An empty password leaves the current one in place.
type UpdateProfileRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleSignup handles POST /api/v1/users.
func (s *Service) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := s.Auth.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.Log.Warn("Signup rejected", "error", err)
		respondWithError(w, apperr.Status(err), apperr.Message(err))
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{"token": token, "user": user})
}

// HandleLogin handles POST /api/v1/login.
func (s *Service) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := s.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondWithError(w, apperr.Status(err), apperr.Message(err))
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"token": token, "user": user})
}

// HandleListUsers handles GET /api/v1/users. Used by the invite flow to
// pick an invitee.
func (s *Service) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.Users.List(r.Context())
	if err != nil {
		s.Log.Error("Failed to list users", "error", err)
		respondWithError(w, apperr.Status(err), apperr.Message(err))
		return
	}
	if users == nil {
		users = []models.User{}
	}

	respondWithJSON(w, http.StatusOK, users)
}

// HandleGetProfile handles GET /api/v1/profile.
func (s *Service) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	user, err := s.Users.GetByID(r.Context(), principal.UserID)
	if err != nil {
		respondWithError(w, apperr.Status(err), apperr.Message(err))
		return
	}

	respondWithJSON(w, http.StatusOK, user)
}

// HandleUpdateProfile handles PUT /api/v1/profile.
func (s *Service) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := s.Users.GetByID(r.Context(), principal.UserID)
	if err != nil {
		respondWithError(w, apperr.Status(err), apperr.Message(err))
		return
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		user.Name = name
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		user.Email = email
	}
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		user.PasswordHash = hash
	}

	if err := s.Users.Update(r.Context(), user); err != nil {
		respondWithError(w, apperr.Status(err), apperr.Message(err))
		return
	}

	s.Log.Info("Profile updated", "user_id", user.ID)
	respondWithJSON(w, http.StatusOK, user)
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
