// Package auth owns credential issuance: signup, login, and bearer token
// mint/verify. The core treats users as read-only reference data.
package auth

import (
	"context"
	"strings"

	"github.com/nikhil/teamtask/internal/apperr"
	"github.com/nikhil/teamtask/internal/logger"
	"github.com/nikhil/teamtask/internal/models"
	"github.com/nikhil/teamtask/internal/store"
)

type Service struct {
	Users  store.UserStore
	Tokens *Tokens
	Log    *logger.Logger
}

func NewService(users store.UserStore, tokens *Tokens) *Service {
	return &Service{
		Users:  users,
		Tokens: tokens,
		Log:    logger.NewLogger("auth-service"),
	}
}

// Signup registers a user and returns it with a fresh token.
func (s *Service) Signup(ctx context.Context, name, email, password string) (*models.User, string, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return nil, "", apperr.Validation("name is required")
	}
	if email == "" {
		return nil, "", apperr.Validation("email is required")
	}
	if password == "" {
		return nil, "", apperr.Validation("password is required")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{Name: name, Email: email, PasswordHash: hash}
	if err := s.Users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.Tokens.Generate(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}

	s.Log.Info("User registered", "user_id", user.ID)
	return user, token, nil
}

// Login authenticates by email and password and returns a fresh token.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, "", apperr.Authentication("invalid email or password")
		}
		return nil, "", err
	}

	if err := CheckPassword(user.PasswordHash, password); err != nil {
		return nil, "", apperr.Authentication("invalid email or password")
	}

	token, err := s.Tokens.Generate(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}

	s.Log.Info("User logged in", "user_id", user.ID)
	return user, token, nil
}
