// Package message owns chat message creation and history. Creation is an
// explicit two-step sequence: persist the row, then publish to the hub on
// the same call path, so live subscribers see commit order.
package message

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/nikhil/teamtask/internal/apperr"
	"github.com/nikhil/teamtask/internal/guard"
	"github.com/nikhil/teamtask/internal/logger"
	"github.com/nikhil/teamtask/internal/models"
	"github.com/nikhil/teamtask/internal/store"
)

// HistoryLimit caps the number of messages returned per history read,
// newest first.
const HistoryLimit = 50

// Publisher fans a committed message payload out to a team's live
// subscribers. Satisfied by the broadcast hub.
type Publisher interface {
	Publish(teamID int64, payload []byte)
}

type Service struct {
	Messages store.MessageStore
	Users    store.UserStore
	Guard    *guard.Guard
	Hub      Publisher
	Log      *logger.Logger
}

func NewService(messages store.MessageStore, users store.UserStore, g *guard.Guard, hub Publisher) *Service {
	return &Service{
		Messages: messages,
		Users:    users,
		Guard:    g,
		Hub:      hub,
		Log:      logger.NewLogger("message-service"),
	}
}

// Create persists the message and then publishes it to the team's live
// subscribers. The hub is notified strictly after the row is committed.
func (s *Service) Create(ctx context.Context, teamID, userID int64, content string) (*models.MessagePayload, error) {
	ok, err := s.Guard.IsMember(ctx, teamID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.Forbidden("you are not a member of this team")
	}

	if strings.TrimSpace(content) == "" {
		return nil, apperr.Validation("content is required")
	}

	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	msg := &models.Message{TeamID: teamID, UserID: userID, Content: content}
	if err := s.Messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	payload := &models.MessagePayload{
		ID:        msg.ID,
		Content:   msg.Content,
		User:      models.MessageUser{ID: user.ID, Name: user.Name},
		CreatedAt: msg.CreatedAt,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	s.Hub.Publish(teamID, data)

	s.Log.Debug("Message published", "message_id", msg.ID, "team_id", teamID, "user_id", userID)
	return payload, nil
}

// History returns the newest messages first; callers reverse for
// chronological display.
func (s *Service) History(ctx context.Context, teamID, callerID int64) ([]models.MessagePayload, error) {
	ok, err := s.Guard.IsMember(ctx, teamID, callerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.Forbidden("you are not a member of this team")
	}
	return s.Messages.ListByTeam(ctx, teamID, HistoryLimit)
}
