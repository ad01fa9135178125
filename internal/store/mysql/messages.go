package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nikhil/teamtask/internal/apperr"
	"github.com/nikhil/teamtask/internal/models"
)

type MessageStore struct {
	DB *sql.DB
}

func (s *MessageStore) Create(ctx context.Context, m *models.Message) error {
	query := `INSERT INTO messages (team_id, user_id, content) VALUES (?, ?, ?)`
	result, err := s.DB.ExecContext(ctx, query, m.TeamID, m.UserID, m.Content)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("message id: %w", err)
	}
	m.ID = id

	// Read back the committed timestamp so the broadcast payload carries
	// the same ordering key as later history reads.
	row := s.DB.QueryRowContext(ctx, `SELECT created_at FROM messages WHERE id = ?`, id)
	if err := row.Scan(&m.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("message not found")
		}
		return fmt.Errorf("scan message timestamp: %w", err)
	}
	return nil
}

func (s *MessageStore) ListByTeam(ctx context.Context, teamID int64, limit int) ([]models.MessagePayload, error) {
	query := `
		SELECT m.id, m.content, m.created_at, u.id, u.name
		FROM messages m
		JOIN users u ON u.id = m.user_id
		WHERE m.team_id = ?
		ORDER BY m.created_at DESC, m.id DESC
		LIMIT ?`
	rows, err := s.DB.QueryContext(ctx, query, teamID, limit)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var messages []models.MessagePayload
	for rows.Next() {
		var m models.MessagePayload
		if err := rows.Scan(&m.ID, &m.Content, &m.CreatedAt, &m.User.ID, &m.User.Name); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
