package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nikhil/teamtask/internal/apperr"
	"github.com/nikhil/teamtask/internal/database"
	"github.com/nikhil/teamtask/internal/models"
)

type TeamStore struct {
	DB *sql.DB
}

func (s *TeamStore) CreateWithFounder(ctx context.Context, team *models.Team, founderID int64) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() // Will be ignored if transaction is committed

	query := `INSERT INTO teams (name, description) VALUES (?, ?)`
	result, err := tx.ExecContext(ctx, query, team.Name, team.Description)
	if err != nil {
		if database.IsDuplicateEntry(err) {
			return apperr.Conflict("team name is already taken")
		}
		return fmt.Errorf("insert team: %w", err)
	}

	teamID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("team id: %w", err)
	}

	query = `INSERT INTO team_users (team_id, user_id, status, role) VALUES (?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, query, teamID, founderID, models.StatusAccepted, models.RoleAdmin); err != nil {
		return fmt.Errorf("insert founder membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	team.ID = teamID
	return nil
}

func (s *TeamStore) GetByID(ctx context.Context, id int64) (*models.Team, error) {
	query := `SELECT id, name, description, created_at, updated_at FROM teams WHERE id = ?`

	var t models.Team
	var description sql.NullString
	err := s.DB.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Name, &description, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("team not found")
		}
		return nil, fmt.Errorf("scan team: %w", err)
	}
	t.Description = description.String
	return &t, nil
}

func (s *TeamStore) ListByUser(ctx context.Context, userID int64) ([]models.Team, error) {
	query := `
		SELECT t.id, t.name, t.description, t.created_at, t.updated_at
		FROM teams t
		JOIN team_users tu ON tu.team_id = t.id
		WHERE tu.user_id = ? AND tu.status = ?
		ORDER BY t.created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userID, models.StatusAccepted)
	if err != nil {
		return nil, fmt.Errorf("query teams: %w", err)
	}
	defer rows.Close()

	var teams []models.Team
	for rows.Next() {
		var t models.Team
		var description sql.NullString
		if err := rows.Scan(&t.ID, &t.Name, &description, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		t.Description = description.String
		teams = append(teams, t)
	}
	return teams, rows.Err()
}
