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

type MembershipStore struct {
	DB *sql.DB
}

func (s *MembershipStore) Create(ctx context.Context, m *models.Membership) error {
	query := `INSERT INTO team_users (team_id, user_id, status, role) VALUES (?, ?, ?, ?)`
	result, err := s.DB.ExecContext(ctx, query, m.TeamID, m.UserID, m.Status, m.Role)
	if err != nil {
		if database.IsDuplicateEntry(err) {
			return apperr.Conflict("user is already a member or has a pending invitation")
		}
		return fmt.Errorf("insert membership: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("membership id: %w", err)
	}
	m.ID = id
	return nil
}

func (s *MembershipStore) GetByID(ctx context.Context, id int64) (*models.Membership, error) {
	query := `SELECT id, team_id, user_id, status, role, created_at, updated_at FROM team_users WHERE id = ?`
	return s.scanMembership(s.DB.QueryRowContext(ctx, query, id))
}

func (s *MembershipStore) Get(ctx context.Context, teamID, userID int64) (*models.Membership, error) {
	query := `SELECT id, team_id, user_id, status, role, created_at, updated_at FROM team_users WHERE team_id = ? AND user_id = ?`
	return s.scanMembership(s.DB.QueryRowContext(ctx, query, teamID, userID))
}

func (s *MembershipStore) UpdateStatus(ctx context.Context, id int64, status models.MembershipStatus) error {
	query := `UPDATE team_users SET status = ? WHERE id = ?`
	result, err := s.DB.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update membership status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update membership status: %w", err)
	}
	if affected == 0 {
		return apperr.NotFound("invitation not found")
	}
	return nil
}

func (s *MembershipStore) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM team_users WHERE id = ?`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete membership: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete membership: %w", err)
	}
	if affected == 0 {
		return apperr.NotFound("invitation not found")
	}
	return nil
}

func (s *MembershipStore) ListMembers(ctx context.Context, teamID int64) ([]models.Member, error) {
	query := `
		SELECT u.id, u.name, u.email, tu.id, tu.role
		FROM team_users tu
		JOIN users u ON u.id = tu.user_id
		WHERE tu.team_id = ? AND tu.status = ?
		ORDER BY tu.id`
	rows, err := s.DB.QueryContext(ctx, query, teamID, models.StatusAccepted)
	if err != nil {
		return nil, fmt.Errorf("query members: %w", err)
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.TeamUserID, &m.Role); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *MembershipStore) ListPendingByUser(ctx context.Context, userID int64) ([]models.Invitation, error) {
	query := `
		SELECT tu.id, t.id, t.name, t.description, t.created_at, t.updated_at
		FROM team_users tu
		JOIN teams t ON t.id = tu.team_id
		WHERE tu.user_id = ? AND tu.status = ?
		ORDER BY tu.id DESC`
	rows, err := s.DB.QueryContext(ctx, query, userID, models.StatusInviting)
	if err != nil {
		return nil, fmt.Errorf("query pending invitations: %w", err)
	}
	defer rows.Close()

	var invitations []models.Invitation
	for rows.Next() {
		var inv models.Invitation
		var description sql.NullString
		if err := rows.Scan(&inv.InvitationID, &inv.Team.ID, &inv.Team.Name, &description, &inv.Team.CreatedAt, &inv.Team.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan invitation: %w", err)
		}
		inv.Team.Description = description.String
		invitations = append(invitations, inv)
	}
	return invitations, rows.Err()
}

func (s *MembershipStore) scanMembership(row *sql.Row) (*models.Membership, error) {
	var m models.Membership
	err := row.Scan(&m.ID, &m.TeamID, &m.UserID, &m.Status, &m.Role, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("membership not found")
		}
		return nil, fmt.Errorf("scan membership: %w", err)
	}
	return &m, nil
}
