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

type UserStore struct {
	DB *sql.DB
}

func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (name, email, password_hash) VALUES (?, ?, ?)`
	result, err := s.DB.ExecContext(ctx, query, user.Name, user.Email, user.PasswordHash)
	if err != nil {
		if database.IsDuplicateEntry(err) {
			return apperr.Conflict("email is already registered")
		}
		return fmt.Errorf("insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("user id: %w", err)
	}
	user.ID = id
	return nil
}

func (s *UserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT id, name, email, password_hash, created_at, updated_at FROM users WHERE id = ?`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, id))
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT id, name, email, password_hash, created_at, updated_at FROM users WHERE email = ?`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, email))
}

func (s *UserStore) Update(ctx context.Context, user *models.User) error {
	query := `UPDATE users SET name = ?, email = ?, password_hash = ? WHERE id = ?`
	result, err := s.DB.ExecContext(ctx, query, user.Name, user.Email, user.PasswordHash, user.ID)
	if err != nil {
		if database.IsDuplicateEntry(err) {
			return apperr.Conflict("email is already registered")
		}
		return fmt.Errorf("update user: %w", err)
	}

	if _, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	query := `SELECT id, name, email, created_at, updated_at FROM users ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *UserStore) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}
