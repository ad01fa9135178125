package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nikhil/teamtask/internal/apperr"
	"github.com/nikhil/teamtask/internal/models"
)

type TaskStore struct {
	DB *sql.DB
}

func (s *TaskStore) Create(ctx context.Context, task *models.Task, assigneeIDs []int64) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() // Will be ignored if transaction is committed

	query := `INSERT INTO tasks (team_id, title, content, deadline, status) VALUES (?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, query, task.TeamID, task.Title, task.Content, task.Deadline, task.Status)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}

	taskID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("task id: %w", err)
	}

	if err := insertAssignments(ctx, tx, taskID, assigneeIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	task.ID = taskID
	return nil
}

func (s *TaskStore) GetByID(ctx context.Context, teamID, taskID int64) (*models.Task, error) {
	query := `SELECT id, team_id, title, content, deadline, status, created_at, updated_at FROM tasks WHERE id = ? AND team_id = ?`

	var t models.Task
	var content sql.NullString
	var deadline sql.NullTime
	err := s.DB.QueryRowContext(ctx, query, taskID, teamID).Scan(
		&t.ID, &t.TeamID, &t.Title, &content, &deadline, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("task not found")
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}
	t.Content = content.String
	if deadline.Valid {
		t.Deadline = &deadline.Time
	}
	return &t, nil
}

func (s *TaskStore) Update(ctx context.Context, task *models.Task, assigneeIDs []int64) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `UPDATE tasks SET title = ?, content = ?, deadline = ?, status = ? WHERE id = ? AND team_id = ?`
	result, err := tx.ExecContext(ctx, query, task.Title, task.Content, task.Deadline, task.Status, task.ID, task.TeamID)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if _, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("update task: %w", err)
	}

	// Full replacement of the assignment set, not a diff.
	if assigneeIDs != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM task_assignments WHERE task_id = ?`, task.ID); err != nil {
			return fmt.Errorf("clear assignments: %w", err)
		}
		if err := insertAssignments(ctx, tx, task.ID, assigneeIDs); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *TaskStore) Delete(ctx context.Context, teamID, taskID int64) error {
	// Assignment rows cascade with the task.
	result, err := s.DB.ExecContext(ctx, `DELETE FROM tasks WHERE id = ? AND team_id = ?`, taskID, teamID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if affected == 0 {
		return apperr.NotFound("task not found")
	}
	return nil
}

func (s *TaskStore) ListByTeam(ctx context.Context, teamID int64) ([]models.TaskWithAssignees, error) {
	query := `SELECT id, team_id, title, content, deadline, status, created_at, updated_at FROM tasks WHERE team_id = ? ORDER BY created_at DESC, id DESC`
	rows, err := s.DB.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.TaskWithAssignees
	var taskIDs []int64
	for rows.Next() {
		var t models.TaskWithAssignees
		var content sql.NullString
		var deadline sql.NullTime
		if err := rows.Scan(&t.ID, &t.TeamID, &t.Title, &content, &deadline, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t.Content = content.String
		if deadline.Valid {
			t.Deadline = &deadline.Time
		}
		t.Users = []models.TaskUser{}
		tasks = append(tasks, t)
		taskIDs = append(taskIDs, t.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.attachAssignees(ctx, tasks, taskIDs); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *TaskStore) ListUpcomingByUser(ctx context.Context, userID int64, from, until time.Time) ([]models.TaskWithAssignees, error) {
	query := `
		SELECT t.id, t.team_id, t.title, t.content, t.deadline, t.status, t.created_at, t.updated_at,
		       tm.id, tm.name, tm.description, tm.created_at, tm.updated_at
		FROM tasks t
		JOIN task_assignments ta ON ta.task_id = t.id
		JOIN teams tm ON tm.id = t.team_id
		WHERE ta.user_id = ? AND t.status IN (?, ?) AND t.deadline BETWEEN ? AND ?
		ORDER BY t.deadline ASC`
	rows, err := s.DB.QueryContext(ctx, query, userID, models.TaskTodo, models.TaskInProgress, from, until)
	if err != nil {
		return nil, fmt.Errorf("query upcoming tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.TaskWithAssignees
	var taskIDs []int64
	for rows.Next() {
		var t models.TaskWithAssignees
		var content, teamDescription sql.NullString
		var deadline sql.NullTime
		var team models.Team
		if err := rows.Scan(
			&t.ID, &t.TeamID, &t.Title, &content, &deadline, &t.Status, &t.CreatedAt, &t.UpdatedAt,
			&team.ID, &team.Name, &teamDescription, &team.CreatedAt, &team.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan upcoming task: %w", err)
		}
		t.Content = content.String
		if deadline.Valid {
			t.Deadline = &deadline.Time
		}
		team.Description = teamDescription.String
		t.Team = &team
		t.Users = []models.TaskUser{}
		tasks = append(tasks, t)
		taskIDs = append(taskIDs, t.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.attachAssignees(ctx, tasks, taskIDs); err != nil {
		return nil, err
	}
	return tasks, nil
}

// attachAssignees fills Users on each task from a single query over the
// given task ids.
func (s *TaskStore) attachAssignees(ctx context.Context, tasks []models.TaskWithAssignees, taskIDs []int64) error {
	if len(taskIDs) == 0 {
		return nil
	}

	placeholders := strings.Repeat("?,", len(taskIDs))
	placeholders = placeholders[:len(placeholders)-1]
	query := fmt.Sprintf(`
		SELECT ta.task_id, u.id, u.name
		FROM task_assignments ta
		JOIN users u ON u.id = ta.user_id
		WHERE ta.task_id IN (%s)
		ORDER BY ta.id`, placeholders)

	args := make([]interface{}, len(taskIDs))
	for i, id := range taskIDs {
		args[i] = id
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query assignments: %w", err)
	}
	defer rows.Close()

	byTask := make(map[int64][]models.TaskUser)
	for rows.Next() {
		var taskID int64
		var u models.TaskUser
		if err := rows.Scan(&taskID, &u.ID, &u.Name); err != nil {
			return fmt.Errorf("scan assignment: %w", err)
		}
		byTask[taskID] = append(byTask[taskID], u)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range tasks {
		if users, ok := byTask[tasks[i].ID]; ok {
			tasks[i].Users = users
		}
	}
	return nil
}

func insertAssignments(ctx context.Context, tx *sql.Tx, taskID int64, assigneeIDs []int64) error {
	query := `INSERT INTO task_assignments (task_id, user_id) VALUES (?, ?)`
	for _, userID := range assigneeIDs {
		if _, err := tx.ExecContext(ctx, query, taskID, userID); err != nil {
			return fmt.Errorf("insert assignment: %w", err)
		}
	}
	return nil
}
