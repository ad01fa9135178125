// Package task owns task CRUD and assignee validation. Every task keeps a
// non-empty assignee set drawn from the team's accepted members.
package task

import (
	"context"
	"strings"
	"time"

	"github.com/nikhil/teamtask/internal/apperr"
	"github.com/nikhil/teamtask/internal/guard"
	"github.com/nikhil/teamtask/internal/logger"
	"github.com/nikhil/teamtask/internal/models"
	"github.com/nikhil/teamtask/internal/store"
)

// Service is the task assignment engine.
type Service struct {
	Tasks store.TaskStore
	Guard *guard.Guard
	Log   *logger.Logger
}

func NewService(tasks store.TaskStore, g *guard.Guard) *Service {
	return &Service{
		Tasks: tasks,
		Guard: g,
		Log:   logger.NewLogger("task-service"),
	}
}

// CreateInput is the validated input for task creation.
type CreateInput struct {
	Title       string
	Content     string
	Deadline    *time.Time
	AssigneeIDs []int64
}

// UpdateInput is a patch; nil fields are left unchanged. A non-nil
// AssigneeIDs replaces the full assignment set.
type UpdateInput struct {
	Title       *string
	Content     *string
	Deadline    *time.Time
	Status      *models.TaskStatus
	AssigneeIDs []int64
}

// Create persists the task in status todo together with one assignment per
// validated assignee.
func (s *Service) Create(ctx context.Context, teamID, callerID int64, input CreateInput) (*models.TaskWithAssignees, error) {
	ok, err := s.Guard.IsMember(ctx, teamID, callerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.Forbidden("you are not a member of this team")
	}

	if strings.TrimSpace(input.Title) == "" {
		return nil, apperr.Validation("title is required")
	}
	if err := s.validateAssignees(ctx, teamID, input.AssigneeIDs); err != nil {
		return nil, err
	}

	task := &models.Task{
		TeamID:   teamID,
		Title:    input.Title,
		Content:  input.Content,
		Deadline: input.Deadline,
		Status:   models.TaskTodo,
	}
	if err := s.Tasks.Create(ctx, task, input.AssigneeIDs); err != nil {
		return nil, err
	}

	s.Log.Info("Task created", "task_id", task.ID, "team_id", teamID, "user_id", callerID)
	return s.withAssignees(ctx, teamID, task.ID)
}

// Update applies the patch. Status may move to any valid value; the engine
// imposes no forward-only ordering.
func (s *Service) Update(ctx context.Context, teamID, callerID, taskID int64, input UpdateInput) (*models.TaskWithAssignees, error) {
	ok, err := s.Guard.IsMember(ctx, teamID, callerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.Forbidden("you are not a member of this team")
	}

	task, err := s.Tasks.GetByID(ctx, teamID, taskID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, apperr.Validation("title is required")
		}
		task.Title = *input.Title
	}
	if input.Content != nil {
		task.Content = *input.Content
	}
	if input.Deadline != nil {
		task.Deadline = input.Deadline
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, apperr.Validation("invalid task status")
		}
		task.Status = *input.Status
	}
	if input.AssigneeIDs != nil {
		if err := s.validateAssignees(ctx, teamID, input.AssigneeIDs); err != nil {
			return nil, err
		}
	}

	if err := s.Tasks.Update(ctx, task, input.AssigneeIDs); err != nil {
		return nil, err
	}

	s.Log.Info("Task updated", "task_id", taskID, "team_id", teamID, "user_id", callerID)
	return s.withAssignees(ctx, teamID, taskID)
}

// Delete removes the task; its assignments cascade with it.
func (s *Service) Delete(ctx context.Context, teamID, callerID, taskID int64) error {
	ok, err := s.Guard.IsMember(ctx, teamID, callerID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Forbidden("you are not a member of this team")
	}

	if err := s.Tasks.Delete(ctx, teamID, taskID); err != nil {
		return err
	}

	s.Log.Info("Task deleted", "task_id", taskID, "team_id", teamID, "user_id", callerID)
	return nil
}

// List returns the team's tasks with their assignees.
func (s *Service) List(ctx context.Context, teamID, callerID int64) ([]models.TaskWithAssignees, error) {
	ok, err := s.Guard.IsMember(ctx, teamID, callerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.Forbidden("you are not a member of this team")
	}
	return s.Tasks.ListByTeam(ctx, teamID)
}

// ListUpcoming returns the caller's unfinished tasks due inside the window.
func (s *Service) ListUpcoming(ctx context.Context, userID int64, from, until time.Time) ([]models.TaskWithAssignees, error) {
	return s.Tasks.ListUpcomingByUser(ctx, userID, from, until)
}

// validateAssignees requires a non-empty, pairwise distinct set of users
// holding an accepted membership in the team.
func (s *Service) validateAssignees(ctx context.Context, teamID int64, assigneeIDs []int64) error {
	if len(assigneeIDs) == 0 {
		return apperr.Validation("at least one assignee is required")
	}

	seen := make(map[int64]bool, len(assigneeIDs))
	for _, userID := range assigneeIDs {
		if seen[userID] {
			return apperr.Validation("duplicate assignee")
		}
		seen[userID] = true

		ok, err := s.Guard.IsMember(ctx, teamID, userID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Validation("assignee must be a team member")
		}
	}
	return nil
}

func (s *Service) withAssignees(ctx context.Context, teamID, taskID int64) (*models.TaskWithAssignees, error) {
	tasks, err := s.Tasks.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		if tasks[i].ID == taskID {
			return &tasks[i], nil
		}
	}
	return nil, apperr.NotFound("task not found")
}
