// Package store defines persistence interfaces for the domain entities.
// The MySQL implementations live in store/mysql; storetest carries
// in-memory fakes for service tests.
package store

import (
	"context"
	"time"

	"github.com/nikhil/teamtask/internal/models"
)

// UserStore persists users.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context) ([]models.User, error)
}

// TeamStore persists teams.
type TeamStore interface {
	// CreateWithFounder inserts the team and its founder membership
	// (accepted, admin) in a single transaction, so no team ever exists
	// without its founding admin.
	CreateWithFounder(ctx context.Context, team *models.Team, founderID int64) error
	GetByID(ctx context.Context, id int64) (*models.Team, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Team, error)
}

// MembershipStore persists team memberships. The (team_id, user_id) pair
// is unique at the storage boundary; Create surfaces races as conflicts.
type MembershipStore interface {
	Create(ctx context.Context, m *models.Membership) error
	GetByID(ctx context.Context, id int64) (*models.Membership, error)
	Get(ctx context.Context, teamID, userID int64) (*models.Membership, error)
	UpdateStatus(ctx context.Context, id int64, status models.MembershipStatus) error
	Delete(ctx context.Context, id int64) error
	ListMembers(ctx context.Context, teamID int64) ([]models.Member, error)
	ListPendingByUser(ctx context.Context, userID int64) ([]models.Invitation, error)
}

// TaskStore persists tasks and their assignments.
type TaskStore interface {
	// Create inserts the task and one assignment row per assignee in a
	// single transaction.
	Create(ctx context.Context, task *models.Task, assigneeIDs []int64) error
	GetByID(ctx context.Context, teamID, taskID int64) (*models.Task, error)
	// Update writes the task row; when assigneeIDs is non-nil the full
	// assignment set is replaced in the same transaction.
	Update(ctx context.Context, task *models.Task, assigneeIDs []int64) error
	Delete(ctx context.Context, teamID, taskID int64) error
	ListByTeam(ctx context.Context, teamID int64) ([]models.TaskWithAssignees, error)
	// ListUpcomingByUser returns unfinished tasks assigned to the user
	// with a deadline inside [from, until], earliest deadline first.
	ListUpcomingByUser(ctx context.Context, userID int64, from, until time.Time) ([]models.TaskWithAssignees, error)
}

// MessageStore persists chat messages.
type MessageStore interface {
	Create(ctx context.Context, m *models.Message) error
	// ListByTeam returns the newest messages first, at most limit rows.
	ListByTeam(ctx context.Context, teamID int64, limit int) ([]models.MessagePayload, error)
}
