package models

import "time"

// TaskStatus is the workboard state of a task. The engine accepts any
// direct transition between valid states; forward-only progression is a
// client convention.
type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "inprogress"
	TaskDone       TaskStatus = "done"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskDone:
		return true
	}
	return false
}

// Task is owned by its team. Every task has at least one assignee.
type Task struct {
	ID        int64      `json:"id"`
	TeamID    int64      `json:"team_id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Deadline  *time.Time `json:"deadline"`
	Status    TaskStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TaskUser is the compact assignee representation in task payloads.
type TaskUser struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TaskWithAssignees is a task joined with its assignees, and with its team
// on dashboard listings.
type TaskWithAssignees struct {
	Task
	Users []TaskUser `json:"users"`
	Team  *Team      `json:"team,omitempty"`
}
