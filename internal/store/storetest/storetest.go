// Package storetest provides in-memory store implementations for service
// tests. They mirror the MySQL stores' error semantics: not-found and
// conflict come back as domain errors, uniqueness is enforced the way the
// schema's unique keys would.
package storetest

import (
	"context"
	"sync"
	"time"

	"github.com/nikhil/teamtask/internal/apperr"
	"github.com/nikhil/teamtask/internal/models"
)

// DB is a shared in-memory database. The per-entity stores are views
// over it, so joins behave like the real schema.
type DB struct {
	mu sync.Mutex

	users       map[int64]*models.User
	teams       map[int64]*models.Team
	memberships map[int64]*models.Membership
	tasks       map[int64]*models.Task
	assignments map[int64][]int64 // task id -> assignee user ids, insertion order
	messages    []*models.Message

	nextID int64
	clock  time.Time
}

func New() *DB {
	return &DB{
		users:       make(map[int64]*models.User),
		teams:       make(map[int64]*models.Team),
		memberships: make(map[int64]*models.Membership),
		tasks:       make(map[int64]*models.Task),
		assignments: make(map[int64][]int64),
		clock:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (d *DB) id() int64 {
	d.nextID++
	return d.nextID
}

// tick returns a strictly increasing timestamp, standing in for commit
// order.
func (d *DB) tick() time.Time {
	d.clock = d.clock.Add(time.Millisecond)
	return d.clock
}

// SeedUser inserts a user directly.
func (d *DB) SeedUser(name, email string) *models.User {
	d.mu.Lock()
	defer d.mu.Unlock()
	u := &models.User{ID: d.id(), Name: name, Email: email, CreatedAt: d.tick(), UpdatedAt: d.clock}
	d.users[u.ID] = u
	return u
}

// SeedTeam inserts a team directly, without a founder membership.
func (d *DB) SeedTeam(name string) *models.Team {
	d.mu.Lock()
	defer d.mu.Unlock()
	t := &models.Team{ID: d.id(), Name: name, CreatedAt: d.tick(), UpdatedAt: d.clock}
	d.teams[t.ID] = t
	return t
}

// SeedMembership inserts a membership directly.
func (d *DB) SeedMembership(teamID, userID int64, status models.MembershipStatus, role models.MembershipRole) *models.Membership {
	d.mu.Lock()
	defer d.mu.Unlock()
	m := &models.Membership{ID: d.id(), TeamID: teamID, UserID: userID, Status: status, Role: role, CreatedAt: d.tick(), UpdatedAt: d.clock}
	d.memberships[m.ID] = m
	return m
}

func (d *DB) Users() *Users             { return &Users{db: d} }
func (d *DB) Teams() *Teams             { return &Teams{db: d} }
func (d *DB) Memberships() *Memberships { return &Memberships{db: d} }
func (d *DB) Tasks() *Tasks             { return &Tasks{db: d} }
func (d *DB) Messages() *Messages       { return &Messages{db: d} }

// Users implements store.UserStore.
type Users struct{ db *DB }

func (s *Users) Create(ctx context.Context, user *models.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, u := range s.db.users {
		if u.Email == user.Email {
			return apperr.Conflict("email is already registered")
		}
	}
	user.ID = s.db.id()
	user.CreatedAt = s.db.tick()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	s.db.users[user.ID] = &cp
	return nil
}

func (s *Users) GetByID(ctx context.Context, id int64) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u, ok := s.db.users[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	cp := *u
	return &cp, nil
}

func (s *Users) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, u := range s.db.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("user not found")
}

func (s *Users) Update(ctx context.Context, user *models.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.users[user.ID]; !ok {
		return apperr.NotFound("user not found")
	}
	for _, u := range s.db.users {
		if u.ID != user.ID && u.Email == user.Email {
			return apperr.Conflict("email is already registered")
		}
	}
	cp := *user
	cp.UpdatedAt = s.db.tick()
	s.db.users[user.ID] = &cp
	return nil
}

func (s *Users) List(ctx context.Context) ([]models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var users []models.User
	for id := int64(1); id <= s.db.nextID; id++ {
		if u, ok := s.db.users[id]; ok {
			users = append(users, *u)
		}
	}
	return users, nil
}

// Teams implements store.TeamStore.
type Teams struct{ db *DB }

func (s *Teams) CreateWithFounder(ctx context.Context, team *models.Team, founderID int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, t := range s.db.teams {
		if t.Name == team.Name {
			return apperr.Conflict("team name is already taken")
		}
	}
	team.ID = s.db.id()
	team.CreatedAt = s.db.tick()
	team.UpdatedAt = team.CreatedAt
	cp := *team
	s.db.teams[team.ID] = &cp

	m := &models.Membership{
		ID:        s.db.id(),
		TeamID:    team.ID,
		UserID:    founderID,
		Status:    models.StatusAccepted,
		Role:      models.RoleAdmin,
		CreatedAt: s.db.clock,
		UpdatedAt: s.db.clock,
	}
	s.db.memberships[m.ID] = m
	return nil
}

func (s *Teams) GetByID(ctx context.Context, id int64) (*models.Team, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	t, ok := s.db.teams[id]
	if !ok {
		return nil, apperr.NotFound("team not found")
	}
	cp := *t
	return &cp, nil
}

func (s *Teams) ListByUser(ctx context.Context, userID int64) ([]models.Team, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var teams []models.Team
	for _, m := range s.db.memberships {
		if m.UserID == userID && m.Status == models.StatusAccepted {
			if t, ok := s.db.teams[m.TeamID]; ok {
				teams = append(teams, *t)
			}
		}
	}
	return teams, nil
}

// Memberships implements store.MembershipStore.
type Memberships struct{ db *DB }

func (s *Memberships) Create(ctx context.Context, m *models.Membership) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, existing := range s.db.memberships {
		if existing.TeamID == m.TeamID && existing.UserID == m.UserID {
			return apperr.Conflict("user is already a member or has a pending invitation")
		}
	}
	m.ID = s.db.id()
	m.CreatedAt = s.db.tick()
	m.UpdatedAt = m.CreatedAt
	cp := *m
	s.db.memberships[m.ID] = &cp
	return nil
}

func (s *Memberships) GetByID(ctx context.Context, id int64) (*models.Membership, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	m, ok := s.db.memberships[id]
	if !ok {
		return nil, apperr.NotFound("membership not found")
	}
	cp := *m
	return &cp, nil
}

func (s *Memberships) Get(ctx context.Context, teamID, userID int64) (*models.Membership, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, m := range s.db.memberships {
		if m.TeamID == teamID && m.UserID == userID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("membership not found")
}

func (s *Memberships) UpdateStatus(ctx context.Context, id int64, status models.MembershipStatus) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	m, ok := s.db.memberships[id]
	if !ok {
		return apperr.NotFound("invitation not found")
	}
	m.Status = status
	m.UpdatedAt = s.db.tick()
	return nil
}

func (s *Memberships) Delete(ctx context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.memberships[id]; !ok {
		return apperr.NotFound("invitation not found")
	}
	delete(s.db.memberships, id)
	return nil
}

func (s *Memberships) ListMembers(ctx context.Context, teamID int64) ([]models.Member, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var members []models.Member
	for id := int64(1); id <= s.db.nextID; id++ {
		m, ok := s.db.memberships[id]
		if !ok || m.TeamID != teamID || m.Status != models.StatusAccepted {
			continue
		}
		u, ok := s.db.users[m.UserID]
		if !ok {
			continue
		}
		members = append(members, models.Member{
			ID:         u.ID,
			Name:       u.Name,
			Email:      u.Email,
			TeamUserID: m.ID,
			Role:       m.Role,
		})
	}
	return members, nil
}

func (s *Memberships) ListPendingByUser(ctx context.Context, userID int64) ([]models.Invitation, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var invitations []models.Invitation
	for id := s.db.nextID; id >= 1; id-- {
		m, ok := s.db.memberships[id]
		if !ok || m.UserID != userID || m.Status != models.StatusInviting {
			continue
		}
		t, ok := s.db.teams[m.TeamID]
		if !ok {
			continue
		}
		invitations = append(invitations, models.Invitation{InvitationID: m.ID, Team: *t})
	}
	return invitations, nil
}

// Tasks implements store.TaskStore.
type Tasks struct{ db *DB }

func (s *Tasks) Create(ctx context.Context, task *models.Task, assigneeIDs []int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	task.ID = s.db.id()
	task.CreatedAt = s.db.tick()
	task.UpdatedAt = task.CreatedAt
	cp := *task
	s.db.tasks[task.ID] = &cp
	s.db.assignments[task.ID] = append([]int64(nil), assigneeIDs...)
	return nil
}

func (s *Tasks) GetByID(ctx context.Context, teamID, taskID int64) (*models.Task, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	t, ok := s.db.tasks[taskID]
	if !ok || t.TeamID != teamID {
		return nil, apperr.NotFound("task not found")
	}
	cp := *t
	return &cp, nil
}

func (s *Tasks) Update(ctx context.Context, task *models.Task, assigneeIDs []int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	existing, ok := s.db.tasks[task.ID]
	if !ok || existing.TeamID != task.TeamID {
		return apperr.NotFound("task not found")
	}
	cp := *task
	cp.UpdatedAt = s.db.tick()
	s.db.tasks[task.ID] = &cp
	if assigneeIDs != nil {
		s.db.assignments[task.ID] = append([]int64(nil), assigneeIDs...)
	}
	return nil
}

func (s *Tasks) Delete(ctx context.Context, teamID, taskID int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	t, ok := s.db.tasks[taskID]
	if !ok || t.TeamID != teamID {
		return apperr.NotFound("task not found")
	}
	delete(s.db.tasks, taskID)
	delete(s.db.assignments, taskID)
	return nil
}

func (s *Tasks) ListByTeam(ctx context.Context, teamID int64) ([]models.TaskWithAssignees, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var tasks []models.TaskWithAssignees
	for id := s.db.nextID; id >= 1; id-- {
		t, ok := s.db.tasks[id]
		if !ok || t.TeamID != teamID {
			continue
		}
		tasks = append(tasks, s.withAssignees(t, false))
	}
	return tasks, nil
}

func (s *Tasks) ListUpcomingByUser(ctx context.Context, userID int64, from, until time.Time) ([]models.TaskWithAssignees, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var tasks []models.TaskWithAssignees
	for id := int64(1); id <= s.db.nextID; id++ {
		t, ok := s.db.tasks[id]
		if !ok || t.Status == models.TaskDone || t.Deadline == nil {
			continue
		}
		if t.Deadline.Before(from) || t.Deadline.After(until) {
			continue
		}
		assigned := false
		for _, uid := range s.db.assignments[t.ID] {
			if uid == userID {
				assigned = true
				break
			}
		}
		if !assigned {
			continue
		}
		tasks = append(tasks, s.withAssignees(t, true))
	}
	// Earliest deadline first.
	for i := 0; i < len(tasks); i++ {
		for j := i + 1; j < len(tasks); j++ {
			if tasks[j].Deadline.Before(*tasks[i].Deadline) {
				tasks[i], tasks[j] = tasks[j], tasks[i]
			}
		}
	}
	return tasks, nil
}

func (s *Tasks) withAssignees(t *models.Task, withTeam bool) models.TaskWithAssignees {
	out := models.TaskWithAssignees{Task: *t, Users: []models.TaskUser{}}
	for _, uid := range s.db.assignments[t.ID] {
		if u, ok := s.db.users[uid]; ok {
			out.Users = append(out.Users, models.TaskUser{ID: u.ID, Name: u.Name})
		}
	}
	if withTeam {
		if team, ok := s.db.teams[t.TeamID]; ok {
			cp := *team
			out.Team = &cp
		}
	}
	return out
}

// Messages implements store.MessageStore.
type Messages struct{ db *DB }

func (s *Messages) Create(ctx context.Context, m *models.Message) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	m.ID = s.db.id()
	m.CreatedAt = s.db.tick()
	cp := *m
	s.db.messages = append(s.db.messages, &cp)
	return nil
}

func (s *Messages) ListByTeam(ctx context.Context, teamID int64, limit int) ([]models.MessagePayload, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var messages []models.MessagePayload
	for i := len(s.db.messages) - 1; i >= 0 && len(messages) < limit; i-- {
		m := s.db.messages[i]
		if m.TeamID != teamID {
			continue
		}
		u := s.db.users[m.UserID]
		payload := models.MessagePayload{ID: m.ID, Content: m.Content, CreatedAt: m.CreatedAt}
		if u != nil {
			payload.User = models.MessageUser{ID: u.ID, Name: u.Name}
		}
		messages = append(messages, payload)
	}
	return messages, nil
}
