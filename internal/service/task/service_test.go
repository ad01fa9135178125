package task_test

import (
	"context"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/nikhil/teamtask/internal/apperr"
	"github.com/nikhil/teamtask/internal/guard"
	"github.com/nikhil/teamtask/internal/models"
	"github.com/nikhil/teamtask/internal/service/task"
	"github.com/nikhil/teamtask/internal/store/storetest"
)

type fixture struct {
	db     *storetest.DB
	svc    *task.Service
	teamID int64
	alice  *models.User // accepted admin
	bob    *models.User // accepted member
	carol  *models.User // pending invitation
	dave   *models.User // no relationship
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := storetest.New()
	f := &fixture{
		db:     db,
		svc:    task.NewService(db.Tasks(), guard.New(db.Memberships())),
		teamID: db.SeedTeam("platform").ID,
		alice:  db.SeedUser("alice", "alice@example.com"),
		bob:    db.SeedUser("bob", "bob@example.com"),
		carol:  db.SeedUser("carol", "carol@example.com"),
		dave:   db.SeedUser("dave", "dave@example.com"),
	}
	db.SeedMembership(f.teamID, f.alice.ID, models.StatusAccepted, models.RoleAdmin)
	db.SeedMembership(f.teamID, f.bob.ID, models.StatusAccepted, models.RoleMember)
	db.SeedMembership(f.teamID, f.carol.ID, models.StatusInviting, models.RoleMember)
	return f
}

func TestCreateTask(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	f := newFixture(t)

	deadline := time.Now().Add(48 * time.Hour)
	created, err := f.svc.Create(ctx, f.teamID, f.bob.ID, task.CreateInput{
		Title:       "ship the release",
		Content:     "cut the tag and publish",
		Deadline:    &deadline,
		AssigneeIDs: []int64{f.alice.ID, f.bob.ID},
	})
	is.NoErr(err)
	is.True(created.ID != 0)
	is.Equal(created.Status, models.TaskTodo) // tasks always start in todo
	is.Equal(len(created.Users), 2)

	listed, err := f.svc.List(ctx, f.teamID, f.alice.ID)
	is.NoErr(err)
	is.Equal(len(listed), 1)
	is.Equal(listed[0].Title, "ship the release")
}

func TestCreateTaskValidation(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Create(ctx, f.teamID, f.alice.ID, task.CreateInput{
		Title:       "  ",
		AssigneeIDs: []int64{f.alice.ID},
	})
	is.Equal(apperr.KindOf(err), apperr.KindValidation)

	_, err = f.svc.Create(ctx, f.teamID, f.alice.ID, task.CreateInput{
		Title: "no assignees",
	})
	is.Equal(apperr.KindOf(err), apperr.KindValidation)

	_, err = f.svc.Create(ctx, f.teamID, f.alice.ID, task.CreateInput{
		Title:       "duplicate assignee",
		AssigneeIDs: []int64{f.bob.ID, f.bob.ID},
	})
	is.Equal(apperr.KindOf(err), apperr.KindValidation)

	// Nothing was persisted by the failed attempts.
	listed, err := f.svc.List(ctx, f.teamID, f.alice.ID)
	is.NoErr(err)
	is.Equal(len(listed), 0)
}

func TestCreateTaskAssigneesMustBeMembers(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	f := newFixture(t)

	// An outsider is not assignable.
	_, err := f.svc.Create(ctx, f.teamID, f.alice.ID, task.CreateInput{
		Title:       "review",
		AssigneeIDs: []int64{f.bob.ID, f.dave.ID},
	})
	is.Equal(apperr.KindOf(err), apperr.KindValidation)

	// Neither is a user with only a pending invitation.
	_, err = f.svc.Create(ctx, f.teamID, f.alice.ID, task.CreateInput{
		Title:       "review",
		AssigneeIDs: []int64{f.carol.ID},
	})
	is.Equal(apperr.KindOf(err), apperr.KindValidation)

	listed, err := f.svc.List(ctx, f.teamID, f.alice.ID)
	is.NoErr(err)
	is.Equal(len(listed), 0)
}

func TestCreateTaskRequiresMembership(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Create(ctx, f.teamID, f.dave.ID, task.CreateInput{
		Title:       "sneaky",
		AssigneeIDs: []int64{f.alice.ID},
	})
	is.Equal(apperr.KindOf(err), apperr.KindForbidden)

	_, err = f.svc.Create(ctx, f.teamID, f.carol.ID, task.CreateInput{
		Title:       "still pending",
		AssigneeIDs: []int64{f.alice.ID},
	})
	is.Equal(apperr.KindOf(err), apperr.KindForbidden)
}

func TestUpdateTaskPatchAndStatus(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.svc.Create(ctx, f.teamID, f.alice.ID, task.CreateInput{
		Title:       "write docs",
		AssigneeIDs: []int64{f.alice.ID},
	})
	is.NoErr(err)

	// Status moves in any direction between valid values.
	for _, status := range []models.TaskStatus{models.TaskDone, models.TaskInProgress, models.TaskTodo} {
		s := status
		updated, err := f.svc.Update(ctx, f.teamID, f.bob.ID, created.ID, task.UpdateInput{Status: &s})
		is.NoErr(err)
		is.Equal(updated.Status, s)
	}

	bogus := models.TaskStatus("archived")
	_, err = f.svc.Update(ctx, f.teamID, f.bob.ID, created.ID, task.UpdateInput{Status: &bogus})
	is.Equal(apperr.KindOf(err), apperr.KindValidation)

	// Untouched fields keep their values.
	title := "write better docs"
	updated, err := f.svc.Update(ctx, f.teamID, f.alice.ID, created.ID, task.UpdateInput{Title: &title})
	is.NoErr(err)
	is.Equal(updated.Title, "write better docs")
	is.Equal(updated.Status, models.TaskTodo)
	is.Equal(len(updated.Users), 1)
}

func TestUpdateTaskReplacesAssignments(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.svc.Create(ctx, f.teamID, f.alice.ID, task.CreateInput{
		Title:       "rotate pager",
		AssigneeIDs: []int64{f.alice.ID},
	})
	is.NoErr(err)

	// A nil set leaves the assignments alone.
	content := "weekly rotation"
	updated, err := f.svc.Update(ctx, f.teamID, f.alice.ID, created.ID, task.UpdateInput{Content: &content})
	is.NoErr(err)
	is.Equal(len(updated.Users), 1)
	is.Equal(updated.Users[0].ID, f.alice.ID)

	// A non-nil set replaces the whole assignment set.
	updated, err = f.svc.Update(ctx, f.teamID, f.alice.ID, created.ID, task.UpdateInput{AssigneeIDs: []int64{f.bob.ID}})
	is.NoErr(err)
	is.Equal(len(updated.Users), 1)
	is.Equal(updated.Users[0].ID, f.bob.ID)

	// An empty non-nil set would leave the task unassigned; rejected.
	_, err = f.svc.Update(ctx, f.teamID, f.alice.ID, created.ID, task.UpdateInput{AssigneeIDs: []int64{}})
	is.Equal(apperr.KindOf(err), apperr.KindValidation)

	_, err = f.svc.Update(ctx, f.teamID, f.alice.ID, created.ID, task.UpdateInput{AssigneeIDs: []int64{f.dave.ID}})
	is.Equal(apperr.KindOf(err), apperr.KindValidation)

	// The failed updates left the previous set in place.
	listed, err := f.svc.List(ctx, f.teamID, f.alice.ID)
	is.NoErr(err)
	is.Equal(len(listed[0].Users), 1)
	is.Equal(listed[0].Users[0].ID, f.bob.ID)
}

func TestDeleteTask(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.svc.Create(ctx, f.teamID, f.alice.ID, task.CreateInput{
		Title:       "clean up",
		AssigneeIDs: []int64{f.bob.ID},
	})
	is.NoErr(err)

	err = f.svc.Delete(ctx, f.teamID, f.dave.ID, created.ID)
	is.Equal(apperr.KindOf(err), apperr.KindForbidden)

	err = f.svc.Delete(ctx, f.teamID, f.bob.ID, created.ID)
	is.NoErr(err)

	err = f.svc.Delete(ctx, f.teamID, f.bob.ID, created.ID)
	is.Equal(apperr.KindOf(err), apperr.KindNotFound)
}

func TestTasksAreScopedToTheirTeam(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	f := newFixture(t)

	otherTeam := int64(2)
	f.db.SeedMembership(otherTeam, f.dave.ID, models.StatusAccepted, models.RoleAdmin)

	created, err := f.svc.Create(ctx, f.teamID, f.alice.ID, task.CreateInput{
		Title:       "internal",
		AssigneeIDs: []int64{f.alice.ID},
	})
	is.NoErr(err)

	// Another team's member cannot see or touch it through their team.
	listed, err := f.svc.List(ctx, otherTeam, f.dave.ID)
	is.NoErr(err)
	is.Equal(len(listed), 0)

	status := models.TaskDone
	_, err = f.svc.Update(ctx, otherTeam, f.dave.ID, created.ID, task.UpdateInput{Status: &status})
	is.Equal(apperr.KindOf(err), apperr.KindNotFound)

	err = f.svc.Delete(ctx, otherTeam, f.dave.ID, created.ID)
	is.Equal(apperr.KindOf(err), apperr.KindNotFound)
}

func TestListUpcoming(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	f := newFixture(t)

	now := time.Now()
	soon := now.Add(24 * time.Hour)
	sooner := now.Add(2 * time.Hour)
	far := now.Add(14 * 24 * time.Hour)

	_, err := f.svc.Create(ctx, f.teamID, f.alice.ID, task.CreateInput{
		Title: "due tomorrow", Deadline: &soon, AssigneeIDs: []int64{f.alice.ID},
	})
	is.NoErr(err)
	_, err = f.svc.Create(ctx, f.teamID, f.alice.ID, task.CreateInput{
		Title: "due shortly", Deadline: &sooner, AssigneeIDs: []int64{f.alice.ID, f.bob.ID},
	})
	is.NoErr(err)
	_, err = f.svc.Create(ctx, f.teamID, f.alice.ID, task.CreateInput{
		Title: "due in two weeks", Deadline: &far, AssigneeIDs: []int64{f.alice.ID},
	})
	is.NoErr(err)
	_, err = f.svc.Create(ctx, f.teamID, f.alice.ID, task.CreateInput{
		Title: "no deadline", AssigneeIDs: []int64{f.alice.ID},
	})
	is.NoErr(err)
	done, err := f.svc.Create(ctx, f.teamID, f.alice.ID, task.CreateInput{
		Title: "already done", Deadline: &sooner, AssigneeIDs: []int64{f.alice.ID},
	})
	is.NoErr(err)
	status := models.TaskDone
	_, err = f.svc.Update(ctx, f.teamID, f.alice.ID, done.ID, task.UpdateInput{Status: &status})
	is.NoErr(err)

	upcoming, err := f.svc.ListUpcoming(ctx, f.alice.ID, now, now.Add(3*24*time.Hour))
	is.NoErr(err)
	is.Equal(len(upcoming), 2) // finished, undated and far-off tasks excluded
	is.Equal(upcoming[0].Title, "due shortly")
	is.Equal(upcoming[1].Title, "due tomorrow")
	is.True(upcoming[0].Team != nil)

	upcoming, err = f.svc.ListUpcoming(ctx, f.bob.ID, now, now.Add(3*24*time.Hour))
	is.NoErr(err)
	is.Equal(len(upcoming), 1)
	is.Equal(upcoming[0].Title, "due shortly")
}
