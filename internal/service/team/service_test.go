package team_test

import (
	"context"
	"testing"

	"github.com/matryer/is"

	"github.com/nikhil/teamtask/internal/apperr"
	"github.com/nikhil/teamtask/internal/guard"
	"github.com/nikhil/teamtask/internal/models"
	"github.com/nikhil/teamtask/internal/service/team"
	"github.com/nikhil/teamtask/internal/store/storetest"
)

func newService(db *storetest.DB) *team.Service {
	return team.NewService(db.Users(), db.Teams(), db.Memberships(), guard.New(db.Memberships()))
}

func TestCreateTeamFounderIsAdmin(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	db := storetest.New()
	svc := newService(db)

	founder := db.SeedUser("alice", "alice@example.com")

	created, err := svc.CreateTeam(ctx, founder.ID, "platform", "the platform crew")
	is.NoErr(err)
	is.True(created.ID != 0)

	members, err := svc.ListMembers(ctx, created.ID, founder.ID)
	is.NoErr(err)
	is.Equal(len(members), 1)
	is.Equal(members[0].ID, founder.ID)
	is.Equal(members[0].Role, models.RoleAdmin)
}

func TestCreateTeamValidation(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	db := storetest.New()
	svc := newService(db)

	founder := db.SeedUser("alice", "alice@example.com")

	_, err := svc.CreateTeam(ctx, founder.ID, "   ", "")
	is.Equal(apperr.KindOf(err), apperr.KindValidation)

	_, err = svc.CreateTeam(ctx, founder.ID, "platform", "")
	is.NoErr(err)

	// Names are unique across all teams.
	_, err = svc.CreateTeam(ctx, founder.ID, "platform", "second attempt")
	is.Equal(apperr.KindOf(err), apperr.KindConflict)
}

func TestInviteAcceptLifecycle(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	db := storetest.New()
	svc := newService(db)

	founder := db.SeedUser("alice", "alice@example.com")
	invitee := db.SeedUser("bob", "bob@example.com")

	created, err := svc.CreateTeam(ctx, founder.ID, "platform", "")
	is.NoErr(err)

	m, err := svc.Invite(ctx, created.ID, founder.ID, invitee.ID)
	is.NoErr(err)
	is.Equal(m.Status, models.StatusInviting)
	is.Equal(m.Role, models.RoleMember)

	// Pending invitations are not memberships yet.
	_, err = svc.GetTeam(ctx, created.ID, invitee.ID)
	is.Equal(apperr.KindOf(err), apperr.KindForbidden)

	pending, err := svc.ListPendingInvitations(ctx, invitee.ID)
	is.NoErr(err)
	is.Equal(len(pending), 1)
	is.Equal(pending[0].InvitationID, m.ID)
	is.Equal(pending[0].Team.ID, created.ID)

	accepted, err := svc.Accept(ctx, m.ID, invitee.ID)
	is.NoErr(err)
	is.Equal(accepted.ID, created.ID)

	// Acceptance grants member role, never admin.
	members, err := svc.ListMembers(ctx, created.ID, invitee.ID)
	is.NoErr(err)
	is.Equal(len(members), 2)
	for _, member := range members {
		if member.ID == invitee.ID {
			is.Equal(member.Role, models.RoleMember)
		}
	}

	pending, err = svc.ListPendingInvitations(ctx, invitee.ID)
	is.NoErr(err)
	is.Equal(len(pending), 0)
}

func TestInviteRequiresMembership(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	db := storetest.New()
	svc := newService(db)

	founder := db.SeedUser("alice", "alice@example.com")
	stranger := db.SeedUser("bob", "bob@example.com")
	target := db.SeedUser("carol", "carol@example.com")

	created, err := svc.CreateTeam(ctx, founder.ID, "platform", "")
	is.NoErr(err)

	_, err = svc.Invite(ctx, created.ID, stranger.ID, target.ID)
	is.Equal(apperr.KindOf(err), apperr.KindForbidden)

	// Invitees with a pending invitation cannot invite either.
	m, err := svc.Invite(ctx, created.ID, founder.ID, stranger.ID)
	is.NoErr(err)
	_, err = svc.Invite(ctx, created.ID, stranger.ID, target.ID)
	is.Equal(apperr.KindOf(err), apperr.KindForbidden)

	// Accepted non-admin members can invite.
	_, err = svc.Accept(ctx, m.ID, stranger.ID)
	is.NoErr(err)
	_, err = svc.Invite(ctx, created.ID, stranger.ID, target.ID)
	is.NoErr(err)
}

func TestInviteConflictsAndMissingUser(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	db := storetest.New()
	svc := newService(db)

	founder := db.SeedUser("alice", "alice@example.com")
	invitee := db.SeedUser("bob", "bob@example.com")

	created, err := svc.CreateTeam(ctx, founder.ID, "platform", "")
	is.NoErr(err)

	_, err = svc.Invite(ctx, created.ID, founder.ID, 999)
	is.Equal(apperr.KindOf(err), apperr.KindNotFound)

	m, err := svc.Invite(ctx, created.ID, founder.ID, invitee.ID)
	is.NoErr(err)

	// Re-inviting while the first invitation is pending conflicts.
	_, err = svc.Invite(ctx, created.ID, founder.ID, invitee.ID)
	is.Equal(apperr.KindOf(err), apperr.KindConflict)

	// And still conflicts after acceptance.
	_, err = svc.Accept(ctx, m.ID, invitee.ID)
	is.NoErr(err)
	_, err = svc.Invite(ctx, created.ID, founder.ID, invitee.ID)
	is.Equal(apperr.KindOf(err), apperr.KindConflict)

	// Inviting the founder conflicts with their own membership.
	_, err = svc.Invite(ctx, created.ID, invitee.ID, founder.ID)
	is.Equal(apperr.KindOf(err), apperr.KindConflict)
}

func TestAcceptOwnershipAndReplay(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	db := storetest.New()
	svc := newService(db)

	founder := db.SeedUser("alice", "alice@example.com")
	invitee := db.SeedUser("bob", "bob@example.com")
	other := db.SeedUser("carol", "carol@example.com")

	created, err := svc.CreateTeam(ctx, founder.ID, "platform", "")
	is.NoErr(err)
	m, err := svc.Invite(ctx, created.ID, founder.ID, invitee.ID)
	is.NoErr(err)

	_, err = svc.Accept(ctx, 999, invitee.ID)
	is.Equal(apperr.KindOf(err), apperr.KindNotFound)

	// Only the invitee may act on the invitation.
	_, err = svc.Accept(ctx, m.ID, other.ID)
	is.Equal(apperr.KindOf(err), apperr.KindForbidden)
	err = svc.Reject(ctx, m.ID, other.ID)
	is.Equal(apperr.KindOf(err), apperr.KindForbidden)

	_, err = svc.Accept(ctx, m.ID, invitee.ID)
	is.NoErr(err)

	// A second accept on the same invitation conflicts.
	_, err = svc.Accept(ctx, m.ID, invitee.ID)
	is.Equal(apperr.KindOf(err), apperr.KindConflict)
}

func TestRejectDeletesInvitation(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	db := storetest.New()
	svc := newService(db)

	founder := db.SeedUser("alice", "alice@example.com")
	invitee := db.SeedUser("bob", "bob@example.com")

	created, err := svc.CreateTeam(ctx, founder.ID, "platform", "")
	is.NoErr(err)
	m, err := svc.Invite(ctx, created.ID, founder.ID, invitee.ID)
	is.NoErr(err)

	err = svc.Reject(ctx, m.ID, invitee.ID)
	is.NoErr(err)

	// The row is gone, so the replay reads as not found.
	err = svc.Reject(ctx, m.ID, invitee.ID)
	is.Equal(apperr.KindOf(err), apperr.KindNotFound)

	// The pair is free again for another invitation.
	_, err = svc.Invite(ctx, created.ID, founder.ID, invitee.ID)
	is.NoErr(err)
}

func TestRemoveMember(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	db := storetest.New()
	svc := newService(db)

	founder := db.SeedUser("alice", "alice@example.com")
	member := db.SeedUser("bob", "bob@example.com")

	created, err := svc.CreateTeam(ctx, founder.ID, "platform", "")
	is.NoErr(err)
	m, err := svc.Invite(ctx, created.ID, founder.ID, member.ID)
	is.NoErr(err)
	_, err = svc.Accept(ctx, m.ID, member.ID)
	is.NoErr(err)

	err = svc.RemoveMember(ctx, created.ID, founder.ID, m.ID)
	is.NoErr(err)

	members, err := svc.ListMembers(ctx, created.ID, founder.ID)
	is.NoErr(err)
	is.Equal(len(members), 1)

	_, err = svc.GetTeam(ctx, created.ID, member.ID)
	is.Equal(apperr.KindOf(err), apperr.KindForbidden)
}

func TestRemoveMemberAuthorization(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	db := storetest.New()
	svc := newService(db)

	founder := db.SeedUser("alice", "alice@example.com")
	member := db.SeedUser("bob", "bob@example.com")

	created, err := svc.CreateTeam(ctx, founder.ID, "platform", "")
	is.NoErr(err)
	m, err := svc.Invite(ctx, created.ID, founder.ID, member.ID)
	is.NoErr(err)
	_, err = svc.Accept(ctx, m.ID, member.ID)
	is.NoErr(err)

	founderMembership, err := db.Memberships().Get(ctx, created.ID, founder.ID)
	is.NoErr(err)

	// Plain members cannot remove anyone, not even themselves.
	err = svc.RemoveMember(ctx, created.ID, member.ID, m.ID)
	is.Equal(apperr.KindOf(err), apperr.KindForbidden)

	// Admin memberships are not removable.
	err = svc.RemoveMember(ctx, created.ID, founder.ID, founderMembership.ID)
	is.Equal(apperr.KindOf(err), apperr.KindForbidden)

	// A membership of another team reads as not found.
	other, err := svc.CreateTeam(ctx, founder.ID, "design", "")
	is.NoErr(err)
	err = svc.RemoveMember(ctx, other.ID, founder.ID, m.ID)
	is.Equal(apperr.KindOf(err), apperr.KindNotFound)
}

func TestListTeamsScopedToCaller(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	db := storetest.New()
	svc := newService(db)

	alice := db.SeedUser("alice", "alice@example.com")
	bob := db.SeedUser("bob", "bob@example.com")

	_, err := svc.CreateTeam(ctx, alice.ID, "platform", "")
	is.NoErr(err)
	created, err := svc.CreateTeam(ctx, bob.ID, "design", "")
	is.NoErr(err)

	teams, err := svc.ListTeams(ctx, alice.ID)
	is.NoErr(err)
	is.Equal(len(teams), 1)
	is.Equal(teams[0].Name, "platform")

	// Pending invitations do not surface in the team list.
	m, err := svc.Invite(ctx, created.ID, bob.ID, alice.ID)
	is.NoErr(err)
	teams, err = svc.ListTeams(ctx, alice.ID)
	is.NoErr(err)
	is.Equal(len(teams), 1)

	_, err = svc.Accept(ctx, m.ID, alice.ID)
	is.NoErr(err)
	teams, err = svc.ListTeams(ctx, alice.ID)
	is.NoErr(err)
	is.Equal(len(teams), 2)
}
