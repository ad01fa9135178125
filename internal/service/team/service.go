// Package team owns team creation and the invitation lifecycle.
package team

import (
	"context"
	"strings"

	"github.com/nikhil/teamtask/internal/apperr"
	"github.com/nikhil/teamtask/internal/guard"
	"github.com/nikhil/teamtask/internal/logger"
	"github.com/nikhil/teamtask/internal/models"
	"github.com/nikhil/teamtask/internal/store"
)

// Service is the membership manager.
type Service struct {
	Users       store.UserStore
	Teams       store.TeamStore
	Memberships store.MembershipStore
	Guard       *guard.Guard
	Log         *logger.Logger
}

func NewService(users store.UserStore, teams store.TeamStore, memberships store.MembershipStore, g *guard.Guard) *Service {
	return &Service{
		Users:       users,
		Teams:       teams,
		Memberships: memberships,
		Guard:       g,
		Log:         logger.NewLogger("team-service"),
	}
}

// CreateTeam persists the team together with the founder's membership
// (accepted, admin) in one transaction.
func (s *Service) CreateTeam(ctx context.Context, founderID int64, name, description string) (*models.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("team name is required")
	}

	team := &models.Team{Name: name, Description: description}
	if err := s.Teams.CreateWithFounder(ctx, team, founderID); err != nil {
		return nil, err
	}

	s.Log.Info("Team created", "team_id", team.ID, "user_id", founderID)
	return team, nil
}

// GetTeam returns the team for an accepted member.
func (s *Service) GetTeam(ctx context.Context, teamID, callerID int64) (*models.Team, error) {
	ok, err := s.Guard.IsMember(ctx, teamID, callerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.Forbidden("you are not a member of this team")
	}
	return s.Teams.GetByID(ctx, teamID)
}

// ListTeams returns the caller's teams.
func (s *Service) ListTeams(ctx context.Context, callerID int64) ([]models.Team, error) {
	return s.Teams.ListByUser(ctx, callerID)
}

// Invite creates a pending membership (inviting, member) for the invitee.
// Only accepted members may invite; at most one membership row exists per
// (team, user) pair, enforced by the storage uniqueness constraint under
// concurrent invites.
func (s *Service) Invite(ctx context.Context, teamID, inviterID, inviteeUserID int64) (*models.Membership, error) {
	ok, err := s.Guard.IsMember(ctx, teamID, inviterID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.Forbidden("you are not a member of this team")
	}

	if _, err := s.Users.GetByID(ctx, inviteeUserID); err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("invited user not found")
		}
		return nil, err
	}

	// Pre-check for a friendlier error; the unique index settles races.
	if _, err := s.Memberships.Get(ctx, teamID, inviteeUserID); err == nil {
		return nil, apperr.Conflict("user is already a member or has a pending invitation")
	} else if !apperr.IsNotFound(err) {
		return nil, err
	}

	m := &models.Membership{
		TeamID: teamID,
		UserID: inviteeUserID,
		Status: models.StatusInviting,
		Role:   models.RoleMember,
	}
	if err := s.Memberships.Create(ctx, m); err != nil {
		return nil, err
	}

	s.Log.Info("Member invited", "team_id", teamID, "inviter_id", inviterID, "invitee_id", inviteeUserID)
	return m, nil
}

// Accept transitions the invitation to accepted and returns its team. An
// invitation belongs only to its invitee; the role stays member.
func (s *Service) Accept(ctx context.Context, invitationID, actingUserID int64) (*models.Team, error) {
	invitation, err := s.getInvitation(ctx, invitationID, actingUserID)
	if err != nil {
		return nil, err
	}

	if err := s.Memberships.UpdateStatus(ctx, invitation.ID, models.StatusAccepted); err != nil {
		return nil, err
	}

	s.Log.Info("Invitation accepted", "invitation_id", invitationID, "user_id", actingUserID)
	return s.Teams.GetByID(ctx, invitation.TeamID)
}

// Reject deletes the invitation. A second call on the same id yields a
// not-found error, since the row is already gone.
func (s *Service) Reject(ctx context.Context, invitationID, actingUserID int64) error {
	invitation, err := s.getInvitation(ctx, invitationID, actingUserID)
	if err != nil {
		return err
	}

	if err := s.Memberships.Delete(ctx, invitation.ID); err != nil {
		return err
	}

	s.Log.Info("Invitation rejected", "invitation_id", invitationID, "user_id", actingUserID)
	return nil
}

// RemoveMember deletes an accepted membership. Only admins may remove, and
// admin memberships are never removable through this operation.
func (s *Service) RemoveMember(ctx context.Context, teamID, actingUserID, targetMembershipID int64) error {
	ok, err := s.Guard.IsAdmin(ctx, teamID, actingUserID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Forbidden("only team admins can remove members")
	}

	target, err := s.Memberships.GetByID(ctx, targetMembershipID)
	if err != nil {
		return err
	}
	if target.TeamID != teamID {
		return apperr.NotFound("membership not found")
	}
	if target.Role == models.RoleAdmin {
		return apperr.Forbidden("admin members cannot be removed")
	}

	if err := s.Memberships.Delete(ctx, target.ID); err != nil {
		return err
	}

	s.Log.Info("Member removed", "team_id", teamID, "membership_id", targetMembershipID, "removed_by", actingUserID)
	return nil
}

// ListMembers returns the accepted members of the team with their users.
func (s *Service) ListMembers(ctx context.Context, teamID, callerID int64) ([]models.Member, error) {
	ok, err := s.Guard.IsMember(ctx, teamID, callerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.Forbidden("you are not a member of this team")
	}
	return s.Memberships.ListMembers(ctx, teamID)
}

// ListPendingInvitations returns the caller's invitations awaiting a
// decision, each with its team.
func (s *Service) ListPendingInvitations(ctx context.Context, userID int64) ([]models.Invitation, error) {
	return s.Memberships.ListPendingByUser(ctx, userID)
}

func (s *Service) getInvitation(ctx context.Context, invitationID, actingUserID int64) (*models.Membership, error) {
	invitation, err := s.Memberships.GetByID(ctx, invitationID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("invitation not found")
		}
		return nil, err
	}
	if invitation.UserID != actingUserID {
		return nil, apperr.Forbidden("this invitation is not addressed to you")
	}
	if invitation.Status == models.StatusAccepted {
		return nil, apperr.Conflict("this invitation is already accepted")
	}
	return invitation, nil
}
