package models

import "time"

// MembershipStatus is the lifecycle state of a team membership.
type MembershipStatus string

const (
	// StatusInviting marks a pending invitation awaiting accept or reject.
	StatusInviting MembershipStatus = "inviting"
	// StatusAccepted marks a full member of the team.
	StatusAccepted MembershipStatus = "accepted"
)

func (s MembershipStatus) Valid() bool {
	switch s {
	case StatusInviting, StatusAccepted:
		return true
	}
	return false
}

// MembershipRole is the role a member holds within a team.
type MembershipRole string

const (
	RoleAdmin  MembershipRole = "admin"
	RoleMember MembershipRole = "member"
)

func (r MembershipRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleMember:
		return true
	}
	return false
}

// Membership binds a user to a team. At most one row exists per
// (team_id, user_id) pair; a row in status "inviting" is an invitation.
type Membership struct {
	ID        int64            `json:"id"`
	TeamID    int64            `json:"team_id"`
	UserID    int64            `json:"user_id"`
	Status    MembershipStatus `json:"status"`
	Role      MembershipRole   `json:"role"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Member is a membership listing entry joined with its user.
type Member struct {
	ID         int64          `json:"id"`
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	TeamUserID int64          `json:"team_user_id"`
	Role       MembershipRole `json:"role"`
}

// Invitation is a pending invitation entry joined with its team.
type Invitation struct {
	InvitationID int64 `json:"invitation_id"`
	Team         Team  `json:"team"`
}
