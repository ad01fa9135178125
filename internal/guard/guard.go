// Package guard answers relationship questions between users and teams.
// Every mutating operation checks here before touching state.
package guard

import (
	"context"

	"github.com/nikhil/teamtask/internal/apperr"
	"github.com/nikhil/teamtask/internal/models"
	"github.com/nikhil/teamtask/internal/store"
)

// Guard is a read-only view over team memberships.
type Guard struct {
	Memberships store.MembershipStore
}

func New(memberships store.MembershipStore) *Guard {
	return &Guard{Memberships: memberships}
}

// IsMember reports whether an accepted membership exists for the pair.
func (g *Guard) IsMember(ctx context.Context, teamID, userID int64) (bool, error) {
	m, err := g.Memberships.Get(ctx, teamID, userID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return m.Status == models.StatusAccepted, nil
}

// IsAdmin reports whether an accepted admin membership exists for the pair.
func (g *Guard) IsAdmin(ctx context.Context, teamID, userID int64) (bool, error) {
	m, err := g.Memberships.Get(ctx, teamID, userID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return m.Status == models.StatusAccepted && m.Role == models.RoleAdmin, nil
}
