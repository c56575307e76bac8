package moderation

import (
	"context"
	"fmt"

	"github.com/robalyx/reaper/internal/database/types/enum"
)

// Actor describes the requester of a permission check, as observed at the
// platform boundary.
type Actor struct {
	UserID          uint64
	GuildID         uint64
	RoleIDs         []uint64
	IsOwner         bool
	IsAdministrator bool
}

// Resolver answers permission checks against stored grants.
type Resolver struct {
	grants GrantStore
}

// NewResolver creates a Resolver.
func NewResolver(grants GrantStore) *Resolver {
	return &Resolver{grants: grants}
}

// HasPermission reports whether the actor holds the permission. Sources
// are consulted in a fixed order with the first hit winning: guild owner,
// platform administrator, the actor's direct grants, each of the actor's
// roles, then the guild's everyone role (whose ID equals the guild's).
// A failed lookup aborts the check; the result is never guessed.
func (r *Resolver) HasPermission(ctx context.Context, actor Actor, permission enum.Permission) (bool, error) {
	if actor.IsOwner || actor.IsAdministrator {
		return true, nil
	}

	name := permission.String()

	user, err := r.grants.GetOrCreateUser(ctx, actor.GuildID, actor.UserID)
	if err != nil {
		return false, fmt.Errorf("failed to resolve user grants: %w", err)
	}

	if user.Has(name) {
		return true, nil
	}

	for _, roleID := range actor.RoleIDs {
		role, err := r.grants.GetOrCreateRole(ctx, actor.GuildID, roleID)
		if err != nil {
			return false, fmt.Errorf("failed to resolve role grants: %w", err)
		}

		if role.Has(name) {
			return true, nil
		}
	}

	everyone, err := r.grants.GetOrCreateRole(ctx, actor.GuildID, actor.GuildID)
	if err != nil {
		return false, fmt.Errorf("failed to resolve everyone grants: %w", err)
	}

	return everyone.Has(name), nil
}
