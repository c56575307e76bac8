package types

import "slices"

// GuildUser represents a member's direct permission grants within a guild.
type GuildUser struct {
	ID          uint64   `bun:",pk"`                // Discord user ID
	GuildID     uint64   `bun:",pk"`                // Guild the grants apply to
	Permissions []string `bun:",array,type:text[]"` // Granted permission wire names
}

// Has checks if the user directly holds the permission.
func (u *GuildUser) Has(permission string) bool {
	return slices.Contains(u.Permissions, permission)
}

// Grant adds the permission if not already present and reports whether
// the set changed.
func (u *GuildUser) Grant(permission string) bool {
	if u.Has(permission) {
		return false
	}

	u.Permissions = append(u.Permissions, permission)

	return true
}

// Revoke removes the permission and reports whether the set changed.
func (u *GuildUser) Revoke(permission string) bool {
	before := len(u.Permissions)
	u.Permissions = slices.DeleteFunc(u.Permissions, func(p string) bool {
		return p == permission
	})

	return len(u.Permissions) != before
}

// GuildRole represents a role's permission grants within a guild. The
// guild's everyone role shares the guild's own ID.
type GuildRole struct {
	ID          uint64   `bun:",pk"`                // Discord role ID
	GuildID     uint64   `bun:",pk"`                // Guild the grants apply to
	Permissions []string `bun:",array,type:text[]"` // Granted permission wire names
}

// Has checks if the role holds the permission.
func (r *GuildRole) Has(permission string) bool {
	return slices.Contains(r.Permissions, permission)
}

// Grant adds the permission if not already present and reports whether
// the set changed.
func (r *GuildRole) Grant(permission string) bool {
	if r.Has(permission) {
		return false
	}

	r.Permissions = append(r.Permissions, permission)

	return true
}

// Revoke removes the permission and reports whether the set changed.
func (r *GuildRole) Revoke(permission string) bool {
	before := len(r.Permissions)
	r.Permissions = slices.DeleteFunc(r.Permissions, func(p string) bool {
		return p == permission
	})

	return len(r.Permissions) != before
}
