package models

import (
	"context"
	"fmt"

	"github.com/robalyx/reaper/internal/database/dbretry"
	"github.com/robalyx/reaper/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// GrantModel handles database operations for per-user and per-role
// permission grants.
type GrantModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewGrant creates a GrantModel.
func NewGrant(db *bun.DB, logger *zap.Logger) *GrantModel {
	return &GrantModel{
		db:     db,
		logger: logger.Named("db_grant"),
	}
}

// GetOrCreateUser fetches a member's grant row in a guild, inserting an
// empty one on first lookup.
func (m *GrantModel) GetOrCreateUser(ctx context.Context, guildID, userID uint64) (*types.GuildUser, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.GuildUser, error) {
		user := &types.GuildUser{ID: userID, GuildID: guildID}

		_, err := m.db.NewInsert().
			Model(user).
			On("CONFLICT (id, guild_id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to ensure user row: %w", err)
		}

		err = m.db.NewSelect().
			Model(user).
			Where("id = ?", userID).
			Where("guild_id = ?", guildID).
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get user grants: %w", err)
		}

		return user, nil
	})
}

// GetOrCreateRole fetches a role's grant row in a guild, inserting an
// empty one on first lookup. The everyone role shares the guild's ID.
func (m *GrantModel) GetOrCreateRole(ctx context.Context, guildID, roleID uint64) (*types.GuildRole, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.GuildRole, error) {
		role := &types.GuildRole{ID: roleID, GuildID: guildID}

		_, err := m.db.NewInsert().
			Model(role).
			On("CONFLICT (id, guild_id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to ensure role row: %w", err)
		}

		err = m.db.NewSelect().
			Model(role).
			Where("id = ?", roleID).
			Where("guild_id = ?", guildID).
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get role grants: %w", err)
		}

		return role, nil
	})
}

// AddUserPermission grants a permission to a member and reports whether
// the stored set changed.
func (m *GrantModel) AddUserPermission(ctx context.Context, guildID, userID uint64, permission string) (bool, error) {
	user, err := m.GetOrCreateUser(ctx, guildID, userID)
	if err != nil {
		return false, err
	}

	if !user.Grant(permission) {
		return false, nil
	}

	if err := m.saveUser(ctx, user); err != nil {
		return false, err
	}

	m.logger.Debug("Granted user permission",
		zap.Uint64("guildID", guildID),
		zap.Uint64("userID", userID),
		zap.String("permission", permission))

	return true, nil
}

// RemoveUserPermission revokes a permission from a member and reports
// whether the stored set changed.
func (m *GrantModel) RemoveUserPermission(ctx context.Context, guildID, userID uint64, permission string) (bool, error) {
	user, err := m.GetOrCreateUser(ctx, guildID, userID)
	if err != nil {
		return false, err
	}

	if !user.Revoke(permission) {
		return false, nil
	}

	if err := m.saveUser(ctx, user); err != nil {
		return false, err
	}

	m.logger.Debug("Revoked user permission",
		zap.Uint64("guildID", guildID),
		zap.Uint64("userID", userID),
		zap.String("permission", permission))

	return true, nil
}

// AddRolePermission grants a permission to a role and reports whether the
// stored set changed.
func (m *GrantModel) AddRolePermission(ctx context.Context, guildID, roleID uint64, permission string) (bool, error) {
	role, err := m.GetOrCreateRole(ctx, guildID, roleID)
	if err != nil {
		return false, err
	}

	if !role.Grant(permission) {
		return false, nil
	}

	if err := m.saveRole(ctx, role); err != nil {
		return false, err
	}

	return true, nil
}

// RemoveRolePermission revokes a permission from a role and reports
// whether the stored set changed.
func (m *GrantModel) RemoveRolePermission(ctx context.Context, guildID, roleID uint64, permission string) (bool, error) {
	role, err := m.GetOrCreateRole(ctx, guildID, roleID)
	if err != nil {
		return false, err
	}

	if !role.Revoke(permission) {
		return false, nil
	}

	if err := m.saveRole(ctx, role); err != nil {
		return false, err
	}

	return true, nil
}

// ListUsersWithGrants fetches every member grant row in a guild that holds
// at least one permission.
func (m *GrantModel) ListUsersWithGrants(ctx context.Context, guildID uint64) ([]*types.GuildUser, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.GuildUser, error) {
		var users []*types.GuildUser

		err := m.db.NewSelect().
			Model(&users).
			Where("guild_id = ?", guildID).
			Where("cardinality(permissions) > 0").
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list user grants: %w", err)
		}

		return users, nil
	})
}

// ListRolesWithGrants fetches every role grant row in a guild that holds
// at least one permission.
func (m *GrantModel) ListRolesWithGrants(ctx context.Context, guildID uint64) ([]*types.GuildRole, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.GuildRole, error) {
		var roles []*types.GuildRole

		err := m.db.NewSelect().
			Model(&roles).
			Where("guild_id = ?", guildID).
			Where("cardinality(permissions) > 0").
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list role grants: %w", err)
		}

		return roles, nil
	})
}

func (m *GrantModel) saveUser(ctx context.Context, user *types.GuildUser) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewUpdate().
			Model(user).
			Column("permissions").
			WherePK().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to save user grants: %w", err)
		}

		return nil
	})
}

func (m *GrantModel) saveRole(ctx context.Context, role *types.GuildRole) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewUpdate().
			Model(role).
			Column("permissions").
			WherePK().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to save role grants: %w", err)
		}

		return nil
	})
}
