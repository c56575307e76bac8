package bot

import (
	"context"
	"fmt"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"go.uber.org/zap"
)

// Effector applies moderation side effects through the Discord REST API.
// Reasons are surfaced in the guild's own audit log via the audit-log
// header.
type Effector struct {
	client bot.Client
	logger *zap.Logger
}

// NewEffector creates an Effector.
func NewEffector(client bot.Client, logger *zap.Logger) *Effector {
	return &Effector{
		client: client,
		logger: logger.Named("effector"),
	}
}

// Ban bans a member without deleting their message history.
func (e *Effector) Ban(ctx context.Context, guildID, userID uint64, reason string) error {
	err := e.client.Rest().AddBan(
		snowflake.ID(guildID), snowflake.ID(userID), 0,
		rest.WithReason(reason), rest.WithCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to ban user %d: %w", userID, err)
	}

	return nil
}

// Unban lifts a member's ban.
func (e *Effector) Unban(ctx context.Context, guildID, userID uint64, reason string) error {
	err := e.client.Rest().DeleteBan(
		snowflake.ID(guildID), snowflake.ID(userID),
		rest.WithReason(reason), rest.WithCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to unban user %d: %w", userID, err)
	}

	return nil
}

// Kick removes a member from the guild.
func (e *Effector) Kick(ctx context.Context, guildID, userID uint64, reason string) error {
	err := e.client.Rest().RemoveMember(
		snowflake.ID(guildID), snowflake.ID(userID),
		rest.WithReason(reason), rest.WithCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to kick user %d: %w", userID, err)
	}

	return nil
}

// GrantRole assigns a role to a member.
func (e *Effector) GrantRole(ctx context.Context, guildID, userID, roleID uint64, reason string) error {
	err := e.client.Rest().AddMemberRole(
		snowflake.ID(guildID), snowflake.ID(userID), snowflake.ID(roleID),
		rest.WithReason(reason), rest.WithCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to assign role %d to user %d: %w", roleID, userID, err)
	}

	return nil
}

// RevokeRole removes a role from a member.
func (e *Effector) RevokeRole(ctx context.Context, guildID, userID, roleID uint64, reason string) error {
	err := e.client.Rest().RemoveMemberRole(
		snowflake.ID(guildID), snowflake.ID(userID), snowflake.ID(roleID),
		rest.WithReason(reason), rest.WithCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to remove role %d from user %d: %w", roleID, userID, err)
	}

	return nil
}

// MemberHasRole checks whether a member currently holds a role.
func (e *Effector) MemberHasRole(ctx context.Context, guildID, userID, roleID uint64) (bool, error) {
	member, err := e.client.Rest().GetMember(
		snowflake.ID(guildID), snowflake.ID(userID), rest.WithCtx(ctx))
	if err != nil {
		return false, fmt.Errorf("failed to fetch member %d: %w", userID, err)
	}

	for _, id := range member.RoleIDs {
		if uint64(id) == roleID {
			return true, nil
		}
	}

	return false, nil
}
