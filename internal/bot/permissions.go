package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/robalyx/reaper/internal/database/types/enum"
	"github.com/robalyx/reaper/internal/moderation"
	"go.uber.org/zap"
)

// actorFromEvent builds the permission-check view of the command issuer.
// Ownership comes from the guild object; the administrator bit from the
// resolved member permissions.
func (b *Bot) actorFromEvent(event *events.ApplicationCommandInteractionCreate) (moderation.Actor, error) {
	member := event.Member()
	guildID := *event.GuildID()

	actor := moderation.Actor{
		UserID:          uint64(member.User.ID),
		GuildID:         uint64(guildID),
		IsAdministrator: member.Permissions.Has(discord.PermissionAdministrator),
	}

	for _, roleID := range member.RoleIDs {
		actor.RoleIDs = append(actor.RoleIDs, uint64(roleID))
	}

	guild, err := b.client.Rest().GetGuild(guildID, false)
	if err != nil {
		return moderation.Actor{}, fmt.Errorf("failed to fetch guild: %w", err)
	}

	actor.IsOwner = guild.OwnerID == member.User.ID

	return actor, nil
}

// requirePermission gates a command handler. On a missing grant or a
// failed check it responds to the interaction and returns false.
func (b *Bot) requirePermission(
	ctx context.Context, event *events.ApplicationCommandInteractionCreate, permission enum.Permission,
) bool {
	actor, err := b.actorFromEvent(event)
	if err != nil {
		b.logger.Error("Failed to build actor for permission check", zap.Error(err))
		b.respond(event, "Could not verify your permissions. Try again later.")

		return false
	}

	allowed, err := b.resolver.HasPermission(ctx, actor, permission)
	if err != nil {
		b.logger.Error("Permission check failed",
			zap.String("permission", permission.String()), zap.Error(err))
		b.respond(event, "Could not verify your permissions. Try again later.")

		return false
	}

	if !allowed {
		b.respond(event, fmt.Sprintf("You are missing the `%s` permission.", permission))
		return false
	}

	return true
}

// handlePermissions routes the /permissions subcommands.
func (b *Bot) handlePermissions(ctx context.Context, event *events.ApplicationCommandInteractionCreate) {
	data := event.SlashCommandInteractionData()
	guildID := uint64(*event.GuildID())

	var group, sub string
	if data.SubCommandGroupName != nil {
		group = *data.SubCommandGroupName
	}

	if data.SubCommandName != nil {
		sub = *data.SubCommandName
	}

	if sub == "list" {
		b.handlePermissionList(ctx, event)
		return
	}

	switch sub {
	case "add":
		if !b.requirePermission(ctx, event, enum.PermissionGrantAdd) {
			return
		}
	case "remove":
		if !b.requirePermission(ctx, event, enum.PermissionGrantRemove) {
			return
		}
	case "view":
		if !b.requirePermission(ctx, event, enum.PermissionGrantView) {
			return
		}
	default:
		b.respond(event, "Unknown permissions subcommand.")
		return
	}

	switch group {
	case "user":
		b.handleUserGrants(ctx, event, guildID, sub)
	case "role":
		b.handleRoleGrants(ctx, event, guildID, sub)
	default:
		b.respond(event, "Unknown permissions subcommand.")
	}
}

func (b *Bot) handlePermissionList(ctx context.Context, event *events.ApplicationCommandInteractionCreate) {
	if !b.requirePermission(ctx, event, enum.PermissionGrantList) {
		return
	}

	names := make([]string, 0, len(enum.AllPermissions()))
	for _, permission := range enum.AllPermissions() {
		names = append(names, fmt.Sprintf("`%s`", permission))
	}

	b.respond(event, "Grantable permissions:\n"+strings.Join(names, "\n"))
}

func (b *Bot) handleUserGrants(
	ctx context.Context, event *events.ApplicationCommandInteractionCreate, guildID uint64, sub string,
) {
	data := event.SlashCommandInteractionData()
	userID := uint64(data.Snowflake("user"))
	grants := b.db.Model().Grant()

	if sub == "view" {
		user, err := grants.GetOrCreateUser(ctx, guildID, userID)
		if err != nil {
			b.logger.Error("Failed to view user grants", zap.Error(err))
			b.respond(event, "Could not load that member's grants.")

			return
		}

		b.respond(event, formatGrants(fmt.Sprintf("<@%d>", userID), user.Permissions))

		return
	}

	permission, ok := b.parsePermissionOption(event)
	if !ok {
		return
	}

	switch sub {
	case "add":
		changed, err := grants.AddUserPermission(ctx, guildID, userID, permission.String())
		if err != nil {
			b.logger.Error("Failed to grant user permission", zap.Error(err))
			b.respond(event, "Could not update that member's grants.")

			return
		}

		if !changed {
			b.respond(event, fmt.Sprintf("<@%d> already has `%s`.", userID, permission))
			return
		}

		b.respond(event, fmt.Sprintf("Granted `%s` to <@%d>.", permission, userID))
	case "remove":
		changed, err := grants.RemoveUserPermission(ctx, guildID, userID, permission.String())
		if err != nil {
			b.logger.Error("Failed to revoke user permission", zap.Error(err))
			b.respond(event, "Could not update that member's grants.")

			return
		}

		if !changed {
			b.respond(event, fmt.Sprintf("<@%d> does not have `%s`.", userID, permission))
			return
		}

		b.respond(event, fmt.Sprintf("Revoked `%s` from <@%d>.", permission, userID))
	}
}

func (b *Bot) handleRoleGrants(
	ctx context.Context, event *events.ApplicationCommandInteractionCreate, guildID uint64, sub string,
) {
	data := event.SlashCommandInteractionData()
	roleID := uint64(data.Snowflake("role"))
	grants := b.db.Model().Grant()

	if sub == "view" {
		role, err := grants.GetOrCreateRole(ctx, guildID, roleID)
		if err != nil {
			b.logger.Error("Failed to view role grants", zap.Error(err))
			b.respond(event, "Could not load that role's grants.")

			return
		}

		b.respond(event, formatGrants(fmt.Sprintf("<@&%d>", roleID), role.Permissions))

		return
	}

	permission, ok := b.parsePermissionOption(event)
	if !ok {
		return
	}

	switch sub {
	case "add":
		changed, err := grants.AddRolePermission(ctx, guildID, roleID, permission.String())
		if err != nil {
			b.logger.Error("Failed to grant role permission", zap.Error(err))
			b.respond(event, "Could not update that role's grants.")

			return
		}

		if !changed {
			b.respond(event, fmt.Sprintf("<@&%d> already has `%s`.", roleID, permission))
			return
		}

		b.respond(event, fmt.Sprintf("Granted `%s` to <@&%d>.", permission, roleID))
	case "remove":
		changed, err := grants.RemoveRolePermission(ctx, guildID, roleID, permission.String())
		if err != nil {
			b.logger.Error("Failed to revoke role permission", zap.Error(err))
			b.respond(event, "Could not update that role's grants.")

			return
		}

		if !changed {
			b.respond(event, fmt.Sprintf("<@&%d> does not have `%s`.", roleID, permission))
			return
		}

		b.respond(event, fmt.Sprintf("Revoked `%s` from <@&%d>.", permission, roleID))
	}
}

// parsePermissionOption decodes the permission option. The enum is
// closed, so a typo is reported instead of stored.
func (b *Bot) parsePermissionOption(
	event *events.ApplicationCommandInteractionCreate,
) (enum.Permission, bool) {
	raw := event.SlashCommandInteractionData().String("permission")

	permission, err := enum.ParsePermission(raw)
	if err != nil {
		b.respond(event, fmt.Sprintf(
			"`%s` is not a known permission. Use `/permissions list` to see them all.", raw))
		return 0, false
	}

	return permission, true
}

func formatGrants(subject string, permissions []string) string {
	if len(permissions) == 0 {
		return subject + " has no grants."
	}

	quoted := make([]string, 0, len(permissions))
	for _, permission := range permissions {
		quoted = append(quoted, fmt.Sprintf("`%s`", permission))
	}

	return subject + " has: " + strings.Join(quoted, ", ")
}
