package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/events"
	"github.com/robalyx/reaper/internal/database/types"
	"github.com/robalyx/reaper/internal/database/types/enum"
	"github.com/robalyx/reaper/internal/moderation"
	"github.com/robalyx/reaper/pkg/duration"
	"go.uber.org/zap"
)

// verbOptions decodes the options shared by the moderation verbs.
type verbOptions struct {
	guildID     uint64
	userID      uint64
	moderatorID uint64
	reason      string
	dur         *duration.Duration
}

func (b *Bot) verbOptions(event *events.ApplicationCommandInteractionCreate) verbOptions {
	data := event.SlashCommandInteractionData()

	opts := verbOptions{
		guildID:     uint64(*event.GuildID()),
		userID:      uint64(data.Snowflake("user")),
		moderatorID: uint64(event.Member().User.ID),
		reason:      data.String("reason"),
	}

	if raw, ok := data.OptString("duration"); ok {
		dur := duration.Parse(raw)
		opts.dur = &dur
	}

	return opts
}

func (b *Bot) handleStrike(ctx context.Context, event *events.ApplicationCommandInteractionCreate) {
	if !b.requirePermission(ctx, event, enum.PermissionStrike) {
		return
	}

	opts := b.verbOptions(event)

	result, err := b.moderator.Strike(ctx, opts.guildID, opts.userID, opts.moderatorID, opts.reason, opts.dur)
	if err != nil {
		b.respondVerbError(event, "strike", err)
		return
	}

	var reply strings.Builder

	fmt.Fprintf(&reply, "Struck <@%d> for `%s`.", opts.userID, opts.reason)
	b.appendNotifyNote(&reply, result.Action, opts.guildID)
	reply.WriteString(fmt.Sprintf("\nUUID: `%s`", result.Action.ID))

	switch {
	case result.Escalation != nil:
		fmt.Fprintf(&reply, "\nStrike escalation applied: %s (UUID: `%s`)",
			pastTense(result.Escalation.Type), result.Escalation.ID)
	case result.EscalationErr != nil:
		b.logger.Error("Strike escalation failed",
			zap.Uint64("guildID", opts.guildID),
			zap.Uint64("userID", opts.userID),
			zap.Error(result.EscalationErr))
		reply.WriteString("\nA strike escalation was configured but could not be applied.")
	}

	b.respond(event, reply.String())
}

func (b *Bot) handleMute(ctx context.Context, event *events.ApplicationCommandInteractionCreate) {
	if !b.requirePermission(ctx, event, enum.PermissionMute) {
		return
	}

	opts := b.verbOptions(event)

	action, err := b.moderator.Mute(ctx, opts.guildID, opts.userID, opts.moderatorID, opts.reason, opts.dur)
	if err != nil {
		b.respondVerbError(event, "mute", err)
		return
	}

	if action == nil {
		b.respond(event, "This server has no mute role configured; nothing was done.")
		return
	}

	b.respondAction(event, fmt.Sprintf("Muted <@%d> for `%s`.", opts.userID, opts.reason), action, opts.guildID)
}

func (b *Bot) handleUnmute(ctx context.Context, event *events.ApplicationCommandInteractionCreate) {
	if !b.requirePermission(ctx, event, enum.PermissionUnmute) {
		return
	}

	opts := b.verbOptions(event)

	removed, err := b.moderator.Unmute(ctx, opts.guildID, opts.userID, opts.moderatorID, opts.reason)
	if err != nil {
		if errors.Is(err, moderation.ErrNoMuteRole) {
			b.respond(event, "This server has no mute role configured; nothing was done.")
			return
		}

		b.respondVerbError(event, "unmute", err)

		return
	}

	if !removed {
		b.respond(event, fmt.Sprintf("<@%d> is not muted; nothing was done.", opts.userID))
		return
	}

	b.respond(event, fmt.Sprintf("Unmuted <@%d>.", opts.userID))
}

func (b *Bot) handleKick(ctx context.Context, event *events.ApplicationCommandInteractionCreate) {
	if !b.requirePermission(ctx, event, enum.PermissionKick) {
		return
	}

	opts := b.verbOptions(event)

	action, err := b.moderator.Kick(ctx, opts.guildID, opts.userID, opts.moderatorID, opts.reason)
	if err != nil {
		b.respondVerbError(event, "kick", err)
		return
	}

	b.respondAction(event, fmt.Sprintf("Kicked <@%d> for `%s`.", opts.userID, opts.reason), action, opts.guildID)
}

func (b *Bot) handleBan(ctx context.Context, event *events.ApplicationCommandInteractionCreate) {
	if !b.requirePermission(ctx, event, enum.PermissionBan) {
		return
	}

	opts := b.verbOptions(event)

	action, err := b.moderator.Ban(ctx, opts.guildID, opts.userID, opts.moderatorID, opts.reason, opts.dur)
	if err != nil {
		b.respondVerbError(event, "ban", err)
		return
	}

	b.respondAction(event, fmt.Sprintf("Banned <@%d> for `%s`.", opts.userID, opts.reason), action, opts.guildID)
}

func (b *Bot) handleUnban(ctx context.Context, event *events.ApplicationCommandInteractionCreate) {
	if !b.requirePermission(ctx, event, enum.PermissionUnban) {
		return
	}

	opts := b.verbOptions(event)

	err := b.moderator.Unban(ctx, opts.guildID, opts.userID, opts.moderatorID, opts.reason)
	if err != nil {
		b.respondVerbError(event, "unban", err)
		return
	}

	b.respond(event, fmt.Sprintf("Unbanned <@%d>.", opts.userID))
}

// respondAction confirms a completed action with its record ID and
// whether the subject could be notified.
func (b *Bot) respondAction(
	event *events.ApplicationCommandInteractionCreate, summary string, action *types.Action, guildID uint64,
) {
	var reply strings.Builder

	reply.WriteString(summary)
	b.appendNotifyNote(&reply, action, guildID)
	fmt.Fprintf(&reply, "\nUUID: `%s`", action.ID)

	b.respond(event, reply.String())
}

func (b *Bot) appendNotifyNote(reply *strings.Builder, action *types.Action, guildID uint64) {
	if !b.notifier.NotifyAction(action, b.guildName(guildID)) {
		reply.WriteString(" They could not be notified by DM.")
	}
}

func (b *Bot) respondVerbError(event *events.ApplicationCommandInteractionCreate, verb string, err error) {
	if errors.Is(err, moderation.ErrSelfTarget) {
		b.respond(event, fmt.Sprintf("You cannot %s yourself.", verb))
		return
	}

	b.logger.Error("Moderation verb failed", zap.String("verb", verb), zap.Error(err))
	b.respond(event, fmt.Sprintf("Could not %s that member. Check the bot's permissions and try again.", verb))
}
