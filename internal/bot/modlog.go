package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/reaper/internal/database/types"
	"github.com/robalyx/reaper/internal/database/types/enum"
	"github.com/robalyx/reaper/internal/moderation"
	"go.uber.org/zap"
)

// ModLog emits human-readable audit lines to the guild's configured
// logging channel. Guilds without one configured are skipped silently.
type ModLog struct {
	client bot.Client
	guilds moderation.GuildStore
	logger *zap.Logger
}

// NewModLog creates a ModLog sink.
func NewModLog(client bot.Client, guilds moderation.GuildStore, logger *zap.Logger) *ModLog {
	return &ModLog{
		client: client,
		guilds: guilds,
		logger: logger.Named("modlog"),
	}
}

// LogAction posts an audit line for a newly recorded action.
func (l *ModLog) LogAction(ctx context.Context, action *types.Action) {
	var b strings.Builder

	fmt.Fprintf(&b, "<@%d> has been %s", action.UserID, pastTense(action.Type))

	if !action.IsSystemAction() {
		fmt.Fprintf(&b, " by <@%d>", action.ModeratorID)
	}

	if action.Expiry != nil {
		fmt.Fprintf(&b, " until <t:%d:F>", action.Expiry.Unix())
	}

	if action.Reason != "" {
		fmt.Fprintf(&b, " for `%s`", action.Reason)
	}

	fmt.Fprintf(&b, "\nUUID: `%s`", action.ID)

	l.post(ctx, action.GuildID, b.String())
}

// LogReversal posts an audit line for a reversed action.
func (l *ModLog) LogReversal(ctx context.Context, action *types.Action, moderatorID uint64) {
	var b strings.Builder

	fmt.Fprintf(&b, "<@%d> has been %s", action.UserID, reversalPastTense(action.Type))

	if moderatorID != moderation.SystemActor {
		fmt.Fprintf(&b, " by <@%d>", moderatorID)
	}

	fmt.Fprintf(&b, "\nUUID: `%s`", action.ID)

	l.post(ctx, action.GuildID, b.String())
}

func (l *ModLog) post(ctx context.Context, guildID uint64, content string) {
	guild, err := l.guilds.GetOrCreate(ctx, guildID)
	if err != nil {
		l.logger.Error("Failed to load guild config for modlog",
			zap.Uint64("guildID", guildID), zap.Error(err))
		return
	}

	cfg := guild.Config.Logging
	if cfg == nil || cfg.LoggingChannel == 0 {
		return
	}

	_, err = l.client.Rest().CreateMessage(
		snowflake.ID(cfg.LoggingChannel),
		discord.NewMessageCreateBuilder().SetContent(content).Build())
	if err != nil {
		l.logger.Error("Failed to post modlog line",
			zap.Uint64("guildID", guildID),
			zap.Uint64("channelID", cfg.LoggingChannel),
			zap.Error(err))
	}
}

// LogMessageEdit posts old and new content for an edited message.
func (l *ModLog) LogMessageEdit(ctx context.Context, guildID, userID uint64, oldContent, newContent string) {
	l.post(ctx, guildID, fmt.Sprintf(
		"<@%d> edited their message\nOld: `%s`\nNew: `%s`", userID, oldContent, newContent))
}

// LogMessageDelete posts the last known content of a deleted message.
func (l *ModLog) LogMessageDelete(ctx context.Context, guildID, userID uint64, content string) {
	l.post(ctx, guildID, fmt.Sprintf(
		"A message by <@%d> was deleted\nContent: `%s`", userID, content))
}

func pastTense(actionType enum.ActionType) string {
	switch actionType {
	case enum.ActionTypeStrike:
		return "striked"
	case enum.ActionTypeMute:
		return "muted"
	case enum.ActionTypeKick:
		return "kicked"
	case enum.ActionTypeBan:
		return "banned"
	default:
		return "actioned"
	}
}

func reversalPastTense(actionType enum.ActionType) string {
	switch actionType {
	case enum.ActionTypeMute:
		return "unmuted"
	case enum.ActionTypeBan:
		return "unbanned"
	default:
		return "cleared"
	}
}
