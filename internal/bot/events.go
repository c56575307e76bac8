package bot

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/disgoorg/disgo/events"
	"github.com/robalyx/reaper/internal/database/types"
	"github.com/robalyx/reaper/internal/moderation"
	"github.com/robalyx/reaper/internal/redis"
	"github.com/robalyx/reaper/pkg/duration"
	"go.uber.org/zap"
)

// handleMessageCreate caches message content for later audit lines and
// runs the guild's blacklist over it.
func (b *Bot) handleMessageCreate(event *events.GuildMessageCreate) {
	if event.Message.Author.Bot {
		return
	}

	ctx := context.Background()
	guildID := uint64(event.GuildID)
	channelID := uint64(event.ChannelID)
	messageID := uint64(event.MessageID)
	authorID := uint64(event.Message.Author.ID)

	err := b.messages.Store(ctx, guildID, channelID, messageID, authorID, event.Message.Content)
	if err != nil {
		b.logger.Error("Failed to cache message", zap.Error(err))
	}

	guild, err := b.db.Model().Guild().GetOrCreate(ctx, guildID)
	if err != nil {
		b.logger.Error("Failed to load guild config for automod", zap.Error(err))
		return
	}

	cfg := guild.Config.Moderation
	if cfg == nil || !b.matchesBlacklist(cfg, event.Message.Content) {
		return
	}

	b.punishBlacklisted(ctx, event, cfg)
}

// matchesBlacklist checks the message against the guild's literal words
// (case-insensitive contains) and regex patterns.
func (b *Bot) matchesBlacklist(cfg *types.ModerationConfig, content string) bool {
	lowered := strings.ToLower(content)

	for _, word := range cfg.BlacklistedWords {
		if word != "" && strings.Contains(lowered, strings.ToLower(word)) {
			return true
		}
	}

	for _, pattern := range cfg.BlacklistedRegex {
		re, err := regexp.Compile(pattern)
		if err != nil {
			b.logger.Warn("Invalid blacklist pattern",
				zap.String("pattern", pattern), zap.Error(err))
			continue
		}

		if re.MatchString(content) {
			return true
		}
	}

	return false
}

// punishBlacklisted notifies the author, issues a system strike with the
// guild's default strike duration, and removes the message.
func (b *Bot) punishBlacklisted(
	ctx context.Context, event *events.GuildMessageCreate, cfg *types.ModerationConfig,
) {
	guildID := uint64(event.GuildID)
	authorID := uint64(event.Message.Author.ID)

	dur := duration.Parse(cfg.DefaultStrikeDuration)

	result, err := b.moderator.Strike(
		ctx, guildID, authorID, moderation.SystemActor, "Blacklisted content", &dur)
	if err != nil {
		b.logger.Error("Failed to issue automod strike",
			zap.Uint64("guildID", guildID),
			zap.Uint64("userID", authorID),
			zap.Error(err))
		return
	}

	if result.EscalationErr != nil {
		b.logger.Error("Automod strike escalation failed",
			zap.Uint64("guildID", guildID),
			zap.Uint64("userID", authorID),
			zap.Error(result.EscalationErr))
	}

	b.notifier.NotifyAction(result.Action, b.guildName(guildID))

	if err := b.client.Rest().DeleteMessage(event.ChannelID, event.MessageID); err != nil {
		b.logger.Error("Failed to delete blacklisted message",
			zap.Uint64("guildID", guildID),
			zap.Uint64("messageID", uint64(event.MessageID)),
			zap.Error(err))
	}
}

// handleMessageUpdate emits an old/new audit line and refreshes the cache
// with the edited content.
func (b *Bot) handleMessageUpdate(event *events.GuildMessageUpdate) {
	if event.Message.Author.Bot {
		return
	}

	ctx := context.Background()
	guildID := uint64(event.GuildID)
	channelID := uint64(event.ChannelID)
	messageID := uint64(event.MessageID)
	authorID := uint64(event.Message.Author.ID)

	cached, err := b.messages.Get(ctx, guildID, channelID, messageID)
	if err != nil && !errors.Is(err, redis.ErrMessageNotCached) {
		b.logger.Error("Failed to read cached message", zap.Error(err))
	}

	err = b.messages.Store(ctx, guildID, channelID, messageID, authorID, event.Message.Content)
	if err != nil {
		b.logger.Error("Failed to cache edited message", zap.Error(err))
	}

	// Without the original content an edit line has nothing to show
	if cached == nil || cached.Content == event.Message.Content {
		return
	}

	b.modlog.LogMessageEdit(ctx, guildID, authorID, cached.Content, event.Message.Content)
}

// handleMessageDelete emits an audit line with the last cached content of
// the deleted message.
func (b *Bot) handleMessageDelete(event *events.GuildMessageDelete) {
	ctx := context.Background()
	guildID := uint64(event.GuildID)

	cached, err := b.messages.Get(ctx, guildID, uint64(event.ChannelID), uint64(event.MessageID))
	if err != nil {
		if !errors.Is(err, redis.ErrMessageNotCached) {
			b.logger.Error("Failed to read cached message", zap.Error(err))
		}

		return
	}

	b.modlog.LogMessageDelete(ctx, guildID, cached.UserID, cached.Content)
}
