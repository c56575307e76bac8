package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/reaper/internal/database"
	"github.com/robalyx/reaper/internal/moderation"
	"github.com/robalyx/reaper/internal/redis"
	"go.uber.org/zap"
)

// Bot wires the Discord client to the moderation engine: slash commands,
// automod events, and message audit logging.
type Bot struct {
	client    bot.Client
	db        database.Client
	moderator *moderation.Moderator
	resolver  *moderation.Resolver
	modlog    *ModLog
	notifier  *Notifier
	messages  *redis.MessageCache
	logger    *zap.Logger
}

// New initializes a Bot instance, configuring the Discord client with the
// required gateway intents and event listeners.
func New(
	token string, db database.Client, messages *redis.MessageCache, logger *zap.Logger,
) (*Bot, error) {
	b := &Bot{
		db:       db,
		messages: messages,
		logger:   logger.Named("bot"),
	}

	client, err := disgo.New(token,
		bot.WithGatewayConfigOpts(
			gateway.WithIntents(
				gateway.IntentGuilds,
				gateway.IntentGuildMessages,
				gateway.IntentMessageContent,
				gateway.IntentGuildMembers,
				gateway.IntentDirectMessages,
			),
		),
		bot.WithEventListeners(&events.ListenerAdapter{
			OnApplicationCommandInteraction: b.handleApplicationCommandInteraction,
			OnGuildMessageCreate:            b.handleMessageCreate,
			OnGuildMessageUpdate:            b.handleMessageUpdate,
			OnGuildMessageDelete:            b.handleMessageDelete,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord client: %w", err)
	}

	b.client = client
	b.modlog = NewModLog(client, db.Model().Guild(), logger)
	b.notifier = NewNotifier(client, logger)
	b.moderator = moderation.New(
		db.Model().Action(), db.Model().Guild(), NewEffector(client, logger), b.modlog, logger)
	b.resolver = moderation.NewResolver(db.Model().Grant())

	return b, nil
}

// Moderator exposes the enforcement orchestrator so the expiry worker can
// dispatch reversals through the same path as commands.
func (b *Bot) Moderator() *moderation.Moderator {
	return b.moderator
}

// Start registers global commands with Discord and opens the gateway
// connection.
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("Registering commands")

	_, err := b.client.Rest().SetGlobalCommands(b.client.ApplicationID(), commands())
	if err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	b.logger.Info("Starting bot")

	return b.client.OpenGateway(ctx)
}

// Close gracefully shuts down the Discord gateway connection.
func (b *Bot) Close(ctx context.Context) {
	b.logger.Info("Closing bot")
	b.client.Close(ctx)
}

// handleApplicationCommandInteraction processes slash commands. The
// response is deferred first to prevent a Discord timeout, then the
// command runs in its own goroutine.
func (b *Bot) handleApplicationCommandInteraction(event *events.ApplicationCommandInteractionCreate) {
	go func() {
		if event.GuildID() == nil {
			return
		}

		if err := event.DeferCreateMessage(true); err != nil {
			b.logger.Error("Failed to defer create message", zap.Error(err))
			return
		}

		start := time.Now()
		name := event.SlashCommandInteractionData().CommandName()

		defer func() {
			if r := recover(); r != nil {
				b.logger.Error("Panic in command handler",
					zap.String("command", name), zap.Any("panic", r))
				b.respond(event, "Internal error. Please report this to an administrator.")
			}

			b.logger.Debug("Command handled",
				zap.String("command", name),
				zap.Duration("duration", time.Since(start)))
		}()

		ctx := context.Background()

		switch name {
		case "strike":
			b.handleStrike(ctx, event)
		case "mute":
			b.handleMute(ctx, event)
		case "unmute":
			b.handleUnmute(ctx, event)
		case "kick":
			b.handleKick(ctx, event)
		case "ban":
			b.handleBan(ctx, event)
		case "unban":
			b.handleUnban(ctx, event)
		case "search":
			b.handleSearch(ctx, event)
		case "remove":
			b.handleRemove(ctx, event)
		case "expire":
			b.handleExpire(ctx, event)
		case "duration":
			b.handleDuration(ctx, event)
		case "reason":
			b.handleReason(ctx, event)
		case "permissions":
			b.handlePermissions(ctx, event)
		default:
			b.respond(event, "This command is not available.")
		}
	}()
}

// respond replaces the deferred interaction response with plain content.
func (b *Bot) respond(event *events.ApplicationCommandInteractionCreate, content string) {
	_, err := b.client.Rest().UpdateInteractionResponse(
		event.ApplicationID(), event.Token(),
		discord.NewMessageUpdateBuilder().SetContent(content).Build())
	if err != nil {
		b.logger.Error("Failed to respond to interaction", zap.Error(err))
	}
}

// guildName resolves a guild's display name, falling back to its ID.
func (b *Bot) guildName(guildID uint64) string {
	guild, err := b.client.Rest().GetGuild(snowflake.ID(guildID), false)
	if err != nil {
		return fmt.Sprintf("guild %d", guildID)
	}

	return guild.Name
}
