package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/disgoorg/disgo/events"
	"github.com/google/uuid"
	"github.com/robalyx/reaper/internal/database/models"
	"github.com/robalyx/reaper/internal/database/types/enum"
	"github.com/robalyx/reaper/pkg/duration"
	"go.uber.org/zap"
)

func (b *Bot) handleRemove(ctx context.Context, event *events.ApplicationCommandInteractionCreate) {
	if !b.requirePermission(ctx, event, enum.PermissionActionRemove) {
		return
	}

	guildID := uint64(*event.GuildID())

	id, ok := b.actionIDOption(event)
	if !ok {
		return
	}

	err := b.db.Model().Action().Delete(ctx, guildID, id)
	if err != nil {
		if errors.Is(err, models.ErrActionNotFound) {
			b.respond(event, "No action record with that UUID exists here.")
			return
		}

		b.logger.Error("Failed to delete action", zap.Error(err))
		b.respond(event, "Could not delete that record. Try again later.")

		return
	}

	b.respond(event, fmt.Sprintf("Deleted action record `%s`.", id))
}

func (b *Bot) handleExpire(ctx context.Context, event *events.ApplicationCommandInteractionCreate) {
	if !b.requirePermission(ctx, event, enum.PermissionActionExpire) {
		return
	}

	guildID := uint64(*event.GuildID())

	id, ok := b.actionIDOption(event)
	if !ok {
		return
	}

	err := b.db.Model().Action().Expire(ctx, guildID, id)
	if err != nil {
		if errors.Is(err, models.ErrActionNotFound) {
			b.respond(event, "No action record with that UUID exists here.")
			return
		}

		b.logger.Error("Failed to expire action", zap.Error(err))
		b.respond(event, "Could not expire that record. Try again later.")

		return
	}

	b.respond(event, fmt.Sprintf("Action record `%s` is no longer active.", id))
}

func (b *Bot) handleDuration(ctx context.Context, event *events.ApplicationCommandInteractionCreate) {
	if !b.requirePermission(ctx, event, enum.PermissionActionDuration) {
		return
	}

	guildID := uint64(*event.GuildID())
	dur := duration.Parse(event.SlashCommandInteractionData().String("duration"))

	id, ok := b.correctionTarget(ctx, event, guildID)
	if !ok {
		return
	}

	err := b.db.Model().Action().UpdateExpiry(ctx, guildID, id, dur)
	if err != nil {
		if errors.Is(err, models.ErrActionNotFound) {
			b.respond(event, "No action record with that UUID exists here.")
			return
		}

		b.logger.Error("Failed to update action expiry", zap.Error(err))
		b.respond(event, "Could not update that record. Try again later.")

		return
	}

	if dur.IsPermanent() {
		b.respond(event, fmt.Sprintf("Action record `%s` is now permanent.", id))
		return
	}

	b.respond(event, fmt.Sprintf("Action record `%s` now lasts %s from now.", id, dur.Raw))
}

func (b *Bot) handleReason(ctx context.Context, event *events.ApplicationCommandInteractionCreate) {
	if !b.requirePermission(ctx, event, enum.PermissionActionReason) {
		return
	}

	guildID := uint64(*event.GuildID())
	reason := event.SlashCommandInteractionData().String("reason")

	id, ok := b.correctionTarget(ctx, event, guildID)
	if !ok {
		return
	}

	err := b.db.Model().Action().UpdateReason(ctx, guildID, id, reason)
	if err != nil {
		if errors.Is(err, models.ErrActionNotFound) {
			b.respond(event, "No action record with that UUID exists here.")
			return
		}

		b.logger.Error("Failed to update action reason", zap.Error(err))
		b.respond(event, "Could not update that record. Try again later.")

		return
	}

	b.respond(event, fmt.Sprintf("Updated the reason on `%s` to `%s`.", id, reason))
}

// actionIDOption decodes the required id option.
func (b *Bot) actionIDOption(event *events.ApplicationCommandInteractionCreate) (uuid.UUID, bool) {
	raw := event.SlashCommandInteractionData().String("id")

	id, err := uuid.Parse(raw)
	if err != nil {
		b.respond(event, fmt.Sprintf("`%s` is not a valid action UUID.", raw))
		return uuid.Nil, false
	}

	return id, true
}

// correctionTarget resolves which record a correction applies to: the
// explicit id option when given, otherwise the issuer's most recent
// action in this guild.
func (b *Bot) correctionTarget(
	ctx context.Context, event *events.ApplicationCommandInteractionCreate, guildID uint64,
) (uuid.UUID, bool) {
	if raw, ok := event.SlashCommandInteractionData().OptString("id"); ok {
		id, err := uuid.Parse(raw)
		if err != nil {
			b.respond(event, fmt.Sprintf("`%s` is not a valid action UUID.", raw))
			return uuid.Nil, false
		}

		return id, true
	}

	moderatorID := uint64(event.Member().User.ID)

	recent, err := b.db.Model().Action().GetRecentByModerator(ctx, guildID, moderatorID)
	if err != nil {
		if errors.Is(err, models.ErrActionNotFound) {
			b.respond(event, "You have no recorded actions here to correct.")
			return uuid.Nil, false
		}

		b.logger.Error("Failed to find recent action", zap.Error(err))
		b.respond(event, "Could not find your most recent action. Try again later.")

		return uuid.Nil, false
	}

	return recent.ID, true
}
