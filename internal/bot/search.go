package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/events"
	"github.com/google/uuid"
	"github.com/robalyx/reaper/internal/database/models"
	"github.com/robalyx/reaper/internal/database/types"
	"github.com/robalyx/reaper/internal/database/types/enum"
	"go.uber.org/zap"
)

// maxSearchResults caps how many records a single reply lists.
const maxSearchResults = 15

func (b *Bot) handleSearch(ctx context.Context, event *events.ApplicationCommandInteractionCreate) {
	data := event.SlashCommandInteractionData()
	guildID := uint64(*event.GuildID())

	if raw, ok := data.OptString("id"); ok {
		b.searchByID(ctx, event, guildID, raw)
		return
	}

	issuerID := uint64(event.Member().User.ID)
	targetID := issuerID

	if id, ok := data.OptSnowflake("user"); ok {
		targetID = uint64(id)
	}

	includeExpired, _ := data.OptBool("expired")

	if !b.requirePermission(ctx, event, searchPermission(targetID == issuerID, includeExpired)) {
		return
	}

	actions, err := b.db.Model().Action().ListForUser(ctx, guildID, targetID, includeExpired)
	if err != nil {
		b.logger.Error("Failed to search actions", zap.Error(err))
		b.respond(event, "Could not search records. Try again later.")

		return
	}

	if len(actions) == 0 {
		b.respond(event, fmt.Sprintf("<@%d> has no matching records.", targetID))
		return
	}

	var reply strings.Builder

	fmt.Fprintf(&reply, "Records for <@%d>:", targetID)

	for i, action := range actions {
		if i == maxSearchResults {
			fmt.Fprintf(&reply, "\n…and %d more.", len(actions)-maxSearchResults)
			break
		}

		reply.WriteString("\n" + formatActionLine(action))
	}

	b.respond(event, reply.String())
}

func (b *Bot) searchByID(
	ctx context.Context, event *events.ApplicationCommandInteractionCreate, guildID uint64, raw string,
) {
	if !b.requirePermission(ctx, event, enum.PermissionSearchID) {
		return
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		b.respond(event, fmt.Sprintf("`%s` is not a valid action UUID.", raw))
		return
	}

	action, err := b.db.Model().Action().Get(ctx, guildID, id)
	if err != nil {
		if errors.Is(err, models.ErrActionNotFound) {
			b.respond(event, "No action record with that UUID exists here.")
			return
		}

		b.logger.Error("Failed to look up action", zap.Error(err))
		b.respond(event, "Could not look up that record. Try again later.")

		return
	}

	b.respond(event, formatActionLine(action))
}

// searchPermission picks the grant required for a history lookup.
func searchPermission(self, includeExpired bool) enum.Permission {
	switch {
	case self && includeExpired:
		return enum.PermissionSearchSelfExpired
	case self:
		return enum.PermissionSearchSelf
	case includeExpired:
		return enum.PermissionSearchOthersExpired
	default:
		return enum.PermissionSearchOthers
	}
}

func formatActionLine(action *types.Action) string {
	var line strings.Builder

	fmt.Fprintf(&line, "`%s` <@%d>", action.Type, action.UserID)

	if !action.IsSystemAction() {
		fmt.Fprintf(&line, " by <@%d>", action.ModeratorID)
	}

	if action.Reason != "" {
		fmt.Fprintf(&line, " for `%s`", action.Reason)
	}

	switch {
	case !action.Active:
		line.WriteString(" (expired)")
	case action.Expiry != nil:
		fmt.Fprintf(&line, " (until <t:%d:F>)", action.Expiry.Unix())
	}

	fmt.Fprintf(&line, " | UUID: `%s`", action.ID)

	return line.String()
}
