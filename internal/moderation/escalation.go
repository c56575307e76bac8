package moderation

import (
	"context"
	"errors"
	"fmt"

	"github.com/robalyx/reaper/internal/database/types"
	"github.com/robalyx/reaper/internal/database/types/enum"
	"github.com/robalyx/reaper/pkg/duration"
	"go.uber.org/zap"
)

// decideEscalation looks up the escalation configured for the member's
// active strike count. The count includes the strike just recorded, so a
// member's third strike matches a threshold of three. Escalations
// configured with a non-actionable type are logged and skipped.
func (m *Moderator) decideEscalation(
	cfg *types.ModerationConfig, strikes uint64, guildID uint64,
) (types.StrikeEscalation, bool) {
	if cfg == nil {
		return types.StrikeEscalation{}, false
	}

	escalation, ok := cfg.EscalationFor(strikes)
	if !ok {
		return types.StrikeEscalation{}, false
	}

	switch escalation.Action {
	case enum.ActionTypeMute, enum.ActionTypeKick, enum.ActionTypeBan:
		return escalation, true
	default:
		m.logger.Warn("Ignoring non-actionable strike escalation",
			zap.Uint64("guildID", guildID),
			zap.Uint64("strikes", strikes),
			zap.String("action", escalation.Action.String()))

		return types.StrikeEscalation{}, false
	}
}

// applyEscalation runs the configured secondary action as the system
// actor. A mute escalation in a guild without a mute policy is reported
// as ErrNoMuteRole rather than silently doing nothing.
func (m *Moderator) applyEscalation(
	ctx context.Context, guildID, userID, strikes uint64, escalation types.StrikeEscalation,
) (*types.Action, error) {
	reason := fmt.Sprintf("Strike escalation (%d)", strikes)
	dur := duration.Parse(escalation.Duration)

	switch escalation.Action {
	case enum.ActionTypeMute:
		action, err := m.Mute(ctx, guildID, userID, SystemActor, reason, &dur)
		if err != nil {
			return nil, err
		}

		if action == nil {
			return nil, ErrNoMuteRole
		}

		return action, nil
	case enum.ActionTypeKick:
		return m.Kick(ctx, guildID, userID, SystemActor, reason)
	case enum.ActionTypeBan:
		return m.Ban(ctx, guildID, userID, SystemActor, reason, &dur)
	default:
		return nil, errors.New("unsupported escalation action")
	}
}
