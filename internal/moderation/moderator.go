package moderation

import (
	"context"
	"errors"
	"fmt"

	"github.com/robalyx/reaper/internal/database/models"
	"github.com/robalyx/reaper/internal/database/types"
	"github.com/robalyx/reaper/internal/database/types/enum"
	"github.com/robalyx/reaper/pkg/duration"
	"go.uber.org/zap"
)

// SystemActor is the moderator ID recorded on actions issued without a
// human moderator, like escalations and sweeper reversals.
const SystemActor uint64 = 0

// Moderator orchestrates moderation verbs: platform side effects through
// the effector, records through the action store, audit lines through the
// sink.
type Moderator struct {
	actions  ActionStore
	guilds   GuildStore
	effector Effector
	audit    AuditSink
	logger   *zap.Logger
}

// New creates a Moderator.
func New(
	actions ActionStore, guilds GuildStore, effector Effector, audit AuditSink, logger *zap.Logger,
) *Moderator {
	return &Moderator{
		actions:  actions,
		guilds:   guilds,
		effector: effector,
		audit:    audit,
		logger:   logger.Named("moderation"),
	}
}

// StrikeResult reports the outcome of issuing a strike. EscalationErr is
// set when an escalation was configured for the new strike count but
// could not be applied; the strike itself always stands.
type StrikeResult struct {
	Action        *types.Action
	Escalation    *types.Action
	EscalationErr error
}

// Strike records a strike against a member and applies any escalation
// configured for the resulting active strike count. The strike is
// committed before escalation is attempted and is never unwound.
func (m *Moderator) Strike(
	ctx context.Context, guildID, userID, moderatorID uint64, reason string, dur *duration.Duration,
) (*StrikeResult, error) {
	if err := m.checkTarget(userID, moderatorID); err != nil {
		return nil, err
	}

	action, err := m.actions.Create(ctx, enum.ActionTypeStrike, guildID, userID, moderatorID, reason, dur)
	if err != nil {
		return nil, fmt.Errorf("failed to record strike: %w", err)
	}

	m.audit.LogAction(ctx, action)

	result := &StrikeResult{Action: action}

	count, err := m.actions.CountActiveStrikes(ctx, guildID, userID)
	if err != nil {
		result.EscalationErr = fmt.Errorf("failed to count strikes: %w", err)
		return result, nil
	}

	guild, err := m.guilds.GetOrCreate(ctx, guildID)
	if err != nil {
		result.EscalationErr = fmt.Errorf("failed to load guild config: %w", err)
		return result, nil
	}

	escalation, ok := m.decideEscalation(guild.Config.Moderation, count, guildID)
	if !ok {
		return result, nil
	}

	result.Escalation, result.EscalationErr = m.applyEscalation(ctx, guildID, userID, count, escalation)

	return result, nil
}

// Mute assigns the guild's mute role to a member and records the action.
// A guild without a mute policy yields no action and no error.
func (m *Moderator) Mute(
	ctx context.Context, guildID, userID, moderatorID uint64, reason string, dur *duration.Duration,
) (*types.Action, error) {
	if err := m.checkTarget(userID, moderatorID); err != nil {
		return nil, err
	}

	muteRole, err := m.muteRole(ctx, guildID)
	if err != nil {
		if errors.Is(err, ErrNoMuteRole) {
			return nil, nil
		}

		return nil, err
	}

	if err := m.effector.GrantRole(ctx, guildID, userID, muteRole, reason); err != nil {
		return nil, fmt.Errorf("failed to assign mute role: %w", err)
	}

	action, err := m.actions.Create(ctx, enum.ActionTypeMute, guildID, userID, moderatorID, reason, dur)
	if err != nil {
		return nil, fmt.Errorf("failed to record mute: %w", err)
	}

	m.audit.LogAction(ctx, action)

	return action, nil
}

// Kick removes a member from the guild and records the action. Kicks
// never carry an expiry.
func (m *Moderator) Kick(
	ctx context.Context, guildID, userID, moderatorID uint64, reason string,
) (*types.Action, error) {
	if err := m.checkTarget(userID, moderatorID); err != nil {
		return nil, err
	}

	if err := m.effector.Kick(ctx, guildID, userID, reason); err != nil {
		return nil, fmt.Errorf("failed to kick member: %w", err)
	}

	action, err := m.actions.Create(ctx, enum.ActionTypeKick, guildID, userID, moderatorID, reason, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to record kick: %w", err)
	}

	m.audit.LogAction(ctx, action)

	return action, nil
}

// Ban bans a member from the guild and records the action.
func (m *Moderator) Ban(
	ctx context.Context, guildID, userID, moderatorID uint64, reason string, dur *duration.Duration,
) (*types.Action, error) {
	if err := m.checkTarget(userID, moderatorID); err != nil {
		return nil, err
	}

	if err := m.effector.Ban(ctx, guildID, userID, reason); err != nil {
		return nil, fmt.Errorf("failed to ban member: %w", err)
	}

	action, err := m.actions.Create(ctx, enum.ActionTypeBan, guildID, userID, moderatorID, reason, dur)
	if err != nil {
		return nil, fmt.Errorf("failed to record ban: %w", err)
	}

	m.audit.LogAction(ctx, action)

	return action, nil
}

// Unmute removes the guild's mute role from a member and expires their
// most recent active mute record. A member without the mute role is a
// no-op; the return value reports whether anything was removed.
func (m *Moderator) Unmute(
	ctx context.Context, guildID, userID, moderatorID uint64, reason string,
) (bool, error) {
	if err := m.checkTarget(userID, moderatorID); err != nil {
		return false, err
	}

	muteRole, err := m.muteRole(ctx, guildID)
	if err != nil {
		return false, err
	}

	hasRole, err := m.effector.MemberHasRole(ctx, guildID, userID, muteRole)
	if err != nil {
		return false, fmt.Errorf("failed to check mute role: %w", err)
	}

	if !hasRole {
		return false, nil
	}

	if err := m.effector.RevokeRole(ctx, guildID, userID, muteRole, reason); err != nil {
		return false, fmt.Errorf("failed to remove mute role: %w", err)
	}

	expired, err := m.actions.ExpireMostRecent(ctx, guildID, userID, enum.ActionTypeMute)
	if err != nil && !errors.Is(err, models.ErrActionNotFound) {
		return true, fmt.Errorf("failed to expire mute record: %w", err)
	}

	if expired != nil {
		m.audit.LogReversal(ctx, expired, moderatorID)
	}

	return true, nil
}

// Unban lifts a member's ban and expires their most recent active ban
// record.
func (m *Moderator) Unban(
	ctx context.Context, guildID, userID, moderatorID uint64, reason string,
) error {
	if err := m.checkTarget(userID, moderatorID); err != nil {
		return err
	}

	if err := m.effector.Unban(ctx, guildID, userID, reason); err != nil {
		return fmt.Errorf("failed to unban member: %w", err)
	}

	expired, err := m.actions.ExpireMostRecent(ctx, guildID, userID, enum.ActionTypeBan)
	if err != nil && !errors.Is(err, models.ErrActionNotFound) {
		return fmt.Errorf("failed to expire ban record: %w", err)
	}

	if expired != nil {
		m.audit.LogReversal(ctx, expired, moderatorID)
	}

	return nil
}

// checkTarget rejects a verb whose subject is its own moderator. The
// system actor is exempt.
func (m *Moderator) checkTarget(userID, moderatorID uint64) error {
	if moderatorID != SystemActor && moderatorID == userID {
		return ErrSelfTarget
	}

	return nil
}

// muteRole resolves the guild's configured mute role.
func (m *Moderator) muteRole(ctx context.Context, guildID uint64) (uint64, error) {
	guild, err := m.guilds.GetOrCreate(ctx, guildID)
	if err != nil {
		return 0, fmt.Errorf("failed to load guild config: %w", err)
	}

	cfg := guild.Config.Moderation
	if cfg == nil || cfg.MuteRole == 0 {
		return 0, ErrNoMuteRole
	}

	return cfg.MuteRole, nil
}
