package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robalyx/reaper/internal/database/dbretry"
	"github.com/robalyx/reaper/internal/database/types"
	"github.com/robalyx/reaper/internal/database/types/enum"
	"github.com/robalyx/reaper/pkg/duration"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// ErrActionNotFound is returned when no action record matches the lookup.
var ErrActionNotFound = errors.New("action not found")

// ActionModel handles database operations for moderation action records.
type ActionModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewAction creates an ActionModel.
func NewAction(db *bun.DB, logger *zap.Logger) *ActionModel {
	return &ActionModel{
		db:     db,
		logger: logger.Named("db_action"),
	}
}

// Create inserts a new active action record. The expiry is computed from
// the parsed duration at insertion time; a permanent duration stores no
// expiry. A nil duration also means permanent.
func (m *ActionModel) Create(
	ctx context.Context, actionType enum.ActionType,
	guildID, userID, moderatorID uint64, reason string, dur *duration.Duration,
) (*types.Action, error) {
	now := time.Now()
	action := &types.Action{
		ID:          uuid.New(),
		Type:        actionType,
		GuildID:     guildID,
		UserID:      userID,
		ModeratorID: moderatorID,
		Reason:      reason,
		Active:      true,
		CreatedAt:   now,
	}
	if dur != nil {
		action.Expiry = dur.ExpiryFrom(now)
	}

	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewInsert().Model(action).Exec(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create action: %w", err)
	}

	m.logger.Debug("Created action",
		zap.String("id", action.ID.String()),
		zap.String("type", action.Type.String()),
		zap.Uint64("guildID", guildID),
		zap.Uint64("userID", userID))

	return action, nil
}

// Get fetches an action by its record ID within a guild.
func (m *ActionModel) Get(ctx context.Context, guildID uint64, id uuid.UUID) (*types.Action, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.Action, error) {
		var action types.Action

		err := m.db.NewSelect().
			Model(&action).
			Where("id = ?", id).
			Where("guild_id = ?", guildID).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrActionNotFound
			}

			return nil, fmt.Errorf("failed to get action: %w", err)
		}

		return &action, nil
	})
}

// GetRecentByModerator fetches the moderator's most recently issued action
// in the guild. Used by follow-up commands that omit an explicit record ID.
func (m *ActionModel) GetRecentByModerator(ctx context.Context, guildID, moderatorID uint64) (*types.Action, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.Action, error) {
		var action types.Action

		err := m.db.NewSelect().
			Model(&action).
			Where("guild_id = ?", guildID).
			Where("moderator_id = ?", moderatorID).
			Order("created_at DESC").
			Limit(1).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrActionNotFound
			}

			return nil, fmt.Errorf("failed to get recent action: %w", err)
		}

		return &action, nil
	})
}

// ListForUser fetches a member's action records in a guild, newest first.
// Inactive records are included only when includeExpired is set.
func (m *ActionModel) ListForUser(
	ctx context.Context, guildID, userID uint64, includeExpired bool,
) ([]*types.Action, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.Action, error) {
		var actions []*types.Action

		query := m.db.NewSelect().
			Model(&actions).
			Where("guild_id = ?", guildID).
			Where("user_id = ?", userID)
		if !includeExpired {
			query = query.Where("active = TRUE")
		}

		err := query.Order("created_at DESC").Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list actions: %w", err)
		}

		return actions, nil
	})
}

// CountActiveStrikes counts a member's active strike records in a guild.
func (m *ActionModel) CountActiveStrikes(ctx context.Context, guildID, userID uint64) (uint64, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (uint64, error) {
		count, err := m.db.NewSelect().
			Model((*types.Action)(nil)).
			Where("guild_id = ?", guildID).
			Where("user_id = ?", userID).
			Where("type = ?", enum.ActionTypeStrike).
			Where("active = TRUE").
			Count(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to count strikes: %w", err)
		}

		return uint64(count), nil
	})
}

// UpdateReason replaces the reason on an action record.
func (m *ActionModel) UpdateReason(ctx context.Context, guildID uint64, id uuid.UUID, reason string) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		res, err := m.db.NewUpdate().
			Model((*types.Action)(nil)).
			Set("reason = ?", reason).
			Where("id = ?", id).
			Where("guild_id = ?", guildID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to update reason: %w", err)
		}

		if rows, _ := res.RowsAffected(); rows == 0 {
			return ErrActionNotFound
		}

		return nil
	})
}

// UpdateExpiry replaces the expiry on an action record. A permanent
// duration clears the expiry.
func (m *ActionModel) UpdateExpiry(ctx context.Context, guildID uint64, id uuid.UUID, dur duration.Duration) error {
	expiry := dur.ExpiryFrom(time.Now())

	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		res, err := m.db.NewUpdate().
			Model((*types.Action)(nil)).
			Set("expiry = ?", expiry).
			Where("id = ?", id).
			Where("guild_id = ?", guildID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to update expiry: %w", err)
		}

		if rows, _ := res.RowsAffected(); rows == 0 {
			return ErrActionNotFound
		}

		return nil
	})
}

// Expire marks an action inactive. Expiring an already-inactive action is
// a no-op success.
func (m *ActionModel) Expire(ctx context.Context, guildID uint64, id uuid.UUID) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		exists, err := m.db.NewSelect().
			Model((*types.Action)(nil)).
			Where("id = ?", id).
			Where("guild_id = ?", guildID).
			Exists(ctx)
		if err != nil {
			return fmt.Errorf("failed to check action: %w", err)
		}

		if !exists {
			return ErrActionNotFound
		}

		_, err = m.db.NewUpdate().
			Model((*types.Action)(nil)).
			Set("active = FALSE").
			Where("id = ?", id).
			Where("guild_id = ?", guildID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to expire action: %w", err)
		}

		return nil
	})
}

// ExpireMostRecent marks the member's most recent still-active action of
// the given type inactive and returns it. Returns ErrActionNotFound when
// no active record of that type exists.
func (m *ActionModel) ExpireMostRecent(
	ctx context.Context, guildID, userID uint64, actionType enum.ActionType,
) (*types.Action, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.Action, error) {
		var action types.Action

		err := m.db.NewSelect().
			Model(&action).
			Where("guild_id = ?", guildID).
			Where("user_id = ?", userID).
			Where("type = ?", actionType).
			Where("active = TRUE").
			Order("created_at DESC").
			Limit(1).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrActionNotFound
			}

			return nil, fmt.Errorf("failed to find active action: %w", err)
		}

		_, err = m.db.NewUpdate().
			Model((*types.Action)(nil)).
			Set("active = FALSE").
			Where("id = ?", action.ID).
			Exec(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to expire action: %w", err)
		}

		action.Active = false

		return &action, nil
	})
}

// Delete removes an action record entirely.
func (m *ActionModel) Delete(ctx context.Context, guildID uint64, id uuid.UUID) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		res, err := m.db.NewDelete().
			Model((*types.Action)(nil)).
			Where("id = ?", id).
			Where("guild_id = ?", guildID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to delete action: %w", err)
		}

		if rows, _ := res.RowsAffected(); rows == 0 {
			return ErrActionNotFound
		}

		return nil
	})
}

// ClaimDueExpired atomically marks every active action whose expiry has
// passed as inactive and returns the claimed records. A record is returned
// by exactly one call even with concurrent sweepers.
func (m *ActionModel) ClaimDueExpired(ctx context.Context, now time.Time) ([]*types.Action, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.Action, error) {
		var actions []*types.Action

		err := m.db.NewUpdate().
			Model((*types.Action)(nil)).
			Set("active = FALSE").
			Where("active = TRUE").
			Where("expiry IS NOT NULL").
			Where("expiry < ?", now).
			Returning("*").
			Scan(ctx, &actions)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("failed to claim expired actions: %w", err)
		}

		if len(actions) > 0 {
			m.logger.Debug("Claimed expired actions", zap.Int("count", len(actions)))
		}

		return actions, nil
	})
}
