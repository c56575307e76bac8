package models

import (
	"context"
	"fmt"

	"github.com/robalyx/reaper/internal/database/dbretry"
	"github.com/robalyx/reaper/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// GuildModel handles database operations for guild configuration.
type GuildModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewGuild creates a GuildModel.
func NewGuild(db *bun.DB, logger *zap.Logger) *GuildModel {
	return &GuildModel{
		db:     db,
		logger: logger.Named("db_guild"),
	}
}

// GetOrCreate fetches the guild's row, inserting an empty one on first
// lookup. The insert is a no-op when the row already exists.
func (m *GuildModel) GetOrCreate(ctx context.Context, guildID uint64) (*types.Guild, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.Guild, error) {
		guild := &types.Guild{ID: guildID}

		_, err := m.db.NewInsert().
			Model(guild).
			On("CONFLICT (id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to ensure guild row: %w", err)
		}

		err = m.db.NewSelect().
			Model(guild).
			Where("id = ?", guildID).
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get guild: %w", err)
		}

		return guild, nil
	})
}

// UpdateConfig replaces the guild's stored configuration document.
func (m *GuildModel) UpdateConfig(ctx context.Context, guildID uint64, config types.GuildConfig) error {
	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		guild := &types.Guild{ID: guildID, Config: config}

		_, err := m.db.NewInsert().
			Model(guild).
			On("CONFLICT (id) DO UPDATE").
			Set("config = EXCLUDED.config").
			Exec(ctx)

		return err
	})
	if err != nil {
		return fmt.Errorf("failed to update guild config: %w", err)
	}

	m.logger.Debug("Updated guild config", zap.Uint64("guildID", guildID))

	return nil
}
