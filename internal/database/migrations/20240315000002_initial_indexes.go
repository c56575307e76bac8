package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewRaw(`
			-- Sweeper drain scans only due active actions
			CREATE INDEX IF NOT EXISTS idx_actions_due
			ON actions (expiry ASC)
			WHERE active = TRUE AND expiry IS NOT NULL;

			-- Member history and active-strike counting
			CREATE INDEX IF NOT EXISTS idx_actions_guild_user
			ON actions (guild_id, user_id, created_at DESC);

			-- Most-recent-action lookup for follow-up commands
			CREATE INDEX IF NOT EXISTS idx_actions_guild_moderator
			ON actions (guild_id, moderator_id, created_at DESC);
		`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create indexes: %w", err)
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewRaw(`
			DROP INDEX IF EXISTS idx_actions_due;
			DROP INDEX IF EXISTS idx_actions_guild_user;
			DROP INDEX IF EXISTS idx_actions_guild_moderator;
		`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to drop indexes: %w", err)
		}

		return nil
	})
}
