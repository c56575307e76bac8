package expiry

import (
	"context"
	"time"

	"github.com/robalyx/reaper/internal/database/types"
	"github.com/robalyx/reaper/internal/database/types/enum"
	"github.com/robalyx/reaper/internal/moderation"
	"go.uber.org/zap"
)

// SweepInterval is how long the worker waits between drain cycles.
const SweepInterval = 5 * time.Second

// Store claims due action records.
type Store interface {
	ClaimDueExpired(ctx context.Context, now time.Time) ([]*types.Action, error)
}

// Reverser undoes the platform side effect of a lapsed action.
type Reverser interface {
	Unmute(ctx context.Context, guildID, userID, moderatorID uint64, reason string) (bool, error)
	Unban(ctx context.Context, guildID, userID, moderatorID uint64, reason string) error
}

// Worker drains due action records and dispatches their reversals as the
// system actor.
type Worker struct {
	actions  Store
	reverser Reverser
	logger   *zap.Logger
}

// New creates an expiry worker.
func New(actions Store, reverser Reverser, logger *zap.Logger) *Worker {
	return &Worker{
		actions:  actions,
		reverser: reverser,
		logger:   logger.Named("expiry"),
	}
}

// Start begins the expiry worker's main loop. It runs until the context
// is canceled.
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Expiry worker started")

	for {
		w.sweep(ctx)

		select {
		case <-ctx.Done():
			w.logger.Info("Expiry worker stopped")
			return
		case <-time.After(SweepInterval):
		}
	}
}

// sweep claims every due action and reverses each one. A failed reversal
// is logged and never blocks the rest of the batch; the record stays
// claimed either way.
func (w *Worker) sweep(ctx context.Context) {
	actions, err := w.actions.ClaimDueExpired(ctx, time.Now())
	if err != nil {
		w.logger.Error("Error claiming expired actions", zap.Error(err))
		return
	}

	for _, action := range actions {
		if err := w.reverse(ctx, action); err != nil {
			w.logger.Error("Error reversing expired action",
				zap.String("id", action.ID.String()),
				zap.String("type", action.Type.String()),
				zap.Uint64("guildID", action.GuildID),
				zap.Uint64("userID", action.UserID),
				zap.Error(err))
		}
	}

	if len(actions) > 0 {
		w.logger.Info("Swept expired actions", zap.Int("count", len(actions)))
	}
}

func (w *Worker) reverse(ctx context.Context, action *types.Action) error {
	switch action.Type {
	case enum.ActionTypeMute:
		_, err := w.reverser.Unmute(
			ctx, action.GuildID, action.UserID, moderation.SystemActor, "Mute expired")
		return err
	case enum.ActionTypeBan:
		return w.reverser.Unban(
			ctx, action.GuildID, action.UserID, moderation.SystemActor, "Ban expired")
	default:
		// Strikes lapse with no side effect to undo
		return nil
	}
}
