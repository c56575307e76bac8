package moderation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/robalyx/reaper/internal/database/types"
	"github.com/robalyx/reaper/internal/database/types/enum"
	"github.com/robalyx/reaper/pkg/duration"
)

// ActionStore persists moderation action records.
type ActionStore interface {
	Create(
		ctx context.Context, actionType enum.ActionType,
		guildID, userID, moderatorID uint64, reason string, dur *duration.Duration,
	) (*types.Action, error)
	Get(ctx context.Context, guildID uint64, id uuid.UUID) (*types.Action, error)
	CountActiveStrikes(ctx context.Context, guildID, userID uint64) (uint64, error)
	ExpireMostRecent(
		ctx context.Context, guildID, userID uint64, actionType enum.ActionType,
	) (*types.Action, error)
	ClaimDueExpired(ctx context.Context, now time.Time) ([]*types.Action, error)
}

// GuildStore provides guild configuration lookups.
type GuildStore interface {
	GetOrCreate(ctx context.Context, guildID uint64) (*types.Guild, error)
}

// GrantStore provides stored permission grant lookups for the resolver.
type GrantStore interface {
	GetOrCreateUser(ctx context.Context, guildID, userID uint64) (*types.GuildUser, error)
	GetOrCreateRole(ctx context.Context, guildID, roleID uint64) (*types.GuildRole, error)
}

// Effector applies moderation side effects on the chat platform.
type Effector interface {
	Ban(ctx context.Context, guildID, userID uint64, reason string) error
	Unban(ctx context.Context, guildID, userID uint64, reason string) error
	Kick(ctx context.Context, guildID, userID uint64, reason string) error
	GrantRole(ctx context.Context, guildID, userID, roleID uint64, reason string) error
	RevokeRole(ctx context.Context, guildID, userID, roleID uint64, reason string) error
	MemberHasRole(ctx context.Context, guildID, userID, roleID uint64) (bool, error)
}

// AuditSink receives human-readable records of completed actions. Sinks
// are best-effort; failures never affect the action itself.
type AuditSink interface {
	LogAction(ctx context.Context, action *types.Action)
	LogReversal(ctx context.Context, action *types.Action, moderatorID uint64)
}
