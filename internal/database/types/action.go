package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/robalyx/reaper/internal/database/types/enum"
)

// Action represents one moderation action taken against a guild member.
type Action struct {
	ID          uuid.UUID       `bun:",pk,type:uuid"` // Record identifier
	Type        enum.ActionType `bun:",notnull"`      // Kind of action taken
	GuildID     uint64          `bun:",notnull"`      // Guild the action belongs to
	UserID      uint64          `bun:",notnull"`      // Member the action targets
	ModeratorID uint64          `bun:",notnull"`      // Who issued the action (0 if system)
	Reason      string          `bun:",type:text"`    // Human-readable justification
	Active      bool            `bun:",notnull"`      // Whether the action still counts
	Expiry      *time.Time      `bun:",nullzero"`     // When the action lapses (null for permanent)
	CreatedAt   time.Time       `bun:",notnull"`      // When the action was issued
}

// IsPermanent checks if the action never lapses on its own.
func (a *Action) IsPermanent() bool {
	return a.Expiry == nil
}

// IsExpired checks if the action's expiry instant has passed.
func (a *Action) IsExpired() bool {
	return a.Expiry != nil && time.Now().After(*a.Expiry)
}

// IsSystemAction checks if the action was issued without a human moderator.
func (a *Action) IsSystemAction() bool {
	return a.ModeratorID == 0
}
