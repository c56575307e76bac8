package types

import (
	"github.com/robalyx/reaper/internal/database/types/enum"
)

// Guild represents a guild known to the bot and its stored configuration.
type Guild struct {
	ID     uint64      `bun:",pk"`         // Discord guild ID
	Config GuildConfig `bun:",type:jsonb"` // Per-guild configuration document
}

// GuildConfig is the per-guild configuration document. Sections are
// pointers so an absent section is distinguishable from an empty one.
// JSON keys are camelCase to match the stored wire form.
type GuildConfig struct {
	Logging    *LoggingConfig    `json:"logging,omitempty"`
	Moderation *ModerationConfig `json:"moderation,omitempty"`
}

// LoggingConfig selects where moderation audit lines are emitted.
type LoggingConfig struct {
	LoggingChannel uint64 `json:"loggingChannel,string"`
}

// ModerationConfig holds the guild's moderation policy.
type ModerationConfig struct {
	MuteRole              uint64                      `json:"muteRole,string"`
	StrikeEscalations     map[uint64]StrikeEscalation `json:"strikeEscalations,omitempty"`
	BlacklistedWords      []string                    `json:"blacklistedWords,omitempty"`
	BlacklistedRegex      []string                    `json:"blacklistedRegex,omitempty"`
	DefaultStrikeDuration string                      `json:"defaultStrikeDuration,omitempty"`
}

// StrikeEscalation is the secondary action applied when a member's active
// strike count exactly matches the configured threshold.
type StrikeEscalation struct {
	Action   enum.ActionType `json:"action"`
	Duration string          `json:"duration,omitempty"`
}

// EscalationFor returns the escalation configured for the given active
// strike count, if any.
func (c *ModerationConfig) EscalationFor(strikes uint64) (StrikeEscalation, bool) {
	esc, ok := c.StrikeEscalations[strikes]
	return esc, ok
}
