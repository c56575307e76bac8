package bot

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/robalyx/reaper/internal/database/types"
	"github.com/robalyx/reaper/internal/database/types/enum"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestSearchPermission(t *testing.T) {
	t.Parallel()

	assert.Equal(t, enum.PermissionSearchSelf, searchPermission(true, false))
	assert.Equal(t, enum.PermissionSearchSelfExpired, searchPermission(true, true))
	assert.Equal(t, enum.PermissionSearchOthers, searchPermission(false, false))
	assert.Equal(t, enum.PermissionSearchOthersExpired, searchPermission(false, true))
}

func TestFormatActionLine(t *testing.T) {
	t.Parallel()

	id := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	expiry := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("active with expiry", func(t *testing.T) {
		t.Parallel()

		line := formatActionLine(&types.Action{
			ID:          id,
			Type:        enum.ActionTypeMute,
			UserID:      200,
			ModeratorID: 300,
			Reason:      "flood",
			Active:      true,
			Expiry:      &expiry,
		})

		assert.Contains(t, line, "`mute` <@200> by <@300>")
		assert.Contains(t, line, "for `flood`")
		assert.Contains(t, line, "(until <t:1717200000:F>)")
		assert.Contains(t, line, id.String())
	})

	t.Run("expired system action", func(t *testing.T) {
		t.Parallel()

		line := formatActionLine(&types.Action{
			ID:     id,
			Type:   enum.ActionTypeStrike,
			UserID: 200,
			Reason: "Blacklisted content",
		})

		assert.NotContains(t, line, "by <@")
		assert.Contains(t, line, "(expired)")
	})
}

func TestMatchesBlacklist(t *testing.T) {
	t.Parallel()

	b := &Bot{logger: zap.NewNop()}

	cfg := &types.ModerationConfig{
		BlacklistedWords: []string{"Spoiler"},
		BlacklistedRegex: []string{`(?i)free\s+nitro`, `[invalid`},
	}

	assert.True(t, b.matchesBlacklist(cfg, "huge SPOILER ahead"))
	assert.True(t, b.matchesBlacklist(cfg, "click for Free   Nitro"))
	assert.False(t, b.matchesBlacklist(cfg, "a perfectly fine message"))
	assert.False(t, b.matchesBlacklist(&types.ModerationConfig{}, "anything"))
}
