package types_test

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/robalyx/reaper/internal/database/types"
	"github.com/robalyx/reaper/internal/database/types/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuildUserGrants(t *testing.T) {
	t.Parallel()

	user := &types.GuildUser{ID: 1, GuildID: 2}

	assert.False(t, user.Has("moderation.strike"))
	assert.True(t, user.Grant("moderation.strike"))
	assert.False(t, user.Grant("moderation.strike"))
	assert.True(t, user.Has("moderation.strike"))

	assert.True(t, user.Revoke("moderation.strike"))
	assert.False(t, user.Revoke("moderation.strike"))
	assert.False(t, user.Has("moderation.strike"))
}

func TestGuildRoleGrants(t *testing.T) {
	t.Parallel()

	role := &types.GuildRole{ID: 10, GuildID: 2}

	assert.True(t, role.Grant("moderation.mute"))
	assert.True(t, role.Grant("moderation.kick"))
	assert.True(t, role.Revoke("moderation.mute"))
	assert.Equal(t, []string{"moderation.kick"}, role.Permissions)
}

func TestGuildConfigRoundTrip(t *testing.T) {
	t.Parallel()

	raw := `{
		"logging": {"loggingChannel": "123456789"},
		"moderation": {
			"muteRole": "987654321",
			"strikeEscalations": {"3": {"action": "ban", "duration": "7d"}},
			"blacklistedWords": ["spam"],
			"defaultStrikeDuration": "30d"
		}
	}`

	var config types.GuildConfig

	require.NoError(t, sonic.Unmarshal([]byte(raw), &config))
	require.NotNil(t, config.Logging)
	assert.Equal(t, uint64(123456789), config.Logging.LoggingChannel)
	require.NotNil(t, config.Moderation)
	assert.Equal(t, uint64(987654321), config.Moderation.MuteRole)

	escalation, ok := config.Moderation.EscalationFor(3)
	require.True(t, ok)
	assert.Equal(t, enum.ActionTypeBan, escalation.Action)
	assert.Equal(t, "7d", escalation.Duration)

	_, ok = config.Moderation.EscalationFor(4)
	assert.False(t, ok)

	out, err := sonic.Marshal(config)
	require.NoError(t, err)

	var back types.GuildConfig

	require.NoError(t, sonic.Unmarshal(out, &back))
	assert.Equal(t, config, back)
}

func TestGuildConfigAbsentSections(t *testing.T) {
	t.Parallel()

	var config types.GuildConfig

	require.NoError(t, sonic.Unmarshal([]byte(`{}`), &config))
	assert.Nil(t, config.Logging)
	assert.Nil(t, config.Moderation)
}
