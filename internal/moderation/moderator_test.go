package moderation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/robalyx/reaper/internal/database/types"
	"github.com/robalyx/reaper/internal/database/types/enum"
	"github.com/robalyx/reaper/internal/moderation"
	"github.com/robalyx/reaper/pkg/duration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testGuildID     = uint64(100)
	testUserID      = uint64(200)
	testModeratorID = uint64(300)
	testMuteRoleID  = uint64(400)
)

type testEnv struct {
	actions  *fakeActionStore
	guilds   *fakeGuildStore
	effector *fakeEffector
	audit    *fakeAudit
	mod      *moderation.Moderator
}

func newTestEnv(config types.GuildConfig) *testEnv {
	env := &testEnv{
		actions:  &fakeActionStore{},
		guilds:   &fakeGuildStore{config: config},
		effector: newFakeEffector(),
		audit:    &fakeAudit{},
	}
	env.mod = moderation.New(env.actions, env.guilds, env.effector, env.audit, zap.NewNop())

	return env
}

func mutePolicy() types.GuildConfig {
	return types.GuildConfig{
		Moderation: &types.ModerationConfig{MuteRole: testMuteRoleID},
	}
}

func TestStrike(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("records an active strike", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(types.GuildConfig{})
		dur := duration.Parse("10d")

		result, err := env.mod.Strike(ctx, testGuildID, testUserID, testModeratorID, "spam", &dur)
		require.NoError(t, err)
		require.NotNil(t, result.Action)
		assert.Equal(t, enum.ActionTypeStrike, result.Action.Type)
		assert.True(t, result.Action.Active)
		assert.NotNil(t, result.Action.Expiry)
		assert.Nil(t, result.Escalation)
		assert.NoError(t, result.EscalationErr)
		assert.Len(t, env.audit.logged, 1)
	})

	t.Run("rejects self target", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(types.GuildConfig{})

		_, err := env.mod.Strike(ctx, testGuildID, testModeratorID, testModeratorID, "spam", nil)
		require.ErrorIs(t, err, moderation.ErrSelfTarget)
		assert.Empty(t, env.actions.actions)
	})

	t.Run("third strike triggers configured ban", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(types.GuildConfig{
			Moderation: &types.ModerationConfig{
				StrikeEscalations: map[uint64]types.StrikeEscalation{
					3: {Action: enum.ActionTypeBan, Duration: "7d"},
				},
			},
		})

		for range 2 {
			_, err := env.mod.Strike(ctx, testGuildID, testUserID, testModeratorID, "spam", nil)
			require.NoError(t, err)
		}

		assert.Empty(t, env.effector.bans)

		result, err := env.mod.Strike(ctx, testGuildID, testUserID, testModeratorID, "spam", nil)
		require.NoError(t, err)
		require.NoError(t, result.EscalationErr)
		require.NotNil(t, result.Escalation)
		assert.Equal(t, enum.ActionTypeBan, result.Escalation.Type)
		assert.Equal(t, moderation.SystemActor, result.Escalation.ModeratorID)
		assert.Equal(t, "Strike escalation (3)", result.Escalation.Reason)
		assert.NotNil(t, result.Escalation.Expiry)
		assert.Equal(t, []uint64{testUserID}, env.effector.bans)
	})

	t.Run("fourth strike past the threshold does nothing", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(types.GuildConfig{
			Moderation: &types.ModerationConfig{
				StrikeEscalations: map[uint64]types.StrikeEscalation{
					3: {Action: enum.ActionTypeKick},
				},
			},
		})

		for range 4 {
			_, err := env.mod.Strike(ctx, testGuildID, testUserID, testModeratorID, "spam", nil)
			require.NoError(t, err)
		}

		assert.Len(t, env.effector.kicks, 1)
	})

	t.Run("strike escalation target is skipped", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(types.GuildConfig{
			Moderation: &types.ModerationConfig{
				StrikeEscalations: map[uint64]types.StrikeEscalation{
					1: {Action: enum.ActionTypeStrike},
				},
			},
		})

		result, err := env.mod.Strike(ctx, testGuildID, testUserID, testModeratorID, "spam", nil)
		require.NoError(t, err)
		assert.Nil(t, result.Escalation)
		assert.NoError(t, result.EscalationErr)
		assert.Len(t, env.actions.actions, 1)
	})

	t.Run("escalation failure keeps the strike", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(types.GuildConfig{
			Moderation: &types.ModerationConfig{
				StrikeEscalations: map[uint64]types.StrikeEscalation{
					1: {Action: enum.ActionTypeBan},
				},
			},
		})
		env.effector.banErr = errors.New("missing permissions")

		result, err := env.mod.Strike(ctx, testGuildID, testUserID, testModeratorID, "spam", nil)
		require.NoError(t, err)
		require.NotNil(t, result.Action)
		assert.True(t, result.Action.Active)
		require.Error(t, result.EscalationErr)
		assert.Nil(t, result.Escalation)

		count, err := env.actions.CountActiveStrikes(ctx, testGuildID, testUserID)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), count)
	})

	t.Run("mute escalation without policy reports no mute role", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(types.GuildConfig{
			Moderation: &types.ModerationConfig{
				StrikeEscalations: map[uint64]types.StrikeEscalation{
					1: {Action: enum.ActionTypeMute, Duration: "1d"},
				},
			},
		})

		result, err := env.mod.Strike(ctx, testGuildID, testUserID, testModeratorID, "spam", nil)
		require.NoError(t, err)
		assert.ErrorIs(t, result.EscalationErr, moderation.ErrNoMuteRole)
	})
}

func TestMute(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("assigns role then records", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(mutePolicy())
		dur := duration.Parse("1h")

		action, err := env.mod.Mute(ctx, testGuildID, testUserID, testModeratorID, "flood", &dur)
		require.NoError(t, err)
		require.NotNil(t, action)
		assert.Equal(t, enum.ActionTypeMute, action.Type)
		assert.Equal(t, testMuteRoleID, env.effector.granted[testUserID])
		assert.Len(t, env.audit.logged, 1)
	})

	t.Run("no policy yields no action and no error", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(types.GuildConfig{})

		action, err := env.mod.Mute(ctx, testGuildID, testUserID, testModeratorID, "flood", nil)
		require.NoError(t, err)
		assert.Nil(t, action)
		assert.Empty(t, env.effector.granted)
		assert.Empty(t, env.actions.actions)
	})

	t.Run("role failure records nothing", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(mutePolicy())
		env.effector.grantErr = errors.New("missing permissions")

		_, err := env.mod.Mute(ctx, testGuildID, testUserID, testModeratorID, "flood", nil)
		require.Error(t, err)
		assert.Empty(t, env.actions.actions)
	})

	t.Run("rejects self target", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(mutePolicy())

		_, err := env.mod.Mute(ctx, testGuildID, testModeratorID, testModeratorID, "flood", nil)
		require.ErrorIs(t, err, moderation.ErrSelfTarget)
	})
}

func TestKick(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("kick records without expiry", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(types.GuildConfig{})

		action, err := env.mod.Kick(ctx, testGuildID, testUserID, testModeratorID, "raid")
		require.NoError(t, err)
		assert.Equal(t, enum.ActionTypeKick, action.Type)
		assert.Nil(t, action.Expiry)
		assert.Equal(t, []uint64{testUserID}, env.effector.kicks)
	})

	t.Run("kick failure records nothing", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(types.GuildConfig{})
		env.effector.kickErr = errors.New("member not found")

		_, err := env.mod.Kick(ctx, testGuildID, testUserID, testModeratorID, "raid")
		require.Error(t, err)
		assert.Empty(t, env.actions.actions)
	})
}

func TestBan(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("permanent ban", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(types.GuildConfig{})

		action, err := env.mod.Ban(ctx, testGuildID, testUserID, testModeratorID, "raid", nil)
		require.NoError(t, err)
		assert.Equal(t, enum.ActionTypeBan, action.Type)
		assert.Nil(t, action.Expiry)
		assert.Equal(t, []uint64{testUserID}, env.effector.bans)
	})

	t.Run("temporary ban carries expiry", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(types.GuildConfig{})
		dur := duration.Parse("30d")

		action, err := env.mod.Ban(ctx, testGuildID, testUserID, testModeratorID, "raid", &dur)
		require.NoError(t, err)
		assert.NotNil(t, action.Expiry)
	})
}

func TestUnmute(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("removes role and expires record", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(mutePolicy())
		dur := duration.Parse("1h")

		_, err := env.mod.Mute(ctx, testGuildID, testUserID, testModeratorID, "flood", &dur)
		require.NoError(t, err)

		env.effector.memberRoles[testUserID] = []uint64{testMuteRoleID}

		removed, err := env.mod.Unmute(ctx, testGuildID, testUserID, testModeratorID, "appealed")
		require.NoError(t, err)
		assert.True(t, removed)
		assert.Equal(t, testMuteRoleID, env.effector.revoked[testUserID])
		assert.Len(t, env.audit.reversals, 1)
		assert.False(t, env.actions.actions[0].Active)
	})

	t.Run("member without mute role is a no-op", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(mutePolicy())

		removed, err := env.mod.Unmute(ctx, testGuildID, testUserID, testModeratorID, "appealed")
		require.NoError(t, err)
		assert.False(t, removed)
		assert.Empty(t, env.effector.revoked)
	})

	t.Run("no policy is an error", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(types.GuildConfig{})

		_, err := env.mod.Unmute(ctx, testGuildID, testUserID, testModeratorID, "appealed")
		require.ErrorIs(t, err, moderation.ErrNoMuteRole)
	})

	t.Run("missing record is still a successful unmute", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(mutePolicy())
		env.effector.memberRoles[testUserID] = []uint64{testMuteRoleID}

		removed, err := env.mod.Unmute(ctx, testGuildID, testUserID, testModeratorID, "appealed")
		require.NoError(t, err)
		assert.True(t, removed)
		assert.Empty(t, env.audit.reversals)
	})
}

func TestUnban(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("lifts ban and expires most recent record", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(types.GuildConfig{})

		first, err := env.mod.Ban(ctx, testGuildID, testUserID, testModeratorID, "raid", nil)
		require.NoError(t, err)

		second, err := env.mod.Ban(ctx, testGuildID, testUserID, testModeratorID, "raid again", nil)
		require.NoError(t, err)

		require.NoError(t, env.mod.Unban(ctx, testGuildID, testUserID, testModeratorID, "appealed"))
		assert.Equal(t, []uint64{testUserID}, env.effector.unbans)
		assert.True(t, first.Active)
		assert.False(t, second.Active)
	})

	t.Run("missing record is still a successful unban", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(types.GuildConfig{})

		require.NoError(t, env.mod.Unban(ctx, testGuildID, testUserID, testModeratorID, "appealed"))
		assert.Empty(t, env.audit.reversals)
	})

	t.Run("rejects self target", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(types.GuildConfig{})

		err := env.mod.Unban(ctx, testGuildID, testModeratorID, testModeratorID, "appealed")
		require.ErrorIs(t, err, moderation.ErrSelfTarget)
	})
}
