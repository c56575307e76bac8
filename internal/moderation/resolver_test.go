package moderation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/robalyx/reaper/internal/database/types/enum"
	"github.com/robalyx/reaper/internal/moderation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasPermission(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	actor := moderation.Actor{UserID: testUserID, GuildID: testGuildID}

	t.Run("owner always passes", func(t *testing.T) {
		t.Parallel()

		grants := newFakeGrantStore()
		grants.userErr = errors.New("unreachable")
		resolver := moderation.NewResolver(grants)

		owner := actor
		owner.IsOwner = true

		allowed, err := resolver.HasPermission(ctx, owner, enum.PermissionBan)
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("administrator always passes", func(t *testing.T) {
		t.Parallel()

		resolver := moderation.NewResolver(newFakeGrantStore())

		admin := actor
		admin.IsAdministrator = true

		allowed, err := resolver.HasPermission(ctx, admin, enum.PermissionGrantAdd)
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("direct grant", func(t *testing.T) {
		t.Parallel()

		grants := newFakeGrantStore()
		grants.users[grantKey(testGuildID, testUserID)] = []string{"moderation.strike"}
		resolver := moderation.NewResolver(grants)

		allowed, err := resolver.HasPermission(ctx, actor, enum.PermissionStrike)
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, err = resolver.HasPermission(ctx, actor, enum.PermissionBan)
		require.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("role grant", func(t *testing.T) {
		t.Parallel()

		grants := newFakeGrantStore()
		grants.roles[grantKey(testGuildID, 555)] = []string{"moderation.mute"}
		resolver := moderation.NewResolver(grants)

		member := actor
		member.RoleIDs = []uint64{444, 555}

		allowed, err := resolver.HasPermission(ctx, member, enum.PermissionMute)
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("everyone role shares the guild id", func(t *testing.T) {
		t.Parallel()

		grants := newFakeGrantStore()
		grants.roles[grantKey(testGuildID, testGuildID)] = []string{"moderation.search.self"}
		resolver := moderation.NewResolver(grants)

		allowed, err := resolver.HasPermission(ctx, actor, enum.PermissionSearchSelf)
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("no grant anywhere", func(t *testing.T) {
		t.Parallel()

		resolver := moderation.NewResolver(newFakeGrantStore())

		allowed, err := resolver.HasPermission(ctx, actor, enum.PermissionUnban)
		require.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("lookup failure aborts the check", func(t *testing.T) {
		t.Parallel()

		grants := newFakeGrantStore()
		grants.userErr = errors.New("connection refused")
		resolver := moderation.NewResolver(grants)

		_, err := resolver.HasPermission(ctx, actor, enum.PermissionStrike)
		require.Error(t, err)
	})

	t.Run("role lookup failure aborts before everyone fallback", func(t *testing.T) {
		t.Parallel()

		grants := newFakeGrantStore()
		grants.roleErr = errors.New("connection refused")
		resolver := moderation.NewResolver(grants)

		member := actor
		member.RoleIDs = []uint64{444}

		_, err := resolver.HasPermission(ctx, member, enum.PermissionStrike)
		require.Error(t, err)
	})
}
