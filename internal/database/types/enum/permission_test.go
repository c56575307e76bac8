package enum_test

import (
	"testing"

	"github.com/robalyx/reaper/internal/database/types/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermissionRoundTrip(t *testing.T) {
	t.Parallel()

	for _, perm := range enum.AllPermissions() {
		parsed, err := enum.ParsePermission(perm.String())
		require.NoError(t, err, "permission %s", perm)
		assert.Equal(t, perm, parsed)
	}
}

func TestParsePermissionUnknown(t *testing.T) {
	t.Parallel()

	_, err := enum.ParsePermission("moderation.timeout")
	require.Error(t, err)

	_, err = enum.ParsePermission("")
	require.Error(t, err)
}

func TestParsePermissionWireNames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		wire string
		want enum.Permission
	}{
		{"permissions.add", enum.PermissionGrantAdd},
		{"moderation.strike", enum.PermissionStrike},
		{"moderation.search.others.expired", enum.PermissionSearchOthersExpired},
		{"moderation.reason", enum.PermissionActionReason},
	}

	for _, tt := range tests {
		parsed, err := enum.ParsePermission(tt.wire)
		require.NoError(t, err, "wire %s", tt.wire)
		assert.Equal(t, tt.want, parsed)
	}
}

func TestActionTypeRoundTrip(t *testing.T) {
	t.Parallel()

	for _, at := range []enum.ActionType{
		enum.ActionTypeStrike,
		enum.ActionTypeMute,
		enum.ActionTypeKick,
		enum.ActionTypeBan,
	} {
		assert.Equal(t, at, enum.ParseActionType(at.String()))
	}

	assert.Equal(t, enum.ActionTypeUnknown, enum.ParseActionType("timeout"))
	assert.Equal(t, enum.ActionTypeUnknown, enum.ParseActionType(""))
}

func TestActionTypeReversible(t *testing.T) {
	t.Parallel()

	assert.True(t, enum.ActionTypeMute.Reversible())
	assert.True(t, enum.ActionTypeBan.Reversible())
	assert.False(t, enum.ActionTypeStrike.Reversible())
	assert.False(t, enum.ActionTypeKick.Reversible())
	assert.False(t, enum.ActionTypeUnknown.Reversible())
}
