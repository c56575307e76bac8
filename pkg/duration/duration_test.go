package duration_test

import (
	"testing"
	"time"

	"github.com/robalyx/reaper/pkg/duration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  duration.Duration
	}{
		{
			name:  "single unit",
			input: "10d",
			want:  duration.Duration{Days: 10},
		},
		{
			name:  "years and months",
			input: "2y3mo",
			want:  duration.Duration{Years: 2, Months: 3},
		},
		{
			name:  "all units",
			input: "1y2mo3w4d5h6m7s",
			want:  duration.Duration{Years: 1, Months: 2, Weeks: 3, Days: 4, Hours: 5, Minutes: 6, Seconds: 7},
		},
		{
			name:  "filler between value and unit",
			input: "10 days 5 hours",
			want:  duration.Duration{Days: 10, Hours: 5},
		},
		{
			name:  "months not minutes",
			input: "6mo",
			want:  duration.Duration{Months: 6},
		},
		{
			name:  "minutes",
			input: "45m",
			want:  duration.Duration{Minutes: 45},
		},
		{
			name:  "last occurrence wins",
			input: "1d2d",
			want:  duration.Duration{Days: 2},
		},
		{
			name:  "no recognizable token",
			input: "forever",
			want:  duration.Duration{},
		},
		{
			name:  "empty string",
			input: "",
			want:  duration.Duration{},
		},
		{
			name:  "case sensitive units ignored",
			input: "10D",
			want:  duration.Duration{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := duration.Parse(tt.input)
			tt.want.Raw = tt.input
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsPermanent(t *testing.T) {
	t.Parallel()

	assert.True(t, duration.Parse("").IsPermanent())
	assert.True(t, duration.Parse("soon").IsPermanent())
	assert.False(t, duration.Parse("1s").IsPermanent())
	assert.True(t, duration.Parse("0d").IsPermanent())
}

func TestTotalSeconds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  uint64
	}{
		{"10d", 864000},
		{"2y3mo", 2*31536000 + 3*2592000},
		{"1w", 604800},
		{"1h30m", 5400},
		{"90s", 90},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, duration.Parse(tt.input).TotalSeconds(), "input %q", tt.input)
	}
}

func TestExpiryFrom(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	t.Run("permanent has no expiry", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, duration.Parse("").ExpiryFrom(now))
	})

	t.Run("ten days", func(t *testing.T) {
		t.Parallel()

		expiry := duration.Parse("10d").ExpiryFrom(now)
		require.NotNil(t, expiry)
		assert.Equal(t, now.Add(864000*time.Second), *expiry)
	})

	t.Run("parse is independent of conversion time", func(t *testing.T) {
		t.Parallel()

		d := duration.Parse("1h")
		first := d.ExpiryFrom(now)
		second := d.ExpiryFrom(now.Add(time.Hour))
		require.NotNil(t, first)
		require.NotNil(t, second)
		assert.Equal(t, time.Hour, second.Sub(*first))
	})
}
