package moderation

import "errors"

var (
	// ErrSelfTarget is returned when a moderator directs a verb at
	// themselves. Checked before any side effect.
	ErrSelfTarget = errors.New("cannot target yourself")

	// ErrNoMuteRole is returned when a mute-role operation is attempted
	// in a guild whose moderation policy names no mute role.
	ErrNoMuteRole = errors.New("no mute role configured")
)
