package enum

// ActionType represents the kind of moderation action taken against a user.
type ActionType int

const (
	// ActionTypeUnknown is the fallback for unrecognized stored values.
	ActionTypeUnknown ActionType = iota
	// ActionTypeStrike is a recorded warning that can trigger escalation.
	ActionTypeStrike
	// ActionTypeMute restricts a member via the configured mute role.
	ActionTypeMute
	// ActionTypeKick removes a member from the guild without a record of return restriction.
	ActionTypeKick
	// ActionTypeBan removes a member and prevents rejoining.
	ActionTypeBan
)

// String returns the wire form of the action type.
func (a ActionType) String() string {
	switch a {
	case ActionTypeStrike:
		return "strike"
	case ActionTypeMute:
		return "mute"
	case ActionTypeKick:
		return "kick"
	case ActionTypeBan:
		return "ban"
	default:
		return "unknown"
	}
}

// ParseActionType maps a wire string back to an ActionType.
// Unrecognized input maps to ActionTypeUnknown.
func ParseActionType(s string) ActionType {
	switch s {
	case "strike":
		return ActionTypeStrike
	case "mute":
		return ActionTypeMute
	case "kick":
		return ActionTypeKick
	case "ban":
		return ActionTypeBan
	default:
		return ActionTypeUnknown
	}
}

// Reversible reports whether the action type has a reversal counterpart
// that the expiry sweeper can dispatch.
func (a ActionType) Reversible() bool {
	return a == ActionTypeMute || a == ActionTypeBan
}

// MarshalText implements encoding.TextMarshaler.
func (a ActionType) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *ActionType) UnmarshalText(text []byte) error {
	*a = ParseActionType(string(text))
	return nil
}
