package enum

import "fmt"

// Permission represents a grantable capability checked before a command runs.
type Permission int

const (
	PermissionGrantAdd Permission = iota
	PermissionGrantRemove
	PermissionGrantView
	PermissionGrantList
	PermissionStrike
	PermissionSearchSelf
	PermissionSearchOthers
	PermissionSearchSelfExpired
	PermissionSearchOthersExpired
	PermissionSearchID
	PermissionMute
	PermissionUnmute
	PermissionKick
	PermissionBan
	PermissionUnban
	PermissionActionRemove
	PermissionActionExpire
	PermissionActionDuration
	PermissionActionReason
)

// permissionNames is the total two-way wire mapping. Stored grants and
// command gates both use these strings.
var permissionNames = map[Permission]string{
	PermissionGrantAdd:            "permissions.add",
	PermissionGrantRemove:         "permissions.remove",
	PermissionGrantView:           "permissions.view",
	PermissionGrantList:           "permissions.list",
	PermissionStrike:              "moderation.strike",
	PermissionSearchSelf:          "moderation.search.self",
	PermissionSearchOthers:        "moderation.search.others",
	PermissionSearchSelfExpired:   "moderation.search.self.expired",
	PermissionSearchOthersExpired: "moderation.search.others.expired",
	PermissionSearchID:            "moderation.search.uuid",
	PermissionMute:                "moderation.mute",
	PermissionUnmute:              "moderation.unmute",
	PermissionKick:                "moderation.kick",
	PermissionBan:                 "moderation.ban",
	PermissionUnban:               "moderation.unban",
	PermissionActionRemove:        "moderation.remove",
	PermissionActionExpire:        "moderation.expire",
	PermissionActionDuration:      "moderation.duration",
	PermissionActionReason:        "moderation.reason",
}

var permissionValues = func() map[string]Permission {
	m := make(map[string]Permission, len(permissionNames))
	for p, name := range permissionNames {
		m[name] = p
	}

	return m
}()

// String returns the wire form of the permission.
func (p Permission) String() string {
	if name, ok := permissionNames[p]; ok {
		return name
	}

	return fmt.Sprintf("Permission(%d)", int(p))
}

// ParsePermission maps a wire string back to a Permission. The enum is
// closed: unrecognized input is an error, never a silently stored grant.
func ParsePermission(s string) (Permission, error) {
	if p, ok := permissionValues[s]; ok {
		return p, nil
	}

	return 0, fmt.Errorf("unknown permission %q", s)
}

// AllPermissions returns every defined permission in declaration order.
func AllPermissions() []Permission {
	all := make([]Permission, 0, len(permissionNames))
	for p := PermissionGrantAdd; p <= PermissionActionReason; p++ {
		all = append(all, p)
	}

	return all
}

// MarshalText implements encoding.TextMarshaler.
func (p Permission) MarshalText() ([]byte, error) {
	name, ok := permissionNames[p]
	if !ok {
		return nil, fmt.Errorf("unknown permission value %d", int(p))
	}

	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Permission) UnmarshalText(text []byte) error {
	parsed, err := ParsePermission(string(text))
	if err != nil {
		return err
	}

	*p = parsed

	return nil
}
