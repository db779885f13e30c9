package model

import "time"

// ActionKind identifies one automatic punishment. The numeric values are the
// bit positions used in the persisted actions column, so they must not be
// reordered.
type ActionKind int

const (
	ActionKick ActionKind = iota
	ActionMute
	ActionBan
	ActionRemoveRole
	ActionAddRole
	ActionTempRole
)

// ActionKinds lists every kind in enumeration order. Decoding walks this list,
// so the order also fixes which parameter segment is consumed first.
var ActionKinds = []ActionKind{
	ActionKick,
	ActionMute,
	ActionBan,
	ActionRemoveRole,
	ActionAddRole,
	ActionTempRole,
}

func (k ActionKind) Bit() int64 {
	return 1 << int64(k)
}

func (k ActionKind) String() string {
	switch k {
	case ActionKick:
		return "kick"
	case ActionMute:
		return "mute"
	case ActionBan:
		return "ban"
	case ActionRemoveRole:
		return "remove_role"
	case ActionAddRole:
		return "add_role"
	case ActionTempRole:
		return "temp_role"
	}
	return "unknown"
}

// Action is one decoded punishment with its typed payload. Which fields are
// meaningful depends on Kind: Duration for mute/ban/temp-role, RoleID for the
// three role actions. A zero Duration on a ban means permanent.
type Action struct {
	Kind     ActionKind
	Duration time.Duration
	RoleID   string
}
