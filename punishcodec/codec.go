// Package punishcodec translates between the typed punishment action list and
// the persisted wire form: an integer bit-field over the action kinds plus a
// ';'-joined string of tagged parameter segments.
package punishcodec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"strike-bot/model"
)

// Segment tags. Mute and ban share the bare duration tag; they can never
// appear in the same rule, so the tag is unambiguous.
const (
	tagDuration   = "t"
	tagRemoveRole = "rr"
	tagAddRole    = "ar"
	tagTempRole   = "tr"
)

// Encode packs an action list into the stored bit-field and parameter string.
// Segments are emitted in enumeration order; actions without payload (kick)
// emit none. The input is assumed to have passed Validate.
func Encode(actions []model.Action) (int64, string) {
	var bits int64
	var segments []string
	for _, kind := range model.ActionKinds {
		a, ok := find(actions, kind)
		if !ok {
			continue
		}
		bits |= kind.Bit()
		switch kind {
		case model.ActionMute, model.ActionBan:
			segments = append(segments, tagDuration+strconv.FormatInt(int64(a.Duration/time.Second), 10))
		case model.ActionRemoveRole:
			segments = append(segments, tagRemoveRole+a.RoleID)
		case model.ActionAddRole:
			segments = append(segments, tagAddRole+a.RoleID)
		case model.ActionTempRole:
			segments = append(segments, tagTempRole+a.RoleID+"-"+strconv.FormatInt(int64(a.Duration/time.Second), 10))
		}
	}
	return bits, strings.Join(segments, ";")
}

// Decode unpacks a stored bit-field and parameter string into the action list,
// in enumeration order. Each set bit is matched to the first segment carrying
// its tag, regardless of segment order. A malformed or missing segment drops
// only that action; the rest still decode.
func Decode(bits int64, data string) []model.Action {
	segments := strings.Split(data, ";")
	var actions []model.Action
	for _, kind := range model.ActionKinds {
		if bits&kind.Bit() == 0 {
			continue
		}
		a, ok := decodeOne(kind, segments)
		if !ok {
			continue
		}
		actions = append(actions, a)
	}
	return actions
}

func decodeOne(kind model.ActionKind, segments []string) (model.Action, bool) {
	switch kind {
	case model.ActionKick:
		return model.Action{Kind: model.ActionKick}, true
	case model.ActionMute, model.ActionBan:
		seg, ok := findSegment(segments, tagDuration)
		if !ok {
			return model.Action{}, false
		}
		secs, err := strconv.ParseInt(seg[len(tagDuration):], 10, 64)
		if err != nil || secs < 0 {
			return model.Action{}, false
		}
		// A zero duration means permanent for bans and is a disallowed
		// no-op for mutes.
		if kind == model.ActionMute && secs == 0 {
			return model.Action{}, false
		}
		return model.Action{Kind: kind, Duration: time.Duration(secs) * time.Second}, true
	case model.ActionRemoveRole, model.ActionAddRole:
		tag := tagRemoveRole
		if kind == model.ActionAddRole {
			tag = tagAddRole
		}
		seg, ok := findSegment(segments, tag)
		if !ok || len(seg) == len(tag) {
			return model.Action{}, false
		}
		return model.Action{Kind: kind, RoleID: seg[len(tag):]}, true
	case model.ActionTempRole:
		seg, ok := findSegment(segments, tagTempRole)
		if !ok {
			return model.Action{}, false
		}
		roleID, secsStr, found := strings.Cut(seg[len(tagTempRole):], "-")
		if !found || roleID == "" {
			return model.Action{}, false
		}
		secs, err := strconv.ParseInt(secsStr, 10, 64)
		if err != nil || secs <= 0 {
			return model.Action{}, false
		}
		return model.Action{Kind: model.ActionTempRole, RoleID: roleID, Duration: time.Duration(secs) * time.Second}, true
	}
	return model.Action{}, false
}

// findSegment returns the first segment carrying the given tag. The bare
// duration tag only matches when the tag is followed by a digit, so "t3600"
// matches but "tr555-60" does not.
func findSegment(segments []string, tag string) (string, bool) {
	for _, seg := range segments {
		if !strings.HasPrefix(seg, tag) {
			continue
		}
		if tag == tagDuration {
			rest := seg[len(tag):]
			if rest == "" || rest[0] < '0' || rest[0] > '9' {
				continue
			}
		}
		return seg, true
	}
	return "", false
}

func find(actions []model.Action, kind model.ActionKind) (model.Action, bool) {
	for _, a := range actions {
		if a.Kind == kind {
			return a, true
		}
	}
	return model.Action{}, false
}

var ErrInvalidActionSet = errors.New("invalid action set")

// Validate enforces the rule-side contract on an action list before it is
// encoded: kick/mute/ban are mutually exclusive, the role actions never
// combine with kick or ban, a removed role must not also be granted, and
// mute/temp-role durations are non-zero. A ban duration of zero means
// permanent and is allowed; a negative duration never is.
func Validate(actions []model.Action) error {
	if len(actions) == 0 {
		return fmt.Errorf("%w: no actions", ErrInvalidActionSet)
	}

	seen := make(map[model.ActionKind]bool, len(actions))
	for _, a := range actions {
		if seen[a.Kind] {
			return fmt.Errorf("%w: duplicate action %s", ErrInvalidActionSet, a.Kind)
		}
		seen[a.Kind] = true
	}

	exclusive := 0
	for _, k := range []model.ActionKind{model.ActionKick, model.ActionMute, model.ActionBan} {
		if seen[k] {
			exclusive++
		}
	}
	if exclusive > 1 {
		return fmt.Errorf("%w: kick, mute and ban are mutually exclusive", ErrInvalidActionSet)
	}

	hasRoleAction := seen[model.ActionRemoveRole] || seen[model.ActionAddRole] || seen[model.ActionTempRole]
	if hasRoleAction && (seen[model.ActionKick] || seen[model.ActionBan]) {
		return fmt.Errorf("%w: role actions cannot combine with kick or ban", ErrInvalidActionSet)
	}

	var removed string
	for _, a := range actions {
		if a.Kind == model.ActionRemoveRole {
			removed = a.RoleID
		}
	}
	for _, a := range actions {
		switch a.Kind {
		case model.ActionMute, model.ActionTempRole:
			if a.Duration <= 0 {
				return fmt.Errorf("%w: %s requires a non-zero duration", ErrInvalidActionSet, a.Kind)
			}
		case model.ActionBan:
			if a.Duration < 0 {
				return fmt.Errorf("%w: ban duration cannot be negative", ErrInvalidActionSet)
			}
		}
		if removed != "" && (a.Kind == model.ActionAddRole || a.Kind == model.ActionTempRole) && a.RoleID == removed {
			return fmt.Errorf("%w: role %s is both removed and granted", ErrInvalidActionSet, removed)
		}
	}
	return nil
}
