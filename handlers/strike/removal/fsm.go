// Package removal implements the interactive strike removal flow as a state
// machine keyed by interaction id: a moderator picks one ledger entry, then
// (for multi-point entries) how many points to take off it. Transitions are
// pure; the handler executes the returned effects.
package removal

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"strike-bot/model"
)

type State int

const (
	StateSelectEntry State = iota
	StateSelectCount
	StateDone
	StateTimedOut
)

type EventKind int

const (
	EventSelectEntry EventKind = iota
	EventSelectCount
	EventTimeout
)

type Event struct {
	Kind   EventKind
	CaseID int64 // EventSelectEntry
	Count  int   // EventSelectCount
}

type EffectKind int

const (
	// EffectPromptCount re-renders the message with the 1..amount count menu.
	EffectPromptCount EffectKind = iota
	// EffectDeactivateCase marks the referenced case revoked; only emitted
	// when the entry's full contribution is removed.
	EffectDeactivateCase
	// EffectClearLedger deletes the whole ledger row (last entry removed).
	EffectClearLedger
	// EffectRemoveStrike commits the replacement entry list.
	EffectRemoveStrike
	// EffectNotify DMs the affected user, best effort.
	EffectNotify
	// EffectAudit writes the who-removed-what audit record.
	EffectAudit
	// EffectDisableUI disables the message components; the only effect the
	// timeout path ever produces.
	EffectDisableUI
)

type Effect struct {
	Kind       EffectKind
	CaseID     int64
	Removed    int
	NewEntries []model.StrikeEntry
}

// Session is one in-flight removal interaction.
type Session struct {
	ID          string
	GuildID     string
	TargetID    string
	ModeratorID string
	Entries     []model.StrikeEntry
	Total       int
	ExpireAt    time.Time
	Chosen      int // index into Entries, -1 until an entry is picked
	State       State

	// Interaction is kept so the timeout path can edit the original
	// ephemeral response; the transition logic never touches it.
	Interaction *discordgo.Interaction
}

// Transition applies one event and returns the updated session plus the
// effects to execute. It performs no I/O.
func Transition(s Session, ev Event) (Session, []Effect, error) {
	if ev.Kind == EventTimeout {
		if s.State == StateDone || s.State == StateTimedOut {
			return s, nil, nil
		}
		s.State = StateTimedOut
		return s, []Effect{{Kind: EffectDisableUI}}, nil
	}

	switch s.State {
	case StateSelectEntry:
		if ev.Kind != EventSelectEntry {
			return s, nil, fmt.Errorf("unexpected event %d in entry selection", ev.Kind)
		}
		idx := -1
		for j, e := range s.Entries {
			if e.CaseID == ev.CaseID {
				idx = j
				break
			}
		}
		if idx == -1 {
			return s, nil, fmt.Errorf("case %d is not in the ledger", ev.CaseID)
		}
		s.Chosen = idx
		if s.Entries[idx].Amount == 1 {
			return finishRemoval(s, 1)
		}
		s.State = StateSelectCount
		return s, []Effect{{Kind: EffectPromptCount}}, nil

	case StateSelectCount:
		if ev.Kind != EventSelectCount {
			return s, nil, fmt.Errorf("unexpected event %d in count selection", ev.Kind)
		}
		entry := s.Entries[s.Chosen]
		if ev.Count < 1 || ev.Count > entry.Amount {
			return s, nil, fmt.Errorf("count %d out of range for an entry of %d", ev.Count, entry.Amount)
		}
		return finishRemoval(s, ev.Count)

	default:
		return s, nil, fmt.Errorf("session already terminal")
	}
}

// finishRemoval computes the post-removal ledger. Taking an entry's full
// amount drops the entry and deactivates its case; a partial removal rewrites
// the entry in place and the case stays active.
func finishRemoval(s Session, count int) (Session, []Effect, error) {
	entry := s.Entries[s.Chosen]
	full := count == entry.Amount

	var newEntries []model.StrikeEntry
	for j, e := range s.Entries {
		if j == s.Chosen {
			if full {
				continue
			}
			e.Amount -= count
		}
		newEntries = append(newEntries, e)
	}

	// The ledger write comes first: the case is only deactivated once the
	// write has committed, so an aborted write leaves the case untouched.
	var effects []Effect
	if len(newEntries) == 0 {
		effects = append(effects, Effect{Kind: EffectClearLedger})
	} else {
		effects = append(effects, Effect{Kind: EffectRemoveStrike, Removed: count, NewEntries: newEntries})
	}
	if full {
		effects = append(effects, Effect{Kind: EffectDeactivateCase, CaseID: entry.CaseID})
	}
	effects = append(effects,
		Effect{Kind: EffectNotify, CaseID: entry.CaseID, Removed: count},
		Effect{Kind: EffectAudit, CaseID: entry.CaseID, Removed: count},
	)

	s.State = StateDone
	s.Entries = newEntries
	s.Total -= count
	return s, effects, nil
}
