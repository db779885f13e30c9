package removal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strike-bot/model"
)

func newSession(entries ...model.StrikeEntry) Session {
	total := 0
	for _, e := range entries {
		total += e.Amount
	}
	return Session{
		ID:          "interaction-1",
		GuildID:     "g1",
		TargetID:    "u1",
		ModeratorID: "mod1",
		Entries:     entries,
		Total:       total,
		Chosen:      -1,
		State:       StateSelectEntry,
	}
}

func effectKinds(effects []Effect) []EffectKind {
	kinds := make([]EffectKind, 0, len(effects))
	for _, e := range effects {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

func TestSinglePointEntryFinishesImmediately(t *testing.T) {
	s := newSession(
		model.StrikeEntry{CaseID: 101, Amount: 2},
		model.StrikeEntry{CaseID: 102, Amount: 1},
	)

	s, effects, err := Transition(s, Event{Kind: EventSelectEntry, CaseID: 102})
	require.NoError(t, err)

	// Removing the only point of an entry needs no count prompt.
	assert.Equal(t, StateDone, s.State)
	assert.Equal(t, 2, s.Total)
	require.Len(t, s.Entries, 1)
	assert.Equal(t, int64(101), s.Entries[0].CaseID)

	kinds := effectKinds(effects)
	assert.Equal(t, []EffectKind{EffectRemoveStrike, EffectDeactivateCase, EffectNotify, EffectAudit}, kinds)
	assert.Equal(t, int64(102), effects[1].CaseID)
}

func TestMultiPointEntryPromptsForCount(t *testing.T) {
	s := newSession(model.StrikeEntry{CaseID: 101, Amount: 3})

	s, effects, err := Transition(s, Event{Kind: EventSelectEntry, CaseID: 101})
	require.NoError(t, err)

	assert.Equal(t, StateSelectCount, s.State)
	assert.Equal(t, 0, s.Chosen)
	require.Len(t, effects, 1)
	assert.Equal(t, EffectPromptCount, effects[0].Kind)
}

func TestPartialRemovalRewritesEntry(t *testing.T) {
	s := newSession(
		model.StrikeEntry{CaseID: 101, Amount: 2},
		model.StrikeEntry{CaseID: 102, Amount: 1},
	)

	s, _, err := Transition(s, Event{Kind: EventSelectEntry, CaseID: 101})
	require.NoError(t, err)
	s, effects, err := Transition(s, Event{Kind: EventSelectCount, Count: 1})
	require.NoError(t, err)

	// Case 101 keeps one point and stays active; only totals shrink.
	assert.Equal(t, StateDone, s.State)
	assert.Equal(t, 2, s.Total)
	require.Len(t, s.Entries, 2)
	assert.Equal(t, 1, s.Entries[0].Amount)

	kinds := effectKinds(effects)
	assert.Equal(t, []EffectKind{EffectRemoveStrike, EffectNotify, EffectAudit}, kinds)
	assert.NotContains(t, kinds, EffectDeactivateCase)
	assert.Equal(t, 1, effects[0].Removed)
	assert.Equal(t, []model.StrikeEntry{{CaseID: 101, Amount: 1}, {CaseID: 102, Amount: 1}}, effects[0].NewEntries)
}

func TestFullRemovalDeactivatesCase(t *testing.T) {
	s := newSession(
		model.StrikeEntry{CaseID: 101, Amount: 2},
		model.StrikeEntry{CaseID: 102, Amount: 1},
	)

	s, _, err := Transition(s, Event{Kind: EventSelectEntry, CaseID: 101})
	require.NoError(t, err)
	s, effects, err := Transition(s, Event{Kind: EventSelectCount, Count: 2})
	require.NoError(t, err)

	assert.Equal(t, 1, s.Total)
	require.Len(t, s.Entries, 1)
	assert.Equal(t, int64(102), s.Entries[0].CaseID)

	kinds := effectKinds(effects)
	assert.Equal(t, []EffectKind{EffectRemoveStrike, EffectDeactivateCase, EffectNotify, EffectAudit}, kinds)
}

func TestRemovingLastEntryClearsLedger(t *testing.T) {
	s := newSession(model.StrikeEntry{CaseID: 101, Amount: 1})

	s, effects, err := Transition(s, Event{Kind: EventSelectEntry, CaseID: 101})
	require.NoError(t, err)

	assert.Equal(t, 0, s.Total)
	assert.Empty(t, s.Entries)
	kinds := effectKinds(effects)
	assert.Equal(t, []EffectKind{EffectClearLedger, EffectDeactivateCase, EffectNotify, EffectAudit}, kinds)
}

func TestCountOutOfRangeIsRejected(t *testing.T) {
	s := newSession(model.StrikeEntry{CaseID: 101, Amount: 2})

	s, _, err := Transition(s, Event{Kind: EventSelectEntry, CaseID: 101})
	require.NoError(t, err)

	for _, count := range []int{0, 3} {
		_, effects, err := Transition(s, Event{Kind: EventSelectCount, Count: count})
		assert.Error(t, err)
		assert.Empty(t, effects)
	}
	// The session is still waiting, so a valid pick afterwards works.
	s, _, err = Transition(s, Event{Kind: EventSelectCount, Count: 2})
	require.NoError(t, err)
	assert.Equal(t, StateDone, s.State)
}

func TestUnknownCaseIsRejected(t *testing.T) {
	s := newSession(model.StrikeEntry{CaseID: 101, Amount: 2})

	s, effects, err := Transition(s, Event{Kind: EventSelectEntry, CaseID: 999})
	assert.Error(t, err)
	assert.Empty(t, effects)
	assert.Equal(t, StateSelectEntry, s.State)
}

func TestWrongEventForStateIsRejected(t *testing.T) {
	s := newSession(model.StrikeEntry{CaseID: 101, Amount: 2})

	_, _, err := Transition(s, Event{Kind: EventSelectCount, Count: 1})
	assert.Error(t, err)
}

func TestTimeoutOnlyDisablesUI(t *testing.T) {
	s := newSession(model.StrikeEntry{CaseID: 101, Amount: 2})

	s, effects, err := Transition(s, Event{Kind: EventTimeout})
	require.NoError(t, err)
	assert.Equal(t, StateTimedOut, s.State)
	require.Len(t, effects, 1)
	assert.Equal(t, EffectDisableUI, effects[0].Kind)

	// A terminal session ignores further events.
	_, effects, err = Transition(s, Event{Kind: EventSelectEntry, CaseID: 101})
	assert.Error(t, err)
	assert.Empty(t, effects)
}

func TestTimeoutAfterCompletionIsNoOp(t *testing.T) {
	s := newSession(model.StrikeEntry{CaseID: 101, Amount: 1})

	s, _, err := Transition(s, Event{Kind: EventSelectEntry, CaseID: 101})
	require.NoError(t, err)
	require.Equal(t, StateDone, s.State)

	s, effects, err := Transition(s, Event{Kind: EventTimeout})
	require.NoError(t, err)
	assert.Equal(t, StateDone, s.State)
	assert.Empty(t, effects)
}
