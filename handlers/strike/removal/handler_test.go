package removal

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strike-bot/model"
	"strike-bot/utils/database/cases"
	"strike-bot/utils/database/strikes"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, strikes.EnsureSchema(db))
	require.NoError(t, cases.EnsureSchema(db))
	return db
}

func sessionFromLedger(t *testing.T, db *sqlx.DB, guildID, userID string) Session {
	t.Helper()
	row, err := strikes.GetEntries(db, guildID, userID)
	require.NoError(t, err)
	return Session{
		ID:          "interaction-1",
		GuildID:     guildID,
		TargetID:    userID,
		ModeratorID: "mod1",
		Entries:     row.Entries,
		Total:       row.Total,
		ExpireAt:    time.Unix(row.ExpireAt, 0),
		Chosen:      -1,
		State:       StateSelectEntry,
	}
}

func TestCommitFullRemovalDeactivatesCase(t *testing.T) {
	db := newTestDB(t)
	expire := time.Now().Add(time.Hour)

	caseA, err := cases.Create(db, model.CaseStrike2, "g1", "u1", "mod1", "spamming", time.Now())
	require.NoError(t, err)
	_, err = strikes.AddStrikes(db, "g1", "u1", expire, 2, caseA)
	require.NoError(t, err)

	sess := sessionFromLedger(t, db, "g1", "u1")
	sess, _, err = Transition(sess, Event{Kind: EventSelectEntry, CaseID: caseA})
	require.NoError(t, err)
	sess, effects, err := Transition(sess, Event{Kind: EventSelectCount, Count: 2})
	require.NoError(t, err)

	require.NoError(t, commitLedger(db, sess, effects))

	// Last entry gone: the row is deleted and the case is revoked.
	_, err = strikes.GetEntries(db, "g1", "u1")
	assert.ErrorIs(t, err, strikes.ErrNotFound)
	record, err := cases.GetInfo(db, caseA)
	require.NoError(t, err)
	assert.False(t, record.Active)
}

// The session snapshot is taken before the row lock; a strike landing in
// between must abort the whole commit, clear path and rewrite path alike.
func TestCommitWithStaleSnapshotLeavesEverythingUntouched(t *testing.T) {
	db := newTestDB(t)
	expire := time.Now().Add(time.Hour)

	caseA, err := cases.Create(db, model.CaseStrike2, "g1", "u1", "mod1", "spamming", time.Now())
	require.NoError(t, err)
	_, err = strikes.AddStrikes(db, "g1", "u1", expire, 2, caseA)
	require.NoError(t, err)

	sess := sessionFromLedger(t, db, "g1", "u1")

	// Another strike lands after the session snapshot was taken.
	caseB, err := cases.Create(db, model.CaseStrike1, "g1", "u1", "mod2", "flooding", time.Now())
	require.NoError(t, err)
	_, err = strikes.AddStrikes(db, "g1", "u1", expire, 1, caseB)
	require.NoError(t, err)

	sess, _, err = Transition(sess, Event{Kind: EventSelectEntry, CaseID: caseA})
	require.NoError(t, err)
	sess, effects, err := Transition(sess, Event{Kind: EventSelectCount, Count: 2})
	require.NoError(t, err)

	err = commitLedger(db, sess, effects)
	assert.ErrorIs(t, err, strikes.ErrConsistency)

	// The abort mutated nothing: both entries are live and the case whose
	// removal was attempted is still active.
	row, err := strikes.GetEntries(db, "g1", "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, row.Total)
	assert.Equal(t, []model.StrikeEntry{{CaseID: caseA, Amount: 2}, {CaseID: caseB, Amount: 1}}, row.Entries)
	record, err := cases.GetInfo(db, caseA)
	require.NoError(t, err)
	assert.True(t, record.Active)
}

func TestCommitStaleRewriteAbortsWithoutMutation(t *testing.T) {
	db := newTestDB(t)
	expire := time.Now().Add(time.Hour)

	caseA, err := cases.Create(db, model.CaseStrike2, "g1", "u1", "mod1", "spamming", time.Now())
	require.NoError(t, err)
	_, err = strikes.AddStrikes(db, "g1", "u1", expire, 2, caseA)
	require.NoError(t, err)
	caseB, err := cases.Create(db, model.CaseStrike1, "g1", "u1", "mod1", "flooding", time.Now())
	require.NoError(t, err)
	_, err = strikes.AddStrikes(db, "g1", "u1", expire, 1, caseB)
	require.NoError(t, err)

	sess := sessionFromLedger(t, db, "g1", "u1")

	caseC, err := cases.Create(db, model.CaseStrike1, "g1", "u1", "mod2", "baiting", time.Now())
	require.NoError(t, err)
	_, err = strikes.AddStrikes(db, "g1", "u1", expire, 1, caseC)
	require.NoError(t, err)

	sess, _, err = Transition(sess, Event{Kind: EventSelectEntry, CaseID: caseA})
	require.NoError(t, err)
	sess, effects, err := Transition(sess, Event{Kind: EventSelectCount, Count: 2})
	require.NoError(t, err)

	err = commitLedger(db, sess, effects)
	assert.ErrorIs(t, err, strikes.ErrConsistency)

	row, err := strikes.GetEntries(db, "g1", "u1")
	require.NoError(t, err)
	assert.Equal(t, 4, row.Total)
	require.Len(t, row.Entries, 3)
	record, err := cases.GetInfo(db, caseA)
	require.NoError(t, err)
	assert.True(t, record.Active)
}

func entryMenu(t *testing.T, comps []discordgo.MessageComponent) discordgo.SelectMenu {
	t.Helper()
	require.Len(t, comps, 1)
	row, ok := comps[0].(discordgo.ActionsRow)
	require.True(t, ok)
	require.Len(t, row.Components, 1)
	menu, ok := row.Components[0].(discordgo.SelectMenu)
	require.True(t, ok)
	return menu
}

func TestEntryMenuCapsOptions(t *testing.T) {
	entries := make([]model.StrikeEntry, 0, 30)
	for j := 1; j <= 30; j++ {
		entries = append(entries, model.StrikeEntry{CaseID: int64(j), Amount: 1})
	}

	menu := entryMenu(t, entryComponents("s1", entries, nil, false))
	assert.Len(t, menu.Options, maxSelectOptions)
}

func TestEntryMenuPreviewIsRuneSafe(t *testing.T) {
	long := strings.Repeat("舰", 100)
	entries := []model.StrikeEntry{{CaseID: 1, Amount: 1}}
	reasons := map[int64]string{1: long}

	menu := entryMenu(t, entryComponents("s1", entries, reasons, false))
	preview := menu.Options[0].Description
	assert.True(t, utf8.ValidString(preview))
	assert.Equal(t, reasonPreviewLen, utf8.RuneCountInString(preview))
	assert.True(t, strings.HasSuffix(preview, "..."))
}
