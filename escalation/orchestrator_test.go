package escalation

import (
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strike-bot/model"
	"strike-bot/punishcodec"
	"strike-bot/utils/database/pending"
	rules_db "strike-bot/utils/database/rules"
)

type fakePlatform struct {
	canAct bool
	roles  []string

	failKick    bool
	failTimeout bool
	failBan     bool
	failAddRole bool

	kicks    int
	timeouts []time.Time
	bans     int
	added    []string
	removed  []string
}

func (f *fakePlatform) CanActOn(guildID, userID string) (bool, error) { return f.canAct, nil }
func (f *fakePlatform) MemberRoles(guildID, userID string) ([]string, error) {
	return f.roles, nil
}
func (f *fakePlatform) Kick(guildID, userID, reason string) error {
	if f.failKick {
		return errors.New("missing permissions")
	}
	f.kicks++
	return nil
}
func (f *fakePlatform) Timeout(guildID, userID string, until time.Time, reason string) error {
	if f.failTimeout {
		return errors.New("missing permissions")
	}
	f.timeouts = append(f.timeouts, until)
	return nil
}
func (f *fakePlatform) Ban(guildID, userID, reason string) error {
	if f.failBan {
		return errors.New("missing permissions")
	}
	f.bans++
	return nil
}
func (f *fakePlatform) AddRole(guildID, userID, roleID string) error {
	if f.failAddRole {
		return errors.New("missing permissions")
	}
	f.added = append(f.added, roleID)
	return nil
}
func (f *fakePlatform) RemoveRole(guildID, userID, roleID string) error {
	f.removed = append(f.removed, roleID)
	return nil
}

type createdCase struct {
	kind        model.CaseKind
	moderatorID string
}

type fakeRegistry struct {
	cases []createdCase
}

func (r *fakeRegistry) Create(kind model.CaseKind, guildID, userID, moderatorID, reason string, at time.Time) (int64, error) {
	r.cases = append(r.cases, createdCase{kind: kind, moderatorID: moderatorID})
	return int64(len(r.cases)), nil
}

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, rules_db.EnsureSchema(db))
	require.NoError(t, pending.EnsureSchema(db))
	return db
}

func addRule(t *testing.T, db *sqlx.DB, guildID string, threshold int, actions []model.Action) {
	t.Helper()
	bits, data := punishcodec.Encode(actions)
	created, err := rules_db.Add(db, model.RuleEntry{GuildID: guildID, Threshold: threshold, Actions: bits, Data: data})
	require.NoError(t, err)
	require.True(t, created)
}

func newOrchestrator(db *sqlx.DB, p *fakePlatform, r *fakeRegistry) *Orchestrator {
	return &Orchestrator{DB: db, Platform: p, Registry: r}
}

func TestRunNoRuleIsSilent(t *testing.T) {
	db := newTestDB(t)
	platform := &fakePlatform{canAct: true}
	orch := newOrchestrator(db, platform, &fakeRegistry{})

	summary, err := orch.Run(&model.ServerConfig{}, "g1", "u1", 2)
	require.NoError(t, err)
	assert.Empty(t, summary)
	assert.Zero(t, platform.kicks)
}

func TestKickFiresOnceAtExactThreshold(t *testing.T) {
	db := newTestDB(t)
	addRule(t, db, "g1", 3, []model.Action{{Kind: model.ActionKick}})
	platform := &fakePlatform{canAct: true}
	registry := &fakeRegistry{}
	orch := newOrchestrator(db, platform, registry)

	// Case 101 amount 2, case 102 amount 1: only the add reaching exactly 3
	// consults a matching rule.
	summary, err := orch.Run(&model.ServerConfig{}, "g1", "u1", 2)
	require.NoError(t, err)
	assert.Empty(t, summary)

	summary, err = orch.Run(&model.ServerConfig{}, "g1", "u1", 3)
	require.NoError(t, err)
	assert.Equal(t, "kicked", summary)
	assert.Equal(t, 1, platform.kicks)
	require.Len(t, registry.cases, 1)
	assert.Equal(t, model.CaseKick, registry.cases[0].kind)
	assert.Equal(t, model.AutoModeratorID, registry.cases[0].moderatorID)

	// The next strike lands on 4; the rule at 3 does not refire.
	summary, err = orch.Run(&model.ServerConfig{}, "g1", "u1", 4)
	require.NoError(t, err)
	assert.Empty(t, summary)
	assert.Equal(t, 1, platform.kicks)
}

func TestSkippedThresholdNeverFires(t *testing.T) {
	db := newTestDB(t)
	addRule(t, db, "g1", 3, []model.Action{{Kind: model.ActionKick}})
	addRule(t, db, "g1", 5, []model.Action{{Kind: model.ActionMute, Duration: time.Hour}})
	platform := &fakePlatform{canAct: true}
	orch := newOrchestrator(db, platform, &fakeRegistry{})

	// A severity-3 strike takes the total from 2 straight to 5: only the
	// rule at the new exact total runs.
	summary, err := orch.Run(&model.ServerConfig{}, "g1", "u1", 5)
	require.NoError(t, err)
	assert.Contains(t, summary, "muted")
	assert.Zero(t, platform.kicks)
	assert.Len(t, platform.timeouts, 1)
}

func TestMuteAndRoleIndependentOfParamOrder(t *testing.T) {
	db := newTestDB(t)
	bits := model.ActionMute.Bit() | model.ActionAddRole.Bit()
	created, err := rules_db.Add(db, model.RuleEntry{GuildID: "g1", Threshold: 5, Actions: bits, Data: "ar555;t3600"})
	require.NoError(t, err)
	require.True(t, created)

	platform := &fakePlatform{canAct: true}
	registry := &fakeRegistry{}
	orch := newOrchestrator(db, platform, registry)

	before := time.Now()
	summary, err := orch.Run(&model.ServerConfig{}, "g1", "u1", 5)
	require.NoError(t, err)

	assert.Contains(t, summary, "muted for 1h0m0s")
	assert.Contains(t, summary, "<@&555>")
	assert.Equal(t, []string{"555"}, platform.added)
	require.Len(t, platform.timeouts, 1)
	assert.WithinDuration(t, before.Add(time.Hour), platform.timeouts[0], 5*time.Second)
	require.Len(t, registry.cases, 1)
	assert.Equal(t, model.CaseMute, registry.cases[0].kind)
}

func TestGuardStopsEverything(t *testing.T) {
	db := newTestDB(t)
	addRule(t, db, "g1", 3, []model.Action{{Kind: model.ActionKick}})

	t.Run("hierarchy", func(t *testing.T) {
		platform := &fakePlatform{canAct: false}
		orch := newOrchestrator(db, platform, &fakeRegistry{})
		summary, err := orch.Run(&model.ServerConfig{}, "g1", "u1", 3)
		require.NoError(t, err)
		assert.Empty(t, summary)
		assert.Zero(t, platform.kicks)
	})

	t.Run("immunity tier", func(t *testing.T) {
		platform := &fakePlatform{canAct: true, roles: []string{"staff"}}
		orch := newOrchestrator(db, platform, &fakeRegistry{})
		cfg := &model.ServerConfig{ImmuneRoleIDs: []string{"staff"}}
		summary, err := orch.Run(cfg, "g1", "u1", 3)
		require.NoError(t, err)
		assert.Empty(t, summary)
		assert.Zero(t, platform.kicks)
	})
}

func TestActionFailureDoesNotBlockSiblings(t *testing.T) {
	db := newTestDB(t)
	addRule(t, db, "g1", 5, []model.Action{
		{Kind: model.ActionMute, Duration: time.Hour},
		{Kind: model.ActionAddRole, RoleID: "555"},
	})
	platform := &fakePlatform{canAct: true, failTimeout: true}
	registry := &fakeRegistry{}
	orch := newOrchestrator(db, platform, registry)

	summary, err := orch.Run(&model.ServerConfig{}, "g1", "u1", 5)
	require.NoError(t, err)

	// The mute failed; the summary omits it, the role still landed, and no
	// mute case was logged.
	assert.NotContains(t, summary, "muted")
	assert.Contains(t, summary, "<@&555>")
	assert.Equal(t, []string{"555"}, platform.added)
	assert.Empty(t, registry.cases)
}

func TestAllActionsFailingReportsNoVisibleEffect(t *testing.T) {
	db := newTestDB(t)
	addRule(t, db, "g1", 3, []model.Action{{Kind: model.ActionKick}})
	platform := &fakePlatform{canAct: true, failKick: true}
	orch := newOrchestrator(db, platform, &fakeRegistry{})

	summary, err := orch.Run(&model.ServerConfig{}, "g1", "u1", 3)
	require.NoError(t, err)
	assert.Equal(t, NoVisibleEffect, summary)
}

func TestTimedBanSchedulesUnban(t *testing.T) {
	db := newTestDB(t)
	addRule(t, db, "g1", 10, []model.Action{{Kind: model.ActionBan, Duration: time.Hour}})
	platform := &fakePlatform{canAct: true}
	orch := newOrchestrator(db, platform, &fakeRegistry{})

	summary, err := orch.Run(&model.ServerConfig{}, "g1", "u1", 10)
	require.NoError(t, err)
	assert.Contains(t, summary, "banned for 1h0m0s")
	assert.Equal(t, 1, platform.bans)

	due, err := pending.GetDue(db, time.Now().Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, pending.KindBan, due[0].Kind)
}

func TestTempRoleSchedulesRemoval(t *testing.T) {
	db := newTestDB(t)
	addRule(t, db, "g1", 2, []model.Action{{Kind: model.ActionTempRole, RoleID: "777", Duration: 30 * time.Minute}})
	platform := &fakePlatform{canAct: true}
	registry := &fakeRegistry{}
	orch := newOrchestrator(db, platform, registry)

	summary, err := orch.Run(&model.ServerConfig{}, "g1", "u1", 2)
	require.NoError(t, err)
	assert.Contains(t, summary, "<@&777>")
	assert.Equal(t, []string{"777"}, platform.added)
	// A temp role is not a new moderation event; no case is logged.
	assert.Empty(t, registry.cases)

	due, err := pending.GetDue(db, time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, pending.KindRole, due[0].Kind)
	assert.Equal(t, "777", due[0].RoleID)
}

func TestEmptyDecodeIsSilent(t *testing.T) {
	db := newTestDB(t)
	// A mute rule whose only segment is malformed decodes to nothing.
	created, err := rules_db.Add(db, model.RuleEntry{GuildID: "g1", Threshold: 3, Actions: model.ActionMute.Bit(), Data: "txyz"})
	require.NoError(t, err)
	require.True(t, created)

	platform := &fakePlatform{canAct: true}
	orch := newOrchestrator(db, platform, &fakeRegistry{})
	summary, err := orch.Run(&model.ServerConfig{}, "g1", "u1", 3)
	require.NoError(t, err)
	assert.Empty(t, summary)
	assert.Empty(t, platform.timeouts)
}
