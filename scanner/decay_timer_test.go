package scanner

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strike-bot/utils/database/strikes"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, strikes.EnsureSchema(db))
	return db
}

func TestSweepClearsOnlyExpiredLedgers(t *testing.T) {
	db := newTestDB(t)
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	_, err := strikes.AddStrikes(db, "g1", "decayed", past, 2, 101)
	require.NoError(t, err)
	_, err = strikes.AddStrikes(db, "g1", "fresh", future, 1, 102)
	require.NoError(t, err)

	SweepExpiredStrikes(db)

	_, err = strikes.GetEntries(db, "g1", "decayed")
	assert.ErrorIs(t, err, strikes.ErrNotFound)

	row, err := strikes.GetEntries(db, "g1", "fresh")
	require.NoError(t, err)
	assert.Equal(t, 1, row.Total)
}

func TestSweepKeepsLedgerExtendedMidSweep(t *testing.T) {
	db := newTestDB(t)
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	_, err := strikes.AddStrikes(db, "g1", "u1", past, 2, 101)
	require.NoError(t, err)

	// Hold the row lock so the sweep queries the expired row but cannot touch
	// it yet; a new strike then pushes the deadline out before the lock is
	// released. The re-read under the lock must see the new deadline and keep
	// the ledger.
	unlock := strikes.Lock("g1", "u1")
	done := make(chan struct{})
	go func() {
		SweepExpiredStrikes(db)
		close(done)
	}()
	time.Sleep(100 * time.Millisecond)

	_, err = strikes.AddStrikes(db, "g1", "u1", future, 1, 102)
	require.NoError(t, err)
	unlock()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("sweep did not finish")
	}

	row, err := strikes.GetEntries(db, "g1", "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, row.Total)
	assert.EqualValues(t, future.Unix(), row.ExpireAt)
}
