package strikes

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"strike-bot/model"
)

// ErrNotFound reports an absent ledger row. Absence is the normal encoding of
// a zero total, not a failure.
var ErrNotFound = errors.New("no strike ledger for user")

// ErrConsistency reports a ledger state that contradicts itself, e.g. a
// replacement entry list whose sum does not match the expected new total.
// Operations never repair this; they abort without mutating.
var ErrConsistency = errors.New("strike ledger inconsistency")

// GetTotal returns the user's active strike total, 0 if no row exists.
func GetTotal(db *sqlx.DB, guildID, userID string) (int, error) {
	var total int
	err := db.Get(&total, "SELECT count FROM strikes WHERE guild_id = ? AND user_id = ?", guildID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get strike total for user %s in guild %s: %w", userID, guildID, err)
	}
	return total, nil
}

// GetEntries returns the full ledger row with its entries in issue order, or
// ErrNotFound if the user has no active strikes.
func GetEntries(db *sqlx.DB, guildID, userID string) (*model.StrikeRow, error) {
	var row model.StrikeRow
	err := db.Get(&row, "SELECT guild_id, user_id, count, expire_at FROM strikes WHERE guild_id = ? AND user_id = ?", guildID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get strike row for user %s in guild %s: %w", userID, guildID, err)
	}

	err = db.Select(&row.Entries, "SELECT case_id, amount FROM strike_entries WHERE guild_id = ? AND user_id = ? ORDER BY seq", guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get strike entries for user %s in guild %s: %w", userID, guildID, err)
	}
	return &row, nil
}

// AddStrikes appends one entry to the user's ledger, creating the row if
// absent, bumps the total by amount and moves the decay deadline to expireAt.
// Returns the new total.
func AddStrikes(db *sqlx.DB, guildID, userID string, expireAt time.Time, amount int, caseID int64) (int, error) {
	if amount < 1 || amount > 3 {
		return 0, fmt.Errorf("strike amount %d out of range", amount)
	}

	tx, err := db.Beginx()
	if err != nil {
		return 0, fmt.Errorf("failed to begin strike add: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO strikes (guild_id, user_id, count, expire_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(guild_id, user_id) DO UPDATE SET count = count + excluded.count, expire_at = excluded.expire_at`,
		guildID, userID, amount, expireAt.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to upsert strike row: %w", err)
	}

	_, err = tx.Exec(`INSERT INTO strike_entries (guild_id, user_id, seq, case_id, amount)
		SELECT ?, ?, COALESCE(MAX(seq), 0) + 1, ?, ? FROM strike_entries WHERE guild_id = ? AND user_id = ?`,
		guildID, userID, caseID, amount, guildID, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert strike entry: %w", err)
	}

	var total int
	if err := tx.Get(&total, "SELECT count FROM strikes WHERE guild_id = ? AND user_id = ?", guildID, userID); err != nil {
		return 0, fmt.Errorf("failed to read new strike total: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit strike add: %w", err)
	}
	return total, nil
}

// RemoveStrike replaces the user's entry list and total with the
// caller-supplied post-state. Before committing it checks that the new entry
// sum equals the old total minus removed; a mismatch means the caller's
// computation (or the stored state) is corrupt and nothing is written. If the
// post-state is empty the row is deleted rather than kept at zero.
func RemoveStrike(db *sqlx.DB, guildID, userID string, expireAt time.Time, removed int, newEntries []model.StrikeEntry) error {
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin strike removal: %w", err)
	}
	defer tx.Rollback()

	var oldTotal int
	err = tx.Get(&oldTotal, "SELECT count FROM strikes WHERE guild_id = ? AND user_id = ?", guildID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read strike row for removal: %w", err)
	}

	newTotal := 0
	for _, e := range newEntries {
		if e.Amount < 1 {
			return fmt.Errorf("%w: replacement entry for case %d has amount %d", ErrConsistency, e.CaseID, e.Amount)
		}
		newTotal += e.Amount
	}
	if newTotal != oldTotal-removed {
		return fmt.Errorf("%w: replacement entries sum to %d, expected %d-%d", ErrConsistency, newTotal, oldTotal, removed)
	}

	if _, err := tx.Exec("DELETE FROM strike_entries WHERE guild_id = ? AND user_id = ?", guildID, userID); err != nil {
		return fmt.Errorf("failed to clear old strike entries: %w", err)
	}

	if newTotal == 0 {
		if _, err := tx.Exec("DELETE FROM strikes WHERE guild_id = ? AND user_id = ?", guildID, userID); err != nil {
			return fmt.Errorf("failed to delete emptied strike row: %w", err)
		}
		return tx.Commit()
	}

	for seq, e := range newEntries {
		_, err := tx.Exec("INSERT INTO strike_entries (guild_id, user_id, seq, case_id, amount) VALUES (?, ?, ?, ?, ?)",
			guildID, userID, seq+1, e.CaseID, e.Amount)
		if err != nil {
			return fmt.Errorf("failed to insert replacement strike entry: %w", err)
		}
	}
	_, err = tx.Exec("UPDATE strikes SET count = ?, expire_at = ? WHERE guild_id = ? AND user_id = ?",
		newTotal, expireAt.Unix(), guildID, userID)
	if err != nil {
		return fmt.Errorf("failed to update strike row after removal: %w", err)
	}
	return tx.Commit()
}

// Clear deletes the user's ledger row and entries entirely.
func Clear(db *sqlx.DB, guildID, userID string) error {
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin strike clear: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM strike_entries WHERE guild_id = ? AND user_id = ?", guildID, userID); err != nil {
		return fmt.Errorf("failed to delete strike entries: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM strikes WHERE guild_id = ? AND user_id = ?", guildID, userID); err != nil {
		return fmt.Errorf("failed to delete strike row: %w", err)
	}
	return tx.Commit()
}

// ClearGuild drops every ledger in a guild, used when the bot leaves it.
func ClearGuild(db *sqlx.DB, guildID string) error {
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin guild strike clear: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM strike_entries WHERE guild_id = ?", guildID); err != nil {
		return fmt.Errorf("failed to delete guild strike entries: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM strikes WHERE guild_id = ?", guildID); err != nil {
		return fmt.Errorf("failed to delete guild strike rows: %w", err)
	}
	return tx.Commit()
}

// GetExpired returns every ledger row whose decay deadline has passed.
func GetExpired(db *sqlx.DB, now time.Time) ([]model.StrikeRow, error) {
	var rows []model.StrikeRow
	err := db.Select(&rows, "SELECT guild_id, user_id, count, expire_at FROM strikes WHERE expire_at <= ?", now.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to query expired strike rows: %w", err)
	}
	return rows, nil
}

// CountRows returns the number of live ledger rows, for the status command.
func CountRows(db *sqlx.DB) (int, error) {
	var n int
	if err := db.Get(&n, "SELECT COUNT(*) FROM strikes"); err != nil {
		return 0, fmt.Errorf("failed to count strike rows: %w", err)
	}
	return n, nil
}
