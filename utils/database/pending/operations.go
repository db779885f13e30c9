package pending

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Reversal kinds.
const (
	KindRole = "role" // remove role_id at undo_at
	KindBan  = "ban"  // lift the guild ban at undo_at
)

// Reversal is one scheduled undo of an automatic punishment.
type Reversal struct {
	ID      int64  `db:"id"`
	GuildID string `db:"guild_id"`
	UserID  string `db:"user_id"`
	Kind    string `db:"kind"`
	RoleID  string `db:"role_id"`
	UndoAt  int64  `db:"undo_at"`
}

// Schedule records a reversal to run at undoAt.
func Schedule(db *sqlx.DB, guildID, userID, kind, roleID string, undoAt time.Time) error {
	_, err := db.Exec(`INSERT INTO pending_reversals (guild_id, user_id, kind, role_id, undo_at)
		VALUES (?, ?, ?, ?, ?)`, guildID, userID, kind, roleID, undoAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to schedule %s reversal for user %s: %w", kind, userID, err)
	}
	return nil
}

// GetDue returns every reversal whose deadline has passed.
func GetDue(db *sqlx.DB, now time.Time) ([]Reversal, error) {
	var due []Reversal
	err := db.Select(&due, "SELECT * FROM pending_reversals WHERE undo_at <= ?", now.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to query due reversals: %w", err)
	}
	return due, nil
}

// Delete removes a completed reversal.
func Delete(db *sqlx.DB, id int64) error {
	if _, err := db.Exec("DELETE FROM pending_reversals WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete pending reversal %d: %w", id, err)
	}
	return nil
}
