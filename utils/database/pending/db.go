package pending

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// EnsureSchema creates the pending reversal table: punishments that undo
// themselves later (temporary roles, timed bans), swept by the scanner.
func EnsureSchema(db *sqlx.DB) error {
	schema := `CREATE TABLE IF NOT EXISTS pending_reversals (
	          id INTEGER PRIMARY KEY AUTOINCREMENT,
	          guild_id TEXT NOT NULL,
	          user_id TEXT NOT NULL,
	          kind TEXT NOT NULL,
	          role_id TEXT NOT NULL DEFAULT '',
	          undo_at INTEGER NOT NULL
	      );`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create pending reversal table: %w", err)
	}
	return nil
}
