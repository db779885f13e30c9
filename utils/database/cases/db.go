package cases

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// EnsureSchema creates the case registry table.
func EnsureSchema(db *sqlx.DB) error {
	schema := `CREATE TABLE IF NOT EXISTS cases (
	          case_id INTEGER PRIMARY KEY AUTOINCREMENT,
	          kind TEXT NOT NULL,
	          guild_id TEXT NOT NULL,
	          user_id TEXT NOT NULL,
	          moderator_id TEXT NOT NULL,
	          reason TEXT NOT NULL,
	          created_at INTEGER NOT NULL,
	          active INTEGER NOT NULL DEFAULT 1
	      );`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create cases table: %w", err)
	}
	return nil
}
