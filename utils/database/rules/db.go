package rules

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// EnsureSchema creates the autopunish rule table. The unique constraint is
// what makes Add fail on a duplicate threshold.
func EnsureSchema(db *sqlx.DB) error {
	schema := `CREATE TABLE IF NOT EXISTS auto_punish_rules (
	          guild_id TEXT NOT NULL,
	          strike_count INTEGER NOT NULL,
	          actions INTEGER NOT NULL,
	          data TEXT NOT NULL DEFAULT '',
	          UNIQUE (guild_id, strike_count)
	      );`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create auto punish rule table: %w", err)
	}
	return nil
}
