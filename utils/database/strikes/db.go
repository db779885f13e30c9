package strikes

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// EnsureSchema creates the strike ledger tables. The ledger is a parent row
// per (guild,user) holding the running total and decay deadline, plus child
// entry rows ordered by seq; both are always mutated in one transaction so
// the count column never drifts from the entry sum.
func EnsureSchema(db *sqlx.DB) error {
	schema := `CREATE TABLE IF NOT EXISTS strikes (
	          guild_id TEXT NOT NULL,
	          user_id TEXT NOT NULL,
	          count INTEGER NOT NULL,
	          expire_at INTEGER NOT NULL,
	          PRIMARY KEY (guild_id, user_id)
	      );
	      CREATE TABLE IF NOT EXISTS strike_entries (
	          guild_id TEXT NOT NULL,
	          user_id TEXT NOT NULL,
	          seq INTEGER NOT NULL,
	          case_id INTEGER NOT NULL,
	          amount INTEGER NOT NULL,
	          PRIMARY KEY (guild_id, user_id, seq)
	      );`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create strike tables: %w", err)
	}
	return nil
}
