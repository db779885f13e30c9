// Package scanner holds the periodic background sweeps: strike decay and the
// scheduled undo of temporary punishments.
package scanner

import (
	"log"
	"time"

	"github.com/jmoiron/sqlx"

	"strike-bot/utils/database/strikes"
)

// SweepExpiredStrikes clears every ledger whose decay deadline has passed.
// It goes through the same entry points as the command surface, so the
// row-exists-iff-positive invariant holds here too.
func SweepExpiredStrikes(db *sqlx.DB) {
	expired, err := strikes.GetExpired(db, time.Now())
	if err != nil {
		log.Printf("Error querying expired strike ledgers: %v", err)
		return
	}

	for _, row := range expired {
		unlock := strikes.Lock(row.GuildID, row.UserID)
		// Re-read under the lock: a strike added since the query moves the
		// deadline forward and the ledger must survive.
		current, err := strikes.GetEntries(db, row.GuildID, row.UserID)
		if err != nil || time.Unix(current.ExpireAt, 0).After(time.Now()) {
			unlock()
			continue
		}
		err = strikes.Clear(db, row.GuildID, row.UserID)
		unlock()
		if err != nil {
			log.Printf("Error clearing decayed ledger of user %s in guild %s: %v", row.UserID, row.GuildID, err)
			continue
		}
		log.Printf("Strikes of user %s in guild %s decayed (%d point(s) dropped)", row.UserID, row.GuildID, current.Total)
	}
}
