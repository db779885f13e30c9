package scanner

import (
	"log"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"

	"strike-bot/utils/database/pending"
)

// SweepPendingReversals undoes expired temporary punishments: removes temp
// roles and lifts timed bans. A failed platform call keeps the record so the
// next sweep retries it.
func SweepPendingReversals(s *discordgo.Session, db *sqlx.DB) {
	due, err := pending.GetDue(db, time.Now())
	if err != nil {
		log.Printf("Error querying due punishment reversals: %v", err)
		return
	}

	for _, r := range due {
		var undoErr error
		switch r.Kind {
		case pending.KindRole:
			undoErr = s.GuildMemberRoleRemove(r.GuildID, r.UserID, r.RoleID)
		case pending.KindBan:
			undoErr = s.GuildBanDelete(r.GuildID, r.UserID)
		default:
			log.Printf("Dropping pending reversal %d with unknown kind %q", r.ID, r.Kind)
		}
		if undoErr != nil {
			log.Printf("Failed to undo %s punishment for user %s in guild %s: %v", r.Kind, r.UserID, r.GuildID, undoErr)
			continue
		}
		if err := pending.Delete(db, r.ID); err != nil {
			log.Printf("Error deleting completed reversal %d: %v", r.ID, err)
		}
	}
}
