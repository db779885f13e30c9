package removal

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"

	"strike-bot/model"
	"strike-bot/utils"
	"strike-bot/utils/database/cases"
	"strike-bot/utils/database/strikes"
)

// Start launches the removal flow for a target user: an ephemeral message
// listing every live ledger entry as a selectable option. No ledger is a
// terminal failure.
func Start(s *discordgo.Session, i *discordgo.InteractionCreate, b model.Bot, targetID string) {
	db := b.GetDB()

	row, err := strikes.GetEntries(db, i.GuildID, targetID)
	if errors.Is(err, strikes.ErrNotFound) {
		utils.SendErrorResponse(s, i, "This user has no active strikes.")
		return
	}
	if err != nil {
		log.Printf("Error reading ledger for removal of user %s: %v", targetID, err)
		utils.SendErrorResponse(s, i, "Failed to read the strike ledger.")
		return
	}
	if len(row.Entries) == 0 {
		utils.SendErrorResponse(s, i, "This user has no active strikes.")
		return
	}

	reasons := make(map[int64]string, len(row.Entries))
	for _, e := range row.Entries {
		record, err := cases.GetInfo(db, e.CaseID)
		if err != nil {
			log.Printf("Error loading case %d for removal menu: %v", e.CaseID, err)
			continue
		}
		reasons[e.CaseID] = record.Reason
	}

	sess := &Session{
		ID:          i.ID,
		GuildID:     i.GuildID,
		TargetID:    targetID,
		ModeratorID: i.Member.User.ID,
		Entries:     row.Entries,
		Total:       row.Total,
		ExpireAt:    time.Unix(row.ExpireAt, 0),
		Chosen:      -1,
		State:       StateSelectEntry,
		Interaction: i.Interaction,
	}

	content := fmt.Sprintf("Removing strikes from <@%s> (%d active point(s)). Pick the case to edit:", targetID, row.Total)
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Components: entryComponents(sess.ID, sess.Entries, reasons, false),
			Flags:      discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("Error sending removal menu: %v", err)
		return
	}

	active.put(sess, b.GetConfig().RemovalTimeout(), func(timedOut Session) {
		disableUI(s, timedOut)
	})
}

// disableUI is the timeout terminal: it greys out the controls and nothing
// else. Ledger state is untouched.
func disableUI(s *discordgo.Session, sess Session) {
	content := "Strike removal timed out."
	var components []discordgo.MessageComponent
	switch {
	case sess.Chosen >= 0 && sess.Chosen < len(sess.Entries):
		components = countComponents(sess.ID, sess.Entries[sess.Chosen], true)
	default:
		components = entryComponents(sess.ID, sess.Entries, nil, true)
	}
	_, err := s.InteractionResponseEdit(sess.Interaction, &discordgo.WebhookEdit{
		Content:    &content,
		Components: &components,
	})
	if err != nil {
		log.Printf("Error disabling removal UI after timeout: %v", err)
	}
}

// HandleEntrySelect processes the first menu: which case to edit.
func HandleEntrySelect(s *discordgo.Session, i *discordgo.InteractionCreate, b model.Bot) {
	sessionID := strings.TrimPrefix(i.MessageComponentData().CustomID, entryCustomIDPrefix)
	caseID, err := strconv.ParseInt(i.MessageComponentData().Values[0], 10, 64)
	if err != nil {
		utils.SendErrorResponse(s, i, "Invalid selection.")
		return
	}
	dispatch(s, i, b, sessionID, Event{Kind: EventSelectEntry, CaseID: caseID})
}

// HandleCountSelect processes the second menu: how many points to remove.
func HandleCountSelect(s *discordgo.Session, i *discordgo.InteractionCreate, b model.Bot) {
	sessionID := strings.TrimPrefix(i.MessageComponentData().CustomID, countCustomIDPrefix)
	count, err := strconv.Atoi(i.MessageComponentData().Values[0])
	if err != nil {
		utils.SendErrorResponse(s, i, "Invalid selection.")
		return
	}
	dispatch(s, i, b, sessionID, Event{Kind: EventSelectCount, Count: count})
}

func dispatch(s *discordgo.Session, i *discordgo.InteractionCreate, b model.Bot, sessionID string, ev Event) {
	sess, ok := active.get(sessionID)
	if !ok {
		utils.SendErrorResponse(s, i, "This removal session has expired.")
		return
	}
	if i.Member.User.ID != sess.ModeratorID {
		utils.SendErrorResponse(s, i, "Only the moderator who started this removal can use it.")
		return
	}

	next, effects, err := Transition(*sess, ev)
	if err != nil {
		log.Printf("Invalid removal transition for session %s: %v", sessionID, err)
		utils.SendErrorResponse(s, i, "Invalid selection.")
		return
	}

	switch next.State {
	case StateSelectCount:
		active.update(next)
		updateMessage(s, i,
			fmt.Sprintf("Case #%d carries %d point(s). How many should come off?", next.Entries[next.Chosen].CaseID, next.Entries[next.Chosen].Amount),
			countComponents(next.ID, next.Entries[next.Chosen], false))

	case StateDone:
		// Session is consumed now even if applying fails: a half-applied
		// removal must not be retried blind.
		active.take(sessionID)
		applyEffects(s, i, b, next, effects)
	}
}

// applyEffects executes a completed removal: commit the ledger write and, for
// a full removal, the case deactivation, then notify and audit.
func applyEffects(s *discordgo.Session, i *discordgo.InteractionCreate, b model.Bot, sess Session, effects []Effect) {
	db := b.GetDB()
	cfg := b.GetConfig()

	var caseID int64
	var removed int
	for _, ef := range effects {
		if ef.Kind == EffectNotify {
			caseID, removed = ef.CaseID, ef.Removed
		}
	}

	// The entry references its case weakly; finding the case already
	// inactive means prior state corruption, never something to repair here.
	record, err := cases.GetInfo(db, caseID)
	if err != nil {
		log.Printf("Error loading case %d during removal: %v", caseID, err)
		updateMessage(s, i, "Strike removal failed.", nil)
		return
	}
	if !record.Active {
		log.Printf("Consistency error: case %d referenced by ledger of user %s is inactive", caseID, sess.TargetID)
		updateMessage(s, i, "Strike removal failed.", nil)
		return
	}

	if err := commitLedger(db, sess, effects); err != nil {
		log.Printf("Error committing removal for user %s: %v", sess.TargetID, err)
		updateMessage(s, i, "Strike removal failed.", nil)
		return
	}

	for _, ef := range effects {
		switch ef.Kind {
		case EffectNotify:
			utils.SendPrivateMessage(s, sess.TargetID,
				fmt.Sprintf("A moderator removed %d strike point(s) tied to case #%d. You now have %d active point(s).", ef.Removed, ef.CaseID, sess.Total))

		case EffectAudit:
			if cfg.LogWebhookURL != "" {
				extra := fmt.Sprintf("moderator <@%s> removed %d point(s) from case #%d of user <@%s>, new total %d",
					sess.ModeratorID, ef.Removed, ef.CaseID, sess.TargetID, sess.Total)
				if err := utils.LogInfo(cfg.LogWebhookURL, "strike-removal", "remove", extra); err != nil {
					log.Printf("Error writing removal audit log: %v", err)
				}
			}
		}
	}

	updateMessage(s, i,
		fmt.Sprintf("Removed %d point(s) from case #%d. <@%s> now has %d active point(s).", removed, caseID, sess.TargetID, sess.Total),
		nil)
}

// commitLedger applies the database effects of a completed removal under the
// per-user row lock and stops at the first failure. The session snapshot was
// taken before the lock, so the ledger is re-read and re-validated first; the
// effect order then puts the ledger write before the case deactivation. An
// abort at any point leaves both the ledger and the referenced case exactly
// as they were.
func commitLedger(db *sqlx.DB, sess Session, effects []Effect) error {
	unlock := strikes.Lock(sess.GuildID, sess.TargetID)
	defer unlock()

	removed := 0
	for _, ef := range effects {
		if ef.Kind == EffectNotify {
			removed = ef.Removed
		}
	}
	current, err := strikes.GetEntries(db, sess.GuildID, sess.TargetID)
	if err != nil {
		return fmt.Errorf("failed to re-read ledger: %w", err)
	}
	if current.Total != sess.Total+removed {
		return fmt.Errorf("ledger changed during removal, total is %d but the session saw %d: %w",
			current.Total, sess.Total+removed, strikes.ErrConsistency)
	}

	for _, ef := range effects {
		switch ef.Kind {
		case EffectClearLedger:
			if err := strikes.Clear(db, sess.GuildID, sess.TargetID); err != nil {
				return fmt.Errorf("failed to clear ledger: %w", err)
			}
		case EffectRemoveStrike:
			if err := strikes.RemoveStrike(db, sess.GuildID, sess.TargetID, sess.ExpireAt, ef.Removed, ef.NewEntries); err != nil {
				return fmt.Errorf("failed to rewrite ledger: %w", err)
			}
		case EffectDeactivateCase:
			if err := cases.SetInactive(db, ef.CaseID); err != nil {
				return fmt.Errorf("failed to deactivate case %d: %w", ef.CaseID, err)
			}
		}
	}
	return nil
}

func updateMessage(s *discordgo.Session, i *discordgo.InteractionCreate, content string, components []discordgo.MessageComponent) {
	if components == nil {
		components = []discordgo.MessageComponent{}
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Components: components,
		},
	})
	if err != nil {
		log.Printf("Error updating removal message: %v", err)
	}
}
