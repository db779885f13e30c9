package strike

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"strike-bot/model"
	"strike-bot/utils"
	"strike-bot/utils/database/strikes"
)

// HandleClearCommand force-clears every active strike for a user. The logged
// cases stay on record; only the ledger goes away.
func HandleClearCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b model.Bot, target *discordgo.User) {
	db := b.GetDB()
	cfg := b.GetConfig()

	total, err := strikes.GetTotal(db, i.GuildID, target.ID)
	if err != nil {
		log.Printf("Error reading strike total for user %s: %v", target.ID, err)
		utils.SendErrorResponse(s, i, "Failed to read the strike ledger.")
		return
	}
	if total == 0 {
		utils.SendSimpleResponse(s, i, fmt.Sprintf("%s has no active strikes.", target.Username))
		return
	}

	unlock := strikes.Lock(i.GuildID, target.ID)
	err = strikes.Clear(db, i.GuildID, target.ID)
	unlock()
	if err != nil {
		log.Printf("Error clearing strikes for user %s: %v", target.ID, err)
		utils.SendErrorResponse(s, i, "Failed to clear the strike ledger.")
		return
	}

	utils.SendSimpleResponse(s, i, fmt.Sprintf("Cleared %d strike point(s) from %s.", total, target.Username))
	utils.SendPrivateMessage(s, target.ID, fmt.Sprintf("All %d of your strike point(s) were cleared by a moderator.", total))

	if cfg.LogWebhookURL != "" {
		extra := fmt.Sprintf("moderator <@%s> cleared all %d point(s) of user <@%s>", i.Member.User.ID, total, target.ID)
		if err := utils.LogInfo(cfg.LogWebhookURL, "strike", "clear", extra); err != nil {
			log.Printf("Error writing clear audit log: %v", err)
		}
	}
}
