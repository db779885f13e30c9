package strike

import (
	"errors"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"strike-bot/model"
	"strike-bot/utils"
	"strike-bot/utils/database/cases"
	"strike-bot/utils/database/strikes"
)

// HandleViewCommand shows a user's active strikes: total, decay point and the
// per-case breakdown.
func HandleViewCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b model.Bot, target *discordgo.User) {
	db := b.GetDB()

	row, err := strikes.GetEntries(db, i.GuildID, target.ID)
	if errors.Is(err, strikes.ErrNotFound) {
		utils.SendSimpleResponse(s, i, fmt.Sprintf("%s has no active strikes.", target.Username))
		return
	}
	if err != nil {
		log.Printf("Error reading ledger for user %s: %v", target.ID, err)
		utils.SendErrorResponse(s, i, "Failed to read the strike ledger.")
		return
	}

	reasons := make(map[int64]string, len(row.Entries))
	for _, e := range row.Entries {
		record, err := cases.GetInfo(db, e.CaseID)
		if err != nil {
			log.Printf("Error loading case %d for strike view: %v", e.CaseID, err)
			continue
		}
		reasons[e.CaseID] = record.Reason
	}

	history, err := cases.GetByUser(db, i.GuildID, target.ID)
	if err != nil {
		log.Printf("Error loading case history for user %s: %v", target.ID, err)
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{buildLedgerEmbed(target, row, reasons, history)},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("Error sending strike view: %v", err)
	}
}
