package handlers

import (
	"strings"

	"github.com/bwmarrin/discordgo"

	"strike-bot/bot"
	"strike-bot/handlers/strike"
	"strike-bot/handlers/strike/removal"
	"strike-bot/utils"
)

func handleInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		if h, ok := b.CommandHandlers[i.ApplicationCommandData().Name]; ok {
			h(s, i)
		}
	case discordgo.InteractionMessageComponent:
		customID := i.MessageComponentData().CustomID
		if strings.HasPrefix(customID, "strike_remove_entry:") {
			removal.HandleEntrySelect(s, i, b)
		} else if strings.HasPrefix(customID, "strike_remove_count:") {
			removal.HandleCountSelect(s, i, b)
		}
	}
}

// handleStrikesCommand routes the /strikes subcommands.
func handleStrikesCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return
	}
	sub := data.Options[0]

	var target *discordgo.User
	for _, opt := range sub.Options {
		if opt.Name == "user" {
			target = opt.UserValue(s)
		}
	}
	if target == nil {
		utils.SendErrorResponse(s, i, "No target user given.")
		return
	}

	switch sub.Name {
	case "view":
		strike.HandleViewCommand(s, i, b, target)
	case "clear":
		strike.HandleClearCommand(s, i, b, target)
	case "remove":
		removal.Start(s, i, b, target.ID)
	}
}
