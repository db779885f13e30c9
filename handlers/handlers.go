package handlers

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"strike-bot/bot"
	"strike-bot/handlers/rules"
	"strike-bot/handlers/strike"
	"strike-bot/utils"
	rules_db "strike-bot/utils/database/rules"
	"strike-bot/utils/database/strikes"
)

func Register(b *bot.Bot) {
	b.CommandHandlers = commandHandlers(b)
	addHandlers(b)
}

// requireModerator wraps a handler with the guild-config and moderator-role
// gate every moderation command shares.
func requireModerator(b *bot.Bot, h func(s *discordgo.Session, i *discordgo.InteractionCreate)) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		serverCfg, ok := b.GetConfig().ServerConfigs[i.GuildID]
		if !ok {
			log.Printf("Could not find server config for guild: %s", i.GuildID)
			utils.SendErrorResponse(s, i, "This server is not configured.")
			return
		}
		if !utils.IsModerator(i.Member, &serverCfg) {
			utils.SendErrorResponse(s, i, "You do not have permission to use this command.")
			return
		}
		h(s, i)
	}
}

func commandHandlers(b *bot.Bot) map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate){
		"strike": requireModerator(b, func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			strike.HandleStrikeCommand(s, i, b)
		}),
		"strikes": requireModerator(b, func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			handleStrikesCommand(s, i, b)
		}),
		"autopunish": requireModerator(b, func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			rules.HandleAutoPunishCommand(s, i, b)
		}),
		"bot-status": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			SystemInfoHandler(s, i, b)
		},
	}
}

func addHandlers(b *bot.Bot) {
	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Printf("Logged in as: %v#%v", s.State.User.Username, s.State.User.Discriminator)
		if url := b.GetConfig().LogWebhookURL; url != "" {
			if err := utils.LogInfo(url, "system", "startup", "Bot has started successfully."); err != nil {
				log.Printf("Failed to send startup log: %v", err)
			}
		}
	})
	b.Session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		handleInteractionCreate(s, i, b)
	})
	b.Session.AddHandler(func(s *discordgo.Session, g *discordgo.GuildDelete) {
		// Leaving a guild drops its ledgers and rules; the case log stays.
		log.Printf("Left guild %s, clearing its strike data", g.ID)
		if err := strikes.ClearGuild(b.GetDB(), g.ID); err != nil {
			log.Printf("Error clearing strikes for departed guild %s: %v", g.ID, err)
		}
		if err := rules_db.ClearGuild(b.GetDB(), g.ID); err != nil {
			log.Printf("Error clearing rules for departed guild %s: %v", g.ID, err)
		}
		if url := b.GetConfig().LogWebhookURL; url != "" {
			if err := utils.LogWarn(url, "system", "guild-departure", fmt.Sprintf("left guild %s and dropped its strike data", g.ID)); err != nil {
				log.Printf("Failed to send guild departure log: %v", err)
			}
		}
	})
}
