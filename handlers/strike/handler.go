package strike

import (
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"strike-bot/escalation"
	"strike-bot/model"
	"strike-bot/utils"
	"strike-bot/utils/database/cases"
	"strike-bot/utils/database/strikes"
)

// HandleStrikeCommand issues a strike: a case is logged, the ledger is
// updated, and the new total is checked against the guild's autopunish rules.
func HandleStrikeCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b model.Bot) {
	// 1. Defer initial response
	if err := utils.DeferResponse(s, i, true); err != nil {
		log.Printf("Failed to defer interaction: %v", err)
		return
	}

	cfg := b.GetConfig()
	serverCfg, ok := cfg.ServerConfigs[i.GuildID]
	if !ok {
		utils.SendFollowUpError(s, i.Interaction, "This server is not configured.")
		return
	}

	// 2. Parse command options
	opts := parseStrikeOptions(s, i)
	if opts.Target == nil {
		utils.SendFollowUpError(s, i.Interaction, "No target user given.")
		return
	}
	if opts.Severity < 1 || opts.Severity > 3 {
		utils.SendFollowUpError(s, i.Interaction, "Severity must be between 1 and 3.")
		return
	}

	db := b.GetDB()
	now := time.Now()

	// 3. Log the case
	caseID, err := cases.Create(db, model.StrikeCaseKind(opts.Severity), i.GuildID, opts.Target.ID, i.Member.User.ID, opts.Reason, now)
	if err != nil {
		log.Printf("Error creating strike case: %v", err)
		utils.SendFollowUpError(s, i.Interaction, "Failed to record the strike.")
		return
	}

	// 4. Update the ledger
	expireAt := now.Add(cfg.DecayWindow())
	unlock := strikes.Lock(i.GuildID, opts.Target.ID)
	total, err := strikes.AddStrikes(db, i.GuildID, opts.Target.ID, expireAt, opts.Severity, caseID)
	unlock()
	if err != nil {
		log.Printf("Error adding strikes for user %s: %v", opts.Target.ID, err)
		utils.SendFollowUpError(s, i.Interaction, "Failed to update the strike ledger.")
		return
	}

	// 5. Escalate if the new total matches a rule
	orch := &escalation.Orchestrator{
		DB:       db,
		Platform: utils.DiscordPlatform{Session: s},
		Registry: escalation.SQLRegistry{DB: db},
	}
	summary, err := orch.Run(&serverCfg, i.GuildID, opts.Target.ID, total)
	if err != nil {
		// The strike itself succeeded; escalation trouble must not unwind it.
		log.Printf("Error running escalation for user %s at total %d: %v", opts.Target.ID, total, err)
		if cfg.LogWebhookURL != "" {
			extra := fmt.Sprintf("escalation failed for user <@%s> at total %d: %v", opts.Target.ID, total, err)
			if logErr := utils.LogError(cfg.LogWebhookURL, "escalation", "run", extra); logErr != nil {
				log.Printf("Error writing escalation failure log: %v", logErr)
			}
		}
	}

	// 6. Notify the user, best effort
	notice := fmt.Sprintf("You received a severity %d strike (case #%d): %s\nYou now have %d active strike point(s).",
		opts.Severity, caseID, opts.Reason, total)
	if summary != "" {
		notice += "\nAutomatic action: " + summary
	}
	utils.SendPrivateMessage(s, opts.Target.ID, notice)

	// 7. Respond and audit
	embed := buildStrikeEmbed(i, opts.Target, opts.Severity, opts.Reason, caseID, total, expireAt, summary)
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Embeds: &[]*discordgo.MessageEmbed{embed}}); err != nil {
		log.Printf("Error sending strike response: %v", err)
	}
	if serverCfg.AuditChannelID != "" {
		if _, err := s.ChannelMessageSendEmbed(serverCfg.AuditChannelID, embed); err != nil {
			log.Printf("Error posting strike to audit channel: %v", err)
		}
	}
	if cfg.LogWebhookURL != "" {
		extra := fmt.Sprintf("moderator <@%s> struck user <@%s> (severity %d, case #%d), new total %d",
			i.Member.User.ID, opts.Target.ID, opts.Severity, caseID, total)
		if summary != "" {
			extra += ", escalation: " + summary
		}
		if err := utils.LogInfo(cfg.LogWebhookURL, "strike", "add", extra); err != nil {
			log.Printf("Error writing strike audit log: %v", err)
		}
	}
}

type strikeOptions struct {
	Target   *discordgo.User
	Severity int
	Reason   string
}

func parseStrikeOptions(s *discordgo.Session, i *discordgo.InteractionCreate) strikeOptions {
	var opts strikeOptions
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "user":
			opts.Target = opt.UserValue(s)
		case "severity":
			opts.Severity = int(opt.IntValue())
		case "reason":
			opts.Reason = opt.StringValue()
		}
	}
	return opts
}
