// Package rules implements the /autopunish command surface: guild moderators
// configure which punishments fire at which exact strike totals.
package rules

import (
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"strike-bot/model"
	"strike-bot/punishcodec"
	"strike-bot/utils"
	rules_db "strike-bot/utils/database/rules"
)

// HandleAutoPunishCommand routes the add/remove/list subcommands.
func HandleAutoPunishCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b model.Bot) {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return
	}
	sub := data.Options[0]
	switch sub.Name {
	case "add":
		handleAdd(s, i, b, sub.Options)
	case "remove":
		handleRemove(s, i, b, sub.Options)
	case "list":
		handleList(s, i, b)
	}
}

func handleAdd(s *discordgo.Session, i *discordgo.InteractionCreate, b model.Bot, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	var (
		threshold    int
		actions      []model.Action
		duration     string
		tempDuration string
	)

	// Collected first, assembled after, so durations can attach to whichever
	// action needs them regardless of option order.
	var primary string
	var removeRole, addRole, tempRole string
	for _, opt := range opts {
		switch opt.Name {
		case "threshold":
			threshold = int(opt.IntValue())
		case "action":
			primary = opt.StringValue()
		case "duration":
			duration = opt.StringValue()
		case "remove_role":
			removeRole = opt.RoleValue(s, i.GuildID).ID
		case "add_role":
			addRole = opt.RoleValue(s, i.GuildID).ID
		case "temp_role":
			tempRole = opt.RoleValue(s, i.GuildID).ID
		case "temp_role_duration":
			tempDuration = opt.StringValue()
		}
	}

	if threshold < model.MinRuleThreshold || threshold > model.MaxRuleThreshold {
		utils.SendErrorResponse(s, i, fmt.Sprintf("Threshold must be between %d and %d.", model.MinRuleThreshold, model.MaxRuleThreshold))
		return
	}

	switch primary {
	case "kick":
		actions = append(actions, model.Action{Kind: model.ActionKick})
	case "mute", "ban":
		kind := model.ActionMute
		if primary == "ban" {
			kind = model.ActionBan
		}
		d, err := utils.ParseDuration(duration)
		if err != nil && !(primary == "ban" && duration == "") {
			utils.SendErrorResponse(s, i, "Invalid duration; use forms like 30m, 12h or 7d.")
			return
		}
		actions = append(actions, model.Action{Kind: kind, Duration: d})
	case "":
		// Role-only rules are fine.
	default:
		utils.SendErrorResponse(s, i, "Unknown action.")
		return
	}

	if removeRole != "" {
		actions = append(actions, model.Action{Kind: model.ActionRemoveRole, RoleID: removeRole})
	}
	if addRole != "" {
		actions = append(actions, model.Action{Kind: model.ActionAddRole, RoleID: addRole})
	}
	if tempRole != "" {
		d, err := utils.ParseDuration(tempDuration)
		if err != nil {
			utils.SendErrorResponse(s, i, "A temporary role needs a valid duration.")
			return
		}
		actions = append(actions, model.Action{Kind: model.ActionTempRole, RoleID: tempRole, Duration: d})
	}

	if err := punishcodec.Validate(actions); err != nil {
		utils.SendErrorResponse(s, i, fmt.Sprintf("Invalid rule: %v", err))
		return
	}

	bits, data := punishcodec.Encode(actions)
	created, err := rules_db.Add(b.GetDB(), model.RuleEntry{
		GuildID:   i.GuildID,
		Threshold: threshold,
		Actions:   bits,
		Data:      data,
	})
	if err != nil {
		log.Printf("Error adding rule at threshold %d for guild %s: %v", threshold, i.GuildID, err)
		utils.SendErrorResponse(s, i, "Failed to save the rule.")
		return
	}
	if !created {
		utils.SendErrorResponse(s, i, fmt.Sprintf("A rule already exists at %d strikes; remove it first.", threshold))
		return
	}

	utils.SendSimpleResponse(s, i, fmt.Sprintf("Rule added: at exactly %d strike(s), %s.", threshold, describeActions(actions)))
}

func handleRemove(s *discordgo.Session, i *discordgo.InteractionCreate, b model.Bot, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	var threshold int
	for _, opt := range opts {
		if opt.Name == "threshold" {
			threshold = int(opt.IntValue())
		}
	}

	removed, err := rules_db.Remove(b.GetDB(), i.GuildID, threshold)
	if err != nil {
		log.Printf("Error removing rule at threshold %d for guild %s: %v", threshold, i.GuildID, err)
		utils.SendErrorResponse(s, i, "Failed to remove the rule.")
		return
	}
	if !removed {
		utils.SendSimpleResponse(s, i, fmt.Sprintf("No rule at %d strikes.", threshold))
		return
	}
	utils.SendSimpleResponse(s, i, fmt.Sprintf("Removed the rule at %d strikes.", threshold))
}

func handleList(s *discordgo.Session, i *discordgo.InteractionCreate, b model.Bot) {
	list, err := rules_db.ListAll(b.GetDB(), i.GuildID)
	if err != nil {
		log.Printf("Error listing rules for guild %s: %v", i.GuildID, err)
		utils.SendErrorResponse(s, i, "Failed to list rules.")
		return
	}
	if len(list) == 0 {
		utils.SendSimpleResponse(s, i, "No autopunish rules configured.")
		return
	}

	var lines []string
	for _, rule := range list {
		actions := punishcodec.Decode(rule.Actions, rule.Data)
		lines = append(lines, fmt.Sprintf("**%d strikes**: %s", rule.Threshold, describeActions(actions)))
	}
	utils.SendSimpleResponse(s, i, strings.Join(lines, "\n"))
}

func describeActions(actions []model.Action) string {
	var parts []string
	for _, a := range actions {
		switch a.Kind {
		case model.ActionKick:
			parts = append(parts, "kick")
		case model.ActionMute:
			parts = append(parts, fmt.Sprintf("mute for %s", a.Duration))
		case model.ActionBan:
			if a.Duration == 0 {
				parts = append(parts, "ban permanently")
			} else {
				parts = append(parts, fmt.Sprintf("ban for %s", a.Duration))
			}
		case model.ActionRemoveRole:
			parts = append(parts, fmt.Sprintf("remove <@&%s>", a.RoleID))
		case model.ActionAddRole:
			parts = append(parts, fmt.Sprintf("add <@&%s>", a.RoleID))
		case model.ActionTempRole:
			parts = append(parts, fmt.Sprintf("add <@&%s> for %s", a.RoleID, a.Duration))
		}
	}
	if len(parts) == 0 {
		return "nothing (all segments malformed)"
	}
	return strings.Join(parts, ", ")
}
