package commands

import "github.com/bwmarrin/discordgo"

func userOption(required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "user",
		Description: "The target user.",
		Required:    required,
	}
}

// GenerateCommands returns the slash commands registered in each enabled
// guild.
func GenerateCommands() []*discordgo.ApplicationCommand {
	minSeverity := float64(1)
	minThreshold := float64(1)
	maxThreshold := float64(40)

	return []*discordgo.ApplicationCommand{
		{
			Name:        "strike",
			Description: "Issue a strike to a user.",
			Options: []*discordgo.ApplicationCommandOption{
				userOption(true),
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "severity",
					Description: "How many points this strike carries (1-3).",
					Required:    true,
					MinValue:    &minSeverity,
					MaxValue:    3,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "reason",
					Description: "Why the strike is issued.",
					Required:    true,
				},
			},
		},
		{
			Name:        "strikes",
			Description: "Inspect or edit a user's strikes.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "view",
					Description: "Show a user's active strikes.",
					Options:     []*discordgo.ApplicationCommandOption{userOption(true)},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "clear",
					Description: "Clear all of a user's strikes.",
					Options:     []*discordgo.ApplicationCommandOption{userOption(true)},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "remove",
					Description: "Remove points from one of a user's strikes.",
					Options:     []*discordgo.ApplicationCommandOption{userOption(true)},
				},
			},
		},
		{
			Name:        "autopunish",
			Description: "Manage automatic punishments at strike thresholds.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "add",
					Description: "Add a rule at an exact strike total.",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "threshold",
							Description: "The exact strike total the rule fires at (1-40).",
							Required:    true,
							MinValue:    &minThreshold,
							MaxValue:    maxThreshold,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "action",
							Description: "The main punishment.",
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "kick", Value: "kick"},
								{Name: "mute", Value: "mute"},
								{Name: "ban", Value: "ban"},
							},
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "duration",
							Description: "Mute/ban duration (30m, 12h, 7d); omit for a permanent ban.",
						},
						{
							Type:        discordgo.ApplicationCommandOptionRole,
							Name:        "remove_role",
							Description: "Role to take away.",
						},
						{
							Type:        discordgo.ApplicationCommandOptionRole,
							Name:        "add_role",
							Description: "Role to hand out.",
						},
						{
							Type:        discordgo.ApplicationCommandOptionRole,
							Name:        "temp_role",
							Description: "Role to hand out temporarily.",
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "temp_role_duration",
							Description: "How long the temporary role lasts.",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "remove",
					Description: "Remove the rule at a threshold.",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "threshold",
							Description: "The threshold to clear.",
							Required:    true,
							MinValue:    &minThreshold,
							MaxValue:    maxThreshold,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List the configured rules.",
				},
			},
		},
		{
			Name:        "bot-status",
			Description: "Show bot and host status.",
		},
	}
}
