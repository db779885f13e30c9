package utils

import (
	"github.com/bwmarrin/discordgo"

	"strike-bot/model"
)

// contains checks if a slice of strings contains an element.
func contains(slice []string, item string) bool {
	for _, a := range slice {
		if a == item {
			return true
		}
	}
	return false
}

// IsModerator reports whether the member may use the strike and rule
// commands: either a configured moderator role or guild-level ban authority.
func IsModerator(member *discordgo.Member, cfg *model.ServerConfig) bool {
	if member == nil {
		return false
	}
	for _, roleID := range member.Roles {
		if contains(cfg.ModRoleIDs, roleID) {
			return true
		}
	}
	return member.Permissions&discordgo.PermissionBanMembers != 0
}
