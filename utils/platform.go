package utils

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

// DiscordPlatform adapts a discordgo session to the escalation.Platform
// interface.
type DiscordPlatform struct {
	Session *discordgo.Session
}

// CanActOn reports whether the bot's highest role sits above the target's in
// the guild hierarchy. Guild owners are never actionable.
func (p DiscordPlatform) CanActOn(guildID, userID string) (bool, error) {
	guild, err := p.Session.Guild(guildID)
	if err != nil {
		return false, fmt.Errorf("failed to fetch guild %s: %w", guildID, err)
	}
	if guild.OwnerID == userID {
		return false, nil
	}

	roles, err := p.Session.GuildRoles(guildID)
	if err != nil {
		return false, fmt.Errorf("failed to fetch roles for guild %s: %w", guildID, err)
	}
	positions := make(map[string]int, len(roles))
	for _, r := range roles {
		positions[r.ID] = r.Position
	}

	botMember, err := p.Session.GuildMember(guildID, p.Session.State.User.ID)
	if err != nil {
		return false, fmt.Errorf("failed to fetch bot member in guild %s: %w", guildID, err)
	}
	targetMember, err := p.Session.GuildMember(guildID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to fetch member %s in guild %s: %w", userID, guildID, err)
	}

	return highest(positions, botMember.Roles) > highest(positions, targetMember.Roles), nil
}

func highest(positions map[string]int, roleIDs []string) int {
	top := 0
	for _, id := range roleIDs {
		if p, ok := positions[id]; ok && p > top {
			top = p
		}
	}
	return top
}

func (p DiscordPlatform) MemberRoles(guildID, userID string) ([]string, error) {
	member, err := p.Session.GuildMember(guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch member %s in guild %s: %w", userID, guildID, err)
	}
	return member.Roles, nil
}

func (p DiscordPlatform) Kick(guildID, userID, reason string) error {
	return p.Session.GuildMemberDeleteWithReason(guildID, userID, reason)
}

func (p DiscordPlatform) Timeout(guildID, userID string, until time.Time, reason string) error {
	return p.Session.GuildMemberTimeout(guildID, userID, &until, discordgo.WithAuditLogReason(reason))
}

func (p DiscordPlatform) Ban(guildID, userID, reason string) error {
	return p.Session.GuildBanCreateWithReason(guildID, userID, reason, 0)
}

func (p DiscordPlatform) AddRole(guildID, userID, roleID string) error {
	return p.Session.GuildMemberRoleAdd(guildID, userID, roleID)
}

func (p DiscordPlatform) RemoveRole(guildID, userID, roleID string) error {
	return p.Session.GuildMemberRoleRemove(guildID, userID, roleID)
}
