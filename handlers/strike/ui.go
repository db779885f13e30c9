package strike

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"strike-bot/model"
)

func severityColor(severity int) int {
	switch severity {
	case 1:
		return 0xf1c40f // yellow
	case 2:
		return 0xe67e22 // orange
	}
	return 0xe74c3c // red
}

// buildStrikeEmbed creates the announcement embed for a freshly issued strike.
func buildStrikeEmbed(i *discordgo.InteractionCreate, target *discordgo.User, severity int, reason string, caseID int64, total int, expireAt time.Time, summary string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Strike (severity %d)", severity),
		Thumbnail: &discordgo.MessageEmbedThumbnail{
			URL: target.AvatarURL(""),
		},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User", Value: target.Mention()},
			{Name: "Reason", Value: reason},
			{Name: "Active total", Value: fmt.Sprintf("%d point(s)", total)},
			{Name: "Decays", Value: fmt.Sprintf("<t:%d:R>", expireAt.Unix())},
		},
		Timestamp: time.Now().Format(time.RFC3339),
		Color:     severityColor(severity),
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("By %s | Case #%d", i.Member.User.Username, caseID),
		},
	}
	if summary != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Automatic action",
			Value: summary,
		})
	}
	return embed
}

// buildLedgerEmbed creates the per-user strike overview for /strikes view.
func buildLedgerEmbed(target *discordgo.User, row *model.StrikeRow, reasons map[int64]string, history []model.CaseRecord) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Strikes for %s", target.Username),
		Thumbnail: &discordgo.MessageEmbedThumbnail{
			URL: target.AvatarURL(""),
		},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Active total", Value: fmt.Sprintf("%d point(s)", row.Total)},
			{Name: "Decays", Value: fmt.Sprintf("<t:%d:R>", row.ExpireAt)},
		},
		Color: 0x3498db,
	}

	var breakdown string
	for _, e := range row.Entries {
		reason := reasons[e.CaseID]
		if reason == "" {
			reason = "(no reason on file)"
		}
		breakdown += fmt.Sprintf("Case #%d: %d point(s), %s\n", e.CaseID, e.Amount, reason)
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:  "Breakdown",
		Value: breakdown,
	})

	if len(history) > 0 {
		var recent string
		for j, c := range history {
			if j == 5 {
				break
			}
			detail := ""
			if pts := c.Kind.Severity(); pts > 0 {
				detail = fmt.Sprintf(" (%d point(s))", pts)
			}
			if !c.Active {
				detail += " (revoked)"
			}
			recent += fmt.Sprintf("#%d %s%s <t:%d:R>\n", c.CaseID, c.Kind, detail, c.CreatedAt)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Recent cases",
			Value: recent,
		})
	}
	return embed
}
