package removal

import (
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"

	"strike-bot/model"
)

const (
	entryCustomIDPrefix = "strike_remove_entry:"
	countCustomIDPrefix = "strike_remove_count:"

	reasonPreviewLen = 80

	// Discord rejects select menus with more than 25 options.
	maxSelectOptions = 25
)

// previewReason shortens a case reason for a select option description,
// counting runes so a multibyte reason never gets split mid-character.
func previewReason(reason string) string {
	r := []rune(reason)
	if len(r) <= reasonPreviewLen {
		return reason
	}
	return string(r[:reasonPreviewLen-3]) + "..."
}

func entryComponents(sessionID string, entries []model.StrikeEntry, reasons map[int64]string, disabled bool) []discordgo.MessageComponent {
	options := make([]discordgo.SelectMenuOption, 0, len(entries))
	for _, e := range entries {
		if len(options) == maxSelectOptions {
			break
		}
		options = append(options, discordgo.SelectMenuOption{
			Label:       fmt.Sprintf("Case #%d (%d point(s))", e.CaseID, e.Amount),
			Value:       strconv.FormatInt(e.CaseID, 10),
			Description: previewReason(reasons[e.CaseID]),
		})
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					CustomID:    entryCustomIDPrefix + sessionID,
					Placeholder: "Select the strike to remove",
					Options:     options,
					Disabled:    disabled,
				},
			},
		},
	}
}

func countComponents(sessionID string, entry model.StrikeEntry, disabled bool) []discordgo.MessageComponent {
	options := make([]discordgo.SelectMenuOption, 0, entry.Amount)
	for k := 1; k <= entry.Amount; k++ {
		label := fmt.Sprintf("Remove %d point(s)", k)
		if k == entry.Amount {
			label = fmt.Sprintf("Remove all %d point(s)", k)
		}
		options = append(options, discordgo.SelectMenuOption{
			Label: label,
			Value: strconv.Itoa(k),
		})
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					CustomID:    countCustomIDPrefix + sessionID,
					Placeholder: fmt.Sprintf("How many points off case #%d?", entry.CaseID),
					Options:     options,
					Disabled:    disabled,
				},
			},
		},
	}
}
