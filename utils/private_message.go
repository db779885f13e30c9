package utils

import (
	"log"

	"github.com/bwmarrin/discordgo"
)

// SendPrivateMessage sends a direct message to a user. Delivery is best
// effort: users can close their DMs and that must never fail the caller.
func SendPrivateMessage(s *discordgo.Session, userID, message string) {
	channel, err := s.UserChannelCreate(userID)
	if err != nil {
		log.Printf("Error creating private channel with user %s: %v", userID, err)
		return
	}
	if _, err := s.ChannelMessageSend(channel.ID, message); err != nil {
		log.Printf("Error sending private message to user %s: %v", userID, err)
	}
}
