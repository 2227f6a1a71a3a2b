// internal/common/discord/session.go
package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// NewSession builds a bot session. Interactions arrive over the gateway with
// the guilds intent alone; members and messages are fetched over REST.
func NewSession(token string) (*discordgo.Session, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds
	s.SyncEvents = false
	return s, nil
}

// RegisterCommands replaces the guild's slash commands with the entry
// command.
func RegisterCommands(s *discordgo.Session, applicationID, guildID, name string) error {
	cmds := []*discordgo.ApplicationCommand{
		{
			Name:        name,
			Description: "Start the application process",
		},
	}
	if _, err := s.ApplicationCommandBulkOverwrite(applicationID, guildID, cmds); err != nil {
		return fmt.Errorf("register commands for guild %s: %w", guildID, err)
	}
	return nil
}
