package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/pmurley/dembot/internal/linkcheck"
)

// scanMessage checks every link in a guild message against the donate
// scanner and logs the first hit to the guild's configured log channel.
func (hm *HandlerManager) scanMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	settings := hm.settings.Get(m.GuildID)
	if !settings.LinkCheckEnabled {
		return
	}

	links := linkcheck.ExtractLinks(m.Content)
	for _, link := range links {
		hm.logger.Debug("Checking link: ", link)
		hit, err := hm.scanner.IsDonatePage(link)
		if err != nil {
			hm.logger.Warnf("Error checking %s: %v", link, err)
			continue
		}
		if hit {
			hm.logDonateLink(s, m, settings.LoggingChannelID)
			return
		}
	}
}

func (hm *HandlerManager) logDonateLink(s *discordgo.Session, m *discordgo.MessageCreate, loggingChannelID string) {
	if loggingChannelID == "" {
		hm.logger.Warnf("Donate link found in guild %s but no logging channel is set", m.GuildID)
		return
	}

	messageLink := fmt.Sprintf("https://discord.com/channels/%s/%s/%s", m.GuildID, m.ChannelID, m.ID)

	embed := &discordgo.MessageEmbed{
		Title:       "Potential Donate Link Detected",
		Description: m.Content,
		Color:       0x3498db,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Author", Value: m.Author.Mention(), Inline: true},
			{Name: "Original Message", Value: fmt.Sprintf("[Click here to view the message](%s)", messageLink), Inline: false},
		},
	}
	if channel, err := s.State.Channel(m.ChannelID); err == nil {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: "Posted in #" + channel.Name}
	}

	if _, err := s.ChannelMessageSendEmbed(loggingChannelID, embed); err != nil {
		hm.logger.Errorf("Failed to send link log to channel %s: %v", loggingChannelID, err)
	}
}
