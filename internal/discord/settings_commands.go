package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

func (hm *HandlerManager) handleLogChannel(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if m.GuildID == "" || !hm.userMayAdmin(s, m) {
		return
	}

	if len(args) != 1 {
		s.ChannelMessageSend(m.ChannelID, "Usage: !logchannel <#channel>")
		return
	}

	channelID := parseChannelMention(args[0])
	if channelID == "" {
		s.ChannelMessageSend(m.ChannelID, "That doesn't look like a channel. Usage: !logchannel <#channel>")
		return
	}

	settings := hm.settings.Get(m.GuildID)
	settings.LoggingChannelID = channelID
	if err := hm.settings.Save(m.GuildID, settings); err != nil {
		hm.logger.Errorf("Failed to save settings for guild %s: %v", m.GuildID, err)
		s.ChannelMessageSend(m.ChannelID, "Failed to save settings, try again later.")
		return
	}

	s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Logging channel set to <#%s>", channelID))
}

func (hm *HandlerManager) handleLinkCheck(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if m.GuildID == "" || !hm.userMayAdmin(s, m) {
		return
	}

	if len(args) != 1 {
		s.ChannelMessageSend(m.ChannelID, "Usage: !linkcheck on|off")
		return
	}

	settings := hm.settings.Get(m.GuildID)
	switch strings.ToLower(args[0]) {
	case "on":
		settings.LinkCheckEnabled = true
	case "off":
		settings.LinkCheckEnabled = false
	default:
		s.ChannelMessageSend(m.ChannelID, "Usage: !linkcheck on|off")
		return
	}

	if err := hm.settings.Save(m.GuildID, settings); err != nil {
		hm.logger.Errorf("Failed to save settings for guild %s: %v", m.GuildID, err)
		s.ChannelMessageSend(m.ChannelID, "Failed to save settings, try again later.")
		return
	}

	state := "disabled"
	if settings.LinkCheckEnabled {
		state = "enabled"
	}
	s.ChannelMessageSend(m.ChannelID, "Link checking "+state+".")
}

// userMayAdmin gates settings commands on the Manage Server permission.
func (hm *HandlerManager) userMayAdmin(s *discordgo.Session, m *discordgo.MessageCreate) bool {
	perms, err := s.UserChannelPermissions(m.Author.ID, m.ChannelID)
	if err != nil {
		hm.logger.Error("Failed to resolve permissions: ", err)
		return false
	}
	return perms&discordgo.PermissionManageServer != 0
}

// parseChannelMention accepts "<#123>" or a bare channel ID.
func parseChannelMention(arg string) string {
	arg = strings.TrimSuffix(strings.TrimPrefix(arg, "<#"), ">")
	for _, r := range arg {
		if r < '0' || r > '9' {
			return ""
		}
	}
	if arg == "" {
		return ""
	}
	return arg
}
