package discord

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/pmurley/dembot/internal/models"
	"github.com/pmurley/dembot/internal/tracker"
)

func (hm *HandlerManager) handleCheckIn(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if m.GuildID == "" {
		return
	}
	if !hm.userMayTrack(s, m) {
		s.ChannelMessageSend(m.ChannelID, "You do not have permission to use shift tracking.")
		return
	}

	t := hm.guildTracker(m.GuildID)
	group := t.CheckIn(identityFromMessage(m))

	s.ChannelMessageSend(m.ChannelID,
		fmt.Sprintf("Thank you, %s. You are now checked in as **%s**.", m.Author.Mention(), group))
}

func (hm *HandlerManager) handleCheckOut(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if m.GuildID == "" {
		return
	}
	if !hm.userMayTrack(s, m) {
		s.ChannelMessageSend(m.ChannelID, "You do not have permission to use shift tracking.")
		return
	}

	t := hm.guildTracker(m.GuildID)
	if err := t.CheckOut(m.Author.ID); err != nil {
		if errors.Is(err, tracker.ErrNotCheckedIn) {
			s.ChannelMessageSend(m.ChannelID,
				fmt.Sprintf("%s, you are not currently checked in.", m.Author.Mention()))
			return
		}
		hm.logger.Error("Check-out failed: ", err)
		return
	}

	s.ChannelMessageSend(m.ChannelID,
		fmt.Sprintf("You have been checked out, %s. Thank you for your work!", m.Author.Mention()))
}

func (hm *HandlerManager) handleShift(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if m.GuildID == "" {
		return
	}

	t := hm.guildTracker(m.GuildID)
	embed := tracker.BuildEmbed(t.Snapshot())

	msg, err := s.ChannelMessageSendEmbed(m.ChannelID, embed)
	if err != nil {
		hm.logger.Error("Failed to post shift tracker: ", err)
		return
	}
	t.SetStatusMessage(m.ChannelID, msg.ID)
}

func (hm *HandlerManager) handleReload(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if m.GuildID == "" {
		return
	}
	if !hm.userMayTrack(s, m) {
		s.ChannelMessageSend(m.ChannelID, "You do not have permission to reload the schedule.")
		return
	}

	hm.guildTracker(m.GuildID).RefreshSchedule(hm.sheetsClient)
	s.ChannelMessageSend(m.ChannelID, "Schedule reloaded.")
}

// guildTracker returns the guild's tracker, loading the schedule on
// first use so commands work before the first refresh cycle fires.
func (hm *HandlerManager) guildTracker(guildID string) *tracker.Tracker {
	t := hm.trackers.GetTracker(guildID)
	if !t.HasSchedule() {
		t.RefreshSchedule(hm.sheetsClient)
	}
	return t
}

// userMayTrack gates shift commands on the configured moderator role
// names plus any role IDs authorized through settings.
func (hm *HandlerManager) userMayTrack(s *discordgo.Session, m *discordgo.MessageCreate) bool {
	if m.Member == nil {
		return false
	}

	settings := hm.settings.Get(m.GuildID)

	for _, roleID := range m.Member.Roles {
		for _, authorized := range settings.AuthorizedRoleIDs {
			if roleID == authorized {
				return true
			}
		}

		role, err := s.State.Role(m.GuildID, roleID)
		if err != nil {
			continue
		}
		for _, name := range hm.config.ModRoleNames {
			if role.Name == name {
				return true
			}
		}
	}

	return false
}

func identityFromMessage(m *discordgo.MessageCreate) models.Identity {
	// Prefer the most specific display name: guild nick, then global
	// display name, then the bare username.
	displayName := m.Author.Username
	if m.Author.GlobalName != "" {
		displayName = m.Author.GlobalName
	}
	if m.Member != nil && m.Member.Nick != "" {
		displayName = m.Member.Nick
	}

	// Accounts that predate the username migration still carry a
	// discriminator; the schedule sheet sometimes lists those tags.
	tag := ""
	if m.Author.Discriminator != "" && m.Author.Discriminator != "0" {
		tag = m.Author.Username + "#" + m.Author.Discriminator
	}

	return models.Identity{
		UserID:      m.Author.ID,
		DisplayName: displayName,
		Username:    m.Author.Username,
		Tag:         tag,
	}
}
