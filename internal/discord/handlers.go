package discord

import (
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/pmurley/dembot/internal/config"
	"github.com/pmurley/dembot/internal/linkcheck"
	"github.com/pmurley/dembot/internal/sheets"
	"github.com/pmurley/dembot/internal/storage"
	"github.com/pmurley/dembot/internal/tracker"
	"github.com/pmurley/dembot/pkg/logger"
)

type HandlerManager struct {
	session      *discordgo.Session
	config       *config.Config
	logger       *logger.Logger
	trackers     *tracker.Manager
	sheetsClient *sheets.Client
	scanner      *linkcheck.Scanner
	settings     *storage.SettingsStorage
	commands     map[string]CommandHandler
}

type CommandHandler func(s *discordgo.Session, m *discordgo.MessageCreate, args []string)

func NewHandlerManager(
	session *discordgo.Session,
	config *config.Config,
	logger *logger.Logger,
	trackers *tracker.Manager,
	sheetsClient *sheets.Client,
	scanner *linkcheck.Scanner,
	settings *storage.SettingsStorage,
) *HandlerManager {
	hm := &HandlerManager{
		session:      session,
		config:       config,
		logger:       logger,
		trackers:     trackers,
		sheetsClient: sheetsClient,
		scanner:      scanner,
		settings:     settings,
		commands:     make(map[string]CommandHandler),
	}

	hm.registerCommands()

	return hm
}

func (hm *HandlerManager) RegisterHandlers() {
	hm.session.AddHandler(hm.messageCreate)
}

func (hm *HandlerManager) registerCommands() {
	hm.commands["help"] = hm.handleHelp
	hm.commands["checkin"] = hm.handleCheckIn
	hm.commands["checkout"] = hm.handleCheckOut
	hm.commands["shift"] = hm.handleShift
	hm.commands["reload"] = hm.handleReload
	hm.commands["logchannel"] = hm.handleLogChannel
	hm.commands["linkcheck"] = hm.handleLinkCheck
}

func (hm *HandlerManager) messageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author.ID == s.State.User.ID {
		return
	}

	if !strings.HasPrefix(m.Content, hm.config.CommandPrefix) {
		// Non-command guild messages go through the link scanner.
		if m.GuildID != "" {
			hm.scanMessage(s, m)
		}
		return
	}

	content := strings.TrimPrefix(m.Content, hm.config.CommandPrefix)
	parts := strings.Fields(content)
	if len(parts) == 0 {
		return
	}

	command := strings.ToLower(parts[0])
	args := parts[1:]

	if handler, exists := hm.commands[command]; exists {
		handler(s, m, args)
	}
}

func (hm *HandlerManager) handleHelp(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	helpMessage := `**DemBot Commands:**
` + "```" + `
!help             - Show this help message
!checkin          - Check in for your moderator shift
!checkout         - Check out of your shift
!shift            - Post the live shift tracker in this channel
!reload           - Force reload the shift schedule
!logchannel <#ch> - Set the channel for donate-link logs
!linkcheck on|off - Toggle donate-link scanning for this server
` + "```"

	s.ChannelMessageSend(m.ChannelID, helpMessage)
}
