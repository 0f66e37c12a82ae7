package bot

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/pmurley/dembot/internal/config"
	"github.com/pmurley/dembot/internal/discord"
	"github.com/pmurley/dembot/internal/linkcheck"
	"github.com/pmurley/dembot/internal/match"
	"github.com/pmurley/dembot/internal/sheets"
	"github.com/pmurley/dembot/internal/storage"
	"github.com/pmurley/dembot/internal/tracker"
	"github.com/pmurley/dembot/pkg/logger"
)

type Bot struct {
	session      *discordgo.Session
	config       *config.Config
	logger       *logger.Logger
	trackers     *tracker.Manager
	sheetsClient *sheets.Client
	scanner      *linkcheck.Scanner
	settings     *storage.SettingsStorage
	handlers     *discord.HandlerManager
	display      statusDisplay
	stopChan     chan struct{}
}

func New(cfg *config.Config, log *logger.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	// Message content is needed for both commands and link scanning.
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent

	sheetsClient, err := sheets.NewClient(cfg.ScheduleSheetID, cfg.ScheduleGID, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	settings, err := storage.NewSettingsStorage()
	if err != nil {
		return nil, fmt.Errorf("failed to create settings storage: %w", err)
	}

	duration := hoursToDuration(cfg.FloatingShiftHours)
	matcher := match.NewMatcher(cfg.FuzzyMatchThreshold)

	b := &Bot{
		session:      session,
		config:       cfg,
		logger:       log,
		trackers:     tracker.NewManager(matcher, duration, log),
		sheetsClient: sheetsClient,
		scanner:      linkcheck.NewScanner(cfg.LinkScanCacheDuration, log),
		settings:     settings,
		display:      session,
		stopChan:     make(chan struct{}),
	}

	b.handlers = discord.NewHandlerManager(b.session, cfg, log, b.trackers, sheetsClient, b.scanner, settings)

	return b, nil
}

func (b *Bot) Start() error {
	b.handlers.RegisterHandlers()

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}

	b.startScheduleMonitor()
	b.startShiftMonitor()

	return nil
}

func (b *Bot) Stop() error {
	close(b.stopChan)
	return b.session.Close()
}

func hoursToDuration(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}
