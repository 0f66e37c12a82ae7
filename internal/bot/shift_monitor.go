package bot

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/pmurley/dembot/internal/tracker"
)

// statusDisplay is the slice of the Discord session the status refresh
// needs. *discordgo.Session satisfies it.
type statusDisplay interface {
	ChannelMessageEditEmbed(channelID, messageID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// startShiftMonitor starts the background expiry sweep and status
// display refresh process.
func (b *Bot) startShiftMonitor() {
	go b.shiftMonitorLoop()
}

// shiftMonitorLoop sweeps expired moderators out of every tracker and
// refreshes the live status embed when anything it shows has changed.
// Each cycle handles its own failures so one bad edit never stops the
// loop.
func (b *Bot) shiftMonitorLoop() {
	b.logger.Info("Starting shift monitor")

	ticker := time.NewTicker(b.config.ExpirySweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			b.sweepTrackers()
		case <-b.stopChan:
			b.logger.Info("Stopping shift monitor")
			return
		}
	}
}

func (b *Bot) sweepTrackers() {
	for _, t := range b.trackers.Trackers() {
		t.Sweep()
		// Check-ins and check-outs land between ticks; the generation
		// check catches those along with sweep removals.
		trackedChanged := t.TrackedSetChanged()
		shiftChanged := t.ShiftWindowChanged()
		if trackedChanged || shiftChanged {
			b.refreshStatusDisplay(t)
		}
	}
}

// refreshStatusDisplay edits the tracker's status message in place. A
// deleted message is resent and re-recorded; missing permissions are
// logged and suppressed so the sweep keeps running.
func (b *Bot) refreshStatusDisplay(t *tracker.Tracker) {
	channelID, messageID := t.StatusMessage()
	if channelID == "" || messageID == "" {
		return
	}

	embed := tracker.BuildEmbed(t.Snapshot())

	_, err := b.display.ChannelMessageEditEmbed(channelID, messageID, embed)
	if err == nil {
		return
	}

	switch restErrorCode(err) {
	case discordgo.ErrCodeUnknownMessage:
		// Someone deleted the status message; post a fresh one.
		msg, sendErr := b.display.ChannelMessageSendEmbed(channelID, embed)
		if sendErr != nil {
			b.logger.Error("Failed to resend status message: ", sendErr)
			return
		}
		t.SetStatusMessage(channelID, msg.ID)
	case discordgo.ErrCodeMissingPermissions, discordgo.ErrCodeMissingAccess:
		b.logger.Warnf("No permission to update status message in channel %s", channelID)
	default:
		b.logger.Error("Failed to update status message: ", err)
	}
}

func restErrorCode(err error) int {
	if restErr, ok := err.(*discordgo.RESTError); ok && restErr.Message != nil {
		return restErr.Message.Code
	}
	return 0
}
