package bot

import (
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmurley/dembot/internal/match"
	"github.com/pmurley/dembot/internal/models"
	"github.com/pmurley/dembot/internal/tracker"
	"github.com/pmurley/dembot/pkg/logger"
)

type fakeDisplay struct {
	editErr error
	sendErr error
	edits   int
	sends   int
}

func (f *fakeDisplay) ChannelMessageEditEmbed(channelID, messageID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.edits++
	if f.editErr != nil {
		return nil, f.editErr
	}
	return &discordgo.Message{ID: messageID}, nil
}

func (f *fakeDisplay) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.sends++
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	return &discordgo.Message{ID: "resent-msg"}, nil
}

func restError(code int) error {
	return &discordgo.RESTError{Message: &discordgo.APIErrorMessage{Code: code}}
}

func newTestBot(display *fakeDisplay) (*Bot, *tracker.Tracker) {
	b := &Bot{
		logger:   logger.New("error"),
		trackers: tracker.NewManager(match.NewMatcher(85), time.Hour, logger.New("error")),
		display:  display,
	}
	t := b.trackers.GetTracker("guild-1")
	t.SetStatusMessage("chan-1", "msg-1")
	return b, t
}

func TestRestErrorCode(t *testing.T) {
	assert.Equal(t, discordgo.ErrCodeUnknownMessage, restErrorCode(restError(discordgo.ErrCodeUnknownMessage)))
	assert.Equal(t, discordgo.ErrCodeMissingPermissions, restErrorCode(restError(discordgo.ErrCodeMissingPermissions)))
	assert.Equal(t, 0, restErrorCode(&discordgo.RESTError{}))
	assert.Equal(t, 0, restErrorCode(errors.New("not a rest error")))
}

func TestRefreshStatusDisplayEdits(t *testing.T) {
	display := &fakeDisplay{}
	b, tr := newTestBot(display)

	b.refreshStatusDisplay(tr)

	assert.Equal(t, 1, display.edits)
	assert.Equal(t, 0, display.sends)
}

func TestRefreshStatusDisplayResendsDeletedMessage(t *testing.T) {
	display := &fakeDisplay{editErr: restError(discordgo.ErrCodeUnknownMessage)}
	b, tr := newTestBot(display)

	b.refreshStatusDisplay(tr)

	assert.Equal(t, 1, display.sends)

	// The new message is recorded for the next refresh.
	channelID, messageID := tr.StatusMessage()
	assert.Equal(t, "chan-1", channelID)
	assert.Equal(t, "resent-msg", messageID)
}

func TestRefreshStatusDisplayResendFailureLogged(t *testing.T) {
	display := &fakeDisplay{
		editErr: restError(discordgo.ErrCodeUnknownMessage),
		sendErr: errors.New("boom"),
	}
	b, tr := newTestBot(display)

	b.refreshStatusDisplay(tr)

	// The old handle stays so the next cycle retries.
	_, messageID := tr.StatusMessage()
	assert.Equal(t, "msg-1", messageID)
}

func TestRefreshStatusDisplaySuppressesPermissionErrors(t *testing.T) {
	display := &fakeDisplay{editErr: restError(discordgo.ErrCodeMissingPermissions)}
	b, tr := newTestBot(display)

	b.refreshStatusDisplay(tr)

	assert.Equal(t, 0, display.sends)
	_, messageID := tr.StatusMessage()
	assert.Equal(t, "msg-1", messageID)
}

func TestRefreshStatusDisplayNoMessagePosted(t *testing.T) {
	display := &fakeDisplay{}
	b, _ := newTestBot(display)

	// A tracker whose !shift has never been used has no display.
	tr := b.trackers.GetTracker("guild-2")
	b.refreshStatusDisplay(tr)

	assert.Equal(t, 0, display.edits)
}

func TestSweepTrackersRefreshesOnCheckIn(t *testing.T) {
	display := &fakeDisplay{}
	b, tr := newTestBot(display)

	// A check-in lands between monitor ticks.
	tr.CheckIn(models.Identity{UserID: "1", DisplayName: "Walk In", Username: "walkin"})

	b.sweepTrackers()
	require.Equal(t, 1, display.edits, "check-in must show up on the next tick")

	// Nothing changed since; the next tick must not edit again.
	b.sweepTrackers()
	assert.Equal(t, 1, display.edits)

	// An explicit check-out is picked up the same way.
	require.NoError(t, tr.CheckOut("1"))
	b.sweepTrackers()
	assert.Equal(t, 2, display.edits)
}
