package tracker

import (
	"errors"
	"sync"
	"time"

	"github.com/pmurley/dembot/internal/match"
	"github.com/pmurley/dembot/internal/models"
	"github.com/pmurley/dembot/pkg/logger"
)

// ErrNotCheckedIn is returned by CheckOut when the user is not tracked
// in any group.
var ErrNotCheckedIn = errors.New("not checked in")

// ScheduleLoader is the upstream schedule source. Implemented by
// sheets.Client.
type ScheduleLoader interface {
	LoadSchedule() (models.ScheduleIndex, error)
}

// Tracker holds the live shift state for one guild: who is checked in,
// the current schedule, and the resolved current-shift window. All
// mutation goes through its methods; every state transition completes
// under the mutex so no reader ever observes a half-applied change.
type Tracker struct {
	guildID string
	log     *logger.Logger
	matcher *match.Matcher

	// duration granted to an unscheduled (Floating) check-in
	floatingDuration time.Duration

	mu         sync.Mutex
	moderators map[models.Role]map[string]*models.CheckedInModerator
	index      models.ScheduleIndex

	// gen increments on every tracked-set mutation; lastRenderedGen is
	// where the display monitor last caught up. Comparing them tells the
	// monitor whether a check-in, check-out, or expiry happened between
	// ticks.
	gen             uint64
	lastRenderedGen uint64

	// cached current-shift window, nil bounds when no shift is active
	shiftStart *time.Time
	shiftEnd   *time.Time

	// live status display handles, empty until !shift is first used
	statusChannelID string
	statusMessageID string

	now func() time.Time
}

func New(guildID string, matcher *match.Matcher, floatingDuration time.Duration, log *logger.Logger) *Tracker {
	return &Tracker{
		guildID:          guildID,
		log:              log,
		matcher:          matcher,
		floatingDuration: floatingDuration,
		moderators:       make(map[models.Role]map[string]*models.CheckedInModerator),
		now:              time.Now,
	}
}

// CheckIn records the identity as on shift and returns the group it
// resolved to. A scheduled moderator gets their entry's role and the
// entry's full duration; anyone else checks in as Floating for the
// default duration. Checking in while already tracked keeps the original
// check-in time, so mashing the button never extends a shift.
func (t *Tracker) CheckIn(id models.Identity) models.Role {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()

	group := models.RoleFloating
	duration := t.floatingDuration

	for _, entry := range t.index.EntriesOn(now) {
		if entry.Contains(now) && t.matcher.Matches(entry, id) {
			group = entry.Role
			duration = entry.End.Sub(entry.Start)
			break
		}
	}

	checkInTime := now
	if existing, existingGroup := t.findLocked(id.UserID); existing != nil {
		checkInTime = existing.CheckInTime
		if existingGroup != group {
			delete(t.moderators[existingGroup], id.UserID)
		}
	}

	if t.moderators[group] == nil {
		t.moderators[group] = make(map[string]*models.CheckedInModerator)
	}
	t.moderators[group][id.UserID] = &models.CheckedInModerator{
		UserID:       id.UserID,
		DisplayName:  id.DisplayName,
		Username:     id.Username,
		Group:        group,
		CheckInTime:  checkInTime,
		ShiftEndTime: checkInTime.Add(duration),
	}
	t.gen++

	t.log.Infof("Checked in %s as %s in guild %s", id.Username, group, t.guildID)
	return group
}

// CheckOut removes the user from whichever group they are tracked in.
func (t *Tracker) CheckOut(userID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	mod, group := t.findLocked(userID)
	if mod == nil {
		return ErrNotCheckedIn
	}

	delete(t.moderators[group], userID)
	t.gen++
	t.log.Infof("Checked out %s from %s in guild %s", mod.Username, group, t.guildID)
	return nil
}

// Sweep removes every moderator whose shift has ended and returns how
// many were removed. Safe to run on a timer and again immediately before
// a snapshot; a second run with no intervening check-ins is a no-op.
func (t *Tracker) Sweep() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sweepLocked()
}

func (t *Tracker) sweepLocked() int {
	now := t.now()
	removed := 0
	for group, mods := range t.moderators {
		for userID, mod := range mods {
			if mod.IsShiftOver(now) {
				delete(mods, userID)
				removed++
				t.log.Infof("Auto-checked out %s from %s in guild %s (shift ended)", mod.Username, group, t.guildID)
			}
		}
	}
	if removed > 0 {
		t.gen++
	}
	return removed
}

// TrackedSetChanged reports whether any check-in, check-out, or expiry
// has happened since the last call, and marks the current state as seen.
// The display monitor pairs this with ShiftWindowChanged to decide when
// the status message needs an edit.
func (t *Tracker) TrackedSetChanged() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	changed := t.gen != t.lastRenderedGen
	t.lastRenderedGen = t.gen
	return changed
}

func (t *Tracker) findLocked(userID string) (*models.CheckedInModerator, models.Role) {
	for group, mods := range t.moderators {
		if mod, ok := mods[userID]; ok {
			return mod, group
		}
	}
	return nil, ""
}

// SetIndex swaps in a freshly loaded schedule. The old index is never
// mutated, so a check-in racing a refresh sees either the old or the new
// schedule in full.
func (t *Tracker) SetIndex(index models.ScheduleIndex) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.index = index
}

// HasSchedule reports whether a schedule has ever been loaded.
func (t *Tracker) HasSchedule() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.index != nil
}

// RefreshSchedule reloads the schedule from the given source. On failure
// the previously loaded schedule stays in place and the error is only
// logged; the next refresh cycle will try again.
func (t *Tracker) RefreshSchedule(loader ScheduleLoader) {
	index, err := loader.LoadSchedule()
	if err != nil {
		t.log.Errorf("Failed to refresh schedule for guild %s: %v", t.guildID, err)
		return
	}
	t.SetIndex(index)
	t.log.Infof("Schedule refreshed for guild %s (%d dates)", t.guildID, len(index))
}

// CurrentShiftWindow resolves the active shift bounds: over all of
// today's entries whose window contains the current instant, the
// earliest start and the latest end. Nil bounds mean no shift is
// currently scheduled.
func (t *Tracker) CurrentShiftWindow() (start, end *time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.resolveShiftWindowLocked()
}

func (t *Tracker) resolveShiftWindowLocked() (start, end *time.Time) {
	now := t.now()
	for _, entry := range t.index.EntriesOn(now) {
		if !entry.Contains(now) {
			continue
		}
		if start == nil || entry.Start.Before(*start) {
			s := entry.Start
			start = &s
		}
		if end == nil || entry.End.After(*end) {
			e := entry.End
			end = &e
		}
	}
	return start, end
}

// ShiftWindowChanged recomputes the current shift window, caches it, and
// reports whether it differs from the last cached value. The display
// monitor uses this to avoid redundant message edits.
func (t *Tracker) ShiftWindowChanged() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	start, end := t.resolveShiftWindowLocked()
	changed := !timesEqual(start, t.shiftStart) || !timesEqual(end, t.shiftEnd)
	t.shiftStart, t.shiftEnd = start, end
	return changed
}

func timesEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// SetStatusMessage records where the live status embed lives.
func (t *Tracker) SetStatusMessage(channelID, messageID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.statusChannelID = channelID
	t.statusMessageID = messageID
}

// StatusMessage returns the recorded status display handles; both empty
// if no status message has been posted yet.
func (t *Tracker) StatusMessage() (channelID, messageID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.statusChannelID, t.statusMessageID
}
