package tracker

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/pmurley/dembot/internal/models"
)

// CheckedInView is one checked-in moderator as rendered in the status
// display.
type CheckedInView struct {
	DisplayName  string
	CheckInTime  time.Time
	ShiftEndTime time.Time
}

// Snapshot is a point-in-time view of a tracker, consumed by the
// presentation layer.
type Snapshot struct {
	ShiftStart *time.Time
	ShiftEnd   *time.Time
	Scheduled  map[models.Role][]string        // names sorted alphabetically
	CheckedIn  map[models.Role][]CheckedInView // sorted by display name
}

// Snapshot sweeps expired moderators and then captures the current
// scheduled and checked-in state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.sweepLocked()

	now := t.now()
	snap := Snapshot{
		Scheduled: make(map[models.Role][]string),
		CheckedIn: make(map[models.Role][]CheckedInView),
	}
	snap.ShiftStart, snap.ShiftEnd = t.resolveShiftWindowLocked()

	seen := make(map[models.Role]map[string]bool)
	for _, entry := range t.index.EntriesOn(now) {
		if !entry.Contains(now) || entry.ModeratorName == "" {
			continue
		}
		if seen[entry.Role] == nil {
			seen[entry.Role] = make(map[string]bool)
		}
		if seen[entry.Role][entry.ModeratorName] {
			continue
		}
		seen[entry.Role][entry.ModeratorName] = true
		snap.Scheduled[entry.Role] = append(snap.Scheduled[entry.Role], entry.ModeratorName)
	}
	for role := range snap.Scheduled {
		sort.Strings(snap.Scheduled[role])
	}

	for group, mods := range t.moderators {
		for _, mod := range mods {
			snap.CheckedIn[group] = append(snap.CheckedIn[group], CheckedInView{
				DisplayName:  mod.DisplayName,
				CheckInTime:  mod.CheckInTime,
				ShiftEndTime: mod.ShiftEndTime,
			})
		}
		sort.Slice(snap.CheckedIn[group], func(i, j int) bool {
			return snap.CheckedIn[group][i].DisplayName < snap.CheckedIn[group][j].DisplayName
		})
	}

	return snap
}

// BuildEmbed renders a snapshot into the shift-tracker status embed.
func BuildEmbed(snap Snapshot) *discordgo.MessageEmbed {
	description := "Current checked-in and scheduled moderators:"
	if snap.ShiftStart != nil && snap.ShiftEnd != nil {
		description += fmt.Sprintf("\n\n**Current Shift Time:** %s - %s ET",
			snap.ShiftStart.Format("03:04 PM"), snap.ShiftEnd.Format("03:04 PM"))
	} else {
		description += "\n\nNo current shift scheduled."
	}

	embed := &discordgo.MessageEmbed{
		Title:       "DemBot Shift Tracker",
		Description: description,
		Color:       0x3498db,
	}

	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   "**Scheduled Moderators**",
		Value:  "​",
		Inline: false,
	})
	for _, role := range models.ScheduledRoles {
		value := "None"
		if names := snap.Scheduled[role]; len(names) > 0 {
			value = strings.Join(names, ", ")
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   string(role),
			Value:  value,
			Inline: true,
		})
	}

	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   "**Checked-In Moderators**",
		Value:  "​",
		Inline: false,
	})
	for _, group := range models.TrackedRoles {
		value := `¯\_(ツ)_/¯`
		if mods := snap.CheckedIn[group]; len(mods) > 0 {
			parts := make([]string, len(mods))
			for i, mod := range mods {
				parts[i] = fmt.Sprintf("%s (%s-%s)", mod.DisplayName,
					mod.CheckInTime.Format("03:04"), mod.ShiftEndTime.Format("03:04 PM"))
			}
			value = strings.Join(parts, ", ")
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   string(group),
			Value:  value,
			Inline: true,
		})
	}

	return embed
}
