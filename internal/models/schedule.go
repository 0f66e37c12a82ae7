package models

import (
	"time"
)

// Role is the group a moderator is scheduled (or checked in) under.
type Role string

const (
	RoleMod      Role = "Mod"
	RoleLeadMod  Role = "Lead Mod"
	RoleOverflow Role = "Overflow"
	// RoleFloating is the fallback for an unscheduled walk-in check-in.
	RoleFloating Role = "Floating"
)

// ScheduledRoles lists the roles that can appear on the schedule sheet,
// in display order.
var ScheduledRoles = []Role{RoleLeadMod, RoleMod, RoleOverflow}

// TrackedRoles lists every group a checked-in moderator can be in,
// in display order.
var TrackedRoles = []Role{RoleLeadMod, RoleMod, RoleOverflow, RoleFloating}

// ScheduleEntry is one scheduled shift assignment. Entries are built by
// the sheets loader and never modified afterward; each refresh replaces
// them wholesale.
type ScheduleEntry struct {
	ModeratorName string // free-text name column, may be empty
	DiscordHandle string // free-text handle column, may be empty or "TODO"
	Start         time.Time
	End           time.Time // strictly after Start; overnight shifts normalized at build time
	Role          Role
}

// Contains reports whether t falls inside the entry's shift window.
// Bounds are inclusive on both ends, matching how the schedule sheet is
// read by the mods who fill it in.
func (e ScheduleEntry) Contains(t time.Time) bool {
	return !t.Before(e.Start) && !t.After(e.End)
}

// DateKey is the canonical form of an Eastern calendar date used to
// bucket schedule entries.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// ScheduleIndex maps an Eastern calendar date (DateKey form) to the
// entries whose shift window touches that date. An entry crossing
// midnight appears under both dates. The index is immutable once built;
// a refresh swaps in a whole new index.
type ScheduleIndex map[string][]ScheduleEntry

// EntriesOn returns the entries bucketed under t's calendar date.
func (idx ScheduleIndex) EntriesOn(t time.Time) []ScheduleEntry {
	if idx == nil {
		return nil
	}
	return idx[DateKey(t)]
}
