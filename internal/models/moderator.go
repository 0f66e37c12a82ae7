package models

import (
	"time"
)

// Identity is the live Discord identity presented at check-in time.
type Identity struct {
	UserID      string
	DisplayName string
	Username    string
	Tag         string // legacy "name#NNNN" form where the account still has one
}

// CheckedInModerator is a moderator currently on shift.
type CheckedInModerator struct {
	UserID      string
	DisplayName string
	Username    string
	Group       Role
	CheckInTime time.Time
	// ShiftEndTime is CheckInTime plus the shift duration resolved at
	// check-in. Re-check-in keeps the original CheckInTime, so repeated
	// check-ins cannot extend a shift.
	ShiftEndTime time.Time
}

// IsShiftOver reports whether the moderator's shift has ended as of now.
func (m *CheckedInModerator) IsShiftOver(now time.Time) bool {
	return !now.Before(m.ShiftEndTime)
}
