package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmurley/dembot/internal/models"
)

func TestBuildEmbedWithShift(t *testing.T) {
	start := at(9, 0)
	end := at(12, 0)
	snap := Snapshot{
		ShiftStart: &start,
		ShiftEnd:   &end,
		Scheduled: map[models.Role][]string{
			models.RoleMod: {"Amy", "Zed"},
		},
		CheckedIn: map[models.Role][]CheckedInView{
			models.RoleFloating: {{
				DisplayName:  "Walk In",
				CheckInTime:  at(10, 0),
				ShiftEndTime: at(11, 0),
			}},
		},
	}

	embed := BuildEmbed(snap)

	assert.Equal(t, "DemBot Shift Tracker", embed.Title)
	assert.Contains(t, embed.Description, "09:00 AM - 12:00 PM ET")

	// Role names repeat between the scheduled and checked-in sections;
	// keep the first occurrence (scheduled) for each.
	fields := make(map[string]string)
	for _, f := range embed.Fields {
		if _, ok := fields[f.Name]; !ok {
			fields[f.Name] = f.Value
		}
	}
	assert.Equal(t, "Amy, Zed", fields["Mod"])
	assert.Equal(t, "None", fields["Lead Mod"])
	assert.Equal(t, "Walk In (10:00-11:00 AM)", fields["Floating"])
}

func TestBuildEmbedNoShift(t *testing.T) {
	embed := BuildEmbed(Snapshot{
		Scheduled: map[models.Role][]string{},
		CheckedIn: map[models.Role][]CheckedInView{},
	})

	assert.Contains(t, embed.Description, "No current shift scheduled.")

	// Every tracked group gets a field even when empty.
	names := make([]string, 0, len(embed.Fields))
	for _, f := range embed.Fields {
		names = append(names, f.Name)
	}
	for _, role := range models.TrackedRoles {
		assert.Contains(t, names, string(role))
	}
}

func TestSnapshotSweepsFirst(t *testing.T) {
	tr := newTestTracker(t)

	now := at(10, 0)
	tr.now = func() time.Time { return now }

	tr.CheckIn(models.Identity{UserID: "1", DisplayName: "Walk In", Username: "walkin"})

	now = at(11, 30) // past the one-hour floating shift
	snap := tr.Snapshot()

	require.Empty(t, snap.CheckedIn[models.RoleFloating])
}
