package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmurley/dembot/internal/models"
)

func TestSettingsDefaults(t *testing.T) {
	ss, err := newSettingsStorageAt(filepath.Join(t.TempDir(), "settings.json"))
	require.NoError(t, err)

	settings := ss.Get("unknown-guild")
	assert.True(t, settings.LinkCheckEnabled)
	assert.Empty(t, settings.LoggingChannelID)
	assert.Empty(t, settings.AuthorizedRoleIDs)
}

func TestSettingsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	ss, err := newSettingsStorageAt(path)
	require.NoError(t, err)

	saved := models.GuildSettings{
		LoggingChannelID:  "123456",
		LinkCheckEnabled:  false,
		AuthorizedRoleIDs: []string{"111", "222"},
	}
	require.NoError(t, ss.Save("guild-1", saved))

	assert.Equal(t, saved, ss.Get("guild-1"))

	// A fresh store reading the same file sees the persisted settings.
	reloaded, err := newSettingsStorageAt(path)
	require.NoError(t, err)
	assert.Equal(t, saved, reloaded.Get("guild-1"))

	// Other guilds are unaffected.
	assert.True(t, reloaded.Get("guild-2").LinkCheckEnabled)
}
