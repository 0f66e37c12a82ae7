package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pmurley/dembot/internal/models"
)

const (
	settingsFileName = "guild_settings.json"
	dataDir          = "./data"
)

// SettingsStorage persists per-guild settings to a JSON file. State fits
// in memory (one small record per guild) so the whole map is rewritten
// on every save.
type SettingsStorage struct {
	mu       sync.RWMutex
	filePath string
	settings map[string]models.GuildSettings
}

// NewSettingsStorage creates the store, loading any existing settings
// file from the data directory.
func NewSettingsStorage() (*SettingsStorage, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return newSettingsStorageAt(filepath.Join(dataDir, settingsFileName))
}

func newSettingsStorageAt(filePath string) (*SettingsStorage, error) {
	ss := &SettingsStorage{
		filePath: filePath,
		settings: make(map[string]models.GuildSettings),
	}

	data, err := os.ReadFile(filePath)
	if os.IsNotExist(err) {
		return ss, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}
	if err := json.Unmarshal(data, &ss.settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings file: %w", err)
	}

	return ss, nil
}

// Get returns the settings for a guild, or the defaults if none have
// been saved yet.
func (ss *SettingsStorage) Get(guildID string) models.GuildSettings {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	if settings, ok := ss.settings[guildID]; ok {
		return settings
	}
	return models.DefaultGuildSettings()
}

// Save stores the settings for a guild and writes the file through.
func (ss *SettingsStorage) Save(guildID string, settings models.GuildSettings) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	ss.settings[guildID] = settings

	data, err := json.MarshalIndent(ss.settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := os.WriteFile(ss.filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	return nil
}
