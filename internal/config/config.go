package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	DiscordToken    string
	ScheduleSheetID string
	ScheduleGID     string
	CommandPrefix   string
	LogLevel        string

	// Role names that may use check-in/check-out commands.
	ModRoleNames []string

	// Tuning knobs for the schedule matcher and tracker. The fuzzy
	// threshold and floating duration were hand-tuned on real schedule
	// data; defaults match the values that shipped.
	FuzzyMatchThreshold int
	FloatingShiftHours  float64

	ScheduleRefreshInterval time.Duration
	ExpirySweepInterval     time.Duration
	LinkScanCacheDuration   time.Duration
}

func Load() (*Config, error) {
	return &Config{
		DiscordToken:    os.Getenv("DISCORD_TOKEN"),
		ScheduleSheetID: os.Getenv("SCHEDULE_SHEET_ID"),
		ScheduleGID:     getEnvOrDefault("SCHEDULE_SHEET_GID", "0"),
		CommandPrefix:   getEnvOrDefault("COMMAND_PREFIX", "!"),
		LogLevel:        getEnvOrDefault("LOG_LEVEL", "info"),

		ModRoleNames: []string{"Moderator", "Community Moderator"},

		FuzzyMatchThreshold: getEnvInt("FUZZY_MATCH_THRESHOLD", 85),
		FloatingShiftHours:  getEnvFloat("FLOATING_SHIFT_HOURS", 1),

		ScheduleRefreshInterval: getEnvMinutes("SCHEDULE_REFRESH_MINUTES", 30*time.Minute),
		ExpirySweepInterval:     getEnvMinutes("EXPIRY_SWEEP_MINUTES", time.Minute),
		LinkScanCacheDuration:   getEnvMinutes("LINK_SCAN_CACHE_MINUTES", 15*time.Minute),
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvMinutes(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if minutes, err := strconv.Atoi(v); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}
