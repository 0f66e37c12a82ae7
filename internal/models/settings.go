package models

// GuildSettings holds the per-guild configuration managed through bot
// commands and persisted by the settings store.
type GuildSettings struct {
	LoggingChannelID  string   `json:"logging_channel_id,omitempty"`
	LinkCheckEnabled  bool     `json:"link_check_enabled"`
	AuthorizedRoleIDs []string `json:"authorized_role_ids,omitempty"`
}

// DefaultGuildSettings is what a guild gets before anyone has configured
// it: link checking on, no logging channel, no extra authorized roles.
func DefaultGuildSettings() GuildSettings {
	return GuildSettings{LinkCheckEnabled: true}
}
