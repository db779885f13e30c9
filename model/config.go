package model

import "time"

// ServerConfig holds the per-guild settings loaded from config.yaml.
type ServerConfig struct {
	Name           string   `mapstructure:"name"`
	GuildID        string   `mapstructure:"guild_id"`
	Enable         bool     `mapstructure:"enable"`
	ModRoleIDs     []string `mapstructure:"mod_role_ids"`
	ImmuneRoleIDs  []string `mapstructure:"immune_role_ids"`
	AuditChannelID string   `mapstructure:"audit_channel_id"`
}

// LoggerConfig controls file logging and rotation.
type LoggerConfig struct {
	Directory  string `mapstructure:"directory"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// StrikeConfig tunes the ledger behaviour.
type StrikeConfig struct {
	// DecayDays is how long a user's ledger lives after the most recent
	// strike; every add pushes the deadline out again.
	DecayDays int `mapstructure:"decay_days"`
	// SweepIntervalMinutes is how often the decay sweep runs.
	SweepIntervalMinutes int `mapstructure:"sweep_interval_minutes"`
	// RemovalTimeoutSeconds is how long an interactive strike removal waits
	// for the moderator's next input before its controls are disabled.
	RemovalTimeoutSeconds int `mapstructure:"removal_timeout_seconds"`
}

// Config stores the application configuration: secrets from the environment,
// everything else from config.yaml.
type Config struct {
	BotToken      string
	AppID         string
	LogWebhookURL string

	DatabasePath  string                  `mapstructure:"database_path"`
	Logger        LoggerConfig            `mapstructure:"logger"`
	Strikes       StrikeConfig            `mapstructure:"strikes"`
	ServerConfigs map[string]ServerConfig `mapstructure:"servers"`
}

// DecayWindow returns the decay duration, defaulting to 90 days.
func (c *Config) DecayWindow() time.Duration {
	days := c.Strikes.DecayDays
	if days <= 0 {
		days = 90
	}
	return time.Duration(days) * 24 * time.Hour
}

// RemovalTimeout returns the interactive removal wait window, defaulting to
// 60 seconds.
func (c *Config) RemovalTimeout() time.Duration {
	secs := c.Strikes.RemovalTimeoutSeconds
	if secs <= 0 {
		secs = 60
	}
	return time.Duration(secs) * time.Second
}
