// Package config provides configuration loading and defaults for the
// discord-rest-mcp server.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jamesprial/discord-rest-mcp/internal/discord"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ServerConfig holds network and authentication settings for HTTP mode.
type ServerConfig struct {
	Port      int    `yaml:"port"`
	AuthToken string `yaml:"auth_token"`
}

// DiscordConfig holds the bot credential and REST client settings.
type DiscordConfig struct {
	Token          string        `yaml:"token"`
	GuildID        string        `yaml:"guild_id"`
	APIBase        string        `yaml:"api_base"`
	UserAgent      string        `yaml:"user_agent"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	MaxIdleConns   int           `yaml:"max_idle_conns"`
}

// IDFilter holds allowlist and denylist globs for Discord IDs.
type IDFilter struct {
	Allowlist []string `yaml:"allowlist"`
	Denylist  []string `yaml:"denylist"`
}

// SafetyConfig groups the ID filters and destructive tool declarations.
type SafetyConfig struct {
	Channels         IDFilter `yaml:"channels"`
	Guilds           IDFilter `yaml:"guilds"`
	DestructiveTools []string `yaml:"destructive_tools"`
}

// AuditConfig controls audit logging behaviour.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	LogPath string `yaml:"log_path"`
}

// LoggingConfig controls structured log output. Format is "text" or "json".
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// SlogLevel parses Level, falling back to slog.LevelInfo.
func (l LoggingConfig) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// Config is the top-level configuration structure for the discord-rest-mcp
// server.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Discord DiscordConfig `yaml:"discord"`
	Safety  SafetyConfig  `yaml:"safety"`
	Audit   AuditConfig   `yaml:"audit"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoadConfig reads a YAML configuration file from path. Keys the file omits
// keep their DefaultConfig values. On error, nil is returned for the config
// pointer.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// Load builds the runtime configuration: the YAML file at path (or the
// defaults when it does not exist), then variables from envFile, then
// environment overrides, then validation.
func Load(path, envFile string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = DefaultConfig()
	} else if err != nil {
		return nil, err
	}

	if err := LoadEnvFile(envFile); err != nil {
		return nil, err
	}
	if err := ApplyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnvFile loads KEY=value pairs from path into the process environment
// without overriding variables that are already set. A missing file is not an
// error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// DefaultDestructiveTools are the tools that require a confirmation token
// unless the config file says otherwise.
var DefaultDestructiveTools = []string{
	"discord_delete_message",
	"discord_ban_user",
	"discord_kick_user",
	"discord_remove_role",
}

// DefaultConfig returns a new Config populated with sensible default values.
// Each call returns a distinct instance.
//
// Defaults:
//   - Server.Port = 8080
//   - Discord.APIBase = discord.DefaultBaseURL
//   - Discord.RequestTimeout = 30s
//   - Discord.MaxIdleConns = 100
//   - Safety.DestructiveTools = DefaultDestructiveTools
//   - Audit.Enabled = true, Audit.LogPath = "audit.log"
//   - Logging.Level = "info", Logging.Format = "text"
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8080,
		},
		Discord: DiscordConfig{
			APIBase:        discord.DefaultBaseURL,
			UserAgent:      discord.DefaultUserAgent,
			RequestTimeout: discord.DefaultTimeout,
			MaxIdleConns:   100,
		},
		Safety: SafetyConfig{
			DestructiveTools: append([]string(nil), DefaultDestructiveTools...),
		},
		Audit: AuditConfig{
			Enabled: true,
			LogPath: "audit.log",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// ApplyEnvOverrides updates cfg in place with values from environment
// variables. Only non-empty values override existing config values.
//
// Recognized variables:
//   - DISCORD_BOT_TOKEN       -> cfg.Discord.Token
//   - DISCORD_GUILD_ID        -> cfg.Discord.GuildID
//   - DISCORD_API_BASE        -> cfg.Discord.APIBase
//   - DISCORD_REQUEST_TIMEOUT -> cfg.Discord.RequestTimeout (Go duration)
//   - DISCORD_REST_AUTH_TOKEN -> cfg.Server.AuthToken
//   - DISCORD_REST_LOG_LEVEL  -> cfg.Logging.Level
func ApplyEnvOverrides(cfg *Config) error {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString("DISCORD_BOT_TOKEN", &cfg.Discord.Token)
	setString("DISCORD_GUILD_ID", &cfg.Discord.GuildID)
	setString("DISCORD_API_BASE", &cfg.Discord.APIBase)
	setString("DISCORD_REST_AUTH_TOKEN", &cfg.Server.AuthToken)
	setString("DISCORD_REST_LOG_LEVEL", &cfg.Logging.Level)

	if v := os.Getenv("DISCORD_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return &discord.ConfigError{Key: "DISCORD_REQUEST_TIMEOUT", Reason: fmt.Sprintf("is not a duration: %q", v)}
		}
		cfg.Discord.RequestTimeout = d
	}
	return nil
}

// Validate reports the first setting that would prevent startup.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Discord.Token) == "":
		return &discord.ConfigError{Key: "DISCORD_BOT_TOKEN", Reason: "is not set"}
	case c.Discord.GuildID != "" && !discord.IsSnowflake(c.Discord.GuildID):
		return &discord.ConfigError{Key: "discord.guild_id", Reason: fmt.Sprintf("is not a snowflake: %q", c.Discord.GuildID)}
	case c.Discord.RequestTimeout <= 0:
		return &discord.ConfigError{Key: "discord.request_timeout", Reason: "must be positive"}
	case c.Server.Port <= 0 || c.Server.Port > 65535:
		return &discord.ConfigError{Key: "server.port", Reason: fmt.Sprintf("out of range: %d", c.Server.Port)}
	case c.Audit.Enabled && c.Audit.LogPath == "":
		return &discord.ConfigError{Key: "audit.log_path", Reason: "is required when audit is enabled"}
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		return &discord.ConfigError{Key: "logging.format", Reason: fmt.Sprintf("must be text or json, got %q", c.Logging.Format)}
	}
	return nil
}
