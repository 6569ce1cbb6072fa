// Package config loads lhwatch's configuration: an optional YAML/JSON file
// overlaid by environment variables. The environment always wins, so a bare
// deployment (env only, no file) works and the file never shadows secrets
// injected by the process manager.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultDataDir  = "./data"
	defaultInterval = 1800 // seconds
	defaultTimezone = "Asia/Seoul"
)

type Config struct {
	DataDir string `json:"data_dir"`

	Telegram TelegramConfig `json:"telegram"`
	Discord  DiscordConfig  `json:"discord"`
	OpenData OpenDataConfig `json:"open_data"`

	// CheckIntervalSec is the pause between steady-state check cycles.
	CheckIntervalSec int `json:"check_interval_sec"`

	// Timezone governs the day stamp of the daily aggregation and the
	// 21:00 summary trigger.
	Timezone string `json:"timezone"`

	Logging LoggingConfig `json:"logging"`
}

type TelegramConfig struct {
	Token  string `json:"token"`
	ChatID string `json:"chat_id"`
}

type DiscordConfig struct {
	WebhookURL string `json:"webhook_url"`
}

type OpenDataConfig struct {
	APIKey string `json:"api_key"`
}

type LoggingConfig struct {
	Level   string        `json:"level"`
	Console bool          `json:"console"`
	File    LogFileConfig `json:"file"`
}

type LogFileConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		DataDir:          defaultDataDir,
		CheckIntervalSec: defaultInterval,
		Timezone:         defaultTimezone,
		Logging:          LoggingConfig{Level: "info", Console: true},
	}
}

// ApplyEnv overlays the well-known environment variables onto cfg.
// Empty variables leave the existing value untouched.
func ApplyEnv(cfg *Config) {
	setIfPresent(&cfg.DataDir, "DATA_DIR")
	setIfPresent(&cfg.Telegram.Token, "TELEGRAM_BOT_TOKEN")
	setIfPresent(&cfg.Telegram.ChatID, "TELEGRAM_CHAT_ID")
	setIfPresent(&cfg.Discord.WebhookURL, "DISCORD_WEBHOOK_URL")
	setIfPresent(&cfg.OpenData.APIKey, "DATA_GO_KR_API_KEY")

	if v := strings.TrimSpace(os.Getenv("CHECK_INTERVAL")); v != "" {
		if sec, err := strconv.Atoi(v); err == nil && sec > 0 {
			cfg.CheckIntervalSec = sec
		}
	}
}

func setIfPresent(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

// Normalize fills zero values with defaults so a sparse config file works.
func (c *Config) Normalize() {
	if strings.TrimSpace(c.DataDir) == "" {
		c.DataDir = defaultDataDir
	}
	if c.CheckIntervalSec <= 0 {
		c.CheckIntervalSec = defaultInterval
	}
	if strings.TrimSpace(c.Timezone) == "" {
		c.Timezone = defaultTimezone
	}
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = "info"
	}
}

// Validate rejects configs that cannot run at all. Note that "no sink
// configured" is deliberately not checked here: the orchestrator owns that
// startup precondition.
func (c *Config) Validate() error {
	if c.CheckIntervalSec <= 0 {
		return fmt.Errorf("check_interval_sec must be positive, got %d", c.CheckIntervalSec)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return nil
}

// CheckInterval returns the cycle pause as a duration.
func (c *Config) CheckInterval() time.Duration {
	return time.Duration(c.CheckIntervalSec) * time.Second
}

// Location resolves the configured timezone. Validate must have passed.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
