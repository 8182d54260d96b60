// Package config handles configuration for the field node: defaults, an
// optional .env file, a JSON overlay, and command-line flags, applied in
// that order.
package config

import "time"

// Config holds runtime settings for a field kit.
type Config struct {
	DatabaseFile     string
	ExportDir        string
	MediaRoots       []string
	StoreDir         string
	ConflictStrategy string
	NonceRetention   time.Duration
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.DatabaseFile = "eventsync.db"
	c.ExportDir = "./export"
	c.MediaRoots = []string{"/media", "/mnt"}
	c.StoreDir = "./attachments"
	c.ConflictStrategy = "server_wins"
	c.NonceRetention = 90 * 24 * time.Hour
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from the environment, an optional JSON file, and command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
