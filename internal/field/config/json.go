package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/eventsync/eventsync/internal/flagx"
	"github.com/eventsync/eventsync/internal/timex"
)

// JsonConfig is the DTO for the JSON configuration file. Absent fields
// keep their current values.
type JsonConfig struct {
	DatabaseFile     *string         `json:"database_file"`
	ExportDir        *string         `json:"export_dir"`
	MediaRoots       []string        `json:"media_roots"`
	StoreDir         *string         `json:"store_dir"`
	ConflictStrategy *string         `json:"conflict_strategy"`
	NonceRetention   *timex.Duration `json:"nonce_retention"`
}

// parseJson overlays values from the JSON file named by -c/-config.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.DatabaseFile != nil {
		config.DatabaseFile = *c.DatabaseFile
	}
	if c.ExportDir != nil {
		config.ExportDir = *c.ExportDir
	}
	if c.MediaRoots != nil {
		config.MediaRoots = c.MediaRoots
	}
	if c.StoreDir != nil {
		config.StoreDir = *c.StoreDir
	}
	if c.ConflictStrategy != nil {
		config.ConflictStrategy = *c.ConflictStrategy
	}
	if c.NonceRetention != nil {
		config.NonceRetention = time.Duration(c.NonceRetention.Duration)
	}
}
