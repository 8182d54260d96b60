package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/eventsync/eventsync/internal/flagx"
	"github.com/eventsync/eventsync/internal/timex"
)

// JsonConfig is the DTO for the JSON configuration file. It uses
// timex.Duration for interval fields, which parses both "2160h" strings
// and integer nanoseconds. Absent fields keep their current values.
type JsonConfig struct {
	DatabaseDSN      *string         `json:"database_dsn"`
	ExportDir        *string         `json:"export_dir"`
	MediaRoots       []string        `json:"media_roots"`
	StoreDir         *string         `json:"store_dir"`
	ConflictStrategy *string         `json:"conflict_strategy"`
	NonceRetention   *timex.Duration `json:"nonce_retention"`
	S3AccessKey      *string         `json:"s3_access_key"`
	S3SecretKey      *string         `json:"s3_secret_key"`
	S3Bucket         *string         `json:"s3_bucket"`
	S3Region         *string         `json:"s3_region"`
	S3BaseEndpoint   *string         `json:"s3_base_endpoint"`
}

// parseJson overlays values from the JSON file named by -c/-config, if
// any. An unreadable or invalid file panics: a half-applied config is
// worse than a refused start.
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

	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
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
	if c.S3AccessKey != nil {
		config.S3AccessKey = *c.S3AccessKey
	}
	if c.S3SecretKey != nil {
		config.S3SecretKey = *c.S3SecretKey
	}
	if c.S3Bucket != nil {
		config.S3Bucket = *c.S3Bucket
	}
	if c.S3Region != nil {
		config.S3Region = *c.S3Region
	}
	if c.S3BaseEndpoint != nil {
		config.S3BaseEndpoint = *c.S3BaseEndpoint
	}
}
