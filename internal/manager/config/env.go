package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from EVENTSYNC_* environment variables.
// A .env file in the working directory is loaded first when present;
// variables already set in the environment win over the file.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	if v, ok := os.LookupEnv("EVENTSYNC_DATABASE_DSN"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("EVENTSYNC_EXPORT_DIR"); ok {
		config.ExportDir = v
	}
	if v, ok := os.LookupEnv("EVENTSYNC_MEDIA_ROOTS"); ok {
		config.MediaRoots = splitRoots(v)
	}
	if v, ok := os.LookupEnv("EVENTSYNC_STORE_DIR"); ok {
		config.StoreDir = v
	}
	if v, ok := os.LookupEnv("EVENTSYNC_CONFLICT_STRATEGY"); ok {
		config.ConflictStrategy = v
	}
	if v, ok := os.LookupEnv("EVENTSYNC_NONCE_RETENTION"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.NonceRetention = d
		}
	}
	if v, ok := os.LookupEnv("EVENTSYNC_S3_ACCESS_KEY"); ok {
		config.S3AccessKey = v
	}
	if v, ok := os.LookupEnv("EVENTSYNC_S3_SECRET_KEY"); ok {
		config.S3SecretKey = v
	}
	if v, ok := os.LookupEnv("EVENTSYNC_S3_BUCKET"); ok {
		config.S3Bucket = v
	}
	if v, ok := os.LookupEnv("EVENTSYNC_S3_REGION"); ok {
		config.S3Region = v
	}
	if v, ok := os.LookupEnv("EVENTSYNC_S3_ENDPOINT"); ok {
		config.S3BaseEndpoint = v
	}
}

func splitRoots(v string) []string {
	var roots []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			roots = append(roots, p)
		}
	}
	return roots
}
