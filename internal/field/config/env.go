package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from EVENTSYNC_* environment variables,
// loading a .env file first when one exists.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	if v, ok := os.LookupEnv("EVENTSYNC_DATABASE_FILE"); ok {
		config.DatabaseFile = v
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
