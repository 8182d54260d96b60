package config

import (
	"flag"
	"os"
	"strings"

	"github.com/eventsync/eventsync/internal/flagx"
)

// parseFlags populates selected manager Config fields from command-line
// flags.
//
// Supported flags (short forms):
//
//	-d string   PostgreSQL DSN
//	-o string   export output directory
//	-m string   media roots, comma separated
//	-f string   attachment store directory
//	-y string   conflict strategy
//	-b string   S3 bucket (empty disables the mirror)
//	-e string   S3 base endpoint
//
// The function first filters os.Args to only the flags it recognizes
// using flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-o", "-m", "-f", "-y", "-b", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.ExportDir, "o", config.ExportDir, "dump output directory")
	mediaRoots := fs.String("m", strings.Join(config.MediaRoots, ","), "media roots (comma separated)")
	fs.StringVar(&config.StoreDir, "f", config.StoreDir, "attachment store directory")
	fs.StringVar(&config.ConflictStrategy, "y", config.ConflictStrategy, "conflict strategy")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 mirror bucket")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.MediaRoots = splitRoots(*mediaRoots)
}
