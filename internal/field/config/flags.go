package config

import (
	"flag"
	"os"
	"strings"

	"github.com/eventsync/eventsync/internal/flagx"
)

// parseFlags populates selected field Config fields from command-line
// flags.
//
// Supported flags (short forms):
//
//	-d string   sqlite database file
//	-o string   export output directory
//	-m string   media roots, comma separated
//	-f string   attachment store directory
//	-y string   conflict strategy
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-o", "-m", "-f", "-y"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.DatabaseFile, "d", config.DatabaseFile, "sqlite database file")
	fs.StringVar(&config.ExportDir, "o", config.ExportDir, "dump output directory")
	mediaRoots := fs.String("m", strings.Join(config.MediaRoots, ","), "media roots (comma separated)")
	fs.StringVar(&config.StoreDir, "f", config.StoreDir, "attachment store directory")
	fs.StringVar(&config.ConflictStrategy, "y", config.ConflictStrategy, "conflict strategy")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.MediaRoots = splitRoots(*mediaRoots)
}
