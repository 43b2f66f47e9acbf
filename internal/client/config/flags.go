package config

import (
	"flag"
	"os"
	"time"

	"github.com/avolkov/kioskd/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string      sqlite database path (default from Config)
//	-cache string  asset cache directory (default from Config)
//	-t int         remote sync request timeout in seconds (default from Config)
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-cache", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "sqlite database path")
	fs.StringVar(&cfg.CacheDir, "cache", cfg.CacheDir, "asset cache directory")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "remote sync request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
}
