// Package config reads the compiler's tunables from the environment.
package config

import (
	"strings"
	"time"

	"github.com/xyproto/env/v2"
)

const (
	DefaultSourceExt     = ".imperat"
	DefaultOutputExt     = ".py"
	DefaultFuel          = 5_000_000
	DefaultHistoryFile   = ".imperat_history"
	DefaultWatchInterval = 250 * time.Millisecond
)

// Config holds the settings shared by every subcommand.
type Config struct {
	SourceExt     string
	OutputExt     string
	Fuel          int
	Verbose       bool
	HistoryFile   string
	WatchInterval time.Duration
}

// Load reads IMPERAT_* variables, falling back to the defaults.
func Load() Config {
	c := Config{
		SourceExt:     dotted(env.Str("IMPERAT_EXT", DefaultSourceExt)),
		OutputExt:     dotted(env.Str("IMPERAT_OUT_EXT", DefaultOutputExt)),
		Fuel:          env.Int("IMPERAT_FUEL", DefaultFuel),
		Verbose:       env.Bool("IMPERAT_VERBOSE"),
		HistoryFile:   env.Str("IMPERAT_HISTORY", DefaultHistoryFile),
		WatchInterval: time.Duration(env.Int("IMPERAT_WATCH_INTERVAL_MS", int(DefaultWatchInterval/time.Millisecond))) * time.Millisecond,
	}
	if c.WatchInterval <= 0 {
		c.WatchInterval = DefaultWatchInterval
	}
	return c
}

func dotted(ext string) string {
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}

// HasSourceExt reports whether path carries the configured source extension.
func (c Config) HasSourceExt(path string) bool {
	return strings.HasSuffix(path, c.SourceExt) && len(path) > len(c.SourceExt)
}

// OutputPath maps a source path to its default artifact path.
func (c Config) OutputPath(path string) string {
	return strings.TrimSuffix(path, c.SourceExt) + c.OutputExt
}
