package config

import "time"

// Config holds runtime settings for the kiosk admin console.
//
// Fields:
//   - DatabaseDSN: path of the sqlite database backing the durable store.
//   - CacheDir: directory receiving minted asset copies; empty means a
//     per-session directory under the OS temp root.
//   - RequestTimeout: HTTP timeout for remote sync calls.
type Config struct {
	DatabaseDSN    string
	CacheDir       string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabaseDSN = "kioskd.db"
	c.CacheDir = ""
	c.RequestTimeout = 30 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
