// Package config loads runtime configuration for the kiosk admin console.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-d string      sqlite database path
//	-cache string  asset cache directory
//	-t int         remote sync request timeout (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "30s" or integer nanoseconds:
//
//	{
//	  "database_dsn": "kioskd.db",
//	  "cache_dir": "/tmp/kioskd-cache",
//	  "request_timeout": "30s"
//	}
//
// Primary API
//
//   - type Config                     — holds DatabaseDSN, CacheDir, RequestTimeout
//   - func LoadConfig() *Config       — builds Config by applying defaults, JSON, then flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
