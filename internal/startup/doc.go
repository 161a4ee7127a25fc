// Package startup handles application configuration, persisted
// preferences, build information and startup logging.
//
// # Configuration
//
// [LoadConfig] reads the following environment variables:
//
//   - IMAGEHOST_PREFERENCES: Path to the TOML preferences file
//     (default: $XDG_CONFIG_HOME/imagehost/preferences.toml)
//   - IMAGEHOST_OUTPUT_DIR: Directory processed images are written to (default: ./processed)
//   - IMAGEHOST_METRICS_ADDR: Address for the Prometheus metrics server (default: disabled)
//   - IMAGEHOST_PROBE_TIMEOUT: WebP capability probe timeout as Go duration (default: 2s)
//   - IMAGEHOST_UNIQUE_NAMES: Name outputs <unix-ms>-<hex>.<ext> (default: false)
//   - LOG_LEVEL: Logging level - debug, info, warn, error (default: info)
//   - MEMORY_LIMIT, MEMORY_RATIO, GOMEMLIMIT: see package memory
//   - IMAGEHOST_WORKERS: see package workers
//
// Command-line flags override both the environment and the preferences file.
//
// # Preferences
//
// [LoadPreferences] and [SavePreferences] persist the processing options
// between runs:
//
//	[processing]
//	enable_compression = true
//	enable_webp = true
//
//	[output]
//	dir = "/srv/uploads"
//	unique_names = false
//
// # Build Information
//
// Version, Commit and BuildTime are set at build time:
//
//	go build -ldflags "-X imagehost/internal/startup.Version=v1.0.0"
package startup
