package startup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"imagehost/internal/logging"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// MaxFileSize is the largest input accepted for processing.
const MaxFileSize = 50 << 20

// DefaultProbeTimeout bounds the WebP capability probe.
const DefaultProbeTimeout = 2 * time.Second

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// Config holds all application configuration
type Config struct {
	PreferencesPath string
	OutputDir       string
	MetricsAddr     string
	ProbeTimeout    time.Duration
	UniqueNames     bool
}

// LoadConfig loads configuration from environment variables. Command-line
// flags are applied on top by the caller.
func LoadConfig() (*Config, error) {
	logSection("CONFIGURATION")

	prefsPath := getEnv("IMAGEHOST_PREFERENCES", defaultPreferencesPath())
	outputDir := getEnv("IMAGEHOST_OUTPUT_DIR", "processed")
	metricsAddr := getEnv("IMAGEHOST_METRICS_ADDR", "")
	probeTimeoutStr := getEnv("IMAGEHOST_PROBE_TIMEOUT", DefaultProbeTimeout.String())
	uniqueNames := getEnvBool("IMAGEHOST_UNIQUE_NAMES", false)

	logging.Debug("  IMAGEHOST_PREFERENCES:   %s", prefsPath)
	logging.Debug("  IMAGEHOST_OUTPUT_DIR:    %s", outputDir)
	logging.Debug("  IMAGEHOST_METRICS_ADDR:  %s", metricsAddr)
	logging.Debug("  IMAGEHOST_PROBE_TIMEOUT: %s", probeTimeoutStr)
	logging.Debug("  IMAGEHOST_UNIQUE_NAMES:  %v", uniqueNames)
	logging.Debug("  LOG_LEVEL:               %s", logging.GetLevel())

	probeTimeout, err := time.ParseDuration(probeTimeoutStr)
	if err != nil || probeTimeout <= 0 {
		logging.Warn("Invalid IMAGEHOST_PROBE_TIMEOUT %q, using default: %v", probeTimeoutStr, DefaultProbeTimeout)
		probeTimeout = DefaultProbeTimeout
	}

	outputDir, err = filepath.Abs(outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory path: %w", err)
	}

	return &Config{
		PreferencesPath: prefsPath,
		OutputDir:       outputDir,
		MetricsAddr:     metricsAddr,
		ProbeTimeout:    probeTimeout,
		UniqueNames:     uniqueNames,
	}, nil
}

// EnsureOutputDir creates dir if needed and verifies it is writable.
func EnsureOutputDir(dir string) error {
	if err := ensureDirectory(dir, "output"); err != nil {
		return err
	}
	if err := testWriteAccess(dir); err != nil {
		return fmt.Errorf("output directory is not writable: %w", err)
	}
	logging.Debug("  [OK] Output directory is writable: %s", dir)
	return nil
}

// PrintBanner writes the version banner to w.
func PrintBanner(w io.Writer) {
	banner := `
------------------------------------------------------------
    _                              __               __
   (_)___ ___  ____ _____ ____  / /_  ____  _____/ /_
  / / __ '__ \/ __ '/ __ '/ _ \/ __ \/ __ \/ ___/ __/
 / / / / / / / /_/ / /_/ /  __/ / / / /_/ (__  ) /_
/_/_/ /_/ /_/\__,_/\__, /\___/_/ /_/\____/____/\__/
                  /____/
------------------------------------------------------------`
	info := GetBuildInfo()
	fmt.Fprintln(w, banner)
	fmt.Fprintf(w, "  Version:    %s\n", info.Version)
	fmt.Fprintf(w, "  Commit:     %s\n", info.Commit)
	fmt.Fprintf(w, "  Build Time: %s\n", info.BuildTime)
	fmt.Fprintf(w, "  Go:         %s %s/%s\n", info.GoVersion, info.OS, info.Arch)
}

// LogSystemInfo logs runtime details at debug level.
func LogSystemInfo() {
	if !logging.IsDebugEnabled() {
		return
	}

	logSection("SYSTEM INFORMATION")
	logging.Debug("  Go version:      %s", runtime.Version())
	logging.Debug("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Debug("  CPUs available:  %d", runtime.NumCPU())
	logging.Debug("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))

	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		logging.Debug("  (Container CPU limit detected)")
	}
	if wd, err := os.Getwd(); err == nil {
		logging.Debug("  Working dir:     %s", wd)
	}
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

// Helper functions

func logSection(title string) {
	logging.Debug("------------------------------------------------------------")
	logging.Debug("%s", title)
	logging.Debug("------------------------------------------------------------")
}

func defaultPreferencesPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "imagehost.toml"
	}
	return filepath.Join(dir, "imagehost", "preferences.toml")
}

func ensureDirectory(path, name string) error {
	logging.Debug("  Checking %s directory: %s", name, path)

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		logging.Debug("    Directory does not exist, creating...")
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		logging.Debug("    [OK] Created directory: %s", path)
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory: %s", path)
	}

	logging.Debug("    [OK] Directory exists")
	return nil
}

func testWriteAccess(dir string) error {
	testFile := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		return err
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("failed to remove write test file %s: %v", testFile, err)
		// Don't return error since write access was confirmed
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
