package libvips

import (
	"errors"
	"sync"

	"imagehost/internal/logging"
	"imagehost/internal/metrics"
	"imagehost/internal/workers"

	"github.com/davidbyttow/govips/v2/vips"
)

// ErrUnavailable is returned by every primitive when libvips has not been
// started (or has been shut down).
var ErrUnavailable = errors.New("libvips not available")

var (
	vipsInitialized bool
	vipsInitMutex   sync.Mutex
	vipsAvailable   bool
)

// Config tunes libvips at startup.
type Config struct {
	// ConcurrencyLevel is the libvips thread pool size per operation.
	// 0 sizes it from the CPU budget.
	ConcurrencyLevel int
	// MaxCacheMem bounds the libvips operation cache in bytes.
	MaxCacheMem int
}

// DefaultConfig returns conservative settings: the pipeline already runs
// several items at once, so each libvips operation gets a small pool.
func DefaultConfig() Config {
	return Config{
		ConcurrencyLevel: workers.ForCPU(2),
		MaxCacheMem:      50 * 1024 * 1024,
	}
}

// Startup initializes libvips once for the process. govips cannot restart
// libvips after Shutdown, so later calls after a shutdown are no-ops that
// leave it unavailable.
func Startup(cfg Config) error {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()

	if vipsInitialized {
		return nil
	}

	// Logging must be configured before vips.Startup to take effect
	vips.LoggingSettings(forwardLog, vipsLevelFor(logging.GetLevel()))

	if cfg.ConcurrencyLevel <= 0 {
		cfg.ConcurrencyLevel = workers.ForCPU(2)
	}

	vips.Startup(&vips.Config{
		ConcurrencyLevel: cfg.ConcurrencyLevel,
		MaxCacheMem:      cfg.MaxCacheMem,
		MaxCacheSize:     100,
		ReportLeaks:      false,
		CacheTrace:       false,
		CollectStats:     false,
	})

	vipsInitialized = true
	vipsAvailable = true
	metrics.VipsAvailable.Set(1)
	logging.Info("libvips initialized (version: %s, concurrency: %d)", vips.Version, cfg.ConcurrencyLevel)
	return nil
}

// Shutdown releases libvips resources.
func Shutdown() {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()

	if vipsAvailable {
		vips.Shutdown()
		vipsAvailable = false
		metrics.VipsAvailable.Set(0)
		logging.Info("libvips shutdown complete")
	}
}

// IsAvailable returns whether libvips is initialized and usable.
func IsAvailable() bool {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()
	return vipsAvailable
}

// vipsLevelFor picks the most verbose libvips level worth forwarding at the
// application's level.
func vipsLevelFor(level logging.LogLevel) vips.LogLevel {
	switch level {
	case logging.LevelDebug:
		return vips.LogLevelInfo
	case logging.LevelInfo:
		return vips.LogLevelWarning
	case logging.LevelWarn:
		return vips.LogLevelError
	default:
		return vips.LogLevelCritical
	}
}

func forwardLog(domain string, level vips.LogLevel, msg string) {
	switch level {
	case vips.LogLevelError, vips.LogLevelCritical:
		logging.Error("[%s] %s", domain, msg)
	case vips.LogLevelWarning:
		logging.Warn("[%s] %s", domain, msg)
	default:
		logging.Debug("[%s] %s", domain, msg)
	}
}

// Version returns the loaded libvips version.
func Version() string {
	return vips.Version
}
