package memory

import (
	"math"
	"os"
	"runtime/debug"
	"strconv"

	"imagehost/internal/logging"

	"github.com/dustin/go-humanize"
)

// DefaultMemoryRatio is the share of the container limit handed to the Go
// heap. The remainder is left for libvips, which allocates outside it.
const DefaultMemoryRatio = 0.75

const (
	sourceGOMEMLIMIT  = "GOMEMLIMIT"
	sourceMEMORYLIMIT = "MEMORY_LIMIT"
	sourceNone        = "none"
)

// ConfigResult holds the result of memory configuration
type ConfigResult struct {
	// Configured indicates whether a Go memory limit is in effect
	Configured bool

	// Source is "GOMEMLIMIT", "MEMORY_LIMIT", or "none"
	Source string

	// ContainerLimit is the container memory limit in bytes (0 if not set)
	ContainerLimit int64

	// GoMemLimit is the configured Go memory limit in bytes (0 if not set)
	GoMemLimit int64

	// Ratio is the memory ratio used (0 if not applicable)
	Ratio float64
}

// ConfigureFromEnv sets the Go soft memory limit from the container limit.
// Call it early in main, before images are decoded.
//
// Environment variables:
//   - GOMEMLIMIT: honored as-is when set (read by the runtime at startup)
//   - MEMORY_LIMIT: container memory limit in bytes
//   - MEMORY_RATIO: share of MEMORY_LIMIT for the Go heap (default 0.75)
func ConfigureFromEnv() ConfigResult {
	result := ConfigResult{Source: sourceNone}

	if goMemLimitEnv := os.Getenv("GOMEMLIMIT"); goMemLimitEnv != "" {
		if limit := debug.SetMemoryLimit(-1); limit > 0 && limit < math.MaxInt64 {
			result.Configured = true
			result.Source = sourceGOMEMLIMIT
			result.GoMemLimit = limit
		}
		logging.Info("GOMEMLIMIT set via environment: %s", goMemLimitEnv)
		return result
	}

	memLimitStr := os.Getenv("MEMORY_LIMIT")
	if memLimitStr == "" {
		logging.Debug("MEMORY_LIMIT not set, GOMEMLIMIT will not be configured automatically")
		return result
	}

	memLimit, err := strconv.ParseInt(memLimitStr, 10, 64)
	if err != nil || memLimit <= 0 {
		logging.Warn("Ignoring invalid MEMORY_LIMIT %q", memLimitStr)
		return result
	}

	ratio := parseRatio(os.Getenv("MEMORY_RATIO"))
	goMemLimit := int64(float64(memLimit) * ratio)
	debug.SetMemoryLimit(goMemLimit)

	result.Configured = true
	result.Source = sourceMEMORYLIMIT
	result.ContainerLimit = memLimit
	result.GoMemLimit = goMemLimit
	result.Ratio = ratio

	logging.Info("Configured GOMEMLIMIT: %s (%.1f%% of %s container limit)",
		humanize.IBytes(uint64(goMemLimit)),
		ratio*100,
		humanize.IBytes(uint64(memLimit)),
	)

	return result
}

func parseRatio(s string) float64 {
	if s == "" {
		return DefaultMemoryRatio
	}
	ratio, err := strconv.ParseFloat(s, 64)
	if err != nil {
		logging.Warn("Failed to parse MEMORY_RATIO %q: %v, using default %.2f", s, err, DefaultMemoryRatio)
		return DefaultMemoryRatio
	}
	if ratio <= 0 || ratio > 1.0 {
		logging.Warn("MEMORY_RATIO %q out of range (0.0-1.0], using default %.2f", s, DefaultMemoryRatio)
		return DefaultMemoryRatio
	}
	return ratio
}
