package workers

import (
	"os"
	"runtime"
	"strconv"
)

// EnvOverride names the environment variable that pins the worker count.
const EnvOverride = "IMAGEHOST_WORKERS"

// Count returns the number of workers for a task whose cost is multiplier
// times one CPU. It reads GOMAXPROCS, which Go sets from container CPU limits.
//
// The limit parameter caps the result; use 0 for no cap. IMAGEHOST_WORKERS,
// when set to a positive integer, replaces the calculation but is still capped.
func Count(multiplier float64, limit int) int {
	if override := os.Getenv(EnvOverride); override != "" {
		if count, err := strconv.Atoi(override); err == nil && count > 0 {
			if limit > 0 && count > limit {
				return limit
			}
			return count
		}
	}

	workers := int(float64(runtime.GOMAXPROCS(0)) * multiplier)

	if workers < 1 {
		workers = 1
	}
	if limit > 0 && workers > limit {
		workers = limit
	}

	return workers
}

// ForCPU returns worker count for CPU-bound tasks such as image encoding
// (1 per CPU), capped at limit.
func ForCPU(limit int) int {
	return Count(1.0, limit)
}
