// Package logging provides the leveled, printf-style logger used by every
// image-host package.
//
// Levels, from most to least verbose:
//   - DEBUG: per-stage decisions and timings
//   - INFO: configuration banner and run summaries
//   - WARN: stage fallbacks and recoverable problems
//   - ERROR: failures the caller has to act on
//
// The starting level comes from DEBUG=1 or LOG_LEVEL; the CLI may override
// it with SetLevel once flags are parsed.
package logging
