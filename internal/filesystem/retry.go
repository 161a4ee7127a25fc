// Package filesystem provides file operations that retry on NFS stale
// file handle errors.
package filesystem

import (
	"errors"
	"os"
	"syscall"
	"time"

	"imagehost/internal/logging"
	"imagehost/internal/metrics"
)

// RetryConfig configures retry behavior for filesystem operations
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultRetryConfig returns sensible defaults for NFS retry behavior
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		InitialBackoff: 50 * time.Millisecond,
		MaxBackoff:     500 * time.Millisecond,
	}
}

// isNFSStaleError checks if an error is an NFS stale file handle error
func isNFSStaleError(err error) bool {
	if err == nil {
		return false
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == syscall.ESTALE
	}

	return false
}

// retry runs fn until it succeeds, fails with anything other than ESTALE,
// or the retry budget is spent.
func retry[T any](op, path string, config RetryConfig, fn func() (T, error)) (T, error) {
	start := time.Now()
	defer func() {
		metrics.FilesystemRetryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	var zero T
	var lastErr error
	backoff := config.InitialBackoff

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		v, err := fn()
		if err == nil {
			if attempt > 0 {
				logging.Info("NFS %s succeeded on retry %d for %s", op, attempt, path)
				metrics.FilesystemRetrySuccess.WithLabelValues(op).Inc()
			}
			return v, nil
		}

		lastErr = err

		// Only retry on NFS stale file handle errors
		if !isNFSStaleError(err) {
			return zero, err
		}
		metrics.FilesystemStaleErrors.WithLabelValues(op).Inc()

		// Don't sleep after the last attempt
		if attempt < config.MaxRetries {
			logging.Debug("NFS %s stale file handle for %s, retrying in %v (attempt %d/%d)",
				op, path, backoff, attempt+1, config.MaxRetries)
			time.Sleep(backoff)

			backoff *= 2
			if backoff > config.MaxBackoff {
				backoff = config.MaxBackoff
			}
		}
	}

	logging.Warn("NFS %s failed after %d retries for %s: %v", op, config.MaxRetries, path, lastErr)
	metrics.FilesystemRetryFailures.WithLabelValues(op).Inc()
	return zero, lastErr
}

// StatWithRetry performs os.Stat with retry logic for NFS stale file handle errors
func StatWithRetry(path string, config RetryConfig) (os.FileInfo, error) {
	return retry("stat", path, config, func() (os.FileInfo, error) {
		return os.Stat(path)
	})
}

// ReadFileWithRetry performs os.ReadFile with retry logic for NFS stale file handle errors
func ReadFileWithRetry(path string, config RetryConfig) ([]byte, error) {
	return retry("read", path, config, func() ([]byte, error) {
		return os.ReadFile(path)
	})
}

// WriteFileWithRetry performs os.WriteFile with retry logic for NFS stale file handle errors
func WriteFileWithRetry(path string, data []byte, perm os.FileMode, config RetryConfig) error {
	_, err := retry("write", path, config, func() (struct{}, error) {
		return struct{}{}, os.WriteFile(path, data, perm)
	})
	return err
}
