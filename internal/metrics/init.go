package metrics

// Stage names used as the "stage" label.
var StageNames = []string{"compress", "convert"}

// FilesystemOperations are the retried file operations.
var FilesystemOperations = []string{"stat", "read", "write"}

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup.
func InitializeMetrics() {
	for _, stage := range StageNames {
		for _, result := range []string{ResultOK, ResultFallback, ResultSkipped} {
			StageTotal.WithLabelValues(stage, result)
		}
		StageDuration.WithLabelValues(stage)
		StageBytesSaved.WithLabelValues(stage)
	}

	for _, result := range []string{"supported", "unsupported"} {
		ProbeResultsTotal.WithLabelValues(result)
	}

	for _, direction := range []string{"in", "out"} {
		BatchBytesTotal.WithLabelValues(direction)
	}

	for _, op := range FilesystemOperations {
		FilesystemRetryDuration.WithLabelValues(op)
		FilesystemStaleErrors.WithLabelValues(op)
		FilesystemRetrySuccess.WithLabelValues(op)
		FilesystemRetryFailures.WithLabelValues(op)
	}
}
