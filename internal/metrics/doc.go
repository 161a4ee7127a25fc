// Package metrics provides Prometheus instrumentation for the image
// transcoding pipeline. All metrics are prefixed with "imagehost_".
//
// # Stages
//
//   - StageTotal: stage executions by stage ("compress", "convert") and
//     result ("ok", "fallback", "skipped")
//   - StageDuration: time spent inside each stage
//   - StageBytesSaved: bytes removed by successful stages
//
// # Capability Probe
//
//   - ProbeResultsTotal: probes by result ("supported", "unsupported")
//   - ProbeDuration: probe latency
//
// # Batch Scheduler
//
//   - BatchItemsTotal, BatchGroupsTotal: items and groups completed
//   - BatchGroupDuration: wall time per group
//   - BatchItemsInFlight: items currently inside a group
//   - BatchBytesTotal: bytes in and out
//
// # Operational
//
//   - HTTPRequestsTotal, HTTPRequestDuration, HTTPRequestsInFlight: the
//     /metrics and health server
//   - FilesystemStaleErrors, FilesystemRetrySuccess, FilesystemRetryFailures,
//     FilesystemRetryDuration: NFS retry behavior for input and output files
//
// Metrics register with the default registry through promauto. Call
// InitializeMetrics once so every series exists from the first scrape.
package metrics
