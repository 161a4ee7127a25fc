// Package handlers provides the HTTP endpoints exposed while images are
// being processed:
//   - /metrics for Prometheus
//   - /health and /healthz with WebP capability status
//   - /livez for liveness
//   - /version for build information
package handlers
