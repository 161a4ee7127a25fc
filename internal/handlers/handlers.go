package handlers

import (
	"context"
	"sync"
	"time"

	"imagehost/internal/transcode"
)

// capabilityTTL is how long a health check reuses the last WebP probe.
// Scrapers poll often and each probe decodes a sample.
const capabilityTTL = 30 * time.Second

// Handlers serves the operational endpoints of a running pipeline.
type Handlers struct {
	prober           transcode.Prober
	encoderAvailable func() bool
	startTime        time.Time

	capMu        sync.Mutex
	capCheckedAt time.Time
	capSupported bool
}

// New returns Handlers reporting WebP support through prober and
// encoderAvailable. Either may be nil, which reads as unavailable.
func New(prober transcode.Prober, encoderAvailable func() bool) *Handlers {
	return &Handlers{
		prober:           prober,
		encoderAvailable: encoderAvailable,
		startTime:        time.Now(),
	}
}

// webpSupported returns the cached probe result, probing again once it is
// older than capabilityTTL. Only health reporting is cached; the pipeline
// probes on every conversion.
func (h *Handlers) webpSupported(ctx context.Context) bool {
	if h.prober == nil {
		return false
	}

	h.capMu.Lock()
	defer h.capMu.Unlock()

	if !h.capCheckedAt.IsZero() && time.Since(h.capCheckedAt) < capabilityTTL {
		return h.capSupported
	}
	h.capSupported = h.prober.SupportsTargetFormat(ctx)
	h.capCheckedAt = time.Now()
	return h.capSupported
}
