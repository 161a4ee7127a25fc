package transcode

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"imagehost/internal/logging"
	"imagehost/internal/metrics"
)

// DefaultProbeTimeout bounds a single capability probe.
const DefaultProbeTimeout = 2 * time.Second

// probeSample is a 1x1 lossless WebP.
const probeSample = "UklGRhoAAABXRUJQVlA4TA0AAAAvAAAAEAcQERGIiP4HAA=="

// Probe reports whether the target format can be decoded by attempting
// to decode a tiny embedded sample. Results are not cached.
type Probe struct {
	Decoder Decoder
	Sample  []byte
	Timeout time.Duration
}

// NewProbe returns a Probe that decodes the embedded WebP sample with dec.
func NewProbe(dec Decoder) *Probe {
	sample, _ := base64.StdEncoding.DecodeString(probeSample)
	return &Probe{
		Decoder: dec,
		Sample:  sample,
		Timeout: DefaultProbeTimeout,
	}
}

// SupportsTargetFormat returns true only when the sample decodes to a
// non-empty bitmap before the timeout. Every failure yields false.
func (p *Probe) SupportsTargetFormat(ctx context.Context) bool {
	start := time.Now()
	ok := p.run(ctx)
	metrics.ProbeDuration.Observe(time.Since(start).Seconds())

	result := "unsupported"
	if ok {
		result = "supported"
	}
	metrics.ProbeResultsTotal.WithLabelValues(result).Inc()
	return ok
}

func (p *Probe) run(ctx context.Context) bool {
	if p == nil || p.Decoder == nil || len(p.Sample) == 0 {
		return false
	}

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("panic: %v", r)
			}
		}()
		img, err := p.Decoder.Decode(ctx, p.Sample)
		if err == nil && (img == nil || img.Bounds().Empty()) {
			err = fmt.Errorf("sample decoded to an empty bitmap")
		}
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			logging.Debug("Target format probe failed: %v", err)
			return false
		}
		return true
	case <-ctx.Done():
		logging.Debug("Target format probe gave up: %v", ctx.Err())
		return false
	}
}
