package transcode

import (
	"context"
	"errors"
	"fmt"
	"time"

	"imagehost/internal/logging"
	"imagehost/internal/metrics"
)

// Stage names, also used as metric labels.
const (
	StageCompress = "compress"
	StageConvert  = "convert"
)

var (
	// ErrEmptyArtifact is recorded when a stage produces no bytes.
	ErrEmptyArtifact = errors.New("stage produced an empty artifact")

	// ErrCompressorUnavailable means no compression primitive is configured.
	ErrCompressorUnavailable = errors.New("compressor unavailable")

	// ErrEncoderUnavailable means the raster export primitive is missing.
	ErrEncoderUnavailable = errors.New("encoder unavailable")

	// ErrTargetUnsupported means the capability probe reported false.
	ErrTargetUnsupported = errors.New("target format not supported")
)

// Stage transforms one artifact. A Stage never fails: on any error it
// returns its input.
type Stage func(ctx context.Context, in Image) Image

type stageFunc func(ctx context.Context, in Image) (Image, error)

// guard turns fn into a Stage. Errors, panics, cancellation and empty
// output all yield in unchanged.
func guard(name string, fn stageFunc) Stage {
	return func(ctx context.Context, in Image) (out Image) {
		start := time.Now()
		defer func() {
			metrics.StageDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
		}()
		defer func() {
			if r := recover(); r != nil {
				out = fallback(name, in, fmt.Errorf("panic: %v", r))
			}
		}()

		if err := ctx.Err(); err != nil {
			return fallback(name, in, err)
		}

		result, err := fn(ctx, in)
		if err == nil && len(result.Data) == 0 {
			err = ErrEmptyArtifact
		}
		if err != nil {
			return fallback(name, in, err)
		}

		metrics.StageTotal.WithLabelValues(name, metrics.ResultOK).Inc()
		if saved := in.Size() - result.Size(); saved > 0 {
			metrics.StageBytesSaved.WithLabelValues(name).Add(float64(saved))
		}
		logging.Debug("%s stage: %s (%d bytes) -> %s (%d bytes, %s)",
			name, in.Name, in.Size(), result.Name, result.Size(), result.MimeType)
		return result
	}
}

func fallback(name string, in Image, err error) Image {
	metrics.StageTotal.WithLabelValues(name, metrics.ResultFallback).Inc()

	// A missing capability is an expected environment property, not a fault.
	if errors.Is(err, ErrEncoderUnavailable) || errors.Is(err, ErrTargetUnsupported) {
		logging.Debug("%s stage skipped for %s: %v", name, in.Name, err)
	} else {
		logging.Warn("%s stage failed for %s, using previous artifact: %v", name, in.Name, err)
	}
	return in
}

func skipped(name string) {
	metrics.StageTotal.WithLabelValues(name, metrics.ResultSkipped).Inc()
}
