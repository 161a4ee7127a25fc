package cli

import (
	"context"
	"errors"
	"fmt"
	"image"
	"net/http"
	"time"

	"imagehost/internal/handlers"
	"imagehost/internal/libvips"
	"imagehost/internal/logging"
	"imagehost/internal/media"
	"imagehost/internal/memory"
	"imagehost/internal/metrics"
	"imagehost/internal/startup"
	"imagehost/internal/transcode"
)

// decoderChain tries each decoder in turn and returns the first bitmap.
type decoderChain []transcode.Decoder

func (c decoderChain) Decode(ctx context.Context, data []byte) (image.Image, error) {
	var errs []error
	for _, dec := range c {
		img, err := dec.Decode(ctx, data)
		if err == nil {
			return img, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, errors.New("no decoder configured")
	}
	return nil, errors.Join(errs...)
}

// engine is the wired pipeline for one invocation.
type engine struct {
	probe    *transcode.Probe
	pipeline *transcode.Pipeline
	vips     bool
}

// initRuntime applies process-wide settings shared by all commands.
func initRuntime() {
	memory.ConfigureFromEnv()
	metrics.InitializeMetrics()
	info := startup.GetBuildInfo()
	metrics.SetAppInfo(info.Version, info.Commit, info.GoVersion)
	startup.LogSystemInfo()
}

// newEngine wires the primitives. libvips is only started when withVips is
// set; without it the conversion stage always falls back.
func newEngine(config *startup.Config, withVips bool) *engine {
	e := &engine{}

	if withVips {
		if err := libvips.Startup(libvips.DefaultConfig()); err != nil {
			logging.Warn("libvips unavailable, WebP conversion disabled: %v", err)
		}
		e.vips = libvips.IsAvailable()
	}

	decoders := decoderChain{media.NewDecoder()}
	var encoder transcode.Encoder
	if e.vips {
		decoders = append(decoders, libvips.Decoder{})
		encoder = libvips.NewWebPEncoder()
	}

	e.probe = transcode.NewProbe(decoders)
	e.probe.Timeout = config.ProbeTimeout

	e.pipeline = transcode.NewPipeline(transcode.New(transcode.Config{
		Compressor: media.NewCompressor(),
		Decoder:    decoders,
		Encoder:    encoder,
		Prober:     e.probe,
	}))
	return e
}

func (e *engine) close() {
	if e.vips {
		libvips.Shutdown()
	}
}

// startMetricsServer serves the operational routes on addr until the
// returned stop function is called.
func startMetricsServer(addr string, e *engine) (stop func()) {
	srv := handlers.NewServer(addr, handlers.New(e.probe, libvips.IsAvailable))

	go func() {
		logging.Info("Metrics server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Metrics server error: %v", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", fmt.Errorf("shutdown %s: %w", addr, err))
		}
	}
}
