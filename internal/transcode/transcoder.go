package transcode

import (
	"context"
)

// Config wires the primitives used by a Transcoder. Any of them may be nil;
// the affected stage then falls back to its input.
type Config struct {
	Compressor Compressor
	Decoder    Decoder
	Encoder    Encoder
	Prober     Prober
	// Quality is the conversion quality factor; zero means ConversionQuality.
	Quality int
}

// Transcoder runs the compression stage followed by the conversion stage
// on a single image.
type Transcoder struct {
	compress Stage
	convert  Stage
}

// New builds a Transcoder from cfg.
func New(cfg Config) *Transcoder {
	return &Transcoder{
		compress: CompressionStage(cfg.Compressor),
		convert: Converter{
			Decoder: cfg.Decoder,
			Encoder: cfg.Encoder,
			Prober:  cfg.Prober,
			Quality: cfg.Quality,
		}.Stage(),
	}
}

// Transcode applies the enabled stages to img. It never fails: each stage
// that cannot complete hands on the artifact it received.
func (t *Transcoder) Transcode(ctx context.Context, img Image, opts Options) Image {
	current := img

	if opts.EnableCompression {
		current = t.compress(ctx, current)
	} else {
		skipped(StageCompress)
	}

	if opts.EnableWebP {
		current = t.convert(ctx, current)
	} else {
		skipped(StageConvert)
	}

	return current
}
