package libvips

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"imagehost/internal/logging"
	"imagehost/internal/mediatypes"

	"github.com/davidbyttow/govips/v2/vips"
)

// WebPEncoder exports a raster surface as WebP through libvips.
type WebPEncoder struct {
	// Effort is the libvips reduction effort (0-6); higher is slower and
	// smaller.
	Effort int
}

// NewWebPEncoder returns an encoder with libvips' default effort.
func NewWebPEncoder() *WebPEncoder {
	return &WebPEncoder{Effort: 4}
}

// Format reports the target format.
func (e *WebPEncoder) Format() mediatypes.Format {
	return mediatypes.FormatWebP
}

// Encode converts img to lossy WebP at the given quality (1-100).
func (e *WebPEncoder) Encode(ctx context.Context, img image.Image, quality int) ([]byte, error) {
	if !IsAvailable() {
		return nil, ErrUnavailable
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Hand the surface to libvips losslessly; speed over size here since the
	// buffer is discarded right after import.
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to stage raster for libvips: %w", err)
	}

	ref, err := vips.NewImageFromBuffer(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("vips failed to load raster: %w", err)
	}
	defer ref.Close()

	params := vips.NewWebpExportParams()
	params.Quality = quality
	params.StripMetadata = true
	params.ReductionEffort = e.Effort

	out, _, err := ref.ExportWebp(params)
	if err != nil {
		return nil, fmt.Errorf("vips webp export failed: %w", err)
	}

	logging.Debug("libvips exported %dx%d WebP at quality %d: %d bytes",
		ref.Width(), ref.Height(), quality, len(out))
	return out, nil
}
