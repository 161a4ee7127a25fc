package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"math"

	"imagehost/internal/logging"
	"imagehost/internal/mediatypes"

	"github.com/disintegration/imaging"
)

// Compression defaults.
const (
	DefaultMaxBytes       = 1 << 20 // 1 MiB
	DefaultInitialQuality = 80
	DefaultMinQuality     = 10
	DefaultMaxIterations  = 10
	qualityStep           = 10

	// maxShrink is the largest scale factor applied by one resize pass.
	maxShrink = 0.95
)

// encodableFormats maps the formats compression can re-encode to the
// imaging encoder used for them. WebP has no pure-Go encoder.
var encodableFormats = map[mediatypes.Format]imaging.Format{
	mediatypes.FormatJPEG: imaging.JPEG,
	mediatypes.FormatPNG:  imaging.PNG,
	mediatypes.FormatGIF:  imaging.GIF,
	mediatypes.FormatBMP:  imaging.BMP,
	mediatypes.FormatTIFF: imaging.TIFF,
}

// Compressor reduces an encoded image to a byte budget and a maximum
// dimension while keeping its format. Quality is the first trade-off knob
// for JPEG; once it is exhausted, or for lossless formats, the image is
// scaled down until it fits.
type Compressor struct {
	MaxBytes       int
	MaxDimension   int
	MaxPixels      int
	InitialQuality int
	MinQuality     int
	MaxIterations  int
}

// NewCompressor returns a Compressor with the default budget
// (1 MiB, 1920px, starting at quality 80).
func NewCompressor() *Compressor {
	return &Compressor{
		MaxBytes:       DefaultMaxBytes,
		MaxDimension:   MaxImageDimension,
		MaxPixels:      MaxImagePixels,
		InitialQuality: DefaultInitialQuality,
		MinQuality:     DefaultMinQuality,
		MaxIterations:  DefaultMaxIterations,
	}
}

// Compress returns a smaller encoding of data in the same format. When data
// already fits the budget, or re-encoding does not make it smaller, data is
// returned as-is.
func (c *Compressor) Compress(ctx context.Context, data []byte) ([]byte, error) {
	format := mediatypes.Sniff(data)
	target, ok := encodableFormats[format]
	if !ok {
		return nil, fmt.Errorf("%w: cannot re-encode %s", ErrUnsupportedFormat, format)
	}

	dims, _, err := GetImageDimensions(data)
	if err != nil {
		return nil, fmt.Errorf("failed to read image header: %w", err)
	}
	if err := checkPixels(dims, c.maxPixels()); err != nil {
		return nil, err
	}

	oversized := c.MaxDimension > 0 && (dims.Width > c.MaxDimension || dims.Height > c.MaxDimension)
	if c.withinBudget(len(data)) && !oversized {
		logging.Debug("Compression skipped: %s %dx%d (%d bytes) already within budget",
			format, dims.Width, dims.Height, len(data))
		return data, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s image: %w", format, err)
	}

	if oversized {
		img = imaging.Fit(img, c.MaxDimension, c.MaxDimension, imaging.Lanczos)
		logging.Debug("Compression resized %dx%d to %dx%d",
			dims.Width, dims.Height, img.Bounds().Dx(), img.Bounds().Dy())
	}

	out, err := c.fitBudget(ctx, img, target)
	if err != nil {
		return nil, err
	}

	if len(out) >= len(data) {
		logging.Debug("Compression produced %d bytes from %d, keeping original", len(out), len(data))
		return data, nil
	}
	return out, nil
}

// fitBudget re-encodes img until the output fits MaxBytes or the iteration
// budget runs out, returning the smallest encoding seen. JPEG quality drops
// first; after that each pass shrinks the image in proportion to the
// overshoot, by at least 5%.
func (c *Compressor) fitBudget(ctx context.Context, img image.Image, target imaging.Format) ([]byte, error) {
	quality := clampQuality(c.InitialQuality)
	minQuality := clampQuality(c.MinQuality)
	iterations := c.MaxIterations
	if iterations < 1 {
		iterations = 1
	}

	var best []byte
	for i := 0; i < iterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var opts []imaging.EncodeOption
		if target == imaging.JPEG {
			opts = append(opts, imaging.JPEGQuality(quality))
		}
		out, err := encode(img, target, opts...)
		if err != nil {
			return nil, err
		}
		if best == nil || len(out) < len(best) {
			best = out
		}

		bounds := img.Bounds()
		logging.Debug("%s pass %d at %dx%d, quality %d: %d bytes (budget %d)",
			target, i+1, bounds.Dx(), bounds.Dy(), quality, len(out), c.MaxBytes)

		if c.withinBudget(len(out)) {
			break
		}

		if target == imaging.JPEG && quality > minQuality {
			quality = max(quality-qualityStep, minQuality)
			continue
		}

		scale := min(maxShrink, math.Sqrt(float64(c.MaxBytes)/float64(len(out)))*maxShrink)
		width := int(float64(bounds.Dx()) * scale)
		height := int(float64(bounds.Dy()) * scale)
		if width < 1 || height < 1 {
			break
		}
		img = imaging.Resize(img, width, height, imaging.Lanczos)
	}
	return best, nil
}

func encode(img image.Image, format imaging.Format, opts ...imaging.EncodeOption) ([]byte, error) {
	if format == imaging.PNG {
		opts = append(opts, imaging.PNGCompressionLevel(png.BestCompression))
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, opts...); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

// withinBudget reports whether n bytes fit MaxBytes; 0 disables the budget.
func (c *Compressor) withinBudget(n int) bool {
	return c.MaxBytes <= 0 || n <= c.MaxBytes
}

func (c *Compressor) maxPixels() int {
	if c.MaxPixels <= 0 {
		return MaxImagePixels
	}
	return c.MaxPixels
}

func clampQuality(q int) int {
	switch {
	case q < 1:
		return 1
	case q > 100:
		return 100
	default:
		return q
	}
}
