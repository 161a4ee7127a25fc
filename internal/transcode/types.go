package transcode

import (
	"context"
	"image"

	"imagehost/internal/mediatypes"
)

// Image is one encoded image file flowing through the pipeline. Inputs and
// outputs share this shape; the pipeline never writes into Data.
type Image struct {
	Name     string
	MimeType string
	Data     []byte
}

// NewImage builds an Image, deriving the media type from the content and
// falling back to the name's extension.
func NewImage(name string, data []byte) Image {
	return Image{
		Name:     name,
		MimeType: mediatypes.Detect(name, data).MimeType(),
		Data:     data,
	}
}

// Size returns the encoded size in bytes.
func (i Image) Size() int64 {
	return int64(len(i.Data))
}

// Format returns the sniffed format of the encoded data.
func (i Image) Format() mediatypes.Format {
	return mediatypes.Detect(i.Name, i.Data)
}

// Options selects the optional stages. A false flag skips its stage and
// passes the artifact through unchanged.
type Options struct {
	// EnableCompression applies lossy size/quality reduction first.
	EnableCompression bool `toml:"enable_compression" json:"enableCompression"`
	// EnableWebP re-encodes to WebP after compression.
	EnableWebP bool `toml:"enable_webp" json:"enableWebP"`
}

// ProgressFunc receives the percentage of items, 0-100, that have finished.
type ProgressFunc func(percent int)

// Decoder turns encoded bytes into a bitmap.
type Decoder interface {
	Decode(ctx context.Context, data []byte) (image.Image, error)
}

// Encoder exports a raster surface to its target format at a quality
// factor between 1 and 100.
type Encoder interface {
	Encode(ctx context.Context, img image.Image, quality int) ([]byte, error)
	Format() mediatypes.Format
}

// Compressor shrinks encoded bytes while keeping their format.
type Compressor interface {
	Compress(ctx context.Context, data []byte) ([]byte, error)
}

// Prober reports whether the target format can be handled here. It must
// never panic or block past its own timeout.
type Prober interface {
	SupportsTargetFormat(ctx context.Context) bool
}
