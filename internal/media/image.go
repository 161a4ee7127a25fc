package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"

	"imagehost/internal/logging"
	"imagehost/internal/mediatypes"

	// Image format decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp" // WebP format support
)

const (
	// MaxImageDimension is the default maximum width or height kept by
	// compression.
	MaxImageDimension = 1920

	// MaxImagePixels is the largest image (width * height) we will decode.
	// A 50MP image would be ~200MB in RGBA.
	MaxImagePixels = 40_000_000
)

var (
	// ErrUnsupportedFormat is returned for inputs no registered codec handles.
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrImageTooLarge is returned when decoding would exceed MaxPixels.
	ErrImageTooLarge = errors.New("image exceeds pixel limit")
)

// ImageDimensions holds image width and height
type ImageDimensions struct {
	Width  int
	Height int
}

// Pixels returns width * height.
func (d ImageDimensions) Pixels() int {
	return d.Width * d.Height
}

// GetImageDimensions returns image dimensions and the decoder's format name
// without fully decoding the image.
func GetImageDimensions(data []byte) (ImageDimensions, string, error) {
	config, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ImageDimensions{}, "", err
	}

	return ImageDimensions{
		Width:  config.Width,
		Height: config.Height,
	}, format, nil
}

// Decoder turns encoded bytes into a bitmap using the pure-Go codecs
// (JPEG, PNG, GIF, BMP, TIFF, WebP). EXIF orientation is applied.
type Decoder struct {
	// MaxPixels caps the decoded size; 0 means MaxImagePixels.
	MaxPixels int
}

// NewDecoder returns a Decoder with default limits.
func NewDecoder() *Decoder {
	return &Decoder{MaxPixels: MaxImagePixels}
}

// Decode decodes data into an image.Image.
func (d *Decoder) Decode(ctx context.Context, data []byte) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dims, format, err := GetImageDimensions(data)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, mediatypes.Sniff(data))
		}
		return nil, fmt.Errorf("failed to read image header: %w", err)
	}

	if err := checkPixels(dims, d.maxPixels()); err != nil {
		return nil, err
	}

	logging.Debug("Decoding %s image %dx%d (%d bytes)", format, dims.Width, dims.Height, len(data))

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s image: %w", format, err)
	}
	return img, nil
}

func (d *Decoder) maxPixels() int {
	if d == nil || d.MaxPixels <= 0 {
		return MaxImagePixels
	}
	return d.MaxPixels
}

func checkPixels(dims ImageDimensions, maxPixels int) error {
	if dims.Width <= 0 || dims.Height <= 0 {
		return fmt.Errorf("invalid image dimensions %dx%d", dims.Width, dims.Height)
	}
	if dims.Pixels() > maxPixels {
		return fmt.Errorf("%w: %dx%d > %d pixels", ErrImageTooLarge, dims.Width, dims.Height, maxPixels)
	}
	return nil
}
