package libvips

import (
	"context"
	"fmt"
	"image"

	"github.com/davidbyttow/govips/v2/vips"
)

// Decoder decodes anything libvips was built to load, including HEIF and
// AVIF which have no pure-Go decoder.
type Decoder struct{}

// Decode loads data with libvips (auto-rotated) and converts it to an
// image.Image.
func (Decoder) Decode(ctx context.Context, data []byte) (image.Image, error) {
	if !IsAvailable() {
		return nil, ErrUnavailable
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ref, err := vips.NewImageFromBuffer(data)
	if err != nil {
		return nil, fmt.Errorf("vips failed to load image: %w", err)
	}
	defer ref.Close()

	if err := ref.AutoRotate(); err != nil {
		return nil, fmt.Errorf("vips auto-rotate failed: %w", err)
	}

	img, err := ref.ToImage(vips.NewDefaultPNGExportParams())
	if err != nil {
		return nil, fmt.Errorf("vips failed to export bitmap: %w", err)
	}
	return img, nil
}
