package transcode

import (
	"context"
	"errors"
	"fmt"
	"image"

	"imagehost/internal/mediatypes"

	"golang.org/x/image/draw"
)

// ConversionQuality is the fixed quality factor used for format conversion.
const ConversionQuality = 80

// Converter holds the collaborators of the format-conversion stage.
type Converter struct {
	Decoder Decoder
	Encoder Encoder
	Prober  Prober
	Quality int
}

// Stage returns the guarded conversion stage.
func (c Converter) Stage() Stage {
	return guard(StageConvert, c.convert)
}

func (c Converter) convert(ctx context.Context, in Image) (Image, error) {
	if c.Decoder == nil || c.Encoder == nil {
		return in, ErrEncoderUnavailable
	}
	if c.Prober == nil || !c.Prober.SupportsTargetFormat(ctx) {
		return in, ErrTargetUnsupported
	}

	bitmap, err := c.Decoder.Decode(ctx, in.Data)
	if err != nil {
		return in, fmt.Errorf("decode %s: %w", in.Name, err)
	}

	surface, err := rasterize(bitmap)
	if err != nil {
		return in, fmt.Errorf("rasterize %s: %w", in.Name, err)
	}

	quality := c.Quality
	if quality <= 0 {
		quality = ConversionQuality
	}

	data, err := c.Encoder.Encode(ctx, surface, quality)
	if err != nil {
		return in, fmt.Errorf("encode %s: %w", in.Name, err)
	}

	target := c.Encoder.Format()
	return Image{
		Name:     mediatypes.ReplaceExtension(in.Name, target.Extension()),
		MimeType: target.MimeType(),
		Data:     data,
	}, nil
}

// rasterize draws bitmap onto a fresh off-screen surface of the same size.
func rasterize(bitmap image.Image) (*image.NRGBA, error) {
	if bitmap == nil {
		return nil, errors.New("decoder returned no bitmap")
	}

	bounds := bitmap.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("bitmap has empty bounds %v", bounds)
	}

	surface := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(surface, surface.Bounds(), bitmap, bounds.Min, draw.Src)
	return surface, nil
}
