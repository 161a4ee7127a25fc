package transcode

import (
	"context"
	"image"
	"image/color"
	"sync"

	"imagehost/internal/mediatypes"
)

type compressFunc func(ctx context.Context, data []byte) ([]byte, error)

func (f compressFunc) Compress(ctx context.Context, data []byte) ([]byte, error) {
	return f(ctx, data)
}

type decodeFunc func(ctx context.Context, data []byte) (image.Image, error)

func (f decodeFunc) Decode(ctx context.Context, data []byte) (image.Image, error) {
	return f(ctx, data)
}

type probeResult bool

func (p probeResult) SupportsTargetFormat(context.Context) bool {
	return bool(p)
}

// fakeEncoder returns a fixed payload and records the last call. It is
// shared by concurrent items in batch tests.
type fakeEncoder struct {
	payload []byte
	err     error

	mu      sync.Mutex
	calls   int
	quality int
	bounds  image.Rectangle
}

func (e *fakeEncoder) Encode(_ context.Context, img image.Image, quality int) ([]byte, error) {
	e.mu.Lock()
	e.calls++
	e.quality = quality
	e.bounds = img.Bounds()
	e.mu.Unlock()

	if e.err != nil {
		return nil, e.err
	}
	return e.payload, nil
}

// last returns the quality and surface bounds of the most recent call.
func (e *fakeEncoder) last() (int, image.Rectangle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.quality, e.bounds
}

func (e *fakeEncoder) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

func (e *fakeEncoder) Format() mediatypes.Format {
	return mediatypes.FormatWebP
}

func solidImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	return img
}

func bitmapDecoder(w, h int) decodeFunc {
	return func(context.Context, []byte) (image.Image, error) {
		return solidImage(w, h), nil
	}
}

func jpegImage(name string, size int) Image {
	data := make([]byte, size)
	copy(data, []byte{0xFF, 0xD8, 0xFF, 0xE0})
	return Image{Name: name, MimeType: "image/jpeg", Data: data}
}
