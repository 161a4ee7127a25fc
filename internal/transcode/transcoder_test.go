package transcode

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"imagehost/internal/media"
)

func TestTranscodeNoStages(t *testing.T) {
	tr := New(Config{
		Compressor: compressFunc(func(context.Context, []byte) ([]byte, error) {
			t.Fatal("compressor called with compression disabled")
			return nil, nil
		}),
		Decoder: bitmapDecoder(4, 4),
		Encoder: &fakeEncoder{payload: []byte("RIFF")},
		Prober:  probeResult(true),
	})

	in := jpegImage("photo.jpg", 128)
	out := tr.Transcode(context.Background(), in, Options{})

	if out.Name != in.Name || out.MimeType != in.MimeType {
		t.Errorf("got %q (%s), want %q (%s)", out.Name, out.MimeType, in.Name, in.MimeType)
	}
	if !bytes.Equal(out.Data, in.Data) {
		t.Error("data changed with every stage disabled")
	}
}

func TestTranscodeCompressionKeepsIdentity(t *testing.T) {
	tr := New(Config{
		Compressor: compressFunc(func(_ context.Context, data []byte) ([]byte, error) {
			return data[:len(data)/2], nil
		}),
	})

	in := jpegImage("photo.jpg", 128)
	out := tr.Transcode(context.Background(), in, Options{EnableCompression: true})

	if out.Name != "photo.jpg" || out.MimeType != "image/jpeg" {
		t.Errorf("got %q (%s)", out.Name, out.MimeType)
	}
	if out.Size() != 64 {
		t.Errorf("Size = %d, want 64", out.Size())
	}
}

func TestTranscodeCompressionFallback(t *testing.T) {
	tr := New(Config{
		Compressor: compressFunc(func(context.Context, []byte) ([]byte, error) {
			return nil, errors.New("quota exceeded")
		}),
	})

	in := jpegImage("photo.jpg", 128)
	out := tr.Transcode(context.Background(), in, Options{EnableCompression: true})
	if !bytes.Equal(out.Data, in.Data) {
		t.Error("expected the original bytes after a failed compression")
	}
}

func TestTranscodeConvertsToWebP(t *testing.T) {
	enc := &fakeEncoder{payload: []byte("RIFF0000WEBP")}
	tr := New(Config{
		Decoder: bitmapDecoder(5, 3),
		Encoder: enc,
		Prober:  probeResult(true),
	})

	out := tr.Transcode(context.Background(), jpegImage("holiday.jpeg", 64), Options{EnableWebP: true})

	if out.Name != "holiday.webp" {
		t.Errorf("Name = %q, want holiday.webp", out.Name)
	}
	if out.MimeType != "image/webp" {
		t.Errorf("MimeType = %q, want image/webp", out.MimeType)
	}
	if !bytes.Equal(out.Data, enc.payload) {
		t.Error("data is not the encoder output")
	}
	quality, bounds := enc.last()
	if quality != ConversionQuality {
		t.Errorf("quality = %d, want %d", quality, ConversionQuality)
	}
	if bounds != image.Rect(0, 0, 5, 3) {
		t.Errorf("surface bounds = %v, want 5x3", bounds)
	}
}

func TestConversionRenames(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"photo.jpg", "photo.webp"},
		{"archive.tar.png", "archive.tar.webp"},
		{"SCAN.PNG", "SCAN.webp"},
		{"noext", "noext.webp"},
		{".hidden", ".hidden.webp"},
		{"dir.d/pic.gif", "dir.d/pic.webp"},
	}

	tr := New(Config{
		Decoder: bitmapDecoder(1, 1),
		Encoder: &fakeEncoder{payload: []byte("RIFF")},
		Prober:  probeResult(true),
	})

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			out := tr.Transcode(context.Background(), jpegImage(tt.in, 8), Options{EnableWebP: true})
			if out.Name != tt.want {
				t.Errorf("Name = %q, want %q", out.Name, tt.want)
			}
		})
	}
}

func TestConversionFallbacks(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"unsupported target", Config{Decoder: bitmapDecoder(2, 2), Encoder: &fakeEncoder{payload: []byte("x")}, Prober: probeResult(false)}},
		{"nil prober", Config{Decoder: bitmapDecoder(2, 2), Encoder: &fakeEncoder{payload: []byte("x")}}},
		{"nil encoder", Config{Decoder: bitmapDecoder(2, 2), Prober: probeResult(true)}},
		{"encode error", Config{Decoder: bitmapDecoder(2, 2), Encoder: &fakeEncoder{err: errors.New("disk full")}, Prober: probeResult(true)}},
		{"empty encode", Config{Decoder: bitmapDecoder(2, 2), Encoder: &fakeEncoder{}, Prober: probeResult(true)}},
		{"decode error", Config{
			Decoder: decodeFunc(func(context.Context, []byte) (image.Image, error) { return nil, errors.New("corrupt") }),
			Encoder: &fakeEncoder{payload: []byte("x")},
			Prober:  probeResult(true),
		}},
		{"nil bitmap", Config{
			Decoder: decodeFunc(func(context.Context, []byte) (image.Image, error) { return nil, nil }),
			Encoder: &fakeEncoder{payload: []byte("x")},
			Prober:  probeResult(true),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Compression succeeds first; conversion must hand on its result.
			tt.cfg.Compressor = compressFunc(func(_ context.Context, data []byte) ([]byte, error) {
				return data[:10], nil
			})
			tr := New(tt.cfg)

			out := tr.Transcode(context.Background(), jpegImage("shot.jpg", 40),
				Options{EnableCompression: true, EnableWebP: true})

			if out.Name != "shot.jpg" || out.MimeType != "image/jpeg" {
				t.Errorf("got %q (%s), want shot.jpg (image/jpeg)", out.Name, out.MimeType)
			}
			if out.Size() != 10 {
				t.Errorf("Size = %d, want the compressed 10 bytes", out.Size())
			}
		})
	}
}

func TestTranscodeCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tr := New(Config{
		Compressor: compressFunc(func(_ context.Context, data []byte) ([]byte, error) { return data[:1], nil }),
		Decoder:    bitmapDecoder(1, 1),
		Encoder:    &fakeEncoder{payload: []byte("RIFF")},
		Prober:     probeResult(true),
	})

	in := jpegImage("a.jpg", 32)
	out := tr.Transcode(ctx, in, Options{EnableCompression: true, EnableWebP: true})
	if out.Name != in.Name || !bytes.Equal(out.Data, in.Data) {
		t.Error("canceled transcode changed the image")
	}
}

func TestTranscodeWithPureGoPrimitives(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2400, 1200))
	for y := 0; y < 1200; y++ {
		for x := 0; x < 2400; x++ {
			src.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: uint8(x ^ y), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: 100}); err != nil {
		t.Fatal(err)
	}

	dec := media.NewDecoder()
	enc := &fakeEncoder{payload: []byte("RIFF0000WEBPVP8L")}
	tr := New(Config{
		Compressor: media.NewCompressor(),
		Decoder:    dec,
		Encoder:    enc,
		Prober:     NewProbe(dec),
	})

	in := NewImage("big.jpg", buf.Bytes())
	if in.MimeType != "image/jpeg" {
		t.Fatalf("NewImage MimeType = %q", in.MimeType)
	}

	out := tr.Transcode(context.Background(), in, Options{EnableCompression: true, EnableWebP: true})
	if out.Name != "big.webp" || out.MimeType != "image/webp" {
		t.Fatalf("got %q (%s)", out.Name, out.MimeType)
	}
	// The compressed 1920x960 JPEG is what reaches the encoder.
	if _, bounds := enc.last(); bounds.Dx() != 1920 || bounds.Dy() != 960 {
		t.Errorf("encoder saw %v, want 1920x960", bounds)
	}
}
