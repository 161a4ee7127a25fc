package cli

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"imagehost/internal/startup"
	"imagehost/internal/transcode"

	"github.com/gofrs/flock"
)

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 90, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// isolate points configuration at a temporary directory.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("IMAGEHOST_PREFERENCES", filepath.Join(dir, "prefs.toml"))
	t.Setenv("IMAGEHOST_OUTPUT_DIR", filepath.Join(dir, "out"))
	t.Setenv("IMAGEHOST_METRICS_ADDR", "")
	t.Setenv("IMAGEHOST_UNIQUE_NAMES", "")
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestProcessWritesOutputs(t *testing.T) {
	dir := isolate(t)
	a := writePNG(t, dir, "a.png", 16, 16)
	b := writePNG(t, dir, "b.png", 8, 8)
	out := filepath.Join(dir, "result")

	stdout, err := run(t, "process", a, b, "--webp=false", "--out", out)
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}

	for _, name := range []string{"a.png", "b.png"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("missing output %s: %v", name, err)
		}
		if !strings.Contains(stdout, name) {
			t.Errorf("table does not mention %s", name)
		}
	}
	if !strings.Contains(stdout, "2 files") {
		t.Errorf("table footer missing file count:\n%s", stdout)
	}
}

func TestProcessUniqueNames(t *testing.T) {
	dir := isolate(t)
	a := writePNG(t, dir, "Photo.PNG", 4, 4)
	out := filepath.Join(dir, "result")

	if _, err := run(t, "process", a, "--webp=false", "--unique-names", "--out", out); err != nil {
		t.Fatalf("process failed: %v", err)
	}

	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatal(err)
	}
	pattern := regexp.MustCompile(`^\d{13}-[0-9a-f]{6}\.png$`)
	found := false
	for _, e := range entries {
		if pattern.MatchString(e.Name()) {
			found = true
		}
	}
	if !found {
		t.Errorf("no output matching %s in %v", pattern, entries)
	}
}

func TestProcessSavePrefs(t *testing.T) {
	dir := isolate(t)
	a := writePNG(t, dir, "a.png", 4, 4)

	if _, err := run(t, "process", a, "--webp=false", "--compress=false", "--save-prefs"); err != nil {
		t.Fatalf("process failed: %v", err)
	}

	prefs, exists, err := startup.LoadPreferences(filepath.Join(dir, "prefs.toml"))
	if err != nil || !exists {
		t.Fatalf("LoadPreferences() = %v, exists=%v", err, exists)
	}
	want := transcode.Options{EnableCompression: false, EnableWebP: false}
	if prefs.Processing != want {
		t.Errorf("saved %+v, want %+v", prefs.Processing, want)
	}
}

func TestProcessRejectsInvalidInputs(t *testing.T) {
	dir := isolate(t)

	text := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(text, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	big := filepath.Join(dir, "huge.jpg")
	f, err := os.Create(big)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Truncate(startup.MaxFileSize + 1); err != nil {
		t.Fatal(err)
	}
	f.Close()

	tests := []struct {
		name string
		path string
		want error
	}{
		{"not an image", text, ErrNotImage},
		{"too large", big, ErrFileTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, "process", tt.path, "--webp=false")
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := run(t, "process", filepath.Join(dir, "missing.png"), "--webp=false"); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestProcessOutputLocked(t *testing.T) {
	dir := isolate(t)
	a := writePNG(t, dir, "a.png", 4, 4)
	out := filepath.Join(dir, "locked")
	if err := os.MkdirAll(out, 0o755); err != nil {
		t.Fatal(err)
	}

	lock := flock.New(filepath.Join(out, lockFileName))
	if ok, err := lock.TryLock(); err != nil || !ok {
		t.Fatalf("TryLock() = %v, %v", ok, err)
	}
	defer lock.Unlock()

	_, err := run(t, "process", a, "--webp=false", "--out", out)
	if err == nil || !strings.Contains(err.Error(), "another imagehost process") {
		t.Errorf("error = %v, want lock conflict", err)
	}
}

func TestProcessRequiresFiles(t *testing.T) {
	isolate(t)
	if _, err := run(t, "process"); err == nil {
		t.Error("expected an error without files")
	}
}

func TestInvalidLogLevel(t *testing.T) {
	isolate(t)
	if _, err := run(t, "version", "--log-level", "chatty"); err == nil {
		t.Error("expected an error for an unknown log level")
	}
}

func TestVersionCommand(t *testing.T) {
	stdout, err := run(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(stdout, startup.Version) {
		t.Errorf("output missing version %q", startup.Version)
	}

	stdout, err = run(t, "version", "--json")
	if err != nil {
		t.Fatalf("version --json failed: %v", err)
	}
	if !strings.Contains(stdout, `"goVersion"`) {
		t.Errorf("JSON output missing goVersion: %s", stdout)
	}
}

func TestProbeWithoutVips(t *testing.T) {
	isolate(t)
	stdout, err := run(t, "probe", "--no-vips")
	if err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	// The pure-Go decoder reads the sample, but there is no encoder.
	if !strings.Contains(stdout, "unavailable") {
		t.Errorf("expected conversion to be unavailable:\n%s", stdout)
	}
}

func TestNameAllocator(t *testing.T) {
	a := newNameAllocator(false)
	got := []string{a.next("a.webp"), a.next("a.webp"), a.next("dir/a.webp"), a.next("b.webp")}
	want := []string{"a.webp", "a-1.webp", "a-2.webp", "b.webp"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("next #%d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestUniqueName(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	name := uniqueName("Holiday.JPG", now)
	if !regexp.MustCompile(`^1700000000123-[0-9a-f]{6}\.jpg$`).MatchString(name) {
		t.Errorf("uniqueName() = %q", name)
	}
}

func TestSavedPercent(t *testing.T) {
	tests := []struct {
		before, after int64
		want          string
	}{
		{100, 25, "75.0%"},
		{100, 100, "0.0%"},
		{0, 0, "-"},
	}
	for _, tt := range tests {
		if got := savedPercent(tt.before, tt.after); got != tt.want {
			t.Errorf("savedPercent(%d, %d) = %q, want %q", tt.before, tt.after, got, tt.want)
		}
	}
}

type failingDecoder struct{ err error }

func (f failingDecoder) Decode(context.Context, []byte) (image.Image, error) { return nil, f.err }

func TestDecoderChain(t *testing.T) {
	first := errors.New("first")
	ok := decoderChain{failingDecoder{first}, decoderFunc(func() image.Image { return image.NewNRGBA(image.Rect(0, 0, 1, 1)) })}
	img, err := ok.Decode(context.Background(), nil)
	if err != nil || img == nil {
		t.Fatalf("Decode() = %v, %v", img, err)
	}

	second := errors.New("second")
	_, err = decoderChain{failingDecoder{first}, failingDecoder{second}}.Decode(context.Background(), nil)
	if !errors.Is(err, first) || !errors.Is(err, second) {
		t.Errorf("error = %v, want both causes", err)
	}

	if _, err := (decoderChain{}).Decode(context.Background(), nil); err == nil {
		t.Error("empty chain should fail")
	}
}

type decoderFunc func() image.Image

func (f decoderFunc) Decode(context.Context, []byte) (image.Image, error) { return f(), nil }
