package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"imagehost/internal/filesystem"
	"imagehost/internal/mediatypes"
	"imagehost/internal/startup"
	"imagehost/internal/transcode"

	"github.com/dustin/go-humanize"
)

// ErrFileTooLarge is returned for inputs above startup.MaxFileSize.
var ErrFileTooLarge = errors.New("file too large")

// ErrNotImage is returned for inputs that are not a recognized image.
var ErrNotImage = errors.New("not an image")

// readInputs loads every path as a transcode.Image, named by its base name.
// It fails on the first unreadable, oversized or non-image file so that
// nothing is processed from a partially valid selection.
func readInputs(paths []string) ([]transcode.Image, error) {
	images := make([]transcode.Image, 0, len(paths))
	for _, path := range paths {
		info, err := filesystem.StatWithRetry(path, filesystem.DefaultRetryConfig())
		if err != nil {
			return nil, fmt.Errorf("inspect %s: %w", path, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%s is a directory", path)
		}
		if info.Size() > startup.MaxFileSize {
			return nil, fmt.Errorf("%w: %s is %s, limit is %s", ErrFileTooLarge, path,
				humanize.IBytes(uint64(info.Size())), humanize.IBytes(startup.MaxFileSize))
		}

		data, err := filesystem.ReadFileWithRetry(path, filesystem.DefaultRetryConfig())
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		img := transcode.NewImage(filepath.Base(path), data)
		if img.Format() == mediatypes.FormatUnknown {
			return nil, fmt.Errorf("%w: %s", ErrNotImage, path)
		}
		images = append(images, img)
	}
	return images, nil
}
