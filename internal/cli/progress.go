package cli

import (
	"fmt"
	"io"
	"os"

	"imagehost/internal/logging"
	"imagehost/internal/transcode"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// newProgress returns a ProgressFunc drawing a bar on terminals and logging
// otherwise, plus a function to call once processing is done.
func newProgress(w io.Writer, total int) (transcode.ProgressFunc, func()) {
	if !isTerminal(w) {
		return func(percent int) {
			logging.Info("Progress: %d%%", percent)
		}, func() {}
	}

	bar := progressbar.NewOptions(100,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(progressDescription(total)),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionClearOnFinish(),
	)
	update := func(percent int) {
		if err := bar.Set(percent); err != nil {
			logging.Debug("progress bar update failed: %v", err)
		}
	}
	return update, func() { _ = bar.Finish() }
}

func progressDescription(total int) string {
	if total == 1 {
		return "Processing 1 image"
	}
	return fmt.Sprintf("Processing %d images", total)
}
