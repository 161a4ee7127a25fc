package cli

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"imagehost/internal/filesystem"
	"imagehost/internal/mediatypes"
	"imagehost/internal/transcode"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// outcome pairs an input with the file written for it.
type outcome struct {
	input  transcode.Image
	output transcode.Image
	path   string
}

// uniqueName mimics the upload naming scheme: <unix-ms>-<6 hex>.<ext>.
func uniqueName(name string, now time.Time) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("%d-%s%s", now.UnixMilli(), id, strings.ToLower(filepath.Ext(name)))
}

// nameAllocator hands out output names that do not collide within a run.
type nameAllocator struct {
	unique bool
	used   map[string]struct{}
}

func newNameAllocator(unique bool) *nameAllocator {
	return &nameAllocator{unique: unique, used: make(map[string]struct{})}
}

func (a *nameAllocator) next(name string) string {
	base := filepath.Base(name)
	if a.unique {
		base = uniqueName(base, time.Now())
	}

	candidate := base
	for n := 1; ; n++ {
		if _, taken := a.used[candidate]; !taken {
			break
		}
		candidate = mediatypes.ReplaceExtension(base, "") + "-" + strconv.Itoa(n) + filepath.Ext(base)
	}
	a.used[candidate] = struct{}{}
	return candidate
}

// writeOutputs stores results in dir, in input order.
func writeOutputs(dir string, inputs, results []transcode.Image, unique bool) ([]outcome, error) {
	names := newNameAllocator(unique)
	outcomes := make([]outcome, 0, len(results))

	for i, result := range results {
		path := filepath.Join(dir, names.next(result.Name))
		if err := filesystem.WriteFileWithRetry(path, result.Data, 0o644, filesystem.DefaultRetryConfig()); err != nil {
			return outcomes, fmt.Errorf("write %s: %w", path, err)
		}
		outcomes = append(outcomes, outcome{input: inputs[i], output: result, path: path})
	}
	return outcomes, nil
}

// renderResults formats outcomes as a table with a totals footer.
func renderResults(outcomes []outcome) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Footer = text.FormatDefault
	tw.AppendHeader(table.Row{"Input", "Output", "Type", "Before", "After", "Saved"})

	var before, after int64
	for _, o := range outcomes {
		before += o.input.Size()
		after += o.output.Size()
		tw.AppendRow(table.Row{
			o.input.Name,
			filepath.Base(o.path),
			o.output.MimeType,
			humanize.IBytes(uint64(o.input.Size())),
			humanize.IBytes(uint64(o.output.Size())),
			savedPercent(o.input.Size(), o.output.Size()),
		})
	}

	tw.AppendFooter(table.Row{
		fmt.Sprintf("%d files", len(outcomes)), "", "",
		humanize.IBytes(uint64(before)),
		humanize.IBytes(uint64(after)),
		savedPercent(before, after),
	})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	return tw.Render()
}

func savedPercent(before, after int64) string {
	if before <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", 100*float64(before-after)/float64(before))
}
