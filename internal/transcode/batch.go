package transcode

import (
	"context"
	"math"
	"sync"
	"time"

	"imagehost/internal/logging"
	"imagehost/internal/metrics"

	"github.com/dustin/go-humanize"
)

// BatchSize is the number of items transcoded concurrently.
const BatchSize = 3

// ItemTranscoder transforms a single image. *Transcoder implements it.
type ItemTranscoder interface {
	Transcode(ctx context.Context, img Image, opts Options) Image
}

// Pipeline schedules items through an ItemTranscoder in fixed-size groups.
type Pipeline struct {
	transcoder ItemTranscoder
	groupSize  int
}

// NewPipeline returns a Pipeline with groups of BatchSize.
func NewPipeline(t ItemTranscoder) *Pipeline {
	return &Pipeline{transcoder: t, groupSize: BatchSize}
}

// ProcessFiles transcodes images and returns the results in input order.
// Items within a group run concurrently; a group starts only after the
// previous one has finished. onProgress, if set, is called once per group
// with the rounded percentage of items done.
func (p *Pipeline) ProcessFiles(ctx context.Context, images []Image, opts Options, onProgress ProgressFunc) []Image {
	total := len(images)
	results := make([]Image, total)
	if total == 0 {
		return results
	}

	size := p.groupSize
	if size <= 0 {
		size = BatchSize
	}

	start := time.Now()
	var bytesIn, bytesOut int64

	for lo := 0; lo < total; lo += size {
		hi := min(lo+size, total)
		groupStart := time.Now()

		var wg sync.WaitGroup
		for i := lo; i < hi; i++ {
			wg.Add(1)
			metrics.BatchItemsInFlight.Inc()
			go func(idx int) {
				defer wg.Done()
				defer metrics.BatchItemsInFlight.Dec()
				results[idx] = p.transcodeOne(ctx, images[idx], opts)
			}(i)
		}
		wg.Wait()

		for i := lo; i < hi; i++ {
			bytesIn += images[i].Size()
			bytesOut += results[i].Size()
		}

		metrics.BatchGroupsTotal.Inc()
		metrics.BatchGroupDuration.Observe(time.Since(groupStart).Seconds())

		if onProgress != nil {
			onProgress(percent(hi, total))
		}
	}

	metrics.BatchItemsTotal.Add(float64(total))
	metrics.BatchBytesTotal.WithLabelValues("in").Add(float64(bytesIn))
	metrics.BatchBytesTotal.WithLabelValues("out").Add(float64(bytesOut))

	logging.Info("Processed %d images in %v: %s -> %s",
		total, time.Since(start).Round(time.Millisecond),
		humanize.IBytes(uint64(bytesIn)), humanize.IBytes(uint64(bytesOut)))

	return results
}

// transcodeOne isolates a single item so that a misbehaving transcoder
// cannot take down its group.
func (p *Pipeline) transcodeOne(ctx context.Context, img Image, opts Options) (out Image) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("Transcoder panicked on %s: %v", img.Name, r)
			out = img
		}
	}()
	return p.transcoder.Transcode(ctx, img, opts)
}

func percent(done, total int) int {
	return int(math.Round(100 * float64(done) / float64(total)))
}
