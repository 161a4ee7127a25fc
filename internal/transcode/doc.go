// Package transcode prepares user-selected images for upload.
//
// A Transcoder runs two optional stages on one image: lossy compression
// in the source format, then conversion to WebP. Each stage is guarded:
// errors, panics, cancellation and empty output make the stage hand on
// the artifact it received, so transcoding never fails as a whole.
//
// Conversion runs only when a Probe confirms the target format can be
// handled in this environment. Pipeline.ProcessFiles schedules many
// images in groups of BatchSize, running each group concurrently and
// reporting progress after every group.
package transcode
