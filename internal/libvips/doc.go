// Package libvips wraps govips for the primitives that have no pure-Go
// implementation: WebP encoding and HEIF/AVIF decoding.
//
// Startup must be called once before use; every primitive returns
// ErrUnavailable otherwise, which the pipeline treats as "capability
// missing" and falls back.
package libvips
