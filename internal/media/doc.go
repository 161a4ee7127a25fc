// Package media provides the pure-Go image primitives used by the
// transcoding pipeline.
//
//   - Decoder turns encoded bytes into a bitmap (JPEG, PNG, GIF, BMP, TIFF
//     and WebP), applying EXIF orientation and refusing images above a
//     pixel limit.
//   - Compressor reduces an image to a byte budget and maximum dimension
//     while keeping its format, lowering JPEG quality iteratively.
//
// Neither type keeps state between calls; both are safe for concurrent use.
package media
