// Package mediatypes provides image format identification shared across the
// image-host packages.
//
// It is a dependency-free foundation that can be imported anywhere without
// creating import cycles.
//
// # Formats
//
// A Format is resolved from a file extension, a media type, or the leading
// bytes of the encoded data:
//
//	f := mediatypes.FormatFromName("holiday.JPG")      // FormatJPEG
//	f = mediatypes.FormatFromMimeType("image/webp")    // FormatWebP
//	f = mediatypes.Sniff(data)                         // from magic bytes
//	f = mediatypes.Detect(name, data)                  // sniff, then extension
//
// # Renaming
//
// ReplaceExtension rewrites a file name when its content changes format:
//
//	mediatypes.ReplaceExtension("a.b.png", mediatypes.FormatWebP.Extension()) // "a.b.webp"
package mediatypes
