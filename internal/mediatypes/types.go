package mediatypes

import (
	"path/filepath"
	"strings"
)

// Format identifies an encoded image format.
type Format string

const (
	// FormatJPEG is baseline or progressive JPEG.
	FormatJPEG Format = "jpeg"
	// FormatPNG is PNG.
	FormatPNG Format = "png"
	// FormatGIF is GIF (first frame only is ever re-encoded).
	FormatGIF Format = "gif"
	// FormatWebP is WebP, lossy or lossless.
	FormatWebP Format = "webp"
	// FormatBMP is Windows bitmap.
	FormatBMP Format = "bmp"
	// FormatTIFF is TIFF.
	FormatTIFF Format = "tiff"
	// FormatHEIF is HEIC/HEIF.
	FormatHEIF Format = "heif"
	// FormatAVIF is AVIF.
	FormatAVIF Format = "avif"
	// FormatUnknown is anything not recognized.
	FormatUnknown Format = "unknown"
)

// OctetStream is the media type used when nothing better is known.
const OctetStream = "application/octet-stream"

// ImageExtensions maps file extensions to their image format.
var ImageExtensions = map[string]Format{
	".jpg":  FormatJPEG,
	".jpeg": FormatJPEG,
	".jpe":  FormatJPEG,
	".png":  FormatPNG,
	".gif":  FormatGIF,
	".webp": FormatWebP,
	".bmp":  FormatBMP,
	".tiff": FormatTIFF,
	".tif":  FormatTIFF,
	".heic": FormatHEIF,
	".heif": FormatHEIF,
	".avif": FormatAVIF,
}

// MimeTypes maps formats to their media types.
var MimeTypes = map[Format]string{
	FormatJPEG: "image/jpeg",
	FormatPNG:  "image/png",
	FormatGIF:  "image/gif",
	FormatWebP: "image/webp",
	FormatBMP:  "image/bmp",
	FormatTIFF: "image/tiff",
	FormatHEIF: "image/heif",
	FormatAVIF: "image/avif",
}

// canonicalExtensions is the extension written when a file is re-encoded.
var canonicalExtensions = map[Format]string{
	FormatJPEG: ".jpg",
	FormatPNG:  ".png",
	FormatGIF:  ".gif",
	FormatWebP: ".webp",
	FormatBMP:  ".bmp",
	FormatTIFF: ".tiff",
	FormatHEIF: ".heic",
	FormatAVIF: ".avif",
}

// Extension returns the canonical extension for the format, including the
// leading dot. Unknown formats return an empty string.
func (f Format) Extension() string {
	return canonicalExtensions[f]
}

// MimeType returns the media type for the format, or OctetStream.
func (f Format) MimeType() string {
	if mime, ok := MimeTypes[f]; ok {
		return mime
	}
	return OctetStream
}

// FormatFromExtension returns the format for a file extension. The extension
// may be upper or lower case and must include the leading dot.
func FormatFromExtension(ext string) Format {
	if f, ok := ImageExtensions[strings.ToLower(ext)]; ok {
		return f
	}
	return FormatUnknown
}

// FormatFromName returns the format implied by a file name's extension.
func FormatFromName(name string) Format {
	return FormatFromExtension(filepath.Ext(name))
}

// FormatFromMimeType returns the format for a media type such as "image/png".
// Parameters after a semicolon are ignored.
func FormatFromMimeType(mime string) Format {
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	mime = strings.ToLower(strings.TrimSpace(mime))
	if mime == "image/jpg" {
		return FormatJPEG
	}
	for f, m := range MimeTypes {
		if m == mime {
			return f
		}
	}
	return FormatUnknown
}

// GetMimeType returns the media type for a file extension, or OctetStream.
func GetMimeType(ext string) string {
	return FormatFromExtension(ext).MimeType()
}

// IsImageFile reports whether the name carries a recognized image extension.
func IsImageFile(name string) bool {
	return FormatFromName(name) != FormatUnknown
}

// ReplaceExtension swaps the final extension of name for ext. A name without
// an extension gets ext appended. Dotfiles such as ".hidden" are treated as
// having no extension.
func ReplaceExtension(name, ext string) string {
	base := filepath.Base(name)
	old := filepath.Ext(base)
	if old == base {
		old = ""
	}
	return name[:len(name)-len(old)] + ext
}
