package mediatypes

// Sniff identifies an image format from its leading bytes. It only needs the
// first 32 bytes of the file.
func Sniff(header []byte) Format {
	if len(header) > 32 {
		header = header[:32]
	}

	switch {
	case len(header) >= 3 && header[0] == 0xFF && header[1] == 0xD8 && header[2] == 0xFF:
		return FormatJPEG

	case len(header) >= 8 && header[0] == 0x89 && header[1] == 0x50 && header[2] == 0x4E && header[3] == 0x47 &&
		header[4] == 0x0D && header[5] == 0x0A && header[6] == 0x1A && header[7] == 0x0A:
		return FormatPNG

	case len(header) >= 4 && header[0] == 0x47 && header[1] == 0x49 && header[2] == 0x46 && header[3] == 0x38:
		return FormatGIF

	case len(header) >= 12 && header[0] == 0x52 && header[1] == 0x49 && header[2] == 0x46 && header[3] == 0x46 &&
		header[8] == 0x57 && header[9] == 0x45 && header[10] == 0x42 && header[11] == 0x50:
		return FormatWebP

	case len(header) >= 2 && header[0] == 0x42 && header[1] == 0x4D:
		return FormatBMP

	case len(header) >= 4 && ((header[0] == 0x49 && header[1] == 0x49 && header[2] == 0x2A && header[3] == 0x00) ||
		(header[0] == 0x4D && header[1] == 0x4D && header[2] == 0x00 && header[3] == 0x2A)):
		return FormatTIFF

	case len(header) >= 12 && header[4] == 0x66 && header[5] == 0x74 && header[6] == 0x79 && header[7] == 0x70:
		switch string(header[8:12]) {
		case "heic", "heix", "hevc", "hevx", "mif1", "msf1":
			return FormatHEIF
		case "avif", "avis":
			return FormatAVIF
		}
	}

	return FormatUnknown
}

// Detect returns the format of data, preferring the sniffed content and
// falling back to the file name's extension.
func Detect(name string, data []byte) Format {
	if f := Sniff(data); f != FormatUnknown {
		return f
	}
	return FormatFromName(name)
}
