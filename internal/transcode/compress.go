package transcode

import (
	"context"
	"fmt"
)

// CompressionStage reduces size and dimensions with c, keeping the
// artifact's name and media type. A nil c makes every call fall back.
func CompressionStage(c Compressor) Stage {
	return guard(StageCompress, func(ctx context.Context, in Image) (Image, error) {
		if c == nil {
			return in, ErrCompressorUnavailable
		}

		data, err := c.Compress(ctx, in.Data)
		if err != nil {
			return in, fmt.Errorf("compress %s: %w", in.Name, err)
		}

		return Image{
			Name:     in.Name,
			MimeType: in.MimeType,
			Data:     data,
		}, nil
	})
}
