// Package imageutil compresses listing photos before they hit the object
// store. The ceiling matches the product requirement: at most 1 MiB and
// 1920px on the longest edge.
package imageutil

import (
	"bytes"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

const (
	MaxBytes     = 1 << 20
	MaxDimension = 1920
)

// Compress re-encodes an image so it fits under MaxBytes and MaxDimension.
// Inputs already within both limits pass through byte-identical, keeping
// their original format.
func Compress(data []byte) ([]byte, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "decode image config")
	}
	if len(data) <= MaxBytes && cfg.Width <= MaxDimension && cfg.Height <= MaxDimension {
		return data, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "decode image")
	}
	if cfg.Width > MaxDimension || cfg.Height > MaxDimension {
		img = resize.Thumbnail(MaxDimension, MaxDimension, img, resize.Lanczos3)
	}

	for quality := 85; quality >= 25; quality -= 10 {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, errors.Wrap(err, "encode jpeg")
		}
		if buf.Len() <= MaxBytes {
			return buf.Bytes(), nil
		}
	}
	return nil, errors.New("image does not fit size ceiling at minimum quality")
}
