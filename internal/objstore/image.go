package objstore

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// PrepareImage decodes an uploaded photo, downscales it so its long edge
// is at most maxEdge pixels and re-encodes as JPEG. Images already small
// enough are still re-encoded, which normalizes formats from different
// phones.
func PrepareImage(data []byte, maxEdge int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("image: decode: %w", err)
	}

	bounds := img.Bounds()
	if w, h := bounds.Dx(), bounds.Dy(); w > maxEdge || h > maxEdge {
		if w >= h {
			img = imaging.Resize(img, maxEdge, 0, imaging.Lanczos)
		} else {
			img = imaging.Resize(img, 0, maxEdge, imaging.Lanczos)
		}
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("image: encode: %w", err)
	}
	return buf.Bytes(), nil
}
