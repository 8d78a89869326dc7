package media

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder

	"atelier/internal/models"
)

const (
	avatarMaxSize     = 512
	avatarWebPQuality = 80
)

// reencodeAvatar decodes any supported image, scales it down to fit
// avatarMaxSize and encodes it as WebP. Stripping the original container
// also drops metadata and any embedded payloads.
func reencodeAvatar(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, models.NewValidationError("unsupported image format")
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > avatarMaxSize || h > avatarMaxSize {
		scale := float64(avatarMaxSize) / float64(max(w, h))
		w = int(float64(w) * scale)
		h = int(float64(h) * scale)
		if w < 1 {
			w = 1
		}
		if h < 1 {
			h = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
		src = dst
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, src, &webp.Options{Quality: avatarWebPQuality}); err != nil {
		return nil, models.NewInternalError(err)
	}
	return buf.Bytes(), nil
}
