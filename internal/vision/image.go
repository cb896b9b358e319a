// Package vision implements the Visual Verifier (C6): the vision-model
// checkpoint handler backing verify_screen and related actions.
package vision

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"

	"github.com/vireodyne/protoctl/internal/registry"
)

// maxEdgePx bounds the longer edge of an image sent to a vision model.
// Anthropic and OpenAI both charge per-tile on oversized images and cap
// accepted dimensions; downscaling keeps both cost and latency bounded
// without losing the detail a UI-verification prompt needs.
const maxEdgePx = 1568

// normalizeForModel decodes a captured bitmap, downscales it if it
// exceeds maxEdgePx on its longer edge, and re-encodes it as JPEG —
// the format both vision APIs accept most cheaply.
func normalizeForModel(bmp registry.Bitmap) ([]byte, string, error) {
	src, _, err := image.Decode(bytes.NewReader(bmp.Data))
	if err != nil {
		return nil, "", fmt.Errorf("vision: decode capture: %w", err)
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	longEdge := w
	if h > longEdge {
		longEdge = h
	}

	out := src
	if longEdge > maxEdgePx {
		scale := float64(maxEdgePx) / float64(longEdge)
		dstW := int(float64(w) * scale)
		dstH := int(float64(h) * scale)
		dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		out = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: 85}); err != nil {
		return nil, "", fmt.Errorf("vision: encode jpeg: %w", err)
	}
	return buf.Bytes(), "image/jpeg", nil
}
