package storage

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

// thumbnail bounds: previews fit inside a 200x200 box, preserving
// aspect ratio. Images already inside the box are copied as-is sized.
const (
	thumbMaxWidth  = 200
	thumbMaxHeight = 200
)

// createThumbnail decodes the stored image and writes a bounded preview
// next to it as <name>_thumb.<ext>. Callers treat any error here as
// non-fatal: previews are a convenience, not part of the upload
// contract.
func (g *Gateway) createThumbnail(absPath, ext string) error {
	src, err := os.Open(absPath)
	if err != nil {
		return fmt.Errorf("opening source image: %w", err)
	}
	defer src.Close()

	img, _, err := image.Decode(src)
	if err != nil {
		return fmt.Errorf("decoding image: %w", err)
	}

	bounds := img.Bounds()
	w, h := fitWithin(bounds.Dx(), bounds.Dy(), thumbMaxWidth, thumbMaxHeight)

	thumb := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(thumb, thumb.Bounds(), img, bounds, draw.Over, nil)

	out, err := os.Create(thumbPath(absPath))
	if err != nil {
		return fmt.Errorf("creating thumbnail file: %w", err)
	}
	defer out.Close()

	switch ext {
	case "png":
		err = png.Encode(out, thumb)
	case "gif":
		err = gif.Encode(out, thumb, nil)
	default:
		err = jpeg.Encode(out, thumb, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		return fmt.Errorf("encoding thumbnail: %w", err)
	}
	return nil
}

// fitWithin scales (w, h) down to fit inside (maxW, maxH), preserving
// aspect ratio and never scaling up. Degenerate dimensions come back
// as 1 so image.NewRGBA always gets a valid rectangle.
func fitWithin(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return 1, 1
	}
	if w <= maxW && h <= maxH {
		return w, h
	}
	scaleW := float64(maxW) / float64(w)
	scaleH := float64(maxH) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	w = int(float64(w) * scale)
	h = int(float64(h) * scale)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// thumbPath derives the preview filename: report.pdf → report_thumb.pdf.
func thumbPath(absPath string) string {
	ext := filepath.Ext(absPath)
	return strings.TrimSuffix(absPath, ext) + "_thumb" + ext
}
