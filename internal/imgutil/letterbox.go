// Package imgutil fits arbitrary raster images onto the canonical black
// 16:9 thumbnail canvas. Source content is never cropped; the remaining
// space is letterboxed.
package imgutil

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"math"
)

const (
	// CanvasWidth and CanvasHeight define the canonical thumbnail canvas.
	CanvasWidth  = 1280
	CanvasHeight = 720

	// MimeJPEG is the encoding of every normalized upload.
	MimeJPEG = "image/jpeg"

	uploadQuality = 90
	exportQuality = 100
)

// Normalize decodes an uploaded raster image, fits it onto the 1280x720
// black canvas, and re-encodes it as JPEG. The result is the canonical
// reference image for every downstream generation request. Re-normalizing
// an already canonical image changes nothing but re-encoding loss.
func Normalize(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode upload: %w", err)
	}
	return encodeJPEG(Letterbox(img), uploadQuality)
}

// ExportJPEG flattens a generated result onto the black canvas at maximum
// quality for download. The source is already canonical 16:9, so this is a
// flatten plus re-encode rather than a re-letterbox.
func ExportJPEG(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return encodeJPEG(Letterbox(img), exportQuality)
}

// Letterbox scales src by the largest factor that keeps both dimensions
// inside the canvas, centers it, and fills the margins with black. A source
// wider than 16:9 gets top/bottom bars; a narrower one gets side bars.
func Letterbox(src image.Image) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, CanvasWidth, CanvasHeight))
	draw.Draw(dst, dst.Bounds(), image.Black, image.Point{}, draw.Src)

	bounds := src.Bounds()
	w, h, x, y := fitInside(bounds.Dx(), bounds.Dy())

	scaleX := float64(bounds.Dx()) / float64(w)
	scaleY := float64(bounds.Dy()) / float64(h)
	for dy := 0; dy < h; dy++ {
		srcY := bounds.Min.Y + int(float64(dy)*scaleY)
		for dx := 0; dx < w; dx++ {
			srcX := bounds.Min.X + int(float64(dx)*scaleX)
			dst.Set(x+dx, y+dy, src.At(srcX, srcY))
		}
	}

	return dst
}

// fitInside computes the scaled size and centered offset for a source of
// the given dimensions.
func fitInside(srcW, srcH int) (w, h, x, y int) {
	scale := math.Min(
		float64(CanvasWidth)/float64(srcW),
		float64(CanvasHeight)/float64(srcH),
	)

	w = int(math.Round(float64(srcW) * scale))
	h = int(math.Round(float64(srcH) * scale))
	if w > CanvasWidth {
		w = CanvasWidth
	}
	if h > CanvasHeight {
		h = CanvasHeight
	}

	x = (CanvasWidth - w) / 2
	y = (CanvasHeight - h) / 2
	return w, h, x, y
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
