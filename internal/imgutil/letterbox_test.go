package imgutil

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidPNG(t *testing.T, w, h int, c color.RGBA) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}

	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func decodeJPEG(t *testing.T, data []byte) image.Image {
	t.Helper()

	img, format, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, "jpeg", format)
	return img
}

// colorClose tolerates JPEG re-encoding loss.
func colorClose(t *testing.T, img image.Image, x, y int, want color.RGBA, msg string) {
	t.Helper()

	r, g, b, _ := img.At(x, y).RGBA()
	wr, wg, wb := uint32(want.R)<<8, uint32(want.G)<<8, uint32(want.B)<<8
	const tolerance = 12 << 8

	close := func(a, b uint32) bool {
		if a > b {
			return a-b <= tolerance
		}
		return b-a <= tolerance
	}
	assert.True(t, close(r, wr) && close(g, wg) && close(b, wb),
		"%s: got rgb(%d,%d,%d) want ~rgb(%d,%d,%d)", msg, r>>8, g>>8, b>>8, want.R, want.G, want.B)
}

var (
	red   = color.RGBA{R: 200, A: 255}
	black = color.RGBA{A: 255}
)

func TestNormalizeCanvasSize(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"wider than 16:9", 3200, 720},
		{"narrower than 16:9", 720, 1280},
		{"exactly 16:9", 1280, 720},
		{"small square upscaled", 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Normalize(solidPNG(t, tt.w, tt.h, red))
			require.NoError(t, err)

			img := decodeJPEG(t, out)
			assert.Equal(t, CanvasWidth, img.Bounds().Dx())
			assert.Equal(t, CanvasHeight, img.Bounds().Dy())
		})
	}
}

func TestNormalizeLetterboxAxis(t *testing.T) {
	t.Run("wide source gets top and bottom bars", func(t *testing.T) {
		// 3200x720 scales to 1280x288, centered at y=216.
		out, err := Normalize(solidPNG(t, 3200, 720, red))
		require.NoError(t, err)

		img := decodeJPEG(t, out)
		colorClose(t, img, 640, 20, black, "top margin")
		colorClose(t, img, 640, 700, black, "bottom margin")
		colorClose(t, img, 640, 360, red, "center content")
	})

	t.Run("tall source gets side bars", func(t *testing.T) {
		// 720x1280 scales to 405x720, centered at x=437.
		out, err := Normalize(solidPNG(t, 720, 1280, red))
		require.NoError(t, err)

		img := decodeJPEG(t, out)
		colorClose(t, img, 20, 360, black, "left margin")
		colorClose(t, img, 1260, 360, black, "right margin")
		colorClose(t, img, 640, 360, red, "center content")
	})
}

// Re-normalizing a canonical image must not move any content; only
// re-encoding loss is allowed.
func TestNormalizeIdempotent(t *testing.T) {
	first, err := Normalize(solidPNG(t, 3200, 720, red))
	require.NoError(t, err)

	second, err := Normalize(first)
	require.NoError(t, err)

	a := decodeJPEG(t, first)
	b := decodeJPEG(t, second)
	require.Equal(t, a.Bounds(), b.Bounds())

	// Content and margins stay on the same pixels.
	colorClose(t, b, 640, 360, red, "content survives re-normalization")
	colorClose(t, b, 640, 20, black, "margin survives re-normalization")
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	_, err := Normalize([]byte("definitely not an image"))
	require.Error(t, err)
}

func TestFitInside(t *testing.T) {
	tests := []struct {
		name       string
		srcW, srcH int
		w, h, x, y int
	}{
		{"exact canvas", 1280, 720, 1280, 720, 0, 0},
		{"double wide", 2560, 720, 1280, 360, 0, 180},
		{"portrait", 720, 1280, 405, 720, 437, 0},
		{"tiny square", 10, 10, 720, 720, 280, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, x, y := fitInside(tt.srcW, tt.srcH)
			assert.Equal(t, tt.w, w)
			assert.Equal(t, tt.h, h)
			assert.Equal(t, tt.x, x)
			assert.Equal(t, tt.y, y)
		})
	}
}

func TestExportJPEGKeepsCanvas(t *testing.T) {
	out, err := ExportJPEG(solidPNG(t, 1280, 720, red))
	require.NoError(t, err)

	img := decodeJPEG(t, out)
	assert.Equal(t, CanvasWidth, img.Bounds().Dx())
	assert.Equal(t, CanvasHeight, img.Bounds().Dy())
	colorClose(t, img, 640, 360, red, "flattened content")
}
