package render

import (
	"image"
	"image/color"
	"testing"
	"time"
)

type drawCall struct {
	text  string
	image image.Image
	at    image.Point
}

// recordingCanvas remembers every primitive call.
type recordingCanvas struct {
	calls []drawCall
}

func (c *recordingCanvas) DrawImage(img image.Image, x, y int) {
	c.calls = append(c.calls, drawCall{image: img, at: image.Pt(x, y)})
}

func (c *recordingCanvas) DrawText(text string, x, y int, f *Font) {
	c.calls = append(c.calls, drawCall{text: text, at: image.Pt(x, y)})
}

func (c *recordingCanvas) texts() []string {
	var out []string
	for _, call := range c.calls {
		if call.image == nil {
			out = append(out, call.text)
		}
	}
	return out
}

var testSurface = Surface{ID: 1, World: "world"}

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func testFrame(t *testing.T, shade uint8, delay time.Duration) Frame {
	t.Helper()

	f, err := NewFrame(solid(4, 4, color.Gray{Y: shade}), delay)
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	return f
}

// frameShade identifies which test frame an image came from.
func frameShade(img image.Image) uint8 {
	return color.GrayModel.Convert(img.At(img.Bounds().Min.X, img.Bounds().Min.Y)).(color.Gray).Y
}
