package layout

import (
	"image"
	"testing"

	"github.com/rook-computer/mapcanvas/internal/testutil/assert"
)

func TestNormalizeAndInset(t *testing.T) {
	r := Normalize(image.Rectangle{Min: image.Pt(10, 10), Max: image.Pt(0, 0)})
	assert.Equal(t, image.Rect(0, 0, 10, 10), r)

	assert.Equal(t, image.Rect(2, 2, 8, 8), Inset(r, 2))
	assert.Equal(t, r, Inset(r, 0))
}

func TestSquares(t *testing.T) {
	for _, tc := range []struct {
		rect   image.Rectangle
		fit    image.Rectangle
		center image.Rectangle
	}{
		{
			rect:   image.Rect(0, 0, 200, 100),
			fit:    image.Rect(0, 0, 100, 100),
			center: image.Rect(50, 0, 150, 100),
		},
		{
			rect:   image.Rect(10, 10, 50, 90),
			fit:    image.Rect(10, 10, 50, 50),
			center: image.Rect(10, 30, 50, 70),
		},
		{
			rect:   image.Rect(0, 0, 0, 0),
			fit:    image.Rect(0, 0, 0, 0),
			center: image.Rect(0, 0, 0, 0),
		},
	} {
		assert.Equal(t, tc.fit, FitSquare(tc.rect))
		assert.Equal(t, tc.center, CenterSquare(tc.rect))
	}
}

func TestGrid(t *testing.T) {
	cells := Grid(image.Rect(0, 0, 256, 256), 128)
	assert.Equal(t, []image.Rectangle{
		image.Rect(0, 0, 128, 128),
		image.Rect(128, 0, 256, 128),
		image.Rect(0, 128, 128, 256),
		image.Rect(128, 128, 256, 256),
	}, cells)

	assert.Equal(t, 2, len(Grid(image.Rect(0, 0, 300, 130), 128)))
	assert.Equal(t, 0, len(Grid(image.Rect(0, 0, 100, 100), 128)))
	assert.Zero(t, Grid(image.Rect(0, 0, 10, 10), 0))
}
