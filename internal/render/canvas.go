package render

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// MapCanvas is a map-sized RGBA canvas. The host keeps one per surface and
// viewer; it remembers whether anything was drawn since the last TakeDirty.
type MapCanvas struct {
	img       *image.RGBA
	textColor color.Color
	dirty     bool
}

// NewMapCanvas returns a transparent canvas drawing text in TextColor.
func NewMapCanvas() *MapCanvas {
	return &MapCanvas{img: image.NewRGBA(MapBounds), textColor: TextColor}
}

// SetTextColor changes the colour of subsequent DrawText calls.
func (c *MapCanvas) SetTextColor(col color.Color) { c.textColor = col }

// DrawImage copies img onto the canvas with its top-left corner at (x, y).
// Pixels are replaced, not blended.
func (c *MapCanvas) DrawImage(img image.Image, x, y int) {
	if img == nil {
		return
	}
	b := img.Bounds()
	dst := image.Rect(x, y, x+b.Dx(), y+b.Dy())
	draw.Draw(c.img, dst, img, b.Min, draw.Src)
	c.dirty = true
}

// DrawText draws each newline-separated line of text, the first line's top
// at y.
func (c *MapCanvas) DrawText(text string, x, y int, f *Font) {
	if f == nil {
		f = DefaultFont()
	}
	drawer := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(c.textColor),
		Face: f.Face(),
	}
	ascent := f.Ascent()
	lineHeight := f.LineHeight()
	for i, line := range strings.Split(text, "\n") {
		drawer.Dot = fixed.P(x, y+ascent+i*lineHeight)
		drawer.DrawString(line)
	}
	c.dirty = true
}

// Clear fills the whole canvas with col.
func (c *MapCanvas) Clear(col color.Color) {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
	c.dirty = true
}

// Snapshot returns a copy of the current pixels.
func (c *MapCanvas) Snapshot() *image.RGBA { return CloneImage(c.img) }

// TakeDirty reports whether the canvas changed since the previous call and
// resets the flag.
func (c *MapCanvas) TakeDirty() bool {
	dirty := c.dirty
	c.dirty = false
	return dirty
}

// CloneImage deep-copies img into a new RGBA image whose bounds start at the
// origin.
func CloneImage(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
