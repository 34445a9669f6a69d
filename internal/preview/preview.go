// Package preview shows rendered maps outside of a game client: on the
// Linux framebuffer, in a terminal, or as PNG files.
package preview

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"

	"github.com/rook-computer/mapcanvas/internal/host"
	"github.com/rook-computer/mapcanvas/internal/render"
)

// Target selects the single (map, viewer) canvas a screen-based sink shows.
type Target struct {
	MapID  int
	Viewer render.ViewerID
}

func (t Target) matches(frame host.Frame) bool {
	return frame.MapID == t.MapID && frame.Viewer == t.Viewer
}

// Background is what transparent map pixels are shown as.
var Background = color.RGBA{R: 0x10, G: 0x10, B: 0x10, A: 0xFF}

// flatten scales img into a size×size opaque image over Background.
func flatten(img image.Image, size int) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.Draw(out, out.Bounds(), image.NewUniform(Background), image.Point{}, xdraw.Src)
	xdraw.NearestNeighbor.Scale(out, out.Bounds(), img, img.Bounds(), xdraw.Over, nil)
	return out
}
