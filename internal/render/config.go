package render

import (
	"image"
	"image/color"
)

// Map geometry and host timing.
const (
	// MapWidth and MapHeight are the fixed size of every surface.
	MapWidth  = 128
	MapHeight = 128

	// TicksPerSecond is the host's fixed tick rate; all animation timing
	// is counted in ticks.
	TicksPerSecond = 20
)

var (
	// MapBounds is the rectangle covered by a surface.
	MapBounds = image.Rect(0, 0, MapWidth, MapHeight)

	// TextColor is the colour MapCanvas draws text with.
	TextColor = color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xFF}
)

// InBounds reports whether p lies on a surface.
func InBounds(p image.Point) bool {
	return p.In(MapBounds)
}
