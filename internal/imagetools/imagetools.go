// Package imagetools holds the pure raster helpers used to prepare images
// and GIFs for maps: copying, resizing, tiling and loading.
package imagetools

import (
	"fmt"
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"

	"github.com/rook-computer/mapcanvas/internal/render"
)

// Copy returns a deep copy of img as RGBA with its origin at (0, 0).
func Copy(img image.Image) *image.RGBA {
	return render.CloneImage(img)
}

// SingleColor returns a map-sized image filled with c.
func SingleColor(c color.Color) *image.RGBA {
	img := image.NewRGBA(render.MapBounds)
	xdraw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, xdraw.Src)
	return img
}

// Resize scales img to width×height with nearest-neighbour sampling.
func Resize(img image.Image, width, height int) (*image.RGBA, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: image must not be nil", render.ErrValidation)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: size %dx%d must be positive", render.ErrValidation, width, height)
	}
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.NearestNeighbor.Scale(out, out.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return out, nil
}

// ResizeToMapSize scales img to exactly one map, ignoring its aspect ratio.
func ResizeToMapSize(img image.Image) (*image.RGBA, error) {
	return Resize(img, render.MapWidth, render.MapHeight)
}

// ResizeGIF scales every frame of gif to map size, keeping frame delays.
func ResizeGIF(gif *render.GIF) (*render.GIF, error) {
	return mapFrames(gif, ResizeToMapSize)
}

func mapFrames(gif *render.GIF, fn func(image.Image) (*image.RGBA, error)) (*render.GIF, error) {
	if gif == nil {
		return nil, fmt.Errorf("%w: gif must not be nil", render.ErrValidation)
	}
	frames := make([]render.Frame, 0, gif.Len())
	for i, f := range gif.Frames() {
		img, err := fn(f.Image())
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		nf, err := render.NewFrame(img, f.Delay())
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		frames = append(frames, nf)
	}
	return render.NewGIF(frames)
}
