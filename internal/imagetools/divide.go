package imagetools

import (
	"fmt"
	"image"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/rook-computer/mapcanvas/internal/render"
	"github.com/rook-computer/mapcanvas/internal/render/layout"
)

// Split cuts a square image whose side is a multiple of the map size into
// map-sized parts, row by row, top-left first.
func Split(img image.Image) ([]*image.RGBA, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: image must not be nil", render.ErrValidation)
	}
	b := img.Bounds()
	if b.Dx() != b.Dy() || b.Dx() == 0 || b.Dx()%render.MapWidth != 0 {
		return nil, fmt.Errorf("%w: image must be a square with a side that is a multiple of %d, got %dx%d",
			render.ErrValidation, render.MapWidth, b.Dx(), b.Dy())
	}
	cells := layout.Grid(b, render.MapWidth)
	parts := make([]*image.RGBA, len(cells))
	for i, cell := range cells {
		part := image.NewRGBA(render.MapBounds)
		xdraw.Draw(part, part.Bounds(), img, cell.Min, xdraw.Src)
		parts[i] = part
	}
	return parts, nil
}

// Assemble is the inverse of Split: it lays parts out row by row on a
// square of k×k maps.
func Assemble(parts []*image.RGBA, k int) (*image.RGBA, error) {
	if k <= 0 || len(parts) != k*k {
		return nil, fmt.Errorf("%w: need %d parts for a %dx%d grid, got %d",
			render.ErrValidation, k*k, k, k, len(parts))
	}
	side := k * render.MapWidth
	out := image.NewRGBA(image.Rect(0, 0, side, side))
	for i, cell := range layout.Grid(out.Bounds(), render.MapWidth) {
		part := parts[i]
		if part == nil || part.Bounds().Size() != render.MapBounds.Size() {
			return nil, fmt.Errorf("%w: part %d is not map-sized", render.ErrValidation, i)
		}
		xdraw.Draw(out, cell, part, part.Bounds().Min, xdraw.Src)
	}
	return out, nil
}

// DivideIntoMapSizedParts turns img into a square whose side is a multiple
// of the map size and splits it into map-sized parts, row-major. With crop
// the largest such square is cut from the centre of img; otherwise img is
// scaled up to the next multiple of the map size.
func DivideIntoMapSizedParts(img image.Image, crop bool) ([]*image.RGBA, error) {
	square, err := mapDivisibleSquare(img, crop)
	if err != nil {
		return nil, err
	}
	return Split(square)
}

// DivideGIF divides every frame of gif like DivideIntoMapSizedParts and
// returns one GIF per part, in row-major order. A GIF with no frames has no
// parts.
func DivideGIF(gif *render.GIF, crop bool) ([]*render.GIF, error) {
	if gif == nil {
		return nil, fmt.Errorf("%w: gif must not be nil", render.ErrValidation)
	}
	if gif.Len() == 0 {
		return nil, nil
	}

	var perPart [][]render.Frame
	for i, f := range gif.Frames() {
		parts, err := DivideIntoMapSizedParts(f.Image(), crop)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		if perPart == nil {
			perPart = make([][]render.Frame, len(parts))
		}
		for j, part := range parts {
			nf, err := render.NewFrame(part, f.Delay())
			if err != nil {
				return nil, fmt.Errorf("frame %d part %d: %w", i, j, err)
			}
			perPart[j] = append(perPart[j], nf)
		}
	}

	out := make([]*render.GIF, len(perPart))
	for j, frames := range perPart {
		g, err := render.NewGIF(frames)
		if err != nil {
			return nil, fmt.Errorf("part %d: %w", j, err)
		}
		out[j] = g
	}
	return out, nil
}

func mapDivisibleSquare(img image.Image, crop bool) (*image.RGBA, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: image must not be nil", render.ErrValidation)
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: image is empty", render.ErrValidation)
	}
	if b.Dx() == b.Dy() && b.Dx()%render.MapWidth == 0 {
		return Copy(img), nil
	}
	if !crop {
		longest := max(b.Dx(), b.Dy())
		side := int(math.Ceil(float64(longest)/render.MapWidth)) * render.MapWidth
		return Resize(img, side, side)
	}

	side := min(b.Dx(), b.Dy()) / render.MapWidth * render.MapWidth
	if side == 0 {
		return nil, fmt.Errorf("%w: image %dx%d is too small to crop to a map",
			render.ErrValidation, b.Dx(), b.Dy())
	}
	origin := b.Min.Add(image.Pt((b.Dx()-side)/2, (b.Dy()-side)/2))
	out := image.NewRGBA(image.Rect(0, 0, side, side))
	xdraw.Draw(out, out.Bounds(), img, origin, xdraw.Src)
	return out, nil
}
