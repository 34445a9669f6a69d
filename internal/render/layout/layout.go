package layout

import "image"

// Inset shrinks rect by paddingPx on all sides.
func Inset(rect image.Rectangle, paddingPx int) image.Rectangle {
	if paddingPx <= 0 {
		return rect
	}
	out := image.Rect(rect.Min.X+paddingPx, rect.Min.Y+paddingPx, rect.Max.X-paddingPx, rect.Max.Y-paddingPx)
	return Normalize(out)
}

// Normalize ensures Min is <= Max on both axes.
func Normalize(rect image.Rectangle) image.Rectangle {
	if rect.Min.X > rect.Max.X {
		rect.Min.X, rect.Max.X = rect.Max.X, rect.Min.X
	}
	if rect.Min.Y > rect.Max.Y {
		rect.Min.Y, rect.Max.Y = rect.Max.Y, rect.Min.Y
	}
	return rect
}

// FitSquare returns the largest square that fits into rect, anchored at the top-left.
func FitSquare(rect image.Rectangle) image.Rectangle {
	rect = Normalize(rect)
	size := min(rect.Dx(), rect.Dy())
	return image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+size, rect.Min.Y+size)
}

// CenterSquare returns the largest square that fits into rect, centred on
// the longer axis.
func CenterSquare(rect image.Rectangle) image.Rectangle {
	rect = Normalize(rect)
	sq := FitSquare(rect)
	off := image.Pt((rect.Dx()-sq.Dx())/2, (rect.Dy()-sq.Dy())/2)
	return sq.Add(off)
}

// Grid cuts rect into cells of cellPx×cellPx, row by row, top-left first.
// Partial cells at the right and bottom edges are dropped.
func Grid(rect image.Rectangle, cellPx int) []image.Rectangle {
	rect = Normalize(rect)
	if cellPx <= 0 {
		return nil
	}
	cols, rows := rect.Dx()/cellPx, rect.Dy()/cellPx
	cells := make([]image.Rectangle, 0, cols*rows)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			origin := rect.Min.Add(image.Pt(col*cellPx, row*cellPx))
			cells = append(cells, image.Rect(origin.X, origin.Y, origin.X+cellPx, origin.Y+cellPx))
		}
	}
	return cells
}
