package render

import (
	"fmt"
	"strings"

	"github.com/golang/freetype/truetype"
	"github.com/mattn/go-runewidth"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
)

// Font is the bitmap font text renderers hand to the canvas. The core treats
// it as opaque; the metrics exist for layout done by callers.
type Font struct {
	name string
	face font.Face
}

var defaultFont = &Font{name: "basic7x13", face: basicfont.Face7x13}

// DefaultFont returns the 7x13 fixed-width font used when none is configured.
func DefaultFont() *Font { return defaultFont }

// NewFont wraps an existing face.
func NewFont(name string, face font.Face) (*Font, error) {
	if face == nil {
		return nil, invalidf("font face must not be nil")
	}
	return &Font{name: name, face: face}, nil
}

// LoadTrueType parses a TrueType font with freetype and returns a face of the
// given size in points at 72 DPI, so one point is one map pixel.
func LoadTrueType(name string, data []byte, size float64) (*Font, error) {
	if size <= 0 {
		return nil, invalidf("font size must be positive")
	}
	tt, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse truetype font %s: %w", name, err)
	}
	face := truetype.NewFace(tt, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
	return &Font{name: name, face: face}, nil
}

// LoadOpenType is LoadTrueType for OpenType (OTF/TTF) data.
func LoadOpenType(name string, data []byte, size float64) (*Font, error) {
	if size <= 0 {
		return nil, invalidf("font size must be positive")
	}
	otf, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse opentype font %s: %w", name, err)
	}
	face, err := opentype.NewFace(otf, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("create opentype face %s: %w", name, err)
	}
	return &Font{name: name, face: face}, nil
}

func (f *Font) Name() string    { return f.name }
func (f *Font) Face() font.Face { return f.face }

// CharWidth returns the advance of r in pixels. Runes without a glyph are
// measured in terminal cells of the face's 'M' advance.
func (f *Font) CharWidth(r rune) int {
	cells := runewidth.RuneWidth(r)
	if cells == 0 {
		return 0
	}
	if adv, ok := f.face.GlyphAdvance(r); ok && adv > 0 {
		return adv.Ceil()
	}
	return cells * f.cellWidth()
}

// TextWidth returns the width of the widest line of text.
func (f *Font) TextWidth(text string) int {
	widest := 0
	for _, line := range strings.Split(text, "\n") {
		w := 0
		for _, r := range line {
			w += f.CharWidth(r)
		}
		if w > widest {
			widest = w
		}
	}
	return widest
}

// LineHeight is the distance between the top of two consecutive lines.
func (f *Font) LineHeight() int { return f.face.Metrics().Height.Ceil() }

// Ascent is the distance from the top of a line to its baseline.
func (f *Font) Ascent() int { return f.face.Metrics().Ascent.Ceil() }

func (f *Font) cellWidth() int {
	if adv, ok := f.face.GlyphAdvance('M'); ok && adv > 0 {
		return adv.Ceil()
	}
	return f.LineHeight() / 2
}
