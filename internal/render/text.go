package render

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// textState is shared by the text renderer kinds.
type textState struct {
	text  string
	runes []rune
	font  *Font
}

func newTextState(lines []string, f *Font) (textState, error) {
	if f == nil {
		return textState{}, invalidf("font must not be nil")
	}
	t := textState{font: f}
	t.setText(strings.Join(lines, "\n"))
	return t, nil
}

func (t *textState) setText(text string) {
	t.text = norm.NFC.String(text)
	t.runes = []rune(t.text)
}

// Text returns the rendered text, lines joined by "\n".
func (t *textState) Text() string { return t.text }

// SetText replaces the rendered text. Line breaks must be included.
func (t *textState) SetText(text string) { t.setText(text) }

func (t *textState) Font() *Font { return t.font }

func (t *textState) SetFont(f *Font) error {
	if f == nil {
		return invalidf("font must not be nil")
	}
	t.font = f
	return nil
}

// TextRenderer draws fixed multi-line text at its starting point.
type TextRenderer struct {
	base
	textState
}

// NewTextRenderer builds a text renderer drawing lines joined by newlines.
// No lines is valid and draws nothing visible.
func NewTextRenderer(lines []string, opts ...Option) (*TextRenderer, error) {
	o := newOptions(opts)
	if err := o.check(KindText, commonOptions|optFont); err != nil {
		return nil, err
	}
	ts, err := newTextState(lines, o.font)
	if err != nil {
		return nil, err
	}
	r := &TextRenderer{textState: ts}
	r.base = newBase(KindText, r, o)
	return r, nil
}

func (r *TextRenderer) draw(ctx Context) {
	ctx.Canvas.DrawText(r.text, r.startingPoint.X, r.startingPoint.Y, r.font)
}
