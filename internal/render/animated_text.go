package render

import "math"

// AnimatedTextRenderer types its text onto the map character by character at
// a configurable rate and stops once the whole text is shown.
//
// The reveal position and countdown belong to the renderer, not to a viewer.
// The animation advances once per tick and every eligible surface and viewer
// is drawn the same prefix.
type AnimatedTextRenderer struct {
	base
	textState
	clock tickClock

	revealed       []rune
	charsPerSecond int
	ticksToWait    int
	// finished is set on the tick the last character is revealed; the
	// renderer stops on its next eligible tick.
	finished bool
}

// NewAnimatedTextRenderer builds an animated text renderer. It always
// repeats, so WithRenderOnce is rejected with ErrUnsupported.
func NewAnimatedTextRenderer(lines []string, opts ...Option) (*AnimatedTextRenderer, error) {
	o := newOptions(opts)
	accepted := commonOptions&^optRenderOnce | optFont | optCharsPerSecond | optDelay
	if err := o.check(KindAnimatedText, accepted); err != nil {
		return nil, err
	}
	if o.charsPerSecond <= 0 {
		return nil, invalidf("chars per second must be positive")
	}
	if o.delay < 0 {
		return nil, invalidf("delay must not be negative")
	}
	ts, err := newTextState(lines, o.font)
	if err != nil {
		return nil, err
	}
	o.renderOnce = false
	r := &AnimatedTextRenderer{
		textState:      ts,
		clock:          newTickClock(),
		charsPerSecond: o.charsPerSecond,
		ticksToWait:    o.delay + 1,
	}
	r.base = newBase(KindAnimatedText, r, o)
	return r, nil
}

func (r *AnimatedTextRenderer) draw(ctx Context) {
	if r.clock.begin(ctx) {
		if r.finished {
			r.Stop()
			return
		}
		r.step()
		if r.stopped {
			return
		}
	}
	if r.clock.show(ctx) {
		ctx.Canvas.DrawText(string(r.revealed), r.startingPoint.X, r.startingPoint.Y, r.font)
	}
}

func (r *AnimatedTextRenderer) step() {
	r.ticksToWait--
	if r.ticksToWait > 0 {
		return
	}
	if len(r.revealed) >= len(r.runes) {
		r.Stop()
		return
	}

	wait := r.waitFor(len(r.revealed))
	count := 1
	if wait < 1 {
		r.ticksToWait = 1
		// The epsilon absorbs the float error of wait for exact rates.
		count = int(1/wait + 1e-9)
	} else {
		r.ticksToWait = int(math.Round(wait))
	}

	end := min(len(r.revealed)+count, len(r.runes))
	r.revealed = append(r.revealed, r.runes[len(r.revealed):end]...)
	r.clock.changed()
	r.finished = len(r.revealed) >= len(r.runes)
}

// NextTick lets the next eligible invocation advance the reveal.
func (r *AnimatedTextRenderer) NextTick() { r.clock.NextTick() }

// Stopped reports whether the renderer was stopped or has revealed its whole
// text.
func (r *AnimatedTextRenderer) Stopped() bool { return r.stopped || r.finished }

// SetText replaces the text and restarts the reveal from its first character
// on the next eligible tick. A renderer halted with Stop stays halted.
func (r *AnimatedTextRenderer) SetText(text string) {
	r.setText(text)
	r.revealed = r.revealed[:0]
	r.ticksToWait = 1
	r.finished = false
}

// waitFor returns the ticks between revealing character n and n+1. Taking
// the difference of the absolute reveal times spreads fractional rates
// evenly instead of rounding each step.
func (r *AnimatedTextRenderer) waitFor(n int) float64 {
	charsPerTick := float64(r.charsPerSecond) / TicksPerSecond
	return float64(n+1)/charsPerTick - float64(n)/charsPerTick
}

// Position returns how many characters have been revealed.
func (r *AnimatedTextRenderer) Position() int { return len(r.revealed) }

// Revealed returns the text revealed so far.
func (r *AnimatedTextRenderer) Revealed() string { return string(r.revealed) }

func (r *AnimatedTextRenderer) CharsPerSecond() int { return r.charsPerSecond }

// SetCharsPerSecond changes the reveal rate from the next reveal on.
func (r *AnimatedTextRenderer) SetCharsPerSecond(n int) error {
	if n <= 0 {
		return invalidf("chars per second must be positive")
	}
	r.charsPerSecond = n
	return nil
}
