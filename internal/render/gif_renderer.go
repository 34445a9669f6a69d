package render

// GIFRenderer plays a GIF frame by frame, timing frames in host ticks.
//
// Like the animated text renderer, its frame index and countdown are shared
// by every surface and viewer it is invoked for. The animation advances once
// per tick and every eligible pair is drawn the same frame.
type GIFRenderer struct {
	base
	clock tickClock

	gif         *GIF
	frame       int
	current     int
	ticksToWait int
	forever     bool
	repeatsLeft int
}

// NewGIFRenderer builds a GIF renderer. The GIF must have at least one frame.
// WithRenderOnce is rejected with ErrUnsupported.
func NewGIFRenderer(gif *GIF, opts ...Option) (*GIFRenderer, error) {
	o := newOptions(opts)
	accepted := commonOptions&^optRenderOnce | optStartFrame | optRepeat
	if err := o.check(KindGIF, accepted); err != nil {
		return nil, err
	}
	if gif == nil {
		return nil, invalidf("gif must not be nil")
	}
	if gif.Len() == 0 {
		return nil, invalidf("gif must have at least one frame")
	}
	if err := checkBounds("frame index", o.startFrame, 0, gif.Len()); err != nil {
		return nil, err
	}
	o.renderOnce = false
	r := &GIFRenderer{
		clock:       newTickClock(),
		gif:         gif,
		frame:       o.startFrame,
		forever:     o.repeat < 0,
		repeatsLeft: o.repeat,
	}
	r.base = newBase(KindGIF, r, o)
	return r, nil
}

func (r *GIFRenderer) draw(ctx Context) {
	if r.clock.begin(ctx) {
		r.step()
		if r.stopped {
			return
		}
	}
	if r.clock.show(ctx) {
		f := r.gif.frames[r.current]
		ctx.Canvas.DrawImage(f.image, r.startingPoint.X, r.startingPoint.Y)
	}
}

func (r *GIFRenderer) step() {
	r.ticksToWait--
	if r.ticksToWait > 0 {
		return
	}

	if r.frame >= r.gif.Len() {
		r.frame = 0
		if !r.forever {
			r.repeatsLeft--
			if r.repeatsLeft <= 0 {
				r.repeatsLeft = 0
				r.Stop()
				return
			}
		}
	}

	r.current = r.frame
	r.frame++
	r.ticksToWait = r.gif.frames[r.current].Ticks()
	r.clock.changed()
}

// NextTick lets the next eligible invocation advance the animation.
func (r *GIFRenderer) NextTick() { r.clock.NextTick() }

func (r *GIFRenderer) GIF() *GIF { return r.gif }

// Frame returns the index of the next frame to draw. It equals the frame
// count right after the last frame of a pass was drawn.
func (r *GIFRenderer) Frame() int { return r.frame }

// SetFrame makes index the next frame to draw.
func (r *GIFRenderer) SetFrame(index int) error {
	if err := checkBounds("frame index", index, 0, r.gif.Len()); err != nil {
		return err
	}
	r.frame = index
	return nil
}

// RepeatsLeft returns the passes left including the current one, or
// RepeatForever.
func (r *GIFRenderer) RepeatsLeft() int {
	if r.forever {
		return RepeatForever
	}
	return r.repeatsLeft
}
