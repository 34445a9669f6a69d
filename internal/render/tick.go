package render

// TickAware is implemented by renderers whose state moves with host ticks.
// A host calls NextTick once per tick on every such renderer before invoking
// Render for that tick.
type TickAware interface {
	NextTick()
}

// tickClock lets an animation shared by several surfaces and viewers advance
// at most once per host tick while every eligible pair sees each state once.
//
// Without NextTick calls a new tick starts when a pair is invoked a second
// time, so a single-viewer caller needs no host cooperation.
type tickClock struct {
	stepped bool
	seen    map[deliveryKey]struct{}

	version int
	shown   map[deliveryKey]int
}

func newTickClock() tickClock {
	return tickClock{
		seen:  make(map[deliveryKey]struct{}),
		shown: make(map[deliveryKey]int),
	}
}

// NextTick starts a new tick: the next eligible invocation advances the
// animation.
func (c *tickClock) NextTick() {
	c.stepped = false
	clear(c.seen)
}

// begin records an eligible invocation and reports whether it is the one
// that advances the animation in the current tick.
func (c *tickClock) begin(ctx Context) bool {
	k := deliveryKey{ctx.Surface.ID, ctx.Viewer}
	if _, ok := c.seen[k]; ok {
		c.NextTick()
	}
	c.seen[k] = struct{}{}
	if c.stepped {
		return false
	}
	c.stepped = true
	return true
}

// changed marks a new state to show.
func (c *tickClock) changed() { c.version++ }

// show reports whether the pair has not been drawn the current state yet and
// records it as drawn.
func (c *tickClock) show(ctx Context) bool {
	if c.version == 0 {
		return false
	}
	k := deliveryKey{ctx.Surface.ID, ctx.Viewer}
	if c.shown[k] == c.version {
		return false
	}
	c.shown[k] = c.version
	return true
}
