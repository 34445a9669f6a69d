package render

import (
	"image"
	"strings"
)

// RepeatForever makes a GIF renderer loop until it is stopped externally.
// Any negative repeat value has the same meaning.
const RepeatForever = -1

const defaultCharsPerSecond = TicksPerSecond

// Option configures a renderer at construction time. Options are only
// recorded when applied; every value is validated by the constructor, so no
// partially valid renderer is ever returned.
type Option func(*options)

type optionMask uint16

const (
	optReceivers optionMask = 1 << iota
	optRenderOnce
	optPrecondition
	optStartingPoint
	optFont
	optCharsPerSecond
	optDelay
	optStartFrame
	optRepeat
)

const commonOptions = optReceivers | optRenderOnce | optPrecondition | optStartingPoint

var optionNames = []struct {
	mask optionMask
	name string
}{
	{optReceivers, "receivers"},
	{optRenderOnce, "renderOnce"},
	{optPrecondition, "precondition"},
	{optStartingPoint, "startingPoint"},
	{optFont, "font"},
	{optCharsPerSecond, "charsPerSecond"},
	{optDelay, "delay"},
	{optStartFrame, "startFrame"},
	{optRepeat, "repeat"},
}

func (m optionMask) String() string {
	var names []string
	for _, o := range optionNames {
		if m&o.mask != 0 {
			names = append(names, o.name)
		}
	}
	return strings.Join(names, ",")
}

type options struct {
	set optionMask

	receivers      []ViewerID
	renderOnce     bool
	precondition   Precondition
	startingPoint  image.Point
	font           *Font
	charsPerSecond int
	delay          int
	startFrame     int
	repeat         int
}

func newOptions(opts []Option) options {
	o := options{
		renderOnce:     true,
		precondition:   func(Context) bool { return true },
		font:           DefaultFont(),
		charsPerSecond: defaultCharsPerSecond,
		repeat:         RepeatForever,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// check validates the options shared by every kind and rejects options the
// kind does not accept.
func (o *options) check(kind Kind, accepted optionMask) error {
	if extra := o.set &^ accepted; extra != 0 {
		if extra&optRenderOnce != 0 {
			return unsupportedf("renderOnce is always false for %s renderers and cannot be set", kind)
		}
		return unsupportedf("option %s does not apply to %s renderers", extra, kind)
	}
	if o.precondition == nil {
		return invalidf("precondition must not be nil")
	}
	for _, v := range o.receivers {
		if v == "" {
			return invalidf("receiver must not be empty")
		}
	}
	return checkStartingPoint(o.startingPoint.X, o.startingPoint.Y)
}

// WithReceivers adds viewers the renderer draws for. A renderer built without
// receivers draws for every viewer.
func WithReceivers(viewers ...ViewerID) Option {
	return func(o *options) {
		o.set |= optReceivers
		o.receivers = append(o.receivers, viewers...)
	}
}

// WithRenderOnce decides whether each (surface, viewer) pair gets at most one
// draw. The default is true. Animated kinds reject this option.
func WithRenderOnce(renderOnce bool) Option {
	return func(o *options) {
		o.set |= optRenderOnce
		o.renderOnce = renderOnce
	}
}

// WithPrecondition sets a predicate tested before every draw attempt.
func WithPrecondition(p Precondition) Option {
	return func(o *options) {
		o.set |= optPrecondition
		o.precondition = p
	}
}

// WithStartingPoint sets the top-left origin of the output. The default is
// (0, 0).
func WithStartingPoint(p image.Point) Option {
	return func(o *options) {
		o.set |= optStartingPoint
		o.startingPoint = p
	}
}

// WithFont sets the font of a text renderer. The default is DefaultFont.
func WithFont(f *Font) Option {
	return func(o *options) {
		o.set |= optFont
		o.font = f
	}
}

// WithCharsPerSecond sets the reveal rate of an animated text renderer.
// The default is one character per tick.
func WithCharsPerSecond(n int) Option {
	return func(o *options) {
		o.set |= optCharsPerSecond
		o.charsPerSecond = n
	}
}

// WithDelay delays the first reveal of an animated text renderer by the
// given number of ticks.
func WithDelay(ticks int) Option {
	return func(o *options) {
		o.set |= optDelay
		o.delay = ticks
	}
}

// WithStartFrame sets the frame a GIF renderer starts at.
func WithStartFrame(index int) Option {
	return func(o *options) {
		o.set |= optStartFrame
		o.startFrame = index
	}
}

// WithRepeat sets how many passes a GIF renderer plays before it stops.
// Negative values (canonically RepeatForever) loop forever.
func WithRepeat(times int) Option {
	return func(o *options) {
		o.set |= optRepeat
		o.repeat = times
	}
}
