package render

import (
	"image"
	"slices"
	"time"
)

// Frame is one image of a GIF together with how long it is displayed.
type Frame struct {
	image *image.RGBA
	delay time.Duration
}

// NewFrame copies img into a frame shown for delay.
func NewFrame(img image.Image, delay time.Duration) (Frame, error) {
	if img == nil {
		return Frame{}, invalidf("frame image must not be nil")
	}
	if delay <= 0 {
		return Frame{}, invalidf("frame duration must be positive")
	}
	return Frame{image: CloneImage(img), delay: delay}, nil
}

// Image returns a copy of the frame's image.
func (f Frame) Image() *image.RGBA { return CloneImage(f.image) }

func (f Frame) Delay() time.Duration { return f.delay }

// Ticks is the frame's delay converted to host ticks.
func (f Frame) Ticks() int { return MsToTicks(int(f.delay.Milliseconds())) }

// MsToTicks converts a delay to ticks. The delay is truncated to whole
// seconds first, so anything shorter than a second is zero ticks and the
// next frame follows on the very next tick.
func MsToTicks(ms int) int {
	return ms / 1000 * TicksPerSecond
}

// GIF is an ordered, immutable sequence of equally sized frames. A GIF may
// be empty as an intermediate result, but a GIF renderer needs at least one
// frame.
type GIF struct {
	frames []Frame
}

// NewGIF builds a GIF from frames, which must all have the same size.
func NewGIF(frames []Frame) (*GIF, error) {
	for i, f := range frames {
		if f.image == nil {
			return nil, invalidf("frame %d has no image", i)
		}
		if f.image.Bounds().Size() != frames[0].image.Bounds().Size() {
			return nil, invalidf("frames must all have the same size (frame %d is %v, frame 0 is %v)",
				i, f.image.Bounds().Size(), frames[0].image.Bounds().Size())
		}
	}
	return &GIF{frames: slices.Clone(frames)}, nil
}

func (g *GIF) Len() int { return len(g.frames) }

// Frame returns the frame at index i. It panics if i is out of range.
func (g *GIF) Frame(i int) Frame { return g.frames[i] }

// Frames returns the frames in display order.
func (g *GIF) Frames() []Frame { return slices.Clone(g.frames) }

// Size returns the common frame size, or the zero point for an empty GIF.
func (g *GIF) Size() image.Point {
	if len(g.frames) == 0 {
		return image.Point{}
	}
	return g.frames[0].image.Bounds().Size()
}

// Duration is the sum of all frame delays.
func (g *GIF) Duration() time.Duration {
	var d time.Duration
	for _, f := range g.frames {
		d += f.delay
	}
	return d
}
