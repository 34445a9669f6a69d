package preview

import (
	"fmt"
	"image"
	"image/draw"

	fb "github.com/gonutz/framebuffer"

	"github.com/rook-computer/mapcanvas/internal/host"
	"github.com/rook-computer/mapcanvas/internal/render/layout"
)

// DefaultFramebufferDevice is the Linux framebuffer opened by OpenFramebuffer.
const DefaultFramebufferDevice = "/dev/fb0"

// Framebuffer shows one map canvas as large as fits, centred, on a
// framebuffer device.
type Framebuffer struct {
	Target  Target
	Padding int
	Logger  host.Logger

	dst   draw.Image
	close func()
}

// OpenFramebuffer opens the framebuffer device at path.
func OpenFramebuffer(path string, target Target) (*Framebuffer, error) {
	if path == "" {
		path = DefaultFramebufferDevice
	}
	dev, err := fb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open framebuffer %s: %w", path, err)
	}
	f := NewFramebuffer(dev, target)
	f.close = func() { dev.Close() }
	return f, nil
}

// NewFramebuffer draws into dst, which stands in for a device.
func NewFramebuffer(dst draw.Image, target Target) *Framebuffer {
	return &Framebuffer{Target: target, dst: dst}
}

// Publish shows frame if it is the targeted canvas.
func (f *Framebuffer) Publish(frame host.Frame) error {
	if !f.Target.matches(frame) {
		return nil
	}
	area := layout.CenterSquare(layout.Inset(f.dst.Bounds(), f.Padding))
	if area.Empty() {
		return fmt.Errorf("framebuffer %v has no room for a map", f.dst.Bounds())
	}
	scaled := flatten(frame.Image, area.Dx())
	draw.Draw(f.dst, area, scaled, image.Point{}, draw.Src)
	if f.Logger != nil {
		f.Logger.Infof("fb", "map %d for %s shown at tick %d", frame.MapID, frame.Viewer, frame.Tick)
	}
	return nil
}

// Clear fills the whole device with Background.
func (f *Framebuffer) Clear() {
	draw.Draw(f.dst, f.dst.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)
}

func (f *Framebuffer) Close() {
	if f.close != nil {
		f.close()
		f.close = nil
	}
}
