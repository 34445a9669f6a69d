package host

import (
	"context"
	"image"
	"image/color"
	"time"

	"github.com/rook-computer/mapcanvas/internal/render"
)

// Logger matches the app logger; packages only depend on this shape.
type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

// Frame is a canvas that changed during a tick.
type Frame struct {
	Tick   uint64
	MapID  int
	Viewer render.ViewerID
	Image  *image.RGBA
}

// FrameSink receives the frames that changed in a tick, after the registry
// lock has been released.
type FrameSink interface {
	Publish(frame Frame) error
}

// Ticker drives the registry: each Tick invokes every renderer of every map
// for every online viewer.
type Ticker struct {
	Registry *Registry
	Sinks    []FrameSink
	Logger   Logger

	// TextColor overrides render.TextColor on every canvas when set.
	TextColor color.Color

	// MaxTicks stops RunLoop after that many ticks when non-zero.
	MaxTicks uint64

	ticks uint64
}

func NewTicker(reg *Registry, sinks ...FrameSink) *Ticker {
	return &Ticker{Registry: reg, Sinks: sinks}
}

// Ticks returns how many ticks have run.
func (t *Ticker) Ticks() uint64 { return t.ticks }

// Tick runs one tick. Maps are visited by id, viewers in sorted order and
// renderers in the order they were attached.
func (t *Ticker) Tick() {
	t.ticks++
	frames := t.renderAll()
	for _, frame := range frames {
		for _, sink := range t.Sinks {
			if err := sink.Publish(frame); err != nil && t.Logger != nil {
				t.Logger.Errorf("host", "publish map %d for %s: %v", frame.MapID, frame.Viewer, err)
			}
		}
	}
}

func (t *Ticker) renderAll() []Frame {
	reg := t.Registry
	reg.mu.Lock()
	defer reg.mu.Unlock()

	ids := reg.mapIDs()
	started := make(map[render.Renderer]struct{})
	for _, id := range ids {
		for _, r := range reg.maps[id].renderers {
			if _, ok := started[r]; ok {
				continue
			}
			started[r] = struct{}{}
			if ta, ok := r.(render.TickAware); ok {
				ta.NextTick()
			}
		}
	}

	var frames []Frame
	viewers := reg.viewerIDs()
	for _, id := range ids {
		m := reg.maps[id]
		for _, viewer := range viewers {
			canvas := m.canvas(viewer)
			if t.TextColor != nil {
				canvas.SetTextColor(t.TextColor)
			}
			for _, r := range m.renderers {
				r.Render(m.surface, canvas, viewer)
			}
			if canvas.TakeDirty() {
				frames = append(frames, Frame{Tick: t.ticks, MapID: id, Viewer: viewer, Image: canvas.Snapshot()})
			}
		}
	}
	return frames
}

// RunLoop ticks at render.TicksPerSecond until ctx is done or MaxTicks
// ticks have run.
func (t *Ticker) RunLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Second / render.TicksPerSecond)
	defer ticker.Stop()
	lastLog := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Tick()
			if t.Logger != nil && time.Since(lastLog) > time.Second {
				t.Logger.Infof("host", "heartbeat tick=%d maps=%d viewers=%d",
					t.ticks, len(t.Registry.Maps()), len(t.Registry.Viewers()))
				lastLog = time.Now()
			}
			if t.MaxTicks > 0 && t.ticks >= t.MaxTicks {
				return
			}
		}
	}
}
