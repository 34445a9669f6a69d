package host

import (
	"slices"

	"github.com/rook-computer/mapcanvas/internal/render"
)

// Map is one surface: its renderers, in the order they are invoked, and a
// canvas per viewer. A Map is only handed out inside Registry.Update and
// must not be kept after the callback returns.
type Map struct {
	surface   render.Surface
	renderers []render.Renderer
	canvases  map[render.ViewerID]*render.MapCanvas
}

func newMap(surface render.Surface) *Map {
	return &Map{surface: surface, canvases: make(map[render.ViewerID]*render.MapCanvas)}
}

func (m *Map) ID() int                      { return m.surface.ID }
func (m *Map) World() string                { return m.surface.World }
func (m *Map) Surface() render.Surface      { return m.surface }
func (m *Map) Renderers() []render.Renderer { return slices.Clone(m.renderers) }

// AddRenderer attaches r after the existing renderers. Nil and already
// attached renderers are ignored.
func (m *Map) AddRenderer(r render.Renderer) {
	if r == nil || slices.Contains(m.renderers, r) {
		return
	}
	m.renderers = append(m.renderers, r)
}

// RemoveRenderer detaches r and reports whether it was attached.
func (m *Map) RemoveRenderer(r render.Renderer) bool {
	i := slices.Index(m.renderers, r)
	if i < 0 {
		return false
	}
	m.renderers = slices.Delete(m.renderers, i, i+1)
	return true
}

// SetRenderers replaces all attached renderers.
func (m *Map) SetRenderers(renderers ...render.Renderer) {
	m.renderers = nil
	for _, r := range renderers {
		m.AddRenderer(r)
	}
}

// canvas returns the viewer's canvas, creating a blank one on first use.
func (m *Map) canvas(viewer render.ViewerID) *render.MapCanvas {
	c, ok := m.canvases[viewer]
	if !ok {
		c = render.NewMapCanvas()
		m.canvases[viewer] = c
	}
	return c
}

func (m *Map) info() MapInfo {
	info := MapInfo{ID: m.surface.ID, World: m.surface.World}
	for _, r := range m.renderers {
		info.Renderers = append(info.Renderers, RendererInfo{
			Kind:       r.Kind(),
			Stopped:    r.Stopped(),
			RenderOnce: r.RenderOnce(),
			ForAll:     r.RendersForAll(),
			Receivers:  r.Receivers(),
		})
	}
	return info
}

// MapInfo is a point-in-time description of a map.
type MapInfo struct {
	ID        int
	World     string
	Renderers []RendererInfo
}

type RendererInfo struct {
	Kind       render.Kind
	Stopped    bool
	RenderOnce bool
	ForAll     bool
	Receivers  []render.ViewerID
}
