// Package host runs renderers: it owns the maps and online viewers and
// invokes every renderer once per map, viewer and tick.
package host

import (
	"errors"
	"fmt"
	"image"
	"maps"
	"slices"
	"sync"

	"github.com/rook-computer/mapcanvas/internal/render"
)

var (
	ErrUnknownMap      = errors.New("host: unknown map")
	ErrUnknownWorld    = errors.New("host: unknown world")
	ErrUnknownViewer   = errors.New("host: unknown viewer")
	ErrUnknownRenderer = errors.New("host: unknown renderer")
)

// Registry holds the maps and the online viewers. All access goes through
// its lock, and the ticker invokes renderers while holding it, so renderers
// attached here are never invoked concurrently.
type Registry struct {
	mu sync.RWMutex

	worlds  []string
	storage Storage
	nextID  int
	maps    map[int]*Map
	viewers map[render.ViewerID]struct{}
}

// NewRegistry returns a registry hosting maps in the given worlds. The first
// world is the default. storage may be nil.
func NewRegistry(worlds []string, storage Storage) *Registry {
	return &Registry{
		worlds:  slices.Clone(worlds),
		storage: storage,
		maps:    make(map[int]*Map),
		viewers: make(map[render.ViewerID]struct{}),
	}
}

// Worlds returns the configured worlds, the default first.
func (reg *Registry) Worlds() []string { return slices.Clone(reg.worlds) }

// resolveWorld picks the world a new map lives in. It panics when the host
// has no world at all.
func (reg *Registry) resolveWorld(world string) (string, error) {
	if len(reg.worlds) == 0 {
		panic("host: no world available to create a map in")
	}
	if world == "" {
		return reg.worlds[0], nil
	}
	if !slices.Contains(reg.worlds, world) {
		return "", fmt.Errorf("%w: %q", ErrUnknownWorld, world)
	}
	return world, nil
}

// CreateMap creates a map in world ("" for the default world) with the
// given renderers attached, stores them, and returns the new map id.
func (reg *Registry) CreateMap(world string, renderers ...render.Renderer) (int, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	world, err := reg.resolveWorld(world)
	if err != nil {
		return 0, err
	}
	id := reg.nextID
	reg.nextID++
	m := newMap(render.Surface{ID: id, World: world})
	m.SetRenderers(renderers...)
	reg.maps[id] = m
	if reg.storage != nil && len(m.renderers) > 0 {
		reg.storage.Store(id, m.renderers...)
	}
	return id, nil
}

// Initialize (re)creates map id in world and attaches the renderers stored
// for it, replacing whatever was attached. It reports whether stored
// renderers were found; without any, an existing map is left untouched.
func (reg *Registry) Initialize(id int, world string) (bool, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	world, err := reg.resolveWorld(world)
	if err != nil {
		return false, err
	}
	m, ok := reg.maps[id]
	if !ok {
		m = newMap(render.Surface{ID: id, World: world})
		reg.maps[id] = m
		reg.nextID = max(reg.nextID, id+1)
	}
	if reg.storage == nil {
		return false, nil
	}
	stored := reg.storage.Provide(id)
	if len(stored) == 0 {
		return false, nil
	}
	m.SetRenderers(stored...)
	return true, nil
}

// Map returns a description of map id.
func (reg *Registry) Map(id int) (MapInfo, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	m, ok := reg.maps[id]
	if !ok {
		return MapInfo{}, false
	}
	return m.info(), true
}

// Maps describes all maps ordered by id.
func (reg *Registry) Maps() []MapInfo {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	out := make([]MapInfo, 0, len(reg.maps))
	for _, id := range reg.mapIDs() {
		out = append(out, reg.maps[id].info())
	}
	return out
}

func (reg *Registry) mapIDs() []int {
	return slices.Sorted(maps.Keys(reg.maps))
}

// RemoveMap drops map id. Its stored renderers are kept so that a later
// Initialize can bring it back.
func (reg *Registry) RemoveMap(id int) bool {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if _, ok := reg.maps[id]; !ok {
		return false
	}
	delete(reg.maps, id)
	return true
}

// ForgetMap drops the renderers stored for map id, so a later Initialize
// brings it back empty.
func (reg *Registry) ForgetMap(id int) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if reg.storage != nil {
		reg.storage.Remove(id)
	}
}

// DetachRenderer removes the renderer at index from map id and from the
// renderers stored for the map.
func (reg *Registry) DetachRenderer(id, index int) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	m, ok := reg.maps[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownMap, id)
	}
	if index < 0 || index >= len(m.renderers) {
		return fmt.Errorf("%w: map %d has %d renderers", ErrUnknownRenderer, id, len(m.renderers))
	}
	r := m.renderers[index]
	m.RemoveRenderer(r)
	if reg.storage != nil {
		reg.storage.Remove(id, r)
	}
	return nil
}

// Update runs fn on map id under the registry lock.
func (reg *Registry) Update(id int, fn func(m *Map) error) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	m, ok := reg.maps[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownMap, id)
	}
	return fn(m)
}

// Join marks viewer as online.
func (reg *Registry) Join(viewer render.ViewerID) error {
	if viewer == "" {
		return fmt.Errorf("%w: viewer id must not be empty", render.ErrValidation)
	}
	reg.mu.Lock()
	reg.viewers[viewer] = struct{}{}
	reg.mu.Unlock()
	return nil
}

// Leave marks viewer as offline and drops its canvases. It reports whether
// the viewer was online.
func (reg *Registry) Leave(viewer render.ViewerID) bool {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if _, ok := reg.viewers[viewer]; !ok {
		return false
	}
	delete(reg.viewers, viewer)
	for _, m := range reg.maps {
		delete(m.canvases, viewer)
	}
	return true
}

// Viewers returns the online viewers in sorted order.
func (reg *Registry) Viewers() []render.ViewerID {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return reg.viewerIDs()
}

func (reg *Registry) viewerIDs() []render.ViewerID {
	return slices.Sorted(maps.Keys(reg.viewers))
}

// Snapshot returns a copy of what viewer currently sees on map id. An
// online viewer that was never drawn for sees a blank map.
func (reg *Registry) Snapshot(id int, viewer render.ViewerID) (*image.RGBA, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	m, ok := reg.maps[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMap, id)
	}
	if _, ok := reg.viewers[viewer]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownViewer, viewer)
	}
	c, ok := m.canvases[viewer]
	if !ok {
		return image.NewRGBA(render.MapBounds), nil
	}
	return c.Snapshot(), nil
}
