package host

import (
	"slices"
	"sync"

	"github.com/rook-computer/mapcanvas/internal/render"
)

// Storage remembers which renderers belong to a map id so they can be
// re-attached when the map is initialised again.
type Storage interface {
	Store(mapID int, renderers ...render.Renderer)
	Remove(mapID int, renderers ...render.Renderer)
	Provide(mapID int) []render.Renderer
}

// MemoryStorage is a Storage that lives as long as the process.
type MemoryStorage struct {
	mu    sync.RWMutex
	byMap map[int][]render.Renderer
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{byMap: make(map[int][]render.Renderer)}
}

// Store appends renderers to the map's stored set, skipping ones already
// stored.
func (s *MemoryStorage) Store(mapID int, renderers ...render.Renderer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.byMap[mapID]
	for _, r := range renderers {
		if r != nil && !slices.Contains(stored, r) {
			stored = append(stored, r)
		}
	}
	s.byMap[mapID] = stored
}

// Remove drops renderers from the map's stored set. With no renderers it
// forgets the map entirely.
func (s *MemoryStorage) Remove(mapID int, renderers ...render.Renderer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(renderers) == 0 {
		delete(s.byMap, mapID)
		return
	}
	stored := slices.DeleteFunc(s.byMap[mapID], func(r render.Renderer) bool {
		return slices.Contains(renderers, r)
	})
	if len(stored) == 0 {
		delete(s.byMap, mapID)
		return
	}
	s.byMap[mapID] = stored
}

// Provide returns the stored renderers of a map in the order they were
// stored, or nil.
func (s *MemoryStorage) Provide(mapID int) []render.Renderer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.byMap[mapID])
}
