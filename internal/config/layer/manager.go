package layer

import (
	"sort"
	"sync"
)

// Manager holds the layers backing a Config — defaults, user-settings,
// project, and environment — and merges them into the effective view
// Config.Get/Merged serve. The merge result is cached and invalidated
// whenever a layer is added, removed, or mutated directly.
type Manager struct {
	mu     sync.RWMutex
	layers []*Layer
	merged map[string]any
	dirty  bool
}

func NewManager() *Manager {
	return &Manager{dirty: true}
}

// AddLayer inserts layer, keeping the set sorted ascending by
// priority so Merge applies lowest-precedence layers first.
func (m *Manager) AddLayer(l *Layer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.layers = append(m.layers, l)
	sortByPriority(m.layers)
	m.dirty = true
}

// RemoveLayer drops the layer named name, reporting whether one was
// found.
func (m *Manager) RemoveLayer(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, l := range m.layers {
		if l.Name == name {
			m.layers = append(m.layers[:i], m.layers[i+1:]...)
			m.dirty = true
			return true
		}
	}
	return false
}

// GetLayer returns the layer named name, or nil.
func (m *Manager) GetLayer(name string) *Layer {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, l := range m.layers {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// Merge deep-merges every layer, lowest priority first, and returns a
// defensive copy. The result is cached until a layer is added,
// removed, or Invalidate is called.
func (m *Manager) Merge() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.dirty && m.merged != nil {
		return cloneMap(m.merged)
	}

	result := make(map[string]any)
	for _, l := range m.layers {
		result = DeepMerge(result, l.Data)
	}
	m.merged = result
	m.dirty = false

	return cloneMap(result)
}

// Invalidate forces the next Merge to recompute rather than serve the
// cache — used after a layer's Data map is mutated directly, since
// that bypasses AddLayer/RemoveLayer.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirty = true
}

func sortByPriority(layers []*Layer) {
	sort.Slice(layers, func(i, j int) bool {
		return layers[i].Priority < layers[j].Priority
	})
}
