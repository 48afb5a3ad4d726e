package wm

import (
	"sort"
	"sync"

	"github.com/GriffinCanCode/AgentDesk/internal/shared/types"
)

// baselineZ is the z-index every non-front window is normalized to.
// Focused windows are assigned from a monotonic counter above it.
const (
	baselineZ = 10
	initialZ  = 100
)

// Store owns all window records. Every accessor returns copies; callers
// hold only IDs.
type Store struct {
	mu      sync.RWMutex
	windows map[string]*types.Window
	nextZ   int
	// cascade counts windows ever created, driving the cascade offset.
	cascade int
}

// NewStore creates an empty window store.
func NewStore() *Store {
	return &Store{
		windows: make(map[string]*types.Window),
		nextZ:   initialZ,
	}
}

// Insert registers a window and raises it to the front.
func (s *Store) Insert(w types.Window) types.Window {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cascade++
	s.raise(&w)
	s.windows[w.ID] = &w
	return w
}

// Get returns a copy of the window.
func (s *Store) Get(id string) (types.Window, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.windows[id]
	if !ok {
		return types.Window{}, false
	}
	return *w, true
}

// Remove deletes a window and returns its last state. Removing an unknown
// ID is a miss, not an error.
func (s *Store) Remove(id string) (types.Window, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[id]
	if !ok {
		return types.Window{}, false
	}
	delete(s.windows, id)
	return *w, true
}

// Raise makes the window front-most: it takes the next monotonic z-index
// and every other window is normalized to the baseline.
func (s *Store) Raise(id string) (types.Window, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[id]
	if !ok {
		return types.Window{}, false
	}
	s.raise(w)
	return *w, true
}

func (s *Store) raise(w *types.Window) {
	for _, other := range s.windows {
		if other.ID != w.ID {
			other.ZIndex = baselineZ
		}
	}
	w.ZIndex = s.nextZ
	s.nextZ++
}

// Update applies fn to the window under the store lock and returns the
// updated copy.
func (s *Store) Update(id string, fn func(*types.Window)) (types.Window, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[id]
	if !ok {
		return types.Window{}, false
	}
	fn(w)
	return *w, true
}

// List returns copies of all windows ordered by z-index ascending, so the
// front window comes last.
func (s *Store) List() []types.Window {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Window, 0, len(s.windows))
	for _, w := range s.windows {
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ZIndex != out[j].ZIndex {
			return out[i].ZIndex < out[j].ZIndex
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// IDs returns a snapshot of all window IDs. Used by close-all so removal
// during iteration cannot corrupt the walk.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.windows))
	for id := range s.windows {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Front returns the window with the highest z-index.
func (s *Store) Front() (types.Window, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.front()
}

func (s *Store) front() (types.Window, bool) {
	var best *types.Window
	for _, w := range s.windows {
		if best == nil || w.ZIndex > best.ZIndex {
			best = w
		}
	}
	if best == nil {
		return types.Window{}, false
	}
	return *best, true
}

// FrontOf returns the front-most window owned by the given app.
func (s *Store) FrontOf(appID string) (types.Window, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best *types.Window
	for _, w := range s.windows {
		if w.AppID != appID {
			continue
		}
		if best == nil || w.ZIndex > best.ZIndex {
			best = w
		}
	}
	if best == nil {
		return types.Window{}, false
	}
	return *best, true
}

// Len returns the number of open windows.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.windows)
}

// CascadeCount returns how many windows have ever been inserted.
func (s *Store) CascadeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cascade
}

// Stats summarizes the store for health reporting.
func (s *Store) Stats() types.WindowStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := types.WindowStats{Open: len(s.windows)}
	for _, w := range s.windows {
		if w.Minimized {
			stats.Minimized++
		}
	}
	if front, ok := s.front(); ok {
		id := front.ID
		stats.FrontID = &id
	}
	return stats
}
