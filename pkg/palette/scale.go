package palette

import (
	"sync"
	"time"
)

// Scale assigns colors from one scheme's cycle to series names. The first
// name seen gets the first color, the second the next, wrapping around the
// cycle; a name keeps its color for the life of the scale. Safe for
// concurrent use.
type Scale struct {
	mu       sync.Mutex
	colors   []string
	assigned map[string]string
}

// NewScale builds a standalone scale over the named scheme. Most callers
// want GetScale instead, which shares scales per chart instance.
func NewScale(scheme string) *Scale {
	return &Scale{
		colors:   Colors(scheme),
		assigned: make(map[string]string),
	}
}

// Color returns the color for name, assigning the next cycle color on
// first sight.
func (s *Scale) Color(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.assigned[name]; ok {
		return c
	}
	c := s.colors[len(s.assigned)%len(s.colors)]
	s.assigned[name] = c
	return c
}

// Assignments returns a copy of the current name→color mapping.
func (s *Scale) Assignments() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.assigned))
	for k, v := range s.assigned {
		out[k] = v
	}
	return out
}

// scaleEntry tracks when a shared scale was last handed out so idle chart
// instances can be evicted.
type scaleEntry struct {
	scale    *Scale
	lastUsed time.Time
}

var registry = struct {
	sync.Mutex
	entries map[string]*scaleEntry
}{entries: make(map[string]*scaleEntry)}

// GetScale returns the shared scale for a (scheme, instance) pair,
// creating it on first use. Repeated transforms of the same chart instance
// therefore see identical name→color assignments, which is what keeps
// series colors stable across re-renders.
func GetScale(scheme, instance string) *Scale {
	key := scheme + "\x00" + instance

	registry.Lock()
	defer registry.Unlock()
	e, ok := registry.entries[key]
	if !ok {
		e = &scaleEntry{scale: NewScale(scheme)}
		registry.entries[key] = e
	}
	e.lastUsed = time.Now()
	return e.scale
}

// Purge drops shared scales idle for longer than maxIdle and reports how
// many were removed. Long-running servers call this periodically so
// abandoned chart instances do not accumulate.
func Purge(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	registry.Lock()
	defer registry.Unlock()
	removed := 0
	for key, e := range registry.entries {
		if e.lastUsed.Before(cutoff) {
			delete(registry.entries, key)
			removed++
		}
	}
	return removed
}
