package config

import "sync"

// Render distance bounds in chunks.
const (
	MinRenderDistance = 1
	MaxRenderDistance = 64
)

// RenderSettings holds the render options that input handlers change while
// the viewer runs.
type RenderSettings struct {
	mu             sync.RWMutex
	renderDistance int // in chunks
	wireframe      bool
}

// NewRenderSettings creates settings starting at the given render distance.
func NewRenderSettings(distance int) *RenderSettings {
	s := &RenderSettings{}
	s.SetRenderDistance(distance)
	return s
}

// RenderDistance returns the current render distance in chunks.
func (s *RenderSettings) RenderDistance() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.renderDistance
}

// SetRenderDistance clamps distance to [MinRenderDistance, MaxRenderDistance],
// stores it and returns the stored value.
func (s *RenderSettings) SetRenderDistance(distance int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renderDistance = min(max(distance, MinRenderDistance), MaxRenderDistance)
	return s.renderDistance
}

// AdjustRenderDistance adds delta to the render distance.
func (s *RenderSettings) AdjustRenderDistance(delta int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renderDistance = min(max(s.renderDistance+delta, MinRenderDistance), MaxRenderDistance)
	return s.renderDistance
}

func (s *RenderSettings) Wireframe() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.wireframe
}

// ToggleWireframe flips wireframe mode and returns the new value.
func (s *RenderSettings) ToggleWireframe() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wireframe = !s.wireframe
	return s.wireframe
}
