package input

import (
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Action is a logical viewer action, not a physical key.
type Action int

const (
	ActionMoveForward Action = iota
	ActionMoveBackward
	ActionMoveLeft
	ActionMoveRight
	ActionMoveUp
	ActionMoveDown
	ActionFast
	ActionRenderDistanceUp
	ActionRenderDistanceDown
	ActionToggleWireframe
	ActionReleaseCursor
	ActionQuit
	ActionBreak
	ActionPlace
	ActionCount // sentinel for array sizing
)

// Manager maps keys to actions and tracks per-frame edges. Key events arrive
// from GLFW callbacks; queries come from the frame loop.
type Manager struct {
	mu sync.RWMutex

	keyToActions   map[glfw.Key][]Action
	mouseToActions map[glfw.MouseButton][]Action

	current      [ActionCount]bool
	justPressed  [ActionCount]bool
	justReleased [ActionCount]bool
}

// NewManager creates a Manager with the default fly camera bindings.
func NewManager() *Manager {
	m := &Manager{
		keyToActions:   make(map[glfw.Key][]Action),
		mouseToActions: make(map[glfw.MouseButton][]Action),
	}

	m.BindKey(glfw.KeyW, ActionMoveForward)
	m.BindKey(glfw.KeyS, ActionMoveBackward)
	m.BindKey(glfw.KeyA, ActionMoveLeft)
	m.BindKey(glfw.KeyD, ActionMoveRight)
	m.BindKey(glfw.KeyUp, ActionMoveForward)
	m.BindKey(glfw.KeyDown, ActionMoveBackward)
	m.BindKey(glfw.KeyLeft, ActionMoveLeft)
	m.BindKey(glfw.KeyRight, ActionMoveRight)
	m.BindKey(glfw.KeySpace, ActionMoveUp)
	m.BindKey(glfw.KeyLeftShift, ActionMoveDown)
	m.BindKey(glfw.KeyLeftControl, ActionFast)
	m.BindKey(glfw.KeyEqual, ActionRenderDistanceUp)
	m.BindKey(glfw.KeyKPAdd, ActionRenderDistanceUp)
	m.BindKey(glfw.KeyMinus, ActionRenderDistanceDown)
	m.BindKey(glfw.KeyKPSubtract, ActionRenderDistanceDown)
	m.BindKey(glfw.KeyF, ActionToggleWireframe)
	m.BindKey(glfw.KeyEscape, ActionReleaseCursor)
	m.BindKey(glfw.KeyQ, ActionQuit)
	m.BindMouse(glfw.MouseButtonLeft, ActionBreak)
	m.BindMouse(glfw.MouseButtonRight, ActionPlace)
	return m
}

// BindKey adds action to the actions triggered by key.
func (m *Manager) BindKey(key glfw.Key, action Action) {
	if action < 0 || action >= ActionCount {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keyToActions[key] = append(m.keyToActions[key], action)
}

// UnbindKey removes every action bound to key.
func (m *Manager) UnbindKey(key glfw.Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keyToActions, key)
}

// BindMouse adds action to the actions triggered by button.
func (m *Manager) BindMouse(button glfw.MouseButton, action Action) {
	if action < 0 || action >= ActionCount {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mouseToActions[button] = append(m.mouseToActions[button], action)
}

// HandleKeyEvent records a key event. Repeats count as held.
func (m *Manager) HandleKeyEvent(key glfw.Key, action glfw.Action) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apply(m.keyToActions[key], action == glfw.Press || action == glfw.Repeat)
}

// HandleMouseButtonEvent records a mouse button event.
func (m *Manager) HandleMouseButtonEvent(button glfw.MouseButton, action glfw.Action) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apply(m.mouseToActions[button], action == glfw.Press)
}

// apply must be called with mu held.
func (m *Manager) apply(actions []Action, pressed bool) {
	for _, act := range actions {
		if pressed && !m.current[act] {
			m.justPressed[act] = true
		}
		if !pressed && m.current[act] {
			m.justReleased[act] = true
		}
		m.current[act] = pressed
	}
}

// Attach installs the key and mouse button callbacks on window.
func (m *Manager) Attach(window *glfw.Window) {
	window.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		m.HandleKeyEvent(key, action)
	})
	window.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		m.HandleMouseButtonEvent(button, action)
	})
}

// PostUpdate clears the edge flags. Call it once at the end of every frame.
func (m *Manager) PostUpdate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.justPressed = [ActionCount]bool{}
	m.justReleased = [ActionCount]bool{}
}

// IsActive reports whether action is held.
func (m *Manager) IsActive(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current[action]
}

// JustPressed reports whether action was pressed during the current frame.
func (m *Manager) JustPressed(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.justPressed[action]
}

func (m *Manager) JustReleased(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.justReleased[action]
}

// Axis returns +1 when pos is held, -1 when neg is held, 0 for both or neither.
func (m *Manager) Axis(pos, neg Action) float32 {
	var v float32
	if m.IsActive(pos) {
		v++
	}
	if m.IsActive(neg) {
		v--
	}
	return v
}
