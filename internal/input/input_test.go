package input

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func TestEdgesAndHold(t *testing.T) {
	m := NewManager()
	m.HandleKeyEvent(glfw.KeyF, glfw.Press)
	if !m.JustPressed(ActionToggleWireframe) || !m.IsActive(ActionToggleWireframe) {
		t.Fatal("press not recorded")
	}
	m.HandleKeyEvent(glfw.KeyF, glfw.Repeat)
	m.PostUpdate()
	if m.JustPressed(ActionToggleWireframe) {
		t.Error("edge survived PostUpdate")
	}
	if !m.IsActive(ActionToggleWireframe) {
		t.Error("repeat should keep the action held")
	}
	m.HandleKeyEvent(glfw.KeyF, glfw.Release)
	if !m.JustReleased(ActionToggleWireframe) || m.IsActive(ActionToggleWireframe) {
		t.Error("release not recorded")
	}
}

func TestAxis(t *testing.T) {
	m := NewManager()
	if m.Axis(ActionMoveForward, ActionMoveBackward) != 0 {
		t.Error("idle axis should be 0")
	}
	m.HandleKeyEvent(glfw.KeyW, glfw.Press)
	if m.Axis(ActionMoveForward, ActionMoveBackward) != 1 {
		t.Error("forward axis should be 1")
	}
	m.HandleKeyEvent(glfw.KeyS, glfw.Press)
	if m.Axis(ActionMoveForward, ActionMoveBackward) != 0 {
		t.Error("opposing keys should cancel")
	}
}

func TestUnbindKey(t *testing.T) {
	m := NewManager()
	m.UnbindKey(glfw.KeyQ)
	m.HandleKeyEvent(glfw.KeyQ, glfw.Press)
	if m.IsActive(ActionQuit) {
		t.Error("unbound key still triggers its action")
	}
	if m.IsActive(ActionCount) || m.JustPressed(-1) {
		t.Error("out of range actions must report false")
	}
}

func TestMouseButtons(t *testing.T) {
	m := NewManager()
	m.HandleMouseButtonEvent(glfw.MouseButtonLeft, glfw.Press)
	if !m.JustPressed(ActionBreak) {
		t.Fatal("left button should trigger ActionBreak")
	}
	if m.IsActive(ActionPlace) {
		t.Error("left button triggered ActionPlace")
	}
	m.PostUpdate()
	m.HandleMouseButtonEvent(glfw.MouseButtonLeft, glfw.Release)
	if !m.JustReleased(ActionBreak) || m.IsActive(ActionBreak) {
		t.Error("release not recorded")
	}
	m.HandleMouseButtonEvent(glfw.MouseButtonRight, glfw.Press)
	if !m.JustPressed(ActionPlace) {
		t.Error("right button should trigger ActionPlace")
	}
}
