package game

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"mini-voxel/internal/input"
	"mini-voxel/internal/registry"
	"mini-voxel/internal/world"
)

// fastMultiplier scales the camera speed while ActionFast is held.
const fastMultiplier = 4

// handleInput applies this frame's actions to the session and window.
func (a *App) handleInput(dt float64) {
	im := a.input
	s := a.session

	if im.JustPressed(input.ActionQuit) {
		a.window.SetShouldClose(true)
		return
	}
	if im.JustPressed(input.ActionReleaseCursor) {
		a.setCaptured(!a.captured)
	}
	if im.JustPressed(input.ActionToggleWireframe) {
		on := s.Settings.ToggleWireframe()
		a.log.Debug("wireframe", "on", on)
	}
	if im.JustPressed(input.ActionRenderDistanceUp) {
		a.log.Info("render distance", "chunks", s.Settings.AdjustRenderDistance(1))
	}
	if im.JustPressed(input.ActionRenderDistanceDown) {
		a.log.Info("render distance", "chunks", s.Settings.AdjustRenderDistance(-1))
	}

	if a.captured && (im.JustPressed(input.ActionBreak) || im.JustPressed(input.ActionPlace)) {
		a.interact(im.JustPressed(input.ActionBreak))
	}

	forward := im.Axis(input.ActionMoveForward, input.ActionMoveBackward)
	right := im.Axis(input.ActionMoveRight, input.ActionMoveLeft)
	up := im.Axis(input.ActionMoveUp, input.ActionMoveDown)
	if im.IsActive(input.ActionFast) {
		dt *= fastMultiplier
	}
	s.Camera.Move(forward, right, up, dt)
}

// handleCursor turns the camera while the cursor is captured. The first
// event after capture only records the position.
func (a *App) handleCursor(_ *glfw.Window, x, y float64) {
	if !a.captured {
		return
	}
	if a.firstMouse {
		a.lastX, a.lastY = x, y
		a.firstMouse = false
		return
	}
	a.session.Camera.Look(x-a.lastX, y-a.lastY)
	a.lastX, a.lastY = x, y
}

func (a *App) setCaptured(on bool) {
	a.captured = on
	a.firstMouse = true
	mode := glfw.CursorNormal
	if on {
		mode = glfw.CursorDisabled
	}
	a.window.SetInputMode(glfw.CursorMode, mode)
}

// interact removes the block under the crosshair, or places grass against
// the face it points at.
func (a *App) interact(remove bool) {
	s := a.session
	w := s.Scene.World
	reach := float32(world.MaxReachDistance) * w.BlockSize()
	hit, ok := w.Raycast(s.Camera.Position, s.Camera.Front(), world.MinReachDistance, reach)
	if !ok {
		return
	}
	if remove {
		w.Remove(hit.Block.Coord)
		a.log.Debug("block removed", "coord", hit.Block.Coord)
		return
	}
	if hit.Adjacent == hit.Block.Coord || hit.Adjacent == w.CellAt(s.Camera.Position) {
		return
	}
	grass := s.Scene.Registry.MustMaterial(registry.MaterialGrass)
	if _, err := w.Place(hit.Adjacent, grass); err != nil {
		a.log.Warn("place block", "coord", hit.Adjacent, "err", err)
		return
	}
	a.log.Debug("block placed", "coord", hit.Adjacent)
}
