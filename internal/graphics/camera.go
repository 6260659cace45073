package graphics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

var worldUp = mgl32.Vec3{0, 1, 0}

// Camera is a free flying camera. Yaw and Pitch are in degrees; a yaw of -90
// looks down -Z.
type Camera struct {
	Position mgl32.Vec3
	Yaw      float32
	Pitch    float32

	AspectRatio float32
	FOV         float32
	NearPlane   float32
	FarPlane    float32

	// Speed is in world units per second, Sensitivity in degrees per pixel.
	Speed       float32
	Sensitivity float32
}

func NewCamera(width, height int) *Camera {
	c := &Camera{
		Yaw:         -90,
		FOV:         60.0,
		NearPlane:   0.1,
		FarPlane:    1000.0,
		Speed:       12,
		Sensitivity: 0.1,
	}
	c.SetViewport(width, height)
	return c
}

// SetViewport updates the aspect ratio. Zero sized viewports are ignored.
func (c *Camera) SetViewport(width, height int) {
	if width > 0 && height > 0 {
		c.AspectRatio = float32(width) / float32(height)
	}
}

// Front returns the unit view direction.
func (c *Camera) Front() mgl32.Vec3 {
	yaw := float64(mgl32.DegToRad(c.Yaw))
	pitch := float64(mgl32.DegToRad(c.Pitch))
	return mgl32.Vec3{
		float32(math.Cos(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
		float32(math.Sin(yaw) * math.Cos(pitch)),
	}.Normalize()
}

// Right returns the unit vector to the right of the view direction.
func (c *Camera) Right() mgl32.Vec3 {
	return c.Front().Cross(worldUp).Normalize()
}

// Look turns the camera by a cursor delta in pixels. Pitch stays within ±89°.
func (c *Camera) Look(dx, dy float64) {
	c.Yaw += float32(dx) * c.Sensitivity
	c.Pitch -= float32(dy) * c.Sensitivity
	c.Pitch = mgl32.Clamp(c.Pitch, -89, 89)
}

// Move translates the camera. forward, right and up are axis inputs in
// [-1,1]; the combined direction is normalized so diagonals are not faster.
func (c *Camera) Move(forward, right, up float32, dt float64) {
	front := c.Front()
	flat := mgl32.Vec3{front[0], 0, front[2]}
	if flat.Len() > 1e-6 {
		flat = flat.Normalize()
	}
	dir := flat.Mul(forward).Add(c.Right().Mul(right)).Add(worldUp.Mul(up))
	if dir.Len() < 1e-6 {
		return
	}
	c.Position = c.Position.Add(dir.Normalize().Mul(c.Speed * float32(dt)))
}

func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Front()), worldUp)
}

func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}
