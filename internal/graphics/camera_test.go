package graphics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestCameraDefaultsLookNorth(t *testing.T) {
	c := NewCamera(900, 600)
	if !c.Front().ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-5) {
		t.Errorf("front %v, want -Z", c.Front())
	}
	if !c.Right().ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, 1e-5) {
		t.Errorf("right %v, want +X", c.Right())
	}
	if c.AspectRatio != 1.5 {
		t.Errorf("aspect %v", c.AspectRatio)
	}
}

func TestCameraLookClampsPitch(t *testing.T) {
	c := NewCamera(100, 100)
	c.Look(0, -10000)
	if c.Pitch != 89 {
		t.Errorf("pitch %v, want 89", c.Pitch)
	}
	c.Look(900, 20000)
	if c.Pitch != -89 || c.Yaw != 0 {
		t.Errorf("yaw %v pitch %v", c.Yaw, c.Pitch)
	}
}

func TestCameraMove(t *testing.T) {
	c := NewCamera(100, 100)
	c.Pitch = 45
	c.Move(1, 0, 0, 0.5)
	want := mgl32.Vec3{0, 0, -c.Speed / 2}
	if !c.Position.ApproxEqualThreshold(want, 1e-4) {
		t.Errorf("forward move ended at %v, want %v", c.Position, want)
	}

	c.Position = mgl32.Vec3{}
	c.Move(1, 1, 0, 1)
	if got := c.Position.Len(); got < c.Speed-1e-3 || got > c.Speed+1e-3 {
		t.Errorf("diagonal move covered %v, want %v", got, c.Speed)
	}

	c.Position = mgl32.Vec3{}
	c.Move(0, 0, 0, 1)
	if c.Position != (mgl32.Vec3{}) {
		t.Error("zero input moved the camera")
	}
}

func TestCameraViewMatrix(t *testing.T) {
	c := NewCamera(100, 100)
	c.Position = mgl32.Vec3{3, 4, 5}
	eye := c.ViewMatrix().Mul4x1(c.Position.Vec4(1)).Vec3()
	if !eye.ApproxEqualThreshold(mgl32.Vec3{}, 1e-4) {
		t.Errorf("camera position maps to %v in view space", eye)
	}
	ahead := c.ViewMatrix().Mul4x1(c.Position.Add(c.Front()).Vec4(1)).Vec3()
	if !ahead.ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-4) {
		t.Errorf("front maps to %v, want view -Z", ahead)
	}
}
