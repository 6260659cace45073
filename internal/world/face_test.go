package world

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestFaceIndexAndOffset(t *testing.T) {
	for i, f := range Faces {
		if f.Index() != i {
			t.Errorf("%v: Index %d, want %d", f, f.Index(), i)
		}
		d := f.Offset()
		if abs(d[0])+abs(d[1])+abs(d[2]) != 1 {
			t.Errorf("%v: offset %v is not a unit step", f, d)
		}
	}
	if FaceNorth.Offset() != [3]int{0, 0, -1} || FaceSouth.Offset() != [3]int{0, 0, 1} {
		t.Error("north must be -Z and south +Z")
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestFaceSet(t *testing.T) {
	var s FaceSet
	s = s.With(FaceTop).With(FaceWest)
	if !s.Has(FaceTop) || !s.Has(FaceWest) || s.Has(FaceEast) {
		t.Errorf("unexpected membership in %v", s)
	}
	if s.Len() != 2 {
		t.Errorf("Len = %d, want 2", s.Len())
	}
	if s.Without(FaceTop) != FaceSet(FaceWest) {
		t.Errorf("Without gave %v", s.Without(FaceTop))
	}
	if AllFaces.Len() != FaceCount {
		t.Errorf("AllFaces has %d members", AllFaces.Len())
	}
	if got := s.String(); got != "{top,west}" {
		t.Errorf("String = %q", got)
	}
}

func TestFaceTransformOrientation(t *testing.T) {
	const size = 2
	c := BlockCoord{X: 3, Y: -1, Z: 5}
	center := mgl32.Vec3{3 * size, -1 * size, 5 * size}
	for _, f := range Faces {
		m := FaceTransform(c, f, size)
		d := f.Offset()
		want := mgl32.Vec3{float32(d[0]), float32(d[1]), float32(d[2])}

		normal := m.Mul4x1(mgl32.Vec4{0, 0, 1, 0}).Vec3().Normalize()
		if !normal.ApproxEqualThreshold(want, 1e-5) {
			t.Errorf("%v: normal %v, want %v", f, normal, want)
		}
		pos := m.Col(3).Vec3()
		if !pos.ApproxEqualThreshold(center.Add(want.Mul(size/2)), 1e-5) {
			t.Errorf("%v: position %v", f, pos)
		}
		if edge := m.Mul4x1(mgl32.Vec4{1, 0, 0, 0}).Vec3().Len(); edge < size-1e-4 || edge > size+1e-4 {
			t.Errorf("%v: edge length %v, want %v", f, edge, size)
		}
	}
}
