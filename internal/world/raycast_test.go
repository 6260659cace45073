package world_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"mini-voxel/internal/world"
)

func TestRaycast(t *testing.T) {
	e := newEnv(t, world.PolicyReplace)
	target := e.place(t, world.BlockCoord{X: 5}, e.dirt)
	e.load(t, world.ChunkCoord{})

	hit, ok := e.w.Raycast(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, world.MinReachDistance, 10)
	if !ok {
		t.Fatal("expected a hit")
	}
	if hit.Block != target {
		t.Errorf("hit %v, want %v", hit.Block.Coord, target.Coord)
	}
	if hit.Adjacent != (world.BlockCoord{X: 4}) {
		t.Errorf("adjacent %v, want (4,0,0)", hit.Adjacent)
	}
	// The block's -X face is at x = 4.5.
	if hit.Distance < 4.47 || hit.Distance > 4.53 {
		t.Errorf("distance %v, want 4.5", hit.Distance)
	}

	if _, ok := e.w.Raycast(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}, world.MinReachDistance, 4); ok {
		t.Error("hit beyond maxDist")
	}
	if _, ok := e.w.Raycast(mgl32.Vec3{}, mgl32.Vec3{-1, 0, 0}, world.MinReachDistance, 10); ok {
		t.Error("hit in the wrong direction")
	}
	if _, ok := e.w.Raycast(mgl32.Vec3{}, mgl32.Vec3{}, 0, 10); ok {
		t.Error("zero direction should never hit")
	}
}

func TestRaycastSkipsUnloadedChunks(t *testing.T) {
	e := newEnv(t, world.PolicyReplace)
	e.place(t, world.BlockCoord{X: 5}, e.dirt)
	if _, ok := e.w.Raycast(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}, 0, 10); ok {
		t.Error("hit a block of an unloaded chunk")
	}
}

func TestCellAt(t *testing.T) {
	e := newEnv(t, world.PolicyReplace)
	cases := []struct {
		p    mgl32.Vec3
		want world.BlockCoord
	}{
		{mgl32.Vec3{0, 0, 0}, world.BlockCoord{}},
		{mgl32.Vec3{0.49, -0.49, 0}, world.BlockCoord{}},
		{mgl32.Vec3{0.51, -0.51, 0}, world.BlockCoord{X: 1, Y: -1}},
		{mgl32.Vec3{-3.2, 7.7, 12}, world.BlockCoord{X: -3, Y: 8, Z: 12}},
	}
	for _, c := range cases {
		if got := e.w.CellAt(c.p); got != c.want {
			t.Errorf("CellAt(%v) = %v, want %v", c.p, got, c.want)
		}
	}
}

func TestRaycastAdjacentIsEmpty(t *testing.T) {
	e := newEnv(t, world.PolicyReplace)
	// (15,0,0) is in the unloaded chunk [0,0,0]; (16,0,0) in the loaded [1,0,0].
	e.place(t, world.BlockCoord{X: 15}, e.dirt)
	target := e.place(t, world.BlockCoord{X: 16}, e.dirt)
	e.load(t, world.ChunkCoord{X: 1})

	hit, ok := e.w.Raycast(mgl32.Vec3{10, 0, 0}, mgl32.Vec3{1, 0, 0}, 0, 10)
	if !ok || hit.Block != target {
		t.Fatalf("expected a hit on %v, got %+v %v", target.Coord, hit, ok)
	}
	if hit.Adjacent != (world.BlockCoord{X: 14}) {
		t.Errorf("adjacent %v, want (14,0,0)", hit.Adjacent)
	}
	if _, occupied := e.w.Block(hit.Adjacent); occupied {
		t.Error("adjacent cell holds a block")
	}
}
