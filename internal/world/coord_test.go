package world

import "testing"

func TestFloorDivMod(t *testing.T) {
	tests := []struct {
		a, b, div, mod int
	}{
		{0, 16, 0, 0},
		{15, 16, 0, 15},
		{16, 16, 1, 0},
		{-1, 16, -1, 15},
		{-16, 16, -1, 0},
		{-17, 16, -2, 15},
		{33, 16, 2, 1},
	}
	for _, tt := range tests {
		if got := FloorDiv(tt.a, tt.b); got != tt.div {
			t.Errorf("FloorDiv(%d,%d) = %d, want %d", tt.a, tt.b, got, tt.div)
		}
		if got := Mod(tt.a, tt.b); got != tt.mod {
			t.Errorf("Mod(%d,%d) = %d, want %d", tt.a, tt.b, got, tt.mod)
		}
	}
	if got := FloorDiv[int8](-3, 2); got != -2 {
		t.Errorf("FloorDiv[int8](-3,2) = %d, want -2", got)
	}
}

func TestChunkRelativeRoundTrip(t *testing.T) {
	const size = 16
	for x := -40; x <= 40; x += 3 {
		for _, y := range []int{-33, -16, -1, 0, 1, 31} {
			c := BlockCoord{X: x, Y: y, Z: -x}
			cc := c.Chunk(size)
			rx, ry, rz := c.Relative(size)
			for _, r := range []int{rx, ry, rz} {
				if r < 0 || r >= size {
					t.Fatalf("%v: relative %d outside [0,%d)", c, r, size)
				}
			}
			o := cc.Origin(size)
			if back := o.Add(rx, ry, rz); back != c {
				t.Fatalf("%v: round trip gave %v", c, back)
			}
		}
	}
}

func TestFaceKeyUnique(t *testing.T) {
	seen := make(map[int64]string)
	coords := []BlockCoord{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {-1, -1, -1},
		{MinCoord, MinCoord, MinCoord}, {MaxCoord, MaxCoord, MaxCoord},
		{MaxCoord, 0, MinCoord},
	}
	for _, c := range coords {
		for _, f := range Faces {
			k := faceKey(c, f)
			if k < 0 {
				t.Fatalf("negative key for %v %v", c, f)
			}
			id := c.String() + f.String()
			if prev, ok := seen[k]; ok {
				t.Fatalf("key collision between %s and %s", prev, id)
			}
			seen[k] = id
		}
	}
}

func TestInRange(t *testing.T) {
	if !(BlockCoord{X: MaxCoord, Y: MinCoord}).InRange() {
		t.Error("bounds should be in range")
	}
	if (BlockCoord{X: MaxCoord + 1}).InRange() || (BlockCoord{Z: MinCoord - 1}).InRange() {
		t.Error("outside bounds reported in range")
	}
}
