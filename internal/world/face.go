package world

import (
	"math"
	"math/bits"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Face identifies one of the six axis aligned sides of a block. Values are
// bit flags so a set of faces fits in a FaceSet.
type Face uint8

const (
	FaceTop Face = 1 << iota
	FaceBottom
	FaceNorth
	FaceEast
	FaceSouth
	FaceWest
)

// FaceCount is the number of faces of a block.
const FaceCount = 6

// Faces lists every face in Index order.
var Faces = [FaceCount]Face{FaceTop, FaceBottom, FaceNorth, FaceEast, FaceSouth, FaceWest}

// Index returns the ordinal of f in Faces.
func (f Face) Index() int {
	return bits.TrailingZeros8(uint8(f))
}

// Offset returns the unit step from a block to its neighbor across f.
// North is -Z, south is +Z.
func (f Face) Offset() [3]int {
	switch f {
	case FaceTop:
		return [3]int{0, 1, 0}
	case FaceBottom:
		return [3]int{0, -1, 0}
	case FaceNorth:
		return [3]int{0, 0, -1}
	case FaceEast:
		return [3]int{1, 0, 0}
	case FaceSouth:
		return [3]int{0, 0, 1}
	case FaceWest:
		return [3]int{-1, 0, 0}
	}
	return [3]int{}
}

func (f Face) String() string {
	switch f {
	case FaceTop:
		return "top"
	case FaceBottom:
		return "bottom"
	case FaceNorth:
		return "north"
	case FaceEast:
		return "east"
	case FaceSouth:
		return "south"
	case FaceWest:
		return "west"
	}
	return "invalid"
}

// FaceSet is a set of faces.
type FaceSet uint8

// AllFaces contains every face.
const AllFaces FaceSet = 1<<FaceCount - 1

func (s FaceSet) Has(f Face) bool        { return s&FaceSet(f) != 0 }
func (s FaceSet) With(f Face) FaceSet    { return s | FaceSet(f) }
func (s FaceSet) Without(f Face) FaceSet { return s &^ FaceSet(f) }
func (s FaceSet) Len() int               { return bits.OnesCount8(uint8(s)) }

func (s FaceSet) String() string {
	var parts []string
	for _, f := range Faces {
		if s.Has(f) {
			parts = append(parts, f.String())
		}
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// faceRotations turn a unit quad facing +Z (south) toward each face normal.
var faceRotations = [FaceCount]mgl32.Mat4{
	mgl32.HomogRotate3DX(math.Pi * 1.5), // top
	mgl32.HomogRotate3DX(math.Pi / 2),   // bottom
	mgl32.HomogRotate3DY(math.Pi),       // north
	mgl32.HomogRotate3DY(math.Pi / 2),   // east
	mgl32.Ident4(),                      // south
	mgl32.HomogRotate3DY(math.Pi * 1.5), // west
}

// FaceTransform returns the instance transform of face f of the block at c:
// a quad of edge blockSize centered half a block out from the block center
// along the face normal.
func FaceTransform(c BlockCoord, f Face, blockSize float32) mgl32.Mat4 {
	d := f.Offset()
	half := blockSize / 2
	pos := mgl32.Vec3{
		float32(c.X)*blockSize + float32(d[0])*half,
		float32(c.Y)*blockSize + float32(d[1])*half,
		float32(c.Z)*blockSize + float32(d[2])*half,
	}
	return mgl32.Translate3D(pos[0], pos[1], pos[2]).
		Mul4(faceRotations[f.Index()]).
		Mul4(mgl32.Scale3D(blockSize, blockSize, blockSize))
}
