package world

import (
	"mini-voxel/internal/instancing"
)

// MaterialID identifies a material in the material table.
type MaterialID uint16

// MaterialNone is the zero MaterialID and never names a real material.
const MaterialNone MaterialID = 0

// MaterialTable resolves the instance buffer a material draws a face into.
// Several faces and materials may share a buffer.
type MaterialTable interface {
	FaceBuffer(m MaterialID, f Face) (*instancing.FaceBuffer, bool)
}

// Block is a single voxel. It belongs to the chunk its coordinate falls in
// for its whole life.
type Block struct {
	Coord    BlockCoord
	Material MaterialID

	chunk *Chunk
	// faces is the visible face set computed by the last cull.
	faces FaceSet
	// meshed is set while the block has face instances registered.
	meshed   bool
	rendered []renderedFace
}

type renderedFace struct {
	face Face
	buf  *instancing.FaceBuffer
}

// Faces returns the visible face set computed by the last cull.
func (b *Block) Faces() FaceSet { return b.faces }

// Meshed reports whether the block's faces are currently registered in
// instance buffers.
func (b *Block) Meshed() bool { return b.meshed }

// Chunk returns the chunk that owns b.
func (b *Block) Chunk() *Chunk { return b.chunk }

// RenderedFaces returns the faces currently registered in instance buffers.
func (b *Block) RenderedFaces() FaceSet {
	var s FaceSet
	for _, r := range b.rendered {
		s = s.With(r.face)
	}
	return s
}
