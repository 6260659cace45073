package registry

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"

	"mini-voxel/internal/instancing"
	"mini-voxel/internal/world"
)

// ErrDuplicate is returned when a plane or material name is already taken.
var ErrDuplicate = errors.New("registry: duplicate name")

// PlaneID identifies a plane. The zero value is never assigned.
type PlaneID uint16

// Plane is a named face buffer drawn as one instanced quad mesh.
type Plane struct {
	ID     PlaneID
	Name   string
	Color  color.RGBA
	Buffer *instancing.FaceBuffer
}

// Material maps each face of a block to the plane it is drawn with.
type Material struct {
	ID    world.MaterialID
	Name  string
	Faces [world.FaceCount]PlaneID
}

// Registry owns the planes and materials of a session. It implements
// world.MaterialTable.
type Registry struct {
	alloc    instancing.Allocator
	capacity int
	log      *slog.Logger

	// planes[i] has ID i+1, materials likewise.
	planes     []*Plane
	planeNames map[string]PlaneID
	materials  []*Material
	matNames   map[string]world.MaterialID
}

// NewRegistry creates an empty registry whose planes allocate storage from
// alloc, starting at initialCapacity instances. A nil log means slog.Default().
func NewRegistry(alloc instancing.Allocator, initialCapacity int, log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{
		alloc:      alloc,
		capacity:   initialCapacity,
		log:        log,
		planeNames: make(map[string]PlaneID),
		matNames:   make(map[string]world.MaterialID),
	}
}

// AddPlane allocates a new face buffer under name.
func (r *Registry) AddPlane(name string, c color.RGBA) (PlaneID, error) {
	if _, ok := r.planeNames[name]; ok {
		return 0, fmt.Errorf("plane %q: %w", name, ErrDuplicate)
	}
	buf, err := instancing.NewFaceBuffer(r.alloc, instancing.Config{
		Name:     name,
		Capacity: r.capacity,
		Log:      r.log,
	})
	if err != nil {
		return 0, fmt.Errorf("plane %q: %w", name, err)
	}
	id := PlaneID(len(r.planes) + 1)
	r.planes = append(r.planes, &Plane{ID: id, Name: name, Color: c, Buffer: buf})
	r.planeNames[name] = id
	return id, nil
}

// AddMaterial registers a material drawing face f with faces[f.Index()].
func (r *Registry) AddMaterial(name string, faces [world.FaceCount]PlaneID) (world.MaterialID, error) {
	if _, ok := r.matNames[name]; ok {
		return world.MaterialNone, fmt.Errorf("material %q: %w", name, ErrDuplicate)
	}
	for i, p := range faces {
		if _, ok := r.Plane(p); !ok {
			return world.MaterialNone, fmt.Errorf("material %q face %v: unknown plane %d", name, world.Faces[i], p)
		}
	}
	id := world.MaterialID(len(r.materials) + 1)
	r.materials = append(r.materials, &Material{ID: id, Name: name, Faces: faces})
	r.matNames[name] = id
	return id, nil
}

// Uniform returns a face table that uses p on every face.
func Uniform(p PlaneID) [world.FaceCount]PlaneID {
	var faces [world.FaceCount]PlaneID
	for i := range faces {
		faces[i] = p
	}
	return faces
}

// Sided returns a face table with separate top, bottom and side planes.
func Sided(top, bottom, side PlaneID) [world.FaceCount]PlaneID {
	faces := Uniform(side)
	faces[world.FaceTop.Index()] = top
	faces[world.FaceBottom.Index()] = bottom
	return faces
}

// Material returns the material registered under id.
func (r *Registry) Material(id world.MaterialID) (*Material, bool) {
	if id == world.MaterialNone || int(id) > len(r.materials) {
		return nil, false
	}
	return r.materials[id-1], true
}

// MaterialByName returns the material registered under name.
func (r *Registry) MaterialByName(name string) (*Material, bool) {
	id, ok := r.matNames[name]
	if !ok {
		return nil, false
	}
	return r.materials[id-1], true
}

// Plane returns the plane registered under id.
func (r *Registry) Plane(id PlaneID) (*Plane, bool) {
	if id == 0 || int(id) > len(r.planes) {
		return nil, false
	}
	return r.planes[id-1], true
}

// PlaneByName returns the plane registered under name.
func (r *Registry) PlaneByName(name string) (*Plane, bool) {
	id, ok := r.planeNames[name]
	if !ok {
		return nil, false
	}
	return r.planes[id-1], true
}

// PlaneFor returns the plane material m draws face f with.
func (r *Registry) PlaneFor(m world.MaterialID, f world.Face) (*Plane, bool) {
	mat, ok := r.Material(m)
	if !ok {
		return nil, false
	}
	return r.Plane(mat.Faces[f.Index()])
}

// FaceBuffer implements world.MaterialTable.
func (r *Registry) FaceBuffer(m world.MaterialID, f world.Face) (*instancing.FaceBuffer, bool) {
	p, ok := r.PlaneFor(m, f)
	if !ok {
		return nil, false
	}
	return p.Buffer, true
}

// Planes returns every plane in registration order.
func (r *Registry) Planes() []*Plane {
	return append([]*Plane(nil), r.planes...)
}

// Materials returns every material in registration order.
func (r *Registry) Materials() []*Material {
	return append([]*Material(nil), r.materials...)
}

// Live returns the number of face instances drawn across all planes.
func (r *Registry) Live() int {
	n := 0
	for _, p := range r.planes {
		n += p.Buffer.Len()
	}
	return n
}

// Release frees the storage of every plane.
func (r *Registry) Release() {
	for _, p := range r.planes {
		p.Buffer.Release()
	}
}
