package registry

import (
	"image/color"
	"log/slog"

	"mini-voxel/internal/instancing"
	"mini-voxel/internal/world"
)

// Names of the built in planes and materials.
const (
	PlaneGrassTop  = "grass_top"
	PlaneGrassSide = "grass_side"
	PlaneDirt      = "dirt"

	MaterialGrass = "grass"
	MaterialDirt  = "dirt"
)

var defaultPlanes = []struct {
	name  string
	color color.RGBA
}{
	{PlaneGrassTop, color.RGBA{R: 0x5b, G: 0x9e, B: 0x3a, A: 0xff}},
	{PlaneGrassSide, color.RGBA{R: 0x7a, G: 0x8a, B: 0x44, A: 0xff}},
	{PlaneDirt, color.RGBA{R: 0x86, G: 0x60, B: 0x43, A: 0xff}},
}

// Default creates a registry with grass and dirt. Grass draws grass_top on
// top, dirt on the bottom and grass_side around; dirt uses the dirt plane on
// every face.
func Default(alloc instancing.Allocator, initialCapacity int, log *slog.Logger) (*Registry, error) {
	r := NewRegistry(alloc, initialCapacity, log)
	ids := make(map[string]PlaneID, len(defaultPlanes))
	for _, p := range defaultPlanes {
		id, err := r.AddPlane(p.name, p.color)
		if err != nil {
			r.Release()
			return nil, err
		}
		ids[p.name] = id
	}
	if _, err := r.AddMaterial(MaterialGrass, Sided(ids[PlaneGrassTop], ids[PlaneDirt], ids[PlaneGrassSide])); err != nil {
		r.Release()
		return nil, err
	}
	if _, err := r.AddMaterial(MaterialDirt, Uniform(ids[PlaneDirt])); err != nil {
		r.Release()
		return nil, err
	}
	return r, nil
}

// MustMaterial returns the ID of a material registered under name, panicking
// if there is none. It is meant for the built in names.
func (r *Registry) MustMaterial(name string) world.MaterialID {
	m, ok := r.MaterialByName(name)
	if !ok {
		panic("registry: no material " + name)
	}
	return m.ID
}
