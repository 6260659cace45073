package config

import (
	"fmt"
	"log/slog"

	"mini-voxel/internal/instancing"
	"mini-voxel/internal/registry"
	"mini-voxel/internal/world"
)

// Scene is a generated world together with the registry its planes live in.
type Scene struct {
	World    *world.World
	Registry *registry.Registry
	// Placed is the number of blocks terrain generation placed.
	Placed int
}

// Release frees every plane buffer of the scene.
func (s *Scene) Release() {
	if s.Registry != nil {
		s.Registry.Release()
	}
}

// Build validates f, registers the default materials with alloc and
// generates the configured terrain: grass on top, dirt below. Chunks are left
// unloaded; loading is the caller's job.
func (f File) Build(alloc instancing.Allocator, log *slog.Logger) (*Scene, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	reg, err := registry.Default(alloc, f.Render.InitialCapacity, log)
	if err != nil {
		return nil, fmt.Errorf("register materials: %w", err)
	}
	w := world.New(f.WorldConfig(log), reg)
	placed, err := w.Generate(f.HeightSource(), f.TerrainArea(), world.TerrainOptions{
		Top:   reg.MustMaterial(registry.MaterialGrass),
		Fill:  reg.MustMaterial(registry.MaterialDirt),
		Depth: f.Terrain.Depth,
	})
	if err != nil {
		reg.Release()
		return nil, fmt.Errorf("generate terrain: %w", err)
	}
	return &Scene{World: w, Registry: reg, Placed: placed}, nil
}
