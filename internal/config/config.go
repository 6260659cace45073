package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	"mini-voxel/internal/world"
)

// File is the on-disk configuration. It may be written as YAML or TOML; the
// format is chosen by the file extension.
type File struct {
	World   World   `yaml:"world" toml:"world"`
	Render  Render  `yaml:"render" toml:"render"`
	Terrain Terrain `yaml:"terrain" toml:"terrain"`
	Log     Log     `yaml:"log" toml:"log"`
}

// World is the [world] section: chunk geometry and placement rules.
type World struct {
	ChunkSize       int     `yaml:"chunk_size" toml:"chunk_size"`
	BlockSize       float64 `yaml:"block_size" toml:"block_size"`
	PlacementPolicy string  `yaml:"placement_policy" toml:"placement_policy"`
}

// Render is the [render] section: streaming and instance buffer limits.
type Render struct {
	// RenderDistance is the streaming radius in chunks.
	RenderDistance int `yaml:"render_distance" toml:"render_distance"`
	// InitialCapacity is the starting instance capacity of every plane.
	InitialCapacity int `yaml:"initial_capacity" toml:"initial_capacity"`
	// BlockBudget caps the blocks meshed per tick; 0 disables the cap.
	BlockBudget int `yaml:"block_budget" toml:"block_budget"`
	// MaxInstances bounds the instances across all planes; 0 is unbounded.
	MaxInstances int `yaml:"max_instances" toml:"max_instances"`
}

// Terrain is the [terrain] section: the height generator and generated area.
type Terrain struct {
	// Generator is "noise" or "flat".
	Generator   string  `yaml:"generator" toml:"generator"`
	Seed        int64   `yaml:"seed" toml:"seed"`
	Scale       float64 `yaml:"scale" toml:"scale"`
	Amplitude   float64 `yaml:"amplitude" toml:"amplitude"`
	BaseHeight  int     `yaml:"base_height" toml:"base_height"`
	Octaves     int     `yaml:"octaves" toml:"octaves"`
	Persistence float64 `yaml:"persistence" toml:"persistence"`
	Lacunarity  float64 `yaml:"lacunarity" toml:"lacunarity"`
	// Depth is the number of fill blocks under each surface block.
	Depth int `yaml:"depth" toml:"depth"`
	// Radius is the generated area in chunks around the origin.
	Radius int `yaml:"radius" toml:"radius"`
}

// Log is the [log] section.
type Log struct {
	Level string `yaml:"level" toml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() File {
	return File{
		World: World{
			ChunkSize:       16,
			BlockSize:       1,
			PlacementPolicy: world.PolicyReplace.String(),
		},
		Render: Render{
			RenderDistance:  8,
			InitialCapacity: 1024,
			BlockBudget:     4096,
		},
		Terrain: Terrain{
			Generator:   "noise",
			Seed:        1,
			Scale:       1.0 / 100.0,
			Amplitude:   10,
			Octaves:     4,
			Persistence: 0.5,
			Lacunarity:  2,
			Depth:       2,
			Radius:      8,
		},
		Log: Log{Level: "info"},
	}
}

// Load reads a YAML (.yaml, .yml) or TOML (.toml) file on top of Default, so
// keys missing from the file keep their default value. Unknown keys are an
// error. The result is validated.
func Load(path string) (File, error) {
	f := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return f, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err = dec.Decode(&f); errors.Is(err, io.EOF) {
			err = nil
		}
	case ".toml":
		err = toml.NewDecoder(bytes.NewReader(raw)).Strict(true).Decode(&f)
	default:
		return f, fmt.Errorf("config %s: unsupported extension %q", path, ext)
	}
	if err != nil {
		return f, fmt.Errorf("config %s: %w", path, err)
	}
	if err := f.Validate(); err != nil {
		return f, fmt.Errorf("config %s: %w", path, err)
	}
	return f, nil
}

// Save writes f to path in the format named by its extension.
func (f File) Save(path string) error {
	var (
		raw []byte
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		raw, err = yaml.Marshal(f)
	case ".toml":
		raw, err = toml.Marshal(f)
	default:
		return fmt.Errorf("config %s: unsupported extension %q", path, ext)
	}
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, raw, 0o644)
}

// Validate reports every invalid field.
func (f File) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}
	check(f.World.ChunkSize > 0 && f.World.ChunkSize <= 256, "world.chunk_size %d not in [1,256]", f.World.ChunkSize)
	check(f.World.BlockSize > 0, "world.block_size %v must be positive", f.World.BlockSize)
	if _, err := world.ParsePlacementPolicy(f.World.PlacementPolicy); err != nil {
		errs = append(errs, fmt.Errorf("world.placement_policy: %w", err))
	}

	check(f.Render.RenderDistance >= MinRenderDistance && f.Render.RenderDistance <= MaxRenderDistance,
		"render.render_distance %d not in [%d,%d]", f.Render.RenderDistance, MinRenderDistance, MaxRenderDistance)
	check(f.Render.InitialCapacity > 0, "render.initial_capacity %d must be positive", f.Render.InitialCapacity)
	check(f.Render.BlockBudget >= 0, "render.block_budget %d must not be negative", f.Render.BlockBudget)
	check(f.Render.MaxInstances >= 0, "render.max_instances %d must not be negative", f.Render.MaxInstances)

	check(f.Terrain.Generator == "noise" || f.Terrain.Generator == "flat", "terrain.generator %q is not noise or flat", f.Terrain.Generator)
	check(f.Terrain.Scale > 0, "terrain.scale %v must be positive", f.Terrain.Scale)
	check(f.Terrain.Octaves >= 1 && f.Terrain.Octaves <= 16, "terrain.octaves %d not in [1,16]", f.Terrain.Octaves)
	check(f.Terrain.Persistence > 0 && f.Terrain.Persistence <= 1, "terrain.persistence %v not in (0,1]", f.Terrain.Persistence)
	check(f.Terrain.Lacunarity >= 1, "terrain.lacunarity %v must be at least 1", f.Terrain.Lacunarity)
	check(f.Terrain.Depth >= 0, "terrain.depth %d must not be negative", f.Terrain.Depth)
	check(f.Terrain.Radius >= 0, "terrain.radius %d must not be negative", f.Terrain.Radius)

	if _, err := f.LogLevel(); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	return errors.Join(errs...)
}

// LogLevel parses Log.Level as a slog level name.
func (f File) LogLevel() (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(f.Log.Level))
	return l, err
}

// WorldConfig returns the world options described by f.
func (f File) WorldConfig(log *slog.Logger) world.Config {
	policy, _ := world.ParsePlacementPolicy(f.World.PlacementPolicy)
	return world.Config{
		ChunkSize: f.World.ChunkSize,
		BlockSize: float32(f.World.BlockSize),
		Policy:    policy,
		Log:       log,
	}
}

// HeightSource returns the terrain generator described by f.
func (f File) HeightSource() world.HeightSource {
	if f.Terrain.Generator == "flat" {
		return world.NewFlatGenerator(f.Terrain.BaseHeight)
	}
	return world.NewNoiseGenerator(world.NoiseParams{
		Seed:        f.Terrain.Seed,
		Scale:       f.Terrain.Scale,
		BaseHeight:  f.Terrain.BaseHeight,
		Amplitude:   f.Terrain.Amplitude,
		Octaves:     f.Terrain.Octaves,
		Persistence: f.Terrain.Persistence,
		Lacunarity:  f.Terrain.Lacunarity,
	})
}

// TerrainArea returns the columns to generate.
func (f File) TerrainArea() world.Area {
	return world.ChunkArea(f.Terrain.Radius, f.World.ChunkSize)
}
