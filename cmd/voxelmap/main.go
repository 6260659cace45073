package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/xlab/closer"

	"mini-voxel/internal/config"
	"mini-voxel/internal/instancing"
	"mini-voxel/internal/preview"
	"mini-voxel/internal/profiling"
)

var (
	configPath  = flag.String("config", "", "configuration file (.yaml, .yml or .toml); defaults are used when empty")
	out         = flag.String("out", "map.png", "output PNG path")
	scale       = flag.Int("scale", 4, "pixels per column edge")
	shade       = flag.Bool("shade", true, "darken low columns")
	seed        = flag.Int64("seed", 0, "override terrain.seed when non-zero")
	mesh        = flag.Bool("mesh", true, "load every chunk and report face instance counts")
	writeConfig = flag.String("write-config", "", "write the effective configuration to this path and exit")
)

func main() {
	defer closer.Close()
	flag.Parse()

	conf := config.Default()
	if *configPath != "" {
		var err error
		if conf, err = config.Load(*configPath); err != nil {
			closer.Fatalln(err)
		}
	}
	if *seed != 0 {
		conf.Terrain.Seed = *seed
	}
	if err := conf.Validate(); err != nil {
		closer.Fatalln(err)
	}
	level, _ := conf.LogLevel()
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if *writeConfig != "" {
		closer.Checked(func() error { return conf.Save(*writeConfig) }, true)
		log.Info("configuration written", "path", *writeConfig)
		return
	}
	closer.Checked(func() error { return run(conf, log) }, true)
}

func run(conf config.File, log *slog.Logger) error {
	alloc := &instancing.MemoryAllocator{MaxInstances: conf.Render.MaxInstances}
	scene, err := conf.Build(alloc, log)
	if err != nil {
		return err
	}
	defer scene.Release()
	w := scene.World

	if *mesh {
		for _, c := range w.Index().Chunks() {
			if err := c.Load(); err != nil {
				return fmt.Errorf("load chunk %v: %w", c.Coord, err)
			}
		}
		st := w.Stats()
		log.Info("meshed",
			"chunks", st.LoadedChunks,
			"blocks", st.MeshedBlocks,
			"instances", scene.Registry.Live(),
			"allocated", alloc.Allocated())
		for _, p := range scene.Registry.Planes() {
			log.Debug("plane", "name", p.Name, "instances", p.Buffer.Len(), "capacity", p.Buffer.Buffer().Cap())
		}
	}

	hm := preview.Sample(w, conf.TerrainArea())
	img := hm.Image(scene.Registry, preview.Options{Scale: *scale, Shade: *shade})
	if lo, hi, ok := hm.Range(); ok {
		log.Info("surface", "min_y", lo, "max_y", hi, "size", img.Bounds().Size())
	}

	if err := writeAtomic(*out, func(f *os.File) error { return preview.WritePNG(f, img) }); err != nil {
		return err
	}
	log.Info("map written",
		"path", *out,
		"world", w.ID(),
		"digest", fmt.Sprintf("%016x", w.Digest()),
		"timings", profiling.TopN(5))
	return nil
}

// writeAtomic writes to a temporary file next to path and renames it into
// place. The temporary file is removed on failure or interrupt.
func writeAtomic(path string, write func(*os.File) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".voxelmap-*.png")
	if err != nil {
		return err
	}
	var renamed atomic.Bool
	cleanup := func() {
		if !renamed.Load() {
			_ = os.Remove(tmp.Name())
		}
	}
	closer.Bind(cleanup)
	defer cleanup()

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return err
	}
	renamed.Store(true)
	return nil
}
