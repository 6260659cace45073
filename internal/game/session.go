package game

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"mini-voxel/internal/config"
	"mini-voxel/internal/graphics"
	"mini-voxel/internal/graphics/renderables/crosshair"
	"mini-voxel/internal/graphics/renderables/planes"
	"mini-voxel/internal/graphics/renderer"
	"mini-voxel/internal/instancing"
	"mini-voxel/internal/world"
)

// spawnClearance is how many blocks above the terrain the camera starts.
const spawnClearance = 3

// Session is a generated world being viewed: the scene, the streamer that
// keeps chunks around the camera loaded, and the renderer that draws them.
type Session struct {
	Scene    *config.Scene
	Streamer *world.ChunkStreamer
	Renderer *renderer.Renderer
	Camera   *graphics.Camera
	Settings *config.RenderSettings

	alloc *graphics.Allocator
	log   *slog.Logger

	// exhausted is set once streaming hit the instance budget, so the error
	// is logged once rather than every frame.
	exhausted bool

	frames    int
	lastStats time.Time
}

// NewSession generates the world described by conf and prepares it for
// drawing into a width x height framebuffer. It must run on the GL thread.
func NewSession(conf config.File, width, height int, log *slog.Logger) (*Session, error) {
	alloc := &graphics.Allocator{MaxInstances: conf.Render.MaxInstances}
	scene, err := conf.Build(alloc, log)
	if err != nil {
		return nil, err
	}

	cam := graphics.NewCamera(width, height)
	bs := float32(conf.World.BlockSize)
	ground := conf.HeightSource().HeightAt(0, 0)
	cam.Position = mgl32.Vec3{0, float32(ground+spawnClearance) * bs, 0}

	r, err := renderer.NewRenderer(cam,
		planes.NewPlanes(scene.Registry, log),
		crosshair.NewCrosshair(),
	)
	if err != nil {
		scene.Release()
		return nil, fmt.Errorf("init renderer: %w", err)
	}
	r.SetViewport(width, height)

	log.Info("session started",
		"world", scene.World.ID(),
		"blocks", scene.Placed,
		"render_distance", conf.Render.RenderDistance,
		"spawn", cam.Position)

	return &Session{
		Scene:     scene,
		Streamer:  world.NewChunkStreamer(scene.World, conf.Render.BlockBudget),
		Renderer:  r,
		Camera:    cam,
		Settings:  config.NewRenderSettings(conf.Render.RenderDistance),
		alloc:     alloc,
		log:       log,
		lastStats: time.Now(),
	}, nil
}

// Stream loads and unloads chunks around the camera. Running out of instance
// budget is not fatal: the chunk stays pending and is retried next tick.
func (s *Session) Stream() {
	st, err := s.Streamer.LoadNearby(s.Camera.Position, s.Settings.RenderDistance())
	switch {
	case errors.Is(err, instancing.ErrExhausted):
		if !s.exhausted {
			s.log.Error("instance budget exhausted", "allocated", s.alloc.Allocated(), "err", err)
			s.exhausted = true
		}
	case err != nil:
		s.log.Error("stream chunks", "err", err)
	default:
		s.exhausted = false
	}
	if !st.Skipped && (st.Loaded > 0 || st.Unloaded > 0) {
		s.log.Debug("chunks streamed", "loaded", st.Loaded, "unloaded", st.Unloaded, "pending", st.Pending)
	}
}

// Render draws one frame and reports world statistics about once a second.
func (s *Session) Render(dt float64) {
	s.Renderer.Render(dt, s.Settings.Wireframe())

	s.frames++
	if elapsed := time.Since(s.lastStats); elapsed >= time.Second {
		st := s.Scene.World.Stats()
		s.log.Info("stats",
			"fps", float64(s.frames)/elapsed.Seconds(),
			"chunks", st.LoadedChunks,
			"meshed", st.MeshedBlocks,
			"instances", s.Scene.Registry.Live(),
			"allocated", s.alloc.Allocated(),
			"position", s.Camera.Position)
		s.frames = 0
		s.lastStats = time.Now()
	}
}

// SetViewport follows a framebuffer resize.
func (s *Session) SetViewport(width, height int) {
	s.Renderer.SetViewport(width, height)
}

// Cleanup unloads every chunk and frees all GL resources.
func (s *Session) Cleanup() {
	s.Streamer.UnloadAll()
	s.Renderer.Dispose()
	s.Scene.Release()
	s.log.Info("session closed", "allocated", s.alloc.Allocated())
}
