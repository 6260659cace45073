package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/xlab/closer"

	"mini-voxel/internal/config"
	"mini-voxel/internal/game"
)

func init() {
	// GLFW event handling must run on the main OS thread.
	runtime.LockOSThread()
}

var (
	configPath     = flag.String("config", "", "configuration file (.yaml, .yml or .toml); defaults are used when empty")
	fpsLimit       = flag.Int("fps", 144, "frame rate cap, 0 for unlimited")
	renderDistance = flag.Int("render-distance", 0, "override render.render_distance when positive")
	seed           = flag.Int64("seed", 0, "override terrain.seed when non-zero")
)

func main() {
	defer closer.Close()
	flag.Parse()

	conf, err := loadConfig()
	if err != nil {
		closer.Fatalln(err)
	}
	level, _ := conf.LogLevel()
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	closer.Checked(func() error { return run(conf, log) }, true)
}

func loadConfig() (config.File, error) {
	conf := config.Default()
	if *configPath != "" {
		var err error
		if conf, err = config.Load(*configPath); err != nil {
			return conf, err
		}
	}
	if *renderDistance > 0 {
		conf.Render.RenderDistance = *renderDistance
	}
	if *seed != 0 {
		conf.Terrain.Seed = *seed
	}
	return conf, conf.Validate()
}

func run(conf config.File, log *slog.Logger) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("init glfw: %w", err)
	}
	defer glfw.Terminate()

	window, err := game.SetupWindow(900, 600, "mini-voxel")
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer window.Destroy()

	// done is closed before the window is destroyed.
	done := make(chan struct{})
	defer close(done)

	app, err := game.NewApp(window, conf, *fpsLimit, log)
	if err != nil {
		return err
	}
	defer app.Close()

	// On SIGINT or SIGTERM let the frame loop finish so GL teardown stays on
	// this thread.
	closer.Bind(func() {
		select {
		case <-done:
			return
		default:
		}
		window.SetShouldClose(true)
		<-done
	})

	app.Run()
	return nil
}
