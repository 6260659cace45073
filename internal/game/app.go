package game

import (
	"log/slog"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"mini-voxel/internal/config"
	"mini-voxel/internal/input"
	"mini-voxel/internal/profiling"
)

// slowFrame is the processing time above which a frame is logged with its
// most expensive tasks.
const slowFrame = 16 * time.Millisecond

// App drives the viewer: it owns the window and runs one session.
type App struct {
	window  *glfw.Window
	input   *input.Manager
	session *Session
	log     *slog.Logger

	fpsLimiter *FPSLimiter
	lastTime   time.Time

	captured     bool
	firstMouse   bool
	lastX, lastY float64
}

// NewApp starts a session for conf in window and installs the window
// callbacks.
func NewApp(window *glfw.Window, conf config.File, fpsLimit int, log *slog.Logger) (*App, error) {
	width, height := window.GetFramebufferSize()
	session, err := NewSession(conf, width, height, log)
	if err != nil {
		return nil, err
	}

	a := &App{
		window:     window,
		input:      input.NewManager(),
		session:    session,
		log:        log,
		fpsLimiter: NewFPSLimiter(fpsLimit),
		lastTime:   time.Now(),
	}
	a.input.Attach(window)
	window.SetCursorPosCallback(a.handleCursor)
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		a.session.SetViewport(w, h)
	})
	a.setCaptured(true)
	return a, nil
}

// Run ticks until the window is asked to close.
func (a *App) Run() {
	for !a.window.ShouldClose() {
		a.tick()
	}
}

func (a *App) tick() {
	profiling.ResetFrame()
	startTick := time.Now()
	dt := startTick.Sub(a.lastTime).Seconds()
	a.lastTime = startTick

	glfw.PollEvents()
	a.handleInput(dt)

	a.session.Stream()
	a.session.Render(dt)
	a.window.SwapBuffers()

	if d := time.Since(startTick); d > slowFrame {
		a.log.Debug("slow frame", "took", d, "top", profiling.TopN(5))
	}

	a.input.PostUpdate()
	a.fpsLimiter.Wait()
}

// Close ends the session. The window is left to the caller.
func (a *App) Close() {
	if a.session != nil {
		a.session.Cleanup()
		a.session = nil
	}
}
