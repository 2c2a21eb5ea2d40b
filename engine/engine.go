package engine

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/seabiscuit-iv/meshview/engine/camera"
	"github.com/seabiscuit-iv/meshview/engine/frame"
	"github.com/seabiscuit-iv/meshview/engine/gpu"
	"github.com/seabiscuit-iv/meshview/engine/profiler"
	"github.com/seabiscuit-iv/meshview/engine/renderer/pipeline"
	"github.com/seabiscuit-iv/meshview/engine/renderer/shader"
)

// Window is the part of window.Window the engine drives.
type Window interface {
	SetUpdateCallback(callback func())
	SetResizeCallback(callback func(width, height int))
	ProcessMessages()
	SwapBuffers()
	RequestClose()
	SetTitle(title string)
	Width() int
	Height() int
}

// Reloader builds a replacement pipeline from the current shader sources.
type Reloader func() (pipeline.ShaderPipeline, error)

// engine implements the Engine interface.
// Runs the render loop on the window's thread and the shader watcher in its own goroutine.
type engine struct {
	running atomic.Bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window      Window
	ctx         gpu.Context
	camera      camera.Camera
	coordinator frame.Coordinator

	reloader        Reloader
	watcher         shader.Watcher
	reloadRequested atomic.Bool

	profiler         *profiler.Profiler
	profilingEnabled atomic.Bool

	renderCallback   func(deltaTime float32)
	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	lastRender       time.Time
	clearColor       [4]float32

	statusTitle string // base title for the live readout; "" = off
	lastTitle   string
}

// Engine is the main entry point of the viewer.
// It owns the render loop: poll window events, run one frame through the
// coordinator, present, repeat until the window closes.
type Engine interface {
	// Window returns the window the engine renders into.
	//
	// Returns:
	//   - Window: the window instance
	Window() Window

	// Coordinator returns the per-frame coordinator.
	//
	// Returns:
	//   - frame.Coordinator: the coordinator ticked each frame
	Coordinator() frame.Coordinator

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetRenderCallback registers a function called after each frame was painted,
	// before the buffers are swapped.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// RequestReload asks the render loop to rebuild the shader pipeline before
	// the next frame. Safe to call from any goroutine.
	RequestReload()

	// Run starts the render loop on the calling goroutine (blocks until the window closes).
	// Must be called from the thread that owns the GL context.
	Run()

	// Quit stops the render loop and the watcher goroutine.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// A window, GPU context and coordinator are required to Run.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		quitChannel: make(chan struct{}),
		profiler:    profiler.NewProfiler(),
		clearColor:  [4]float32{0.1, 0.1, 0.1, 1},
	}

	for _, opt := range options {
		opt(e)
	}

	if e.window != nil {
		e.window.SetResizeCallback(e.resize)
	}

	return e
}

func (e *engine) Window() Window {
	return e.window
}

func (e *engine) Coordinator() frame.Coordinator {
	return e.coordinator
}

func (e *engine) Run() {
	e.running.Store(true)
	if e.watcher != nil {
		e.wg.Add(1)
		go e.handleWatch()
	}

	if w, h := e.window.Width(), e.window.Height(); w > 0 && h > 0 {
		e.resize(w, h)
	}
	e.ctx.ClearColor(e.clearColor[0], e.clearColor[1], e.clearColor[2], e.clearColor[3])

	if e.profiler != nil {
		e.profiler.Reset()
	}
	e.lastRender = time.Now()
	e.window.SetUpdateCallback(e.renderFrame)
	e.window.ProcessMessages()

	e.signalQuit()
	e.wg.Wait()
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel and asks the window loop to stop.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.running.Store(false)
		close(e.quitChannel)
		if e.window != nil {
			e.window.RequestClose()
		}
	})
}

// handleWatch turns shader file changes into reload requests until quit.
func (e *engine) handleWatch() {
	defer e.wg.Done()
	for {
		select {
		case <-e.quitChannel:
			return
		case path, ok := <-e.watcher.Changes():
			if !ok {
				return
			}
			log.Printf("[Engine] shader source changed: %s", path)
			e.RequestReload()
		}
	}
}

// renderFrame runs one frame on the render thread: pending reload, color
// clear, coordinator tick, render callback, present, profiler and frame limit.
// Recovers from panics so a failing frame stops the loop instead of the process.
func (e *engine) renderFrame() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Engine] render loop recovered from panic: %v", r)
			e.signalQuit()
		}
	}()
	if !e.running.Load() {
		return
	}

	now := time.Now()
	dt := float32(now.Sub(e.lastRender).Seconds())
	e.lastRender = now

	if e.reloadRequested.Swap(false) {
		e.reload()
	}

	e.ctx.Clear(gpu.ColorBufferBit)
	e.coordinator.Tick()
	e.updateTitle()

	if e.renderCallback != nil {
		e.renderCallback(dt)
	}

	e.window.SwapBuffers()

	if e.profilingEnabled.Load() && e.profiler != nil {
		e.profiler.Tick()
	}

	// Frame rate limiting
	if e.renderFrameLimit > 0 {
		elapsed := time.Since(now)
		if remaining := e.renderFrameLimit - elapsed; remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

// updateTitle shows the camera position and held keys in the window title.
// The title is only pushed to the window when the readout changed.
func (e *engine) updateTitle() {
	if e.statusTitle == "" {
		return
	}
	title := e.statusTitle + " | " + e.coordinator.Status().String()
	if title == e.lastTitle {
		return
	}
	e.lastTitle = title
	e.window.SetTitle(title)
}

// reload rebuilds the pipeline and swaps it in. On failure the current
// pipeline stays in use. Must run on the render thread.
func (e *engine) reload() {
	if e.reloader == nil {
		return
	}
	next, err := e.reloader()
	if err != nil {
		log.Printf("[Engine] shader reload failed, keeping current pipeline: %v", err)
		return
	}
	if old := e.coordinator.SwapPipeline(next); old != nil {
		old.Destroy()
	}
	log.Printf("[Engine] shader pipeline %q reloaded", next.Label())
}

// resize keeps the viewport and the camera aspect in step with the framebuffer.
func (e *engine) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if e.ctx != nil {
		e.ctx.Viewport(0, 0, int32(width), int32(height))
	}
	if e.camera != nil {
		e.camera.SetAspect(float32(width) / float32(height))
	}
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled.Store(true)
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled.Store(false)
}

// SetRenderCallback registers the function called each render frame.
func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit = frameDuration(fps)
}

func (e *engine) RequestReload() {
	e.reloadRequested.Store(true)
}

// frameDuration converts a frame rate cap to a minimum frame time; 0 means uncapped.
func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
