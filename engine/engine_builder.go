package engine

import (
	"github.com/seabiscuit-iv/meshview/engine/camera"
	"github.com/seabiscuit-iv/meshview/engine/frame"
	"github.com/seabiscuit-iv/meshview/engine/gpu"
	"github.com/seabiscuit-iv/meshview/engine/profiler"
	"github.com/seabiscuit-iv/meshview/engine/renderer/shader"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled.Store(enabled)
	}
}

// WithProfiler replaces the default profiler.
//
// Parameters:
//   - p: the profiler ticked after each frame while profiling is enabled
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithWindow sets the window the engine renders into and reads resizes from.
//
// Parameters:
//   - w: an open window whose GL context is current on the calling thread
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithContext sets the GPU context used for clears and the viewport.
//
// Parameters:
//   - ctx: the current GPU context
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithContext(ctx gpu.Context) EngineBuilderOption {
	return func(e *engine) {
		e.ctx = ctx
	}
}

// WithCamera sets the camera whose aspect ratio follows the framebuffer size.
//
// Parameters:
//   - c: the camera
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithCamera(c camera.Camera) EngineBuilderOption {
	return func(e *engine) {
		e.camera = c
	}
}

// WithCoordinator sets the coordinator ticked once per frame.
//
// Parameters:
//   - c: the frame coordinator
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithCoordinator(c frame.Coordinator) EngineBuilderOption {
	return func(e *engine) {
		e.coordinator = c
	}
}

// WithReloader sets the function used to rebuild the pipeline on RequestReload.
//
// Parameters:
//   - r: builds a new pipeline from the current sources
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithReloader(r Reloader) EngineBuilderOption {
	return func(e *engine) {
		e.reloader = r
	}
}

// WithShaderWatcher requests a reload whenever the watcher reports a change.
// The engine does not close the watcher.
//
// Parameters:
//   - w: the shader source watcher
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithShaderWatcher(w shader.Watcher) EngineBuilderOption {
	return func(e *engine) {
		e.watcher = w
	}
}

// WithClearColor sets the background color cleared before each frame.
//
// Parameters:
//   - r, g, b, a: color components in [0, 1]
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithClearColor(r, g, b, a float32) EngineBuilderOption {
	return func(e *engine) {
		e.clearColor = [4]float32{r, g, b, a}
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.renderFrameLimit = frameDuration(fps)
	}
}

// WithStatusTitle keeps a live readout of the camera position and held keys
// in the window title, after the given base title.
//
// Parameters:
//   - base: the title shown before the readout; "" disables it
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithStatusTitle(base string) EngineBuilderOption {
	return func(e *engine) {
		e.statusTitle = base
	}
}
