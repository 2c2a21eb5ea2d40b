// Command meshview opens a window and renders a colored mesh under a camera
// driven by W/A/S/D/Q/E and left mouse drag. R resets the view, Escape quits.
package main

import (
	"errors"
	"flag"
	"log"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/seabiscuit-iv/meshview/config"
	"github.com/seabiscuit-iv/meshview/engine"
	"github.com/seabiscuit-iv/meshview/engine/camera"
	"github.com/seabiscuit-iv/meshview/engine/frame"
	"github.com/seabiscuit-iv/meshview/engine/gpu/glctx"
	"github.com/seabiscuit-iv/meshview/engine/input"
	"github.com/seabiscuit-iv/meshview/engine/mesh"
	"github.com/seabiscuit-iv/meshview/engine/renderer/pipeline"
	"github.com/seabiscuit-iv/meshview/engine/renderer/shader"
	"github.com/seabiscuit-iv/meshview/engine/window"
)

func main() {
	opts, err := config.Parse("meshview", os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("[Main] %v", err)
	}
	if err := run(opts); err != nil {
		log.Fatalf("[Main] %v", err)
	}
}

// run opens the viewer and blocks until its window closes. Every resource it
// acquires is released by a deferred call before it returns.
func run(opts config.Options) error {
	cfg := opts.Config

	if opts.DumpConfig {
		data, err := cfg.Marshal()
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}
	if opts.WriteConfig != "" {
		if err := cfg.Save(opts.WriteConfig); err != nil {
			return err
		}
		log.Printf("[Main] wrote config %s", opts.WriteConfig)
		return nil
	}
	if opts.Path != "" {
		log.Printf("[Main] loaded config %s", opts.Path)
	}

	positions, indices, err := mesh.Shape(cfg.Mesh.Shape)
	if err != nil {
		return err
	}

	win, err := window.NewWindow(
		window.WithTitle(cfg.WindowTitle()),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
		window.WithMinSize(cfg.Window.MinWidth, cfg.Window.MinHeight),
		window.WithVSync(cfg.Window.VSync),
		window.WithSamples(cfg.Window.Samples),
	)
	if err != nil {
		return err
	}
	defer win.Close()

	ctx, err := glctx.New()
	if err != nil {
		return err
	}
	log.Printf("[Main] OpenGL %s", glctx.Version())

	var meshOpts []mesh.GeometryBufferOption
	if cfg.Mesh.Seed != 0 {
		meshOpts = append(meshOpts, mesh.WithSeed(cfg.Mesh.Seed))
	}
	geometry, err := mesh.NewGeometryBuffer(ctx, positions, indices, meshOpts...)
	if err != nil {
		return err
	}
	defer geometry.Destroy()

	newPipeline := func() (pipeline.ShaderPipeline, error) {
		return pipeline.NewShaderPipeline(ctx, cfg.Shaders.Vertex, cfg.Shaders.Fragment)
	}
	p, err := newPipeline()
	if err != nil {
		return err
	}

	cam := newCamera(cfg, win)
	in := input.NewState()
	bindInput(win, in)

	coordinator := frame.NewCoordinator(geometry, p, cam, in,
		frame.WithStep(cfg.Controls.Step),
		frame.WithSensitivity(cfg.Controls.Sensitivity),
		frame.WithOffset(cfg.Mesh.Offset),
	)
	defer func() { coordinator.Pipeline().Destroy() }()

	bg := cfg.Window.ClearColor
	engineOpts := []engine.EngineBuilderOption{
		engine.WithWindow(win),
		engine.WithContext(ctx),
		engine.WithCamera(cam),
		engine.WithCoordinator(coordinator),
		engine.WithReloader(newPipeline),
		engine.WithClearColor(bg[0], bg[1], bg[2], bg[3]),
		engine.WithProfiling(cfg.Profiling),
		engine.WithRenderFrameLimit(cfg.FrameLimit),
	}
	if cfg.Window.StatusTitle {
		engineOpts = append(engineOpts, engine.WithStatusTitle(cfg.WindowTitle()))
	}
	if cfg.Shaders.HotReload {
		watcher, err := shader.NewWatcher(cfg.Shaders.Vertex, cfg.Shaders.Fragment)
		if err != nil {
			log.Printf("[Main] shader hot reload disabled: %v", err)
		} else {
			defer watcher.Close()
			engineOpts = append(engineOpts, engine.WithShaderWatcher(watcher))
		}
	}

	engine.NewEngine(engineOpts...).Run()
	return nil
}

// newCamera builds the camera from the projection settings, with the aspect
// ratio of the window's framebuffer.
func newCamera(cfg config.Config, win window.Window) camera.Camera {
	c := cfg.Camera
	opts := []camera.CameraBuilderOption{
		camera.WithAspect(float32(win.Width()) / float32(win.Height())),
	}
	if c.Projection == config.ProjectionOrthographic {
		opts = append(opts, camera.WithOrthographic(c.OrthoScale, c.Near, c.Far))
	} else {
		opts = append(opts, camera.WithPerspective(mgl32.DegToRad(c.FOV), c.Near, c.Far))
	}
	return camera.NewCamera(opts...)
}

// bindInput forwards window events into the input state. Losing focus releases
// every key so none stays stuck down.
func bindInput(win window.Window, in input.State) {
	win.SetKeyDownCallback(in.KeyDown)
	win.SetKeyUpCallback(in.KeyUp)
	win.SetMouseDownCallback(in.MouseDown)
	win.SetMouseUpCallback(in.MouseUp)
	win.SetMouseMoveCallback(in.MouseMove)
	win.SetFocusCallback(func(focused bool) {
		if !focused {
			in.Reset()
		}
	})
}
