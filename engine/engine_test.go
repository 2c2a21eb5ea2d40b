package engine

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/seabiscuit-iv/meshview/common"
	"github.com/seabiscuit-iv/meshview/engine/camera"
	"github.com/seabiscuit-iv/meshview/engine/frame"
	"github.com/seabiscuit-iv/meshview/engine/gpu"
	"github.com/seabiscuit-iv/meshview/engine/gpu/gputest"
	"github.com/seabiscuit-iv/meshview/engine/profiler"
	"github.com/seabiscuit-iv/meshview/engine/renderer/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWindow runs the update callback until closed or maxFrames is reached.
type fakeWindow struct {
	width, height int
	maxFrames     int

	onUpdate func()
	onResize func(width, height int)

	frames int
	swaps  int
	closed bool
	titles []string
}

func (w *fakeWindow) SetUpdateCallback(callback func())                  { w.onUpdate = callback }
func (w *fakeWindow) SetResizeCallback(callback func(width, height int)) { w.onResize = callback }
func (w *fakeWindow) SwapBuffers()                                       { w.swaps++ }
func (w *fakeWindow) RequestClose()                                      { w.closed = true }
func (w *fakeWindow) SetTitle(title string)                              { w.titles = append(w.titles, title) }
func (w *fakeWindow) Width() int                                         { return w.width }
func (w *fakeWindow) Height() int                                        { return w.height }

func (w *fakeWindow) ProcessMessages() {
	for !w.closed && w.frames < w.maxFrames {
		w.frames++
		if w.onUpdate != nil {
			w.onUpdate()
		}
	}
}

type stubPipeline struct {
	label     string
	destroyed bool
}

func (p *stubPipeline) Label() string                                   { return p.label }
func (p *stubPipeline) Program() gpu.Program                            { return 1 }
func (p *stubPipeline) Paint(pipeline.Drawable, pipeline.ViewProjector) {}
func (p *stubPipeline) SetFloat(string, float32)                        {}
func (p *stubPipeline) SetMatrix4(string, mgl32.Mat4)                   {}
func (p *stubPipeline) Destroy()                                        { p.destroyed = true }

// stubCoordinator counts ticks and can panic on a chosen tick.
type stubCoordinator struct {
	frame.Coordinator

	mu       sync.Mutex
	ticks    int
	panicAt  int
	pipeline pipeline.ShaderPipeline
	status   frame.Status
	onTick   func(n int)
}

func (c *stubCoordinator) Tick() {
	c.mu.Lock()
	c.ticks++
	n := c.ticks
	c.mu.Unlock()
	if n == c.panicAt {
		panic("boom")
	}
	if c.onTick != nil {
		c.onTick(n)
	}
}

func (c *stubCoordinator) Status() frame.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *stubCoordinator) SwapPipeline(p pipeline.ShaderPipeline) pipeline.ShaderPipeline {
	old := c.pipeline
	c.pipeline = p
	return old
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

type fakeWatcher struct{ ch chan string }

func (w *fakeWatcher) Changes() <-chan string { return w.ch }
func (w *fakeWatcher) Close() error           { close(w.ch); return nil }

func TestRunTicksUntilWindowCloses(t *testing.T) {
	win := &fakeWindow{width: 640, height: 480, maxFrames: 3}
	ctx := gputest.NewFake()
	coord := &stubCoordinator{}
	rendered := 0

	e := NewEngine(WithWindow(win), WithContext(ctx), WithCoordinator(coord))
	e.SetRenderCallback(func(float32) { rendered++ })
	e.Run()

	assert.Equal(t, 3, coord.ticks)
	assert.Equal(t, 3, rendered)
	assert.Equal(t, 3, win.swaps)
	assert.Equal(t, 3, ctx.CallCount("Clear"))
	assert.True(t, win.closed)
}

func TestResizeUpdatesViewportAndAspect(t *testing.T) {
	win := &fakeWindow{width: 800, height: 400}
	ctx := gputest.NewFake()
	cam := camera.NewCamera()
	e := NewEngine(WithWindow(win), WithContext(ctx), WithCamera(cam), WithCoordinator(&stubCoordinator{}))

	e.Run()
	vp, ok := ctx.LastCall("Viewport")
	require.True(t, ok)
	assert.Equal(t, []any{int32(0), int32(0), int32(800), int32(400)}, vp.Args)
	assert.Equal(t, float32(2), cam.Aspect())

	win.onResize(300, 600)
	assert.Equal(t, float32(0.5), cam.Aspect())

	win.onResize(0, 600)
	assert.Equal(t, float32(0.5), cam.Aspect())
}

func TestReloadSwapsPipeline(t *testing.T) {
	old := &stubPipeline{label: "old"}
	next := &stubPipeline{label: "next"}
	coord := &stubCoordinator{pipeline: old}
	win := &fakeWindow{maxFrames: 2}

	var e Engine
	e = NewEngine(
		WithWindow(win),
		WithContext(gputest.NewFake()),
		WithCoordinator(coord),
		WithReloader(func() (pipeline.ShaderPipeline, error) { return next, nil }),
	)
	coord.onTick = func(n int) {
		if n == 1 {
			e.RequestReload()
		}
	}
	e.Run()

	assert.Same(t, next, coord.pipeline)
	assert.True(t, old.destroyed)
	assert.False(t, next.destroyed)
}

func TestFailedReloadKeepsPipeline(t *testing.T) {
	old := &stubPipeline{label: "old"}
	coord := &stubCoordinator{pipeline: old}
	win := &fakeWindow{maxFrames: 2}
	calls := 0

	e := NewEngine(
		WithWindow(win),
		WithContext(gputest.NewFake()),
		WithCoordinator(coord),
		WithReloader(func() (pipeline.ShaderPipeline, error) {
			calls++
			return nil, errors.New("failed to compile fragment shader")
		}),
	)
	e.RequestReload()
	e.Run()

	assert.Equal(t, 1, calls)
	assert.Same(t, old, coord.pipeline)
	assert.False(t, old.destroyed)
	assert.Equal(t, 2, coord.ticks)
}

func TestWatcherRequestsReload(t *testing.T) {
	old := &stubPipeline{label: "old"}
	next := &stubPipeline{label: "next"}
	coord := &stubCoordinator{pipeline: old}
	watcher := &fakeWatcher{ch: make(chan string, 1)}
	win := &fakeWindow{maxFrames: 1000}

	e := NewEngine(
		WithWindow(win),
		WithContext(gputest.NewFake()),
		WithCoordinator(coord),
		WithShaderWatcher(watcher),
		WithReloader(func() (pipeline.ShaderPipeline, error) { return next, nil }),
	)
	watcher.ch <- "shaders/main.frag.glsl"
	coord.onTick = func(int) {
		if coord.pipeline == next {
			e.Quit()
			return
		}
		time.Sleep(time.Millisecond)
	}
	e.Run()

	assert.Same(t, next, coord.pipeline)
	assert.True(t, old.destroyed)
}

func TestPanicInFrameStopsLoop(t *testing.T) {
	coord := &stubCoordinator{panicAt: 2}
	win := &fakeWindow{maxFrames: 10}
	e := NewEngine(WithWindow(win), WithContext(gputest.NewFake()), WithCoordinator(coord))

	assert.NotPanics(t, e.Run)
	assert.Equal(t, 2, coord.ticks)
	assert.True(t, win.closed)
}

func TestQuitIsIdempotent(t *testing.T) {
	win := &fakeWindow{}
	e := NewEngine(WithWindow(win))
	e.Quit()
	assert.NotPanics(t, e.Quit)
	assert.True(t, win.closed)
}

func TestStatusTitleFollowsCoordinator(t *testing.T) {
	coord := &stubCoordinator{}
	win := &fakeWindow{maxFrames: 4}
	coord.onTick = func(n int) {
		coord.mu.Lock()
		defer coord.mu.Unlock()
		if n == 3 {
			coord.status = frame.Status{Position: mgl32.Vec3{0, 0, 1.9}, Held: []uint32{common.KeyW}}
		}
	}
	e := NewEngine(WithWindow(win), WithContext(gputest.NewFake()), WithCoordinator(coord), WithStatusTitle("meshview"))
	e.Run()

	assert.Equal(t, []string{
		"meshview | pos (0.00, 0.00, 0.00) | keys -",
		"meshview | pos (0.00, 0.00, 1.90) | keys W",
	}, win.titles)
}

func TestStatusTitleOffByDefault(t *testing.T) {
	win := &fakeWindow{maxFrames: 2}
	e := NewEngine(WithWindow(win), WithContext(gputest.NewFake()), WithCoordinator(&stubCoordinator{}))
	e.Run()
	assert.Empty(t, win.titles)
}

func TestRunExcludesSetupFromProfile(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	prof := profiler.NewProfiler(profiler.WithClock(clock.now), profiler.WithLogging(false), profiler.WithInterval(20*time.Millisecond))
	coord := &stubCoordinator{onTick: func(int) { clock.advance(10 * time.Millisecond) }}
	win := &fakeWindow{maxFrames: 2}

	e := NewEngine(WithWindow(win), WithContext(gputest.NewFake()), WithCoordinator(coord), WithProfiler(prof), WithProfiling(true))
	// Slow startup between construction and the first frame.
	clock.advance(3 * time.Second)
	e.Run()

	s := prof.Last()
	assert.Equal(t, 2, s.Frames)
	assert.Equal(t, 10*time.Millisecond, s.MaxFrame)
}

func TestFrameDuration(t *testing.T) {
	assert.Zero(t, frameDuration(0))
	assert.Zero(t, frameDuration(-5))
	assert.Equal(t, 16666666*time.Nanosecond, frameDuration(60))
}
