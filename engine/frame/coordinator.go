// Package frame drives one rendered frame: input to camera motion, orientation
// update, uniform upload and draw, in a fixed order.
package frame

import (
	"sync"

	"github.com/seabiscuit-iv/meshview/common"
	"github.com/seabiscuit-iv/meshview/engine/camera"
	"github.com/seabiscuit-iv/meshview/engine/input"
	"github.com/seabiscuit-iv/meshview/engine/renderer/pipeline"
)

// Defaults for movement and drag response.
const (
	DefaultStep        float32 = 0.1
	DefaultSensitivity float32 = 0.1
)

// coordinator is the implementation of the Coordinator interface.
type coordinator struct {
	mu *sync.Mutex

	geometry pipeline.Drawable
	pipeline pipeline.ShaderPipeline
	camera   camera.Camera
	input    input.State

	orientation Orientation
	step        float32
	sensitivity float32
	offset      float32
}

// Coordinator owns the per-frame update of the viewer.
type Coordinator interface {
	// Tick runs one frame:
	//   1. translate the camera by step for every held movement key
	//      (W +look, S -look, D +right, A -right, E +up, Q -up; additive);
	//   2. take the drag delta and add it to pitch and yaw;
	//   3. rebuild the rotation from the orientation and apply it to the camera;
	//   4. upload u_Offset and paint the geometry.
	// Holding R returns the camera and orientation to their defaults first.
	Tick()

	// Orientation returns the accumulated rotation.
	//
	// Returns:
	//   - Orientation: pitch, yaw and roll in degrees
	Orientation() Orientation

	// Status reports the camera position, orientation and held keys as of the
	// last Tick.
	//
	// Returns:
	//   - Status: the current snapshot
	Status() Status

	// SetOffset sets the value uploaded to u_Offset each frame.
	//
	// Parameters:
	//   - offset: the new offset
	SetOffset(offset float32)

	// Offset returns the value uploaded to u_Offset each frame.
	Offset() float32

	// Pipeline returns the pipeline used for painting.
	Pipeline() pipeline.ShaderPipeline

	// SwapPipeline replaces the pipeline between frames and returns the previous one.
	// The caller owns the returned pipeline and should Destroy it.
	//
	// Parameters:
	//   - p: the new pipeline
	//
	// Returns:
	//   - pipeline.ShaderPipeline: the pipeline that was in use
	SwapPipeline(p pipeline.ShaderPipeline) pipeline.ShaderPipeline
}

var _ Coordinator = &coordinator{}

// NewCoordinator wires the frame's collaborators together.
//
// Parameters:
//   - geometry: the mesh drawn each frame
//   - p: the pipeline used to draw it
//   - cam: the camera moved by input
//   - in: the input state read each frame
//   - options: functional options to configure the coordinator
//
// Returns:
//   - Coordinator: the frame coordinator
func NewCoordinator(geometry pipeline.Drawable, p pipeline.ShaderPipeline, cam camera.Camera, in input.State, options ...CoordinatorBuilderOption) Coordinator {
	c := &coordinator{
		mu:          &sync.Mutex{},
		geometry:    geometry,
		pipeline:    p,
		camera:      cam,
		input:       in,
		step:        DefaultStep,
		sensitivity: DefaultSensitivity,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *coordinator) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.input.Held(common.KeyR) {
		c.camera.Reset()
		c.orientation = Orientation{}
	}

	c.move()

	dx, dy := c.input.TakeDrag()
	c.orientation = c.orientation.applyDrag(dx, dy, c.sensitivity)
	c.camera.UpdateOrientation(c.orientation.Matrix())

	c.pipeline.SetFloat(pipeline.UniformOffset, c.offset)
	c.pipeline.Paint(c.geometry, c.camera)
}

// move applies held movement keys. Axes are sampled once so that combined keys
// add up regardless of order. Caller must hold the mutex.
func (c *coordinator) move() {
	look, right, up := c.camera.Look(), c.camera.Right(), c.camera.Up()
	for _, key := range common.MovementKeys {
		if !c.input.Held(key) {
			continue
		}
		switch key {
		case common.KeyW:
			c.camera.TranslateAlong(look, c.step)
		case common.KeyS:
			c.camera.TranslateAlong(look, -c.step)
		case common.KeyD:
			c.camera.TranslateAlong(right, c.step)
		case common.KeyA:
			c.camera.TranslateAlong(right, -c.step)
		case common.KeyE:
			c.camera.TranslateAlong(up, c.step)
		case common.KeyQ:
			c.camera.TranslateAlong(up, -c.step)
		}
	}
}

func (c *coordinator) Orientation() Orientation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.orientation
}

func (c *coordinator) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{
		Position:    c.camera.Position(),
		Orientation: c.orientation,
		Held:        c.input.HeldKeys(),
	}
}

func (c *coordinator) SetOffset(offset float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offset = offset
}

func (c *coordinator) Offset() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.offset
}

func (c *coordinator) Pipeline() pipeline.ShaderPipeline {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pipeline
}

func (c *coordinator) SwapPipeline(p pipeline.ShaderPipeline) pipeline.ShaderPipeline {
	c.mu.Lock()
	defer c.mu.Unlock()
	old := c.pipeline
	c.pipeline = p
	return old
}
