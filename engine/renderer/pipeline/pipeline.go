package pipeline

import (
	"fmt"
	"log"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/seabiscuit-iv/meshview/engine/gpu"
	"github.com/seabiscuit-iv/meshview/engine/renderer/shader"
)

// Uniform names shared with the GLSL sources.
const (
	UniformViewProj = "u_ViewProj"
	UniformOffset   = "u_Offset"
)

// Drawable is geometry that can issue its own draw call once a program is in use.
type Drawable interface {
	Draw()
}

// ViewProjector supplies the combined view-projection matrix for a draw.
type ViewProjector interface {
	ProjViewMatrix() mgl32.Mat4
}

// LinkError carries the linker diagnostics for a program that failed to link.
type LinkError struct {
	Label string
	Log   string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("failed to link program %q: %s", e.Label, e.Log)
}

// pipeline is the implementation of the ShaderPipeline interface.
type pipeline struct {
	mu *sync.Mutex

	ctx     gpu.Context
	program gpu.Program

	label            string
	depthTestEnabled bool

	// missing records uniform names already reported as inactive, so the log
	// line is written once per name rather than every frame.
	missing map[string]bool
}

// ShaderPipeline owns one linked vertex+fragment program and draws geometry with it.
// A ShaderPipeline is either fully linked or was never returned; no partially
// built state survives a failed construction.
type ShaderPipeline interface {
	// Label returns the name used in diagnostics.
	Label() string

	// Program returns the linked program handle, or 0 after Destroy.
	Program() gpu.Program

	// Paint clears the depth buffer, enables a LESS depth test, binds the program,
	// uploads the camera's view-projection matrix and draws the geometry.
	// Holds the pipeline lock for the whole call.
	//
	// Parameters:
	//   - geometry: the mesh to draw
	//   - camera: supplies the view-projection matrix
	Paint(geometry Drawable, camera ViewProjector)

	// SetFloat binds the program and sets a float uniform.
	// Uniforms the program does not expose are skipped.
	//
	// Parameters:
	//   - name: uniform name
	//   - v: value to upload
	SetFloat(name string, v float32)

	// SetMatrix4 binds the program and sets a 4x4 matrix uniform (column-major).
	// Uniforms the program does not expose are skipped.
	//
	// Parameters:
	//   - name: uniform name
	//   - m: value to upload
	SetMatrix4(name string, m mgl32.Mat4)

	// Destroy deletes the program. Must not be called while a draw using it is in flight.
	// Calling it again is a no-op.
	Destroy()
}

var _ ShaderPipeline = &pipeline{}

// NewShaderPipeline reads both source files, compiles them, links the program
// and releases the transient shader objects.
//
// Parameters:
//   - ctx: the current GPU context
//   - vertexPath: path of the vertex stage source
//   - fragmentPath: path of the fragment stage source
//   - opts: functional options to configure the pipeline
//
// Returns:
//   - ShaderPipeline: the linked pipeline
//   - error: a read error, *shader.CompileError, *LinkError or allocation error
func NewShaderPipeline(ctx gpu.Context, vertexPath, fragmentPath string, opts ...PipelineBuilderOption) (ShaderPipeline, error) {
	vs, fs, err := shader.LoadSources(vertexPath, fragmentPath)
	if err != nil {
		return nil, err
	}
	return NewShaderPipelineFromShaders(ctx, vs, fs, opts...)
}

// NewShaderPipelineFromShaders compiles and links already loaded sources.
// Every GPU object created before a failure is deleted before returning.
//
// Parameters:
//   - ctx: the current GPU context
//   - vs: vertex stage source
//   - fs: fragment stage source
//   - opts: functional options to configure the pipeline
//
// Returns:
//   - ShaderPipeline: the linked pipeline
//   - error: a *shader.CompileError, *LinkError or allocation error
func NewShaderPipelineFromShaders(ctx gpu.Context, vs, fs shader.Shader, opts ...PipelineBuilderOption) (ShaderPipeline, error) {
	p := &pipeline{
		mu:               &sync.Mutex{},
		ctx:              ctx,
		label:            "main",
		depthTestEnabled: true,
		missing:          make(map[string]bool),
	}
	for _, opt := range opts {
		opt(p)
	}

	program := ctx.CreateProgram()
	if program == 0 {
		return nil, fmt.Errorf("cannot create program %q", p.label)
	}

	var objects []gpu.Shader
	cleanup := func() {
		for _, obj := range objects {
			ctx.DeleteShader(obj)
		}
		ctx.DeleteProgram(program)
	}

	for _, s := range []shader.Shader{vs, fs} {
		obj, err := shader.Compile(ctx, s)
		if err != nil {
			cleanup()
			return nil, err
		}
		ctx.AttachShader(program, obj)
		objects = append(objects, obj)
	}

	ctx.LinkProgram(program)
	if !ctx.ProgramLinkStatus(program) {
		linkLog := ctx.ProgramInfoLog(program)
		for _, obj := range objects {
			ctx.DetachShader(program, obj)
		}
		cleanup()
		return nil, &LinkError{Label: p.label, Log: linkLog}
	}

	for _, obj := range objects {
		ctx.DetachShader(program, obj)
		ctx.DeleteShader(obj)
	}

	p.program = program
	return p, nil
}

// MustShaderPipeline is like NewShaderPipeline but panics with the full
// diagnostic text on error. Shader setup failures are fatal for the viewer.
func MustShaderPipeline(ctx gpu.Context, vertexPath, fragmentPath string, opts ...PipelineBuilderOption) ShaderPipeline {
	p, err := NewShaderPipeline(ctx, vertexPath, fragmentPath, opts...)
	if err != nil {
		panic(fmt.Sprintf("pipeline: %v", err))
	}
	return p
}

func (p *pipeline) Label() string {
	return p.label
}

func (p *pipeline) Program() gpu.Program {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.program
}

func (p *pipeline) Paint(geometry Drawable, camera ViewProjector) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.program == 0 {
		return
	}

	p.ctx.Clear(gpu.DepthBufferBit)
	if p.depthTestEnabled {
		p.ctx.DepthFunc(gpu.Less)
		p.ctx.Enable(gpu.DepthTest)
	}

	p.ctx.UseProgram(p.program)
	if loc, ok := p.location(UniformViewProj); ok {
		p.ctx.UniformMatrix4(loc, camera.ProjViewMatrix())
	}

	geometry.Draw()
}

func (p *pipeline) SetFloat(name string, v float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.program == 0 {
		return
	}
	p.ctx.UseProgram(p.program)
	if loc, ok := p.location(name); ok {
		p.ctx.Uniform1f(loc, v)
	}
}

func (p *pipeline) SetMatrix4(name string, m mgl32.Mat4) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.program == 0 {
		return
	}
	p.ctx.UseProgram(p.program)
	if loc, ok := p.location(name); ok {
		p.ctx.UniformMatrix4(loc, m)
	}
}

func (p *pipeline) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.program == 0 {
		return
	}
	p.ctx.DeleteProgram(p.program)
	p.program = 0
}

// location resolves a uniform, reporting false for names the program does not
// expose. Caller must hold the mutex.
func (p *pipeline) location(name string) (gpu.UniformLocation, bool) {
	loc := p.ctx.UniformLocation(p.program, name)
	if !loc.Valid() {
		if !p.missing[name] {
			p.missing[name] = true
			log.Printf("[Pipeline] %s: uniform %q is not active, skipping", p.label, name)
		}
		return gpu.NoUniform, false
	}
	return loc, true
}
