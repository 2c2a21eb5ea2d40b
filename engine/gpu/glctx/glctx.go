// Package glctx implements gpu.Context on top of go-gl's OpenGL 4.1 core bindings.
package glctx

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/seabiscuit-iv/meshview/engine/gpu"
)

// glContext forwards gpu.Context calls to the current OpenGL context.
type glContext struct{}

var _ gpu.Context = glContext{}

// New loads the OpenGL function pointers for the context current on the
// calling thread and returns a gpu.Context bound to it.
// Reference: https://pkg.go.dev/github.com/go-gl/gl/v4.1-core/gl#Init
//
// Returns:
//   - gpu.Context: the GL-backed context
//   - error: error if the GL bindings could not be initialized
func New() (gpu.Context, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL bindings: %w", err)
	}
	return glContext{}, nil
}

// Version returns the driver's GL_VERSION string.
func Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

func (glContext) CreateBuffer() gpu.Buffer {
	var b uint32
	gl.GenBuffers(1, &b)
	return gpu.Buffer(b)
}

func (glContext) DeleteBuffer(b gpu.Buffer) {
	id := uint32(b)
	gl.DeleteBuffers(1, &id)
}

func (glContext) BindBuffer(target gpu.Enum, b gpu.Buffer) {
	gl.BindBuffer(uint32(target), uint32(b))
}

func (glContext) BufferData(target gpu.Enum, data []byte, usage gpu.Enum) {
	if len(data) == 0 {
		gl.BufferData(uint32(target), 0, nil, uint32(usage))
		return
	}
	gl.BufferData(uint32(target), len(data), gl.Ptr(data), uint32(usage))
}

func (glContext) CreateVertexArray() gpu.VertexArray {
	var v uint32
	gl.GenVertexArrays(1, &v)
	return gpu.VertexArray(v)
}

func (glContext) DeleteVertexArray(v gpu.VertexArray) {
	id := uint32(v)
	gl.DeleteVertexArrays(1, &id)
}

func (glContext) BindVertexArray(v gpu.VertexArray) {
	gl.BindVertexArray(uint32(v))
}

func (glContext) VertexAttribPointer(index uint32, size int32, typ gpu.Enum, normalized bool, stride int32, offset int) {
	gl.VertexAttribPointer(index, size, uint32(typ), normalized, stride, gl.PtrOffset(offset))
}

func (glContext) EnableVertexAttribArray(index uint32) {
	gl.EnableVertexAttribArray(index)
}

func (glContext) DrawElements(mode gpu.Enum, count int32, typ gpu.Enum, offset int) {
	gl.DrawElements(uint32(mode), count, uint32(typ), gl.PtrOffset(offset))
}

func (glContext) CreateShader(stage gpu.Enum) gpu.Shader {
	return gpu.Shader(gl.CreateShader(uint32(stage)))
}

func (glContext) ShaderSource(s gpu.Shader, source string) {
	csources, free := gl.Strs(source + "\x00")
	defer free()
	gl.ShaderSource(uint32(s), 1, csources, nil)
}

func (glContext) CompileShader(s gpu.Shader) {
	gl.CompileShader(uint32(s))
}

func (glContext) ShaderCompileStatus(s gpu.Shader) bool {
	var status int32
	gl.GetShaderiv(uint32(s), gl.COMPILE_STATUS, &status)
	return status == gl.TRUE
}

func (glContext) ShaderInfoLog(s gpu.Shader) string {
	var logLength int32
	gl.GetShaderiv(uint32(s), gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetShaderInfoLog(uint32(s), logLength, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (glContext) DeleteShader(s gpu.Shader) {
	gl.DeleteShader(uint32(s))
}

func (glContext) CreateProgram() gpu.Program {
	return gpu.Program(gl.CreateProgram())
}

func (glContext) AttachShader(p gpu.Program, s gpu.Shader) {
	gl.AttachShader(uint32(p), uint32(s))
}

func (glContext) DetachShader(p gpu.Program, s gpu.Shader) {
	gl.DetachShader(uint32(p), uint32(s))
}

func (glContext) LinkProgram(p gpu.Program) {
	gl.LinkProgram(uint32(p))
}

func (glContext) ProgramLinkStatus(p gpu.Program) bool {
	var status int32
	gl.GetProgramiv(uint32(p), gl.LINK_STATUS, &status)
	return status == gl.TRUE
}

func (glContext) ProgramInfoLog(p gpu.Program) string {
	var logLength int32
	gl.GetProgramiv(uint32(p), gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(uint32(p), logLength, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (glContext) DeleteProgram(p gpu.Program) {
	gl.DeleteProgram(uint32(p))
}

func (glContext) UseProgram(p gpu.Program) {
	gl.UseProgram(uint32(p))
}

func (glContext) UniformLocation(p gpu.Program, name string) gpu.UniformLocation {
	return gpu.UniformLocation(gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00")))
}

func (glContext) UniformMatrix4(loc gpu.UniformLocation, m [16]float32) {
	gl.UniformMatrix4fv(int32(loc), 1, false, &m[0])
}

func (glContext) Uniform1f(loc gpu.UniformLocation, v float32) {
	gl.Uniform1f(int32(loc), v)
}

func (glContext) Clear(mask gpu.Enum) {
	gl.Clear(uint32(mask))
}

func (glContext) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (glContext) Enable(capability gpu.Enum) {
	gl.Enable(uint32(capability))
}

func (glContext) DepthFunc(fn gpu.Enum) {
	gl.DepthFunc(uint32(fn))
}

func (glContext) Viewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}
