// Package gpu describes the graphics context the viewer core draws with.
//
// Context is the subset of the OpenGL 4.1 core API used by the mesh, shader
// and pipeline packages. The concrete implementation lives in gpu/glctx and
// is only valid on the thread that owns the current GL context; a recording
// fake for tests lives in gpu/gputest.
package gpu

// Enum mirrors GLenum / GLbitfield values.
type Enum uint32

// Object handles. The zero value is never a valid object.
type (
	Buffer      uint32
	VertexArray uint32
	Shader      uint32
	Program     uint32
)

// UniformLocation is a resolved uniform slot. NoUniform is returned for names
// the linked program does not expose.
type UniformLocation int32

// NoUniform is the location reported for missing or optimized-out uniforms.
const NoUniform UniformLocation = -1

// Valid reports whether the location refers to an active uniform.
func (l UniformLocation) Valid() bool {
	return l >= 0
}

// OpenGL constants used by the viewer. Values match the GL headers.
const (
	ArrayBuffer        Enum = 0x8892
	ElementArrayBuffer Enum = 0x8893
	StaticDraw         Enum = 0x88E4

	Float       Enum = 0x1406
	UnsignedInt Enum = 0x1405

	Triangles Enum = 0x0004

	VertexShader   Enum = 0x8B31
	FragmentShader Enum = 0x8B30

	ColorBufferBit Enum = 0x4000
	DepthBufferBit Enum = 0x0100

	DepthTest Enum = 0x0B71
	Less      Enum = 0x0201
)

// Context is the graphics API surface the viewer core depends on.
// All methods must be called from the thread that owns the context.
type Context interface {
	// CreateBuffer allocates a buffer object. Returns 0 on failure.
	CreateBuffer() Buffer
	DeleteBuffer(b Buffer)
	BindBuffer(target Enum, b Buffer)
	// BufferData uploads data to the buffer bound at target.
	BufferData(target Enum, data []byte, usage Enum)

	// CreateVertexArray allocates a vertex array object. Returns 0 on failure.
	CreateVertexArray() VertexArray
	DeleteVertexArray(v VertexArray)
	// BindVertexArray binds v; 0 unbinds.
	BindVertexArray(v VertexArray)
	// VertexAttribPointer describes attribute index inside the buffer bound to ArrayBuffer.
	VertexAttribPointer(index uint32, size int32, typ Enum, normalized bool, stride int32, offset int)
	EnableVertexAttribArray(index uint32)
	DrawElements(mode Enum, count int32, typ Enum, offset int)

	// CreateShader allocates a shader object of the given stage. Returns 0 on failure.
	CreateShader(stage Enum) Shader
	ShaderSource(s Shader, source string)
	CompileShader(s Shader)
	ShaderCompileStatus(s Shader) bool
	ShaderInfoLog(s Shader) string
	DeleteShader(s Shader)

	// CreateProgram allocates a program object. Returns 0 on failure.
	CreateProgram() Program
	AttachShader(p Program, s Shader)
	DetachShader(p Program, s Shader)
	LinkProgram(p Program)
	ProgramLinkStatus(p Program) bool
	ProgramInfoLog(p Program) string
	DeleteProgram(p Program)
	UseProgram(p Program)

	// UniformLocation resolves name in p, returning NoUniform when absent.
	UniformLocation(p Program, name string) UniformLocation
	// UniformMatrix4 uploads a column-major 4x4 matrix to the current program.
	UniformMatrix4(loc UniformLocation, m [16]float32)
	// Uniform1f uploads a float to the current program.
	Uniform1f(loc UniformLocation, v float32)

	Clear(mask Enum)
	ClearColor(r, g, b, a float32)
	Enable(capability Enum)
	DepthFunc(fn Enum)
	Viewport(x, y, width, height int32)
}
