// Package gputest provides a recording gpu.Context for tests that cannot open
// a real OpenGL context.
package gputest

import (
	"regexp"
	"slices"
	"sync"

	"github.com/seabiscuit-iv/meshview/engine/gpu"
)

// Object kinds understood by Fake.FailCreate and Fake.Live.
const (
	KindBuffer      = "buffer"
	KindVertexArray = "vertex_array"
	KindShader      = "shader"
	KindProgram     = "program"
)

// Call is one recorded Context method invocation.
type Call struct {
	Name string
	Args []any
}

// Attrib is the recorded state of one vertex attribute slot of a vertex array.
type Attrib struct {
	Buffer  gpu.Buffer
	Size    int32
	Type    gpu.Enum
	Enabled bool
}

var uniformDecl = regexp.MustCompile(`uniform\s+\w+\s+(\w+)\s*;`)

// Fake is an in-memory gpu.Context. It tracks object lifetimes, buffer
// contents, vertex array state and uniform uploads. Uniform locations are
// assigned at link time to every `uniform <type> <name>;` declaration in the
// attached sources, so a name absent from the sources behaves like an
// optimized-out uniform.
type Fake struct {
	mu sync.Mutex

	// FailCreate, when set, makes the n-th (1-based) creation of kind return 0.
	FailCreate func(kind string, n int) bool
	// Compile decides the compile result of a shader; nil compiles everything.
	Compile func(stage gpu.Enum, source string) (ok bool, log string)
	// Link decides the link result of a program; nil links everything.
	Link func(sources []string) (ok bool, log string)

	Calls []Call

	next    uint32
	created map[string]int
	live    map[string]map[uint32]bool

	bound       map[gpu.Enum]gpu.Buffer
	vertexArray gpu.VertexArray
	elements    map[gpu.VertexArray]gpu.Buffer
	attribs     map[gpu.VertexArray]map[uint32]*Attrib
	contents    map[gpu.Buffer][]byte

	shaderSource map[gpu.Shader]string
	shaderStage  map[gpu.Shader]gpu.Enum
	compiled     map[gpu.Shader]bool
	compileLog   map[gpu.Shader]string
	attached     map[gpu.Program][]gpu.Shader
	linked       map[gpu.Program]bool
	linkLog      map[gpu.Program]string
	uniforms     map[gpu.Program]map[string]gpu.UniformLocation
	program      gpu.Program

	matrices map[gpu.UniformLocation][16]float32
	floats   map[gpu.UniformLocation]float32
	enabled  map[gpu.Enum]bool
	depth    gpu.Enum
}

var _ gpu.Context = &Fake{}

// NewFake returns an empty Fake with every operation succeeding.
func NewFake() *Fake {
	return &Fake{
		created:      make(map[string]int),
		live:         make(map[string]map[uint32]bool),
		bound:        make(map[gpu.Enum]gpu.Buffer),
		elements:     make(map[gpu.VertexArray]gpu.Buffer),
		attribs:      make(map[gpu.VertexArray]map[uint32]*Attrib),
		contents:     make(map[gpu.Buffer][]byte),
		shaderSource: make(map[gpu.Shader]string),
		shaderStage:  make(map[gpu.Shader]gpu.Enum),
		compiled:     make(map[gpu.Shader]bool),
		compileLog:   make(map[gpu.Shader]string),
		attached:     make(map[gpu.Program][]gpu.Shader),
		linked:       make(map[gpu.Program]bool),
		linkLog:      make(map[gpu.Program]string),
		uniforms:     make(map[gpu.Program]map[string]gpu.UniformLocation),
		matrices:     make(map[gpu.UniformLocation][16]float32),
		floats:       make(map[gpu.UniformLocation]float32),
		enabled:      make(map[gpu.Enum]bool),
	}
}

// --- inspection helpers ---

// Live returns the number of objects of kind that were created and not yet deleted.
func (f *Fake) Live(kind string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.live[kind])
}

// IsLive reports whether the object id of kind is still allocated.
func (f *Fake) IsLive(kind string, id uint32) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.live[kind][id]
}

// CallNames returns the names of all recorded calls in order.
func (f *Fake) CallNames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		names[i] = c.Name
	}
	return names
}

// CallCount returns how many times name was called.
func (f *Fake) CallCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

// LastCall returns the most recent call named name.
func (f *Fake) LastCall(name string) (Call, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.Calls) - 1; i >= 0; i-- {
		if f.Calls[i].Name == name {
			return f.Calls[i], true
		}
	}
	return Call{}, false
}

// ResetCalls clears the call log without touching object state.
func (f *Fake) ResetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = nil
}

// BufferContents returns the bytes last uploaded to b.
func (f *Fake) BufferContents(b gpu.Buffer) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.contents[b]
}

// ElementBuffer returns the index buffer captured by vertex array v.
func (f *Fake) ElementBuffer(v gpu.VertexArray) gpu.Buffer {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.elements[v]
}

// Attribute returns the recorded state of attribute slot index in vertex array v.
func (f *Fake) Attribute(v gpu.VertexArray, index uint32) (Attrib, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.attribs[v][index]
	if !ok {
		return Attrib{}, false
	}
	return *a, true
}

// MatrixUniform returns the matrix last uploaded to loc.
func (f *Fake) MatrixUniform(loc gpu.UniformLocation) ([16]float32, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.matrices[loc]
	return m, ok
}

// FloatUniform returns the float last uploaded to loc.
func (f *Fake) FloatUniform(loc gpu.UniformLocation) (float32, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.floats[loc]
	return v, ok
}

// CurrentProgram returns the program last passed to UseProgram.
func (f *Fake) CurrentProgram() gpu.Program {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.program
}

// Enabled reports whether capability was enabled.
func (f *Fake) Enabled(capability gpu.Enum) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.enabled[capability]
}

// DepthFn returns the last depth comparison function set.
func (f *Fake) DepthFn() gpu.Enum {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.depth
}

// --- internal helpers ---

// record appends a call. Caller must hold the mutex.
func (f *Fake) record(name string, args ...any) {
	f.Calls = append(f.Calls, Call{Name: name, Args: args})
}

// create allocates an id for kind, or returns 0 when FailCreate says so.
// Caller must hold the mutex.
func (f *Fake) create(kind string) uint32 {
	f.created[kind]++
	if f.FailCreate != nil && f.FailCreate(kind, f.created[kind]) {
		return 0
	}
	f.next++
	if f.live[kind] == nil {
		f.live[kind] = make(map[uint32]bool)
	}
	f.live[kind][f.next] = true
	return f.next
}

// release marks id of kind as deleted. Deleting 0 is a no-op as in GL.
// Caller must hold the mutex.
func (f *Fake) release(kind string, id uint32) {
	delete(f.live[kind], id)
}

// --- gpu.Context implementation ---

func (f *Fake) CreateBuffer() gpu.Buffer {
	f.mu.Lock()
	defer f.mu.Unlock()
	b := gpu.Buffer(f.create(KindBuffer))
	f.record("CreateBuffer", b)
	return b
}

func (f *Fake) DeleteBuffer(b gpu.Buffer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteBuffer", b)
	f.release(KindBuffer, uint32(b))
	delete(f.contents, b)
}

func (f *Fake) BindBuffer(target gpu.Enum, b gpu.Buffer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("BindBuffer", target, b)
	f.bound[target] = b
	if target == gpu.ElementArrayBuffer && f.vertexArray != 0 {
		f.elements[f.vertexArray] = b
	}
}

func (f *Fake) BufferData(target gpu.Enum, data []byte, usage gpu.Enum) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("BufferData", target, len(data), usage)
	f.contents[f.bound[target]] = slices.Clone(data)
}

func (f *Fake) CreateVertexArray() gpu.VertexArray {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := gpu.VertexArray(f.create(KindVertexArray))
	f.record("CreateVertexArray", v)
	return v
}

func (f *Fake) DeleteVertexArray(v gpu.VertexArray) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteVertexArray", v)
	f.release(KindVertexArray, uint32(v))
	if f.vertexArray == v {
		f.vertexArray = 0
	}
}

func (f *Fake) BindVertexArray(v gpu.VertexArray) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("BindVertexArray", v)
	f.vertexArray = v
}

func (f *Fake) VertexAttribPointer(index uint32, size int32, typ gpu.Enum, normalized bool, stride int32, offset int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("VertexAttribPointer", index, size, typ, normalized, stride, offset)
	f.attrib(index).Buffer = f.bound[gpu.ArrayBuffer]
	f.attrib(index).Size = size
	f.attrib(index).Type = typ
}

func (f *Fake) EnableVertexAttribArray(index uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("EnableVertexAttribArray", index)
	f.attrib(index).Enabled = true
}

// attrib returns the attribute slot of the bound vertex array, creating it.
// Caller must hold the mutex.
func (f *Fake) attrib(index uint32) *Attrib {
	slots := f.attribs[f.vertexArray]
	if slots == nil {
		slots = make(map[uint32]*Attrib)
		f.attribs[f.vertexArray] = slots
	}
	if slots[index] == nil {
		slots[index] = &Attrib{}
	}
	return slots[index]
}

func (f *Fake) DrawElements(mode gpu.Enum, count int32, typ gpu.Enum, offset int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DrawElements", mode, count, typ, offset)
}

func (f *Fake) CreateShader(stage gpu.Enum) gpu.Shader {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := gpu.Shader(f.create(KindShader))
	f.record("CreateShader", stage, s)
	if s != 0 {
		f.shaderStage[s] = stage
	}
	return s
}

func (f *Fake) ShaderSource(s gpu.Shader, source string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ShaderSource", s)
	f.shaderSource[s] = source
}

func (f *Fake) CompileShader(s gpu.Shader) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CompileShader", s)
	ok, log := true, ""
	if f.Compile != nil {
		ok, log = f.Compile(f.shaderStage[s], f.shaderSource[s])
	}
	f.compiled[s] = ok
	f.compileLog[s] = log
}

func (f *Fake) ShaderCompileStatus(s gpu.Shader) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.compiled[s]
}

func (f *Fake) ShaderInfoLog(s gpu.Shader) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.compileLog[s]
}

func (f *Fake) DeleteShader(s gpu.Shader) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteShader", s)
	f.release(KindShader, uint32(s))
}

func (f *Fake) CreateProgram() gpu.Program {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := gpu.Program(f.create(KindProgram))
	f.record("CreateProgram", p)
	return p
}

func (f *Fake) AttachShader(p gpu.Program, s gpu.Shader) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("AttachShader", p, s)
	f.attached[p] = append(f.attached[p], s)
}

func (f *Fake) DetachShader(p gpu.Program, s gpu.Shader) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DetachShader", p, s)
	f.attached[p] = slices.DeleteFunc(f.attached[p], func(x gpu.Shader) bool { return x == s })
}

func (f *Fake) LinkProgram(p gpu.Program) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("LinkProgram", p)
	sources := make([]string, 0, len(f.attached[p]))
	for _, s := range f.attached[p] {
		sources = append(sources, f.shaderSource[s])
	}
	ok, log := true, ""
	if f.Link != nil {
		ok, log = f.Link(sources)
	}
	f.linked[p] = ok
	f.linkLog[p] = log
	if !ok {
		return
	}
	locs := make(map[string]gpu.UniformLocation)
	for _, src := range sources {
		for _, m := range uniformDecl.FindAllStringSubmatch(src, -1) {
			if _, seen := locs[m[1]]; !seen {
				locs[m[1]] = gpu.UniformLocation(len(locs))
			}
		}
	}
	f.uniforms[p] = locs
}

func (f *Fake) ProgramLinkStatus(p gpu.Program) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.linked[p]
}

func (f *Fake) ProgramInfoLog(p gpu.Program) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.linkLog[p]
}

func (f *Fake) DeleteProgram(p gpu.Program) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteProgram", p)
	f.release(KindProgram, uint32(p))
	delete(f.uniforms, p)
	if f.program == p {
		f.program = 0
	}
}

func (f *Fake) UseProgram(p gpu.Program) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UseProgram", p)
	f.program = p
}

func (f *Fake) UniformLocation(p gpu.Program, name string) gpu.UniformLocation {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UniformLocation", p, name)
	if loc, ok := f.uniforms[p][name]; ok {
		return loc
	}
	return gpu.NoUniform
}

func (f *Fake) UniformMatrix4(loc gpu.UniformLocation, m [16]float32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UniformMatrix4", loc, m)
	f.matrices[loc] = m
}

func (f *Fake) Uniform1f(loc gpu.UniformLocation, v float32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Uniform1f", loc, v)
	f.floats[loc] = v
}

func (f *Fake) Clear(mask gpu.Enum) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Clear", mask)
}

func (f *Fake) ClearColor(r, g, b, a float32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ClearColor", r, g, b, a)
}

func (f *Fake) Enable(capability gpu.Enum) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Enable", capability)
	f.enabled[capability] = true
}

func (f *Fake) DepthFunc(fn gpu.Enum) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DepthFunc", fn)
	f.depth = fn
}

func (f *Fake) Viewport(x, y, width, height int32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Viewport", x, y, width, height)
}
