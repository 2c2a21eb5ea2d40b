package mesh

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/seabiscuit-iv/meshview/common"
	"github.com/seabiscuit-iv/meshview/engine/gpu"
)

// Fixed vertex attribute slots. Shaders bind to these with layout(location = N).
const (
	AttribPosition uint32 = 0
	AttribColor    uint32 = 1
	AttribUV       uint32 = 2
)

var (
	// ErrInvalidGeometry is returned when positions or indices violate the mesh invariants.
	ErrInvalidGeometry = errors.New("invalid geometry")

	// ErrAllocation is returned when the GPU context fails to create an object.
	ErrAllocation = errors.New("gpu allocation failed")
)

// geometryBuffer is the implementation of the GeometryBuffer interface.
type geometryBuffer struct {
	mu *sync.Mutex

	ctx gpu.Context
	rng *rand.Rand

	positions []mgl32.Vec3
	indices   []uint32
	colors    []mgl32.Vec4
	uvs       []mgl32.Vec2

	vertexArray    gpu.VertexArray
	positionBuffer gpu.Buffer
	colorBuffer    gpu.Buffer
	uvBuffer       gpu.Buffer
	indexBuffer    gpu.Buffer

	destroyed bool
}

// GeometryBuffer owns the GPU buffers and vertex array for one mesh.
// Vertex colors are generated per triangle so consecutive vertex triples are
// flat shaded. All GPU objects are created once in NewGeometryBuffer and
// released once by Destroy; the GPU context must be current for both.
type GeometryBuffer interface {
	// Positions returns a copy of the vertex positions.
	//
	// Returns:
	//   - []mgl32.Vec3: vertex positions in upload order
	Positions() []mgl32.Vec3

	// Indices returns a copy of the triangle index list.
	//
	// Returns:
	//   - []uint32: vertex indices, three per triangle
	Indices() []uint32

	// Colors returns a copy of the generated per-vertex RGBA colors.
	//
	// Returns:
	//   - []mgl32.Vec4: one color per vertex
	Colors() []mgl32.Vec4

	// UVs returns a copy of the per-vertex texture coordinates (currently all zero).
	//
	// Returns:
	//   - []mgl32.Vec2: one coordinate per vertex
	UVs() []mgl32.Vec2

	// VertexCount returns the number of vertices.
	VertexCount() int

	// IndexCount returns the number of indices drawn per call.
	IndexCount() int

	// VertexArray returns the vertex array handle, or 0 after Destroy.
	VertexArray() gpu.VertexArray

	// Draw binds the vertex array and issues one indexed triangle draw over all indices.
	// The shader program must already be in use. Does nothing after Destroy.
	Draw()

	// Destroy releases the vertex array and all four buffers.
	// Calling it again is a no-op.
	Destroy()
}

var _ GeometryBuffer = &geometryBuffer{}

// NewGeometryBuffer validates the mesh, generates colors and uvs, and uploads
// everything to freshly created GPU objects. On any failure, objects created so
// far are released before returning.
//
// Parameters:
//   - ctx: the current GPU context
//   - positions: vertex positions, must be non-empty
//   - indices: triangle indices, length a multiple of 3, each < len(positions)
//   - options: functional options to configure the buffer
//
// Returns:
//   - GeometryBuffer: the uploaded mesh
//   - error: an error wrapping ErrInvalidGeometry or ErrAllocation
func NewGeometryBuffer(ctx gpu.Context, positions []mgl32.Vec3, indices []uint32, options ...GeometryBufferOption) (GeometryBuffer, error) {
	if err := Validate(positions, indices); err != nil {
		return nil, err
	}

	g := &geometryBuffer{
		mu:        &sync.Mutex{},
		ctx:       ctx,
		positions: append([]mgl32.Vec3(nil), positions...),
		indices:   append([]uint32(nil), indices...),
	}
	for _, option := range options {
		option(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	g.colors = TriangleColors(len(g.positions), g.rng)
	g.uvs = make([]mgl32.Vec2, len(g.positions))

	if err := g.upload(); err != nil {
		g.release()
		return nil, err
	}
	return g, nil
}

// MustGeometryBuffer is like NewGeometryBuffer but panics on error.
// Geometry setup failures are fatal for the viewer.
func MustGeometryBuffer(ctx gpu.Context, positions []mgl32.Vec3, indices []uint32, options ...GeometryBufferOption) GeometryBuffer {
	g, err := NewGeometryBuffer(ctx, positions, indices, options...)
	if err != nil {
		panic(fmt.Sprintf("mesh: %v", err))
	}
	return g
}

// Validate checks the mesh invariants without touching the GPU.
//
// Parameters:
//   - positions: vertex positions
//   - indices: triangle indices
//
// Returns:
//   - error: nil if valid, otherwise an error wrapping ErrInvalidGeometry
func Validate(positions []mgl32.Vec3, indices []uint32) error {
	if len(positions) == 0 {
		return fmt.Errorf("%w: no positions", ErrInvalidGeometry)
	}
	if len(indices)%3 != 0 {
		return fmt.Errorf("%w: index count %d is not a multiple of 3", ErrInvalidGeometry, len(indices))
	}
	for i, idx := range indices {
		if int(idx) >= len(positions) {
			return fmt.Errorf("%w: index %d at position %d is out of range for %d vertices", ErrInvalidGeometry, idx, i, len(positions))
		}
	}
	return nil
}

// TriangleColors generates one color per vertex. Every vertex whose index is a
// multiple of 3 gets a new random RGB color with alpha 1; the two vertices after
// it repeat the preceding vertex's color.
//
// Parameters:
//   - n: number of vertices
//   - rng: random source for the color channels
//
// Returns:
//   - []mgl32.Vec4: n colors
func TriangleColors(n int, rng *rand.Rand) []mgl32.Vec4 {
	colors := make([]mgl32.Vec4, 0, n)
	for i := range n {
		if i%3 == 0 {
			colors = append(colors, mgl32.Vec4{rng.Float32(), rng.Float32(), rng.Float32(), 1.0})
			continue
		}
		colors = append(colors, colors[i-1])
	}
	return colors
}

// upload creates all GPU objects and fills them. The vertex array captures the
// index buffer binding and the three attribute pointers.
func (g *geometryBuffer) upload() error {
	if g.positionBuffer = g.ctx.CreateBuffer(); g.positionBuffer == 0 {
		return fmt.Errorf("%w: position buffer", ErrAllocation)
	}
	if g.colorBuffer = g.ctx.CreateBuffer(); g.colorBuffer == 0 {
		return fmt.Errorf("%w: color buffer", ErrAllocation)
	}
	if g.uvBuffer = g.ctx.CreateBuffer(); g.uvBuffer == 0 {
		return fmt.Errorf("%w: uv buffer", ErrAllocation)
	}
	if g.indexBuffer = g.ctx.CreateBuffer(); g.indexBuffer == 0 {
		return fmt.Errorf("%w: index buffer", ErrAllocation)
	}
	if g.vertexArray = g.ctx.CreateVertexArray(); g.vertexArray == 0 {
		return fmt.Errorf("%w: vertex array", ErrAllocation)
	}

	g.ctx.BindVertexArray(g.vertexArray)

	g.ctx.BindBuffer(gpu.ElementArrayBuffer, g.indexBuffer)
	g.ctx.BufferData(gpu.ElementArrayBuffer, common.SliceToBytes(g.indices), gpu.StaticDraw)

	g.ctx.BindBuffer(gpu.ArrayBuffer, g.positionBuffer)
	g.ctx.BufferData(gpu.ArrayBuffer, common.SliceToBytes(common.PadPositions(g.positions)), gpu.StaticDraw)
	g.ctx.VertexAttribPointer(AttribPosition, 4, gpu.Float, false, 0, 0)
	g.ctx.EnableVertexAttribArray(AttribPosition)

	g.ctx.BindBuffer(gpu.ArrayBuffer, g.colorBuffer)
	g.ctx.BufferData(gpu.ArrayBuffer, common.SliceToBytes(g.colors), gpu.StaticDraw)
	g.ctx.VertexAttribPointer(AttribColor, 4, gpu.Float, false, 0, 0)
	g.ctx.EnableVertexAttribArray(AttribColor)

	g.ctx.BindBuffer(gpu.ArrayBuffer, g.uvBuffer)
	g.ctx.BufferData(gpu.ArrayBuffer, common.SliceToBytes(g.uvs), gpu.StaticDraw)
	g.ctx.VertexAttribPointer(AttribUV, 2, gpu.Float, false, 0, 0)
	g.ctx.EnableVertexAttribArray(AttribUV)

	g.ctx.BindVertexArray(0)
	g.ctx.BindBuffer(gpu.ArrayBuffer, 0)
	return nil
}

// release deletes every non-zero handle and zeroes it.
// Caller must hold the mutex or own g exclusively.
func (g *geometryBuffer) release() {
	if g.vertexArray != 0 {
		g.ctx.DeleteVertexArray(g.vertexArray)
		g.vertexArray = 0
	}
	for _, b := range []*gpu.Buffer{&g.positionBuffer, &g.colorBuffer, &g.uvBuffer, &g.indexBuffer} {
		if *b != 0 {
			g.ctx.DeleteBuffer(*b)
			*b = 0
		}
	}
}

func (g *geometryBuffer) Positions() []mgl32.Vec3 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]mgl32.Vec3(nil), g.positions...)
}

func (g *geometryBuffer) Indices() []uint32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]uint32(nil), g.indices...)
}

func (g *geometryBuffer) Colors() []mgl32.Vec4 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]mgl32.Vec4(nil), g.colors...)
}

func (g *geometryBuffer) UVs() []mgl32.Vec2 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]mgl32.Vec2(nil), g.uvs...)
}

func (g *geometryBuffer) VertexCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.positions)
}

func (g *geometryBuffer) IndexCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.indices)
}

func (g *geometryBuffer) VertexArray() gpu.VertexArray {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.vertexArray
}

func (g *geometryBuffer) Draw() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.destroyed {
		return
	}
	g.ctx.BindVertexArray(g.vertexArray)
	g.ctx.DrawElements(gpu.Triangles, int32(len(g.indices)), gpu.UnsignedInt, 0)
}

func (g *geometryBuffer) Destroy() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.destroyed {
		return
	}
	g.release()
	g.destroyed = true
}
