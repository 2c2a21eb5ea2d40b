package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/seabiscuit-iv/meshview/engine/camera"
	"github.com/seabiscuit-iv/meshview/engine/gpu"
	"github.com/seabiscuit-iv/meshview/engine/gpu/gputest"
	"github.com/seabiscuit-iv/meshview/engine/mesh"
	"github.com/seabiscuit-iv/meshview/engine/renderer/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vertexSource = `#version 410 core
layout(location = 0) in vec4 a_Position;
layout(location = 1) in vec4 a_Color;
uniform mat4 u_ViewProj;
uniform float u_Offset;
out vec4 v_Color;
void main() {
    v_Color = a_Color;
    gl_Position = u_ViewProj * (a_Position + vec4(u_Offset, 0.0, 0.0, 0.0));
}
`

const fragmentSource = `#version 410 core
in vec4 v_Color;
out vec4 o_Color;
void main() { o_Color = v_Color; }
`

const compilerLog = "0:4(5): error: `o_Colr' undeclared"

// rejectTypos fails compilation of any source containing o_Colr, mimicking a driver.
func rejectTypos(stage gpu.Enum, source string) (bool, string) {
	if strings.Contains(source, "o_Colr") {
		return false, compilerLog
	}
	return true, ""
}

func writeSources(t *testing.T, vs, fs string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	vp := filepath.Join(dir, "main.vert.glsl")
	fp := filepath.Join(dir, "main.frag.glsl")
	require.NoError(t, os.WriteFile(vp, []byte(vs), 0o644))
	require.NoError(t, os.WriteFile(fp, []byte(fs), 0o644))
	return vp, fp
}

func TestNewShaderPipeline(t *testing.T) {
	ctx := gputest.NewFake()
	vp, fp := writeSources(t, vertexSource, fragmentSource)

	p, err := NewShaderPipeline(ctx, vp, fp)
	require.NoError(t, err)

	assert.NotZero(t, p.Program())
	assert.Equal(t, 1, ctx.Live(gputest.KindProgram))
	assert.Equal(t, 0, ctx.Live(gputest.KindShader), "transient shader objects must be deleted after link")
	assert.Equal(t, 2, ctx.CallCount("DetachShader"))
	assert.Equal(t, 2, ctx.CallCount("DeleteShader"))
}

func TestNewShaderPipelineMissingFile(t *testing.T) {
	ctx := gputest.NewFake()
	vp, _ := writeSources(t, vertexSource, fragmentSource)

	_, err := NewShaderPipeline(ctx, vp, filepath.Join(t.TempDir(), "absent.frag.glsl"))
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.Empty(t, ctx.Calls)
}

func TestNewShaderPipelineMalformedFragment(t *testing.T) {
	ctx := gputest.NewFake()
	ctx.Compile = rejectTypos
	vp, fp := writeSources(t, vertexSource, strings.Replace(fragmentSource, "o_Color = ", "o_Colr = ", 1))

	_, err := NewShaderPipeline(ctx, vp, fp)
	require.Error(t, err)
	var compileErr *shader.CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, shader.ShaderTypeFragment, compileErr.Type)
	assert.Contains(t, err.Error(), compilerLog)

	assert.Equal(t, 0, ctx.Live(gputest.KindShader))
	assert.Equal(t, 0, ctx.Live(gputest.KindProgram))

	assert.PanicsWithValue(t, "pipeline: "+err.Error(), func() {
		MustShaderPipeline(ctx, vp, fp)
	})
}

func TestNewShaderPipelineLinkFailure(t *testing.T) {
	ctx := gputest.NewFake()
	const linkLog = "error: v_Color not written by vertex shader"
	ctx.Link = func(sources []string) (bool, string) { return false, linkLog }

	p, err := NewShaderPipelineFromShaders(ctx,
		shader.FromSource("vertex", shader.ShaderTypeVertex, vertexSource),
		shader.FromSource("fragment", shader.ShaderTypeFragment, fragmentSource),
		WithLabel("viewer"),
	)
	assert.Nil(t, p)
	var linkErr *LinkError
	require.ErrorAs(t, err, &linkErr)
	assert.Equal(t, linkLog, linkErr.Log)
	assert.Contains(t, err.Error(), "viewer")
	assert.Equal(t, 0, ctx.Live(gputest.KindShader))
	assert.Equal(t, 0, ctx.Live(gputest.KindProgram))
}

func TestNewShaderPipelineProgramAllocationFailure(t *testing.T) {
	ctx := gputest.NewFake()
	ctx.FailCreate = func(kind string, n int) bool { return kind == gputest.KindProgram }
	_, err := NewShaderPipelineFromShaders(ctx,
		shader.FromSource("vertex", shader.ShaderTypeVertex, vertexSource),
		shader.FromSource("fragment", shader.ShaderTypeFragment, fragmentSource),
	)
	assert.Error(t, err)
	assert.Zero(t, ctx.CallCount("CreateShader"))
}

func newTestPipeline(t *testing.T, ctx *gputest.Fake, vs string, opts ...PipelineBuilderOption) ShaderPipeline {
	t.Helper()
	p, err := NewShaderPipelineFromShaders(ctx,
		shader.FromSource("vertex", shader.ShaderTypeVertex, vs),
		shader.FromSource("fragment", shader.ShaderTypeFragment, fragmentSource),
		opts...,
	)
	require.NoError(t, err)
	return p
}

func TestPaint(t *testing.T) {
	ctx := gputest.NewFake()
	p := newTestPipeline(t, ctx, vertexSource)
	positions, indices := mesh.Quad()
	geometry := mesh.MustGeometryBuffer(ctx, positions, indices)
	cam := camera.NewCamera()
	ctx.ResetCalls()

	p.Paint(geometry, cam)

	assert.Equal(t, []string{
		"Clear", "DepthFunc", "Enable", "UseProgram",
		"UniformLocation", "UniformMatrix4",
		"BindVertexArray", "DrawElements",
	}, ctx.CallNames())
	clear, _ := ctx.LastCall("Clear")
	assert.Equal(t, gpu.DepthBufferBit, clear.Args[0])
	assert.Equal(t, gpu.Less, ctx.DepthFn())
	assert.True(t, ctx.Enabled(gpu.DepthTest))
	assert.Equal(t, p.Program(), ctx.CurrentProgram())

	loc := ctx.UniformLocation(p.Program(), UniformViewProj)
	m, ok := ctx.MatrixUniform(loc)
	require.True(t, ok)
	assert.Equal(t, [16]float32(cam.ProjViewMatrix()), m)

	draw, _ := ctx.LastCall("DrawElements")
	assert.Equal(t, int32(6), draw.Args[1])
}

func TestPaintWithoutDepthTest(t *testing.T) {
	ctx := gputest.NewFake()
	p := newTestPipeline(t, ctx, vertexSource, WithDepthTestEnabled(false))
	ctx.ResetCalls()
	p.Paint(drawFunc(func() {}), camera.NewCamera())
	assert.Zero(t, ctx.CallCount("Enable"))
}

type drawFunc func()

func (f drawFunc) Draw() { f() }

func TestMissingUniformIsSkipped(t *testing.T) {
	ctx := gputest.NewFake()
	// No u_Offset and no u_ViewProj: both behave as optimized out.
	vs := `#version 410 core
layout(location = 0) in vec4 a_Position;
void main() { gl_Position = a_Position; }
`
	p := newTestPipeline(t, ctx, vs)
	drawn := false
	ctx.ResetCalls()

	assert.NotPanics(t, func() {
		p.SetFloat(UniformOffset, 0.5)
		p.Paint(drawFunc(func() { drawn = true }), camera.NewCamera())
		p.SetMatrix4("u_Model", mgl32.Ident4())
	})
	assert.True(t, drawn)
	assert.Zero(t, ctx.CallCount("Uniform1f"))
	assert.Zero(t, ctx.CallCount("UniformMatrix4"))
}

func TestSetFloat(t *testing.T) {
	ctx := gputest.NewFake()
	p := newTestPipeline(t, ctx, vertexSource)
	p.SetFloat(UniformOffset, 0.25)

	v, ok := ctx.FloatUniform(ctx.UniformLocation(p.Program(), UniformOffset))
	require.True(t, ok)
	assert.Equal(t, float32(0.25), v)
	assert.Equal(t, p.Program(), ctx.CurrentProgram())
}

func TestDestroy(t *testing.T) {
	ctx := gputest.NewFake()
	p := newTestPipeline(t, ctx, vertexSource)

	p.Destroy()
	assert.Equal(t, 0, ctx.Live(gputest.KindProgram))
	assert.Zero(t, p.Program())

	ctx.ResetCalls()
	p.Destroy()
	p.Paint(drawFunc(func() { t.Fatal("draw after destroy") }), camera.NewCamera())
	p.SetFloat(UniformOffset, 1)
	assert.Empty(t, ctx.Calls)
}

func TestShippedShaders(t *testing.T) {
	ctx := gputest.NewFake()
	p, err := NewShaderPipeline(ctx, "../../../shaders/main.vert.glsl", "../../../shaders/main.frag.glsl")
	require.NoError(t, err)
	defer p.Destroy()

	for _, name := range []string{UniformViewProj, UniformOffset} {
		assert.True(t, ctx.UniformLocation(p.Program(), name).Valid(), name)
	}
}
