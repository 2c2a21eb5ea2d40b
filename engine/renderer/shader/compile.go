package shader

import (
	"fmt"

	"github.com/seabiscuit-iv/meshview/engine/gpu"
)

// CompileError carries the compiler diagnostics for a shader that failed to compile.
type CompileError struct {
	Key  string
	Type ShaderType
	Path string
	Log  string
}

func (e *CompileError) Error() string {
	name := e.Key
	if e.Path != "" {
		name = e.Path
	}
	return fmt.Sprintf("failed to compile %s shader %q: %s", e.Type, name, e.Log)
}

// Compile creates a shader object for s, uploads its source and compiles it.
// On failure the object is deleted and a *CompileError with the info log is returned.
//
// Parameters:
//   - ctx: the current GPU context
//   - s: the shader source to compile
//
// Returns:
//   - gpu.Shader: the compiled shader object, owned by the caller
//   - error: a *CompileError, or an allocation error
func Compile(ctx gpu.Context, s Shader) (gpu.Shader, error) {
	obj := ctx.CreateShader(s.ShaderType().Stage())
	if obj == 0 {
		return 0, fmt.Errorf("cannot create %s shader object for %q", s.ShaderType(), s.Key())
	}
	ctx.ShaderSource(obj, s.Source())
	ctx.CompileShader(obj)
	if !ctx.ShaderCompileStatus(obj) {
		log := ctx.ShaderInfoLog(obj)
		ctx.DeleteShader(obj)
		return 0, &CompileError{Key: s.Key(), Type: s.ShaderType(), Path: s.Path(), Log: log}
	}
	return obj, nil
}
