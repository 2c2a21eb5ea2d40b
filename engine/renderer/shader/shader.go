package shader

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/seabiscuit-iv/meshview/engine/gpu"
)

// ShaderType identifies the pipeline stage a shader source belongs to.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex stage.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment stage, paired with a vertex shader.
	ShaderTypeFragment
)

// String returns the lower-case stage name used in diagnostics.
func (t ShaderType) String() string {
	switch t {
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	default:
		return fmt.Sprintf("ShaderType(%d)", int(t))
	}
}

// Stage returns the GL shader object type for t.
func (t ShaderType) Stage() gpu.Enum {
	if t == ShaderTypeFragment {
		return gpu.FragmentShader
	}
	return gpu.VertexShader
}

// shader is the implementation of the Shader interface.
type shader struct {
	key        string
	path       string
	source     string
	shaderType ShaderType
}

// Shader is a GLSL source for one pipeline stage, read from disk.
// It holds no GPU objects; Compile turns it into a transient shader object.
type Shader interface {
	// Key retrieves the identifier used in diagnostics.
	//
	// Returns:
	//   - string: the shader's key
	Key() string

	// Path returns the file the source was read from.
	//
	// Returns:
	//   - string: source file path
	Path() string

	// Source retrieves the GLSL source code.
	//
	// Returns:
	//   - string: the source text
	Source() string

	// ShaderType returns the stage of the shader.
	//
	// Returns:
	//   - ShaderType: ShaderTypeVertex or ShaderTypeFragment
	ShaderType() ShaderType
}

var _ Shader = &shader{}

// NewShader reads a shader source file.
//
// Parameters:
//   - key: identifier used in diagnostics
//   - shaderType: the stage this source is compiled as
//   - sourcePath: the file path to read GLSL source from
//
// Returns:
//   - Shader: the loaded shader
//   - error: error if the path is empty or the file cannot be read
func NewShader(key string, shaderType ShaderType, sourcePath string) (Shader, error) {
	if sourcePath == "" {
		return nil, fmt.Errorf("shader: %s has no source path", key)
	}
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("shader: failed to read source file %q: %w", sourcePath, err)
	}
	return &shader{
		key:        key,
		path:       sourcePath,
		source:     string(data),
		shaderType: shaderType,
	}, nil
}

// FromSource builds a Shader from in-memory source text.
//
// Parameters:
//   - key: identifier used in diagnostics
//   - shaderType: the stage this source is compiled as
//   - source: GLSL source text
//
// Returns:
//   - Shader: the shader
func FromSource(key string, shaderType ShaderType, source string) Shader {
	return &shader{key: key, source: source, shaderType: shaderType}
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Path() string {
	return s.path
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

// loadPool reads shader files off the render thread. Two workers cover the
// vertex/fragment pair; idle workers exit after a second.
var loadPool = sync.OnceValue(func() worker.DynamicWorkerPool {
	return worker.NewDynamicWorkerPool(2, 8, 1*time.Second)
})

// LoadSources reads the vertex and fragment sources concurrently.
//
// Parameters:
//   - vertexPath: path of the vertex stage source
//   - fragmentPath: path of the fragment stage source
//
// Returns:
//   - Shader: the vertex shader
//   - Shader: the fragment shader
//   - error: the joined read errors, if any
func LoadSources(vertexPath, fragmentPath string) (Shader, Shader, error) {
	type request struct {
		key  string
		typ  ShaderType
		path string
	}
	requests := [2]request{
		{key: "vertex", typ: ShaderTypeVertex, path: vertexPath},
		{key: "fragment", typ: ShaderTypeFragment, path: fragmentPath},
	}

	var (
		wg      sync.WaitGroup
		shaders [2]Shader
		errs    [2]error
	)
	for i, req := range requests {
		wg.Add(1)
		loadPool().SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				shaders[i], errs[i] = NewShader(req.key, req.typ, req.path)
				return shaders[i], errs[i]
			},
		})
	}
	wg.Wait()

	if err := errors.Join(errs[0], errs[1]); err != nil {
		return nil, nil, err
	}
	return shaders[0], shaders[1], nil
}
