// Package config holds the viewer settings. Values come from Default, then an
// optional TOML file, then command line flags, each overriding the previous.
package config

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/seabiscuit-iv/meshview/common"
)

// Projection names accepted in Camera.Projection.
const (
	ProjectionPerspective  = "perspective"
	ProjectionOrthographic = "orthographic"
)

// ErrInvalid is wrapped by every Validate error.
var ErrInvalid = errors.New("invalid config")

// Config is the complete viewer configuration.
type Config struct {
	Window    Window   `toml:"window"`
	Shaders   Shaders  `toml:"shaders"`
	Camera    Camera   `toml:"camera"`
	Controls  Controls `toml:"controls"`
	Mesh      Mesh     `toml:"mesh"`
	Profiling bool     `toml:"profiling"`
	// FrameLimit caps the render rate in frames per second; 0 is uncapped.
	FrameLimit float64 `toml:"frame_limit"`
}

// Window configures the viewer window.
type Window struct {
	Title     string `toml:"title"`
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	MinWidth  int    `toml:"min_width"`
	MinHeight int    `toml:"min_height"`
	VSync     bool   `toml:"vsync"`
	// Samples is the multisample count; 0 turns anti-aliasing off.
	Samples int `toml:"samples"`
	// ClearColor is the RGBA background, each component in [0, 1].
	ClearColor [4]float32 `toml:"clear_color"`
	// StatusTitle appends the camera position and held keys to the title.
	StatusTitle bool `toml:"status_title"`
}

// Shaders names the GLSL sources of the pipeline.
type Shaders struct {
	Vertex    string `toml:"vertex"`
	Fragment  string `toml:"fragment"`
	HotReload bool   `toml:"hot_reload"`
}

// Camera configures the projection. FOV is in degrees.
type Camera struct {
	Projection string  `toml:"projection"`
	FOV        float32 `toml:"fov"`
	Near       float32 `toml:"near"`
	Far        float32 `toml:"far"`
	OrthoScale float32 `toml:"ortho_scale"`
}

// Controls configures input response.
type Controls struct {
	// Step is the distance moved per frame while a movement key is held.
	Step float32 `toml:"step"`
	// Sensitivity is the rotation in degrees per pixel of drag.
	Sensitivity float32 `toml:"sensitivity"`
}

// Mesh selects the built-in geometry and its color seed.
type Mesh struct {
	Shape string `toml:"shape"`
	// Seed fixes the triangle colors; 0 picks a random seed.
	Seed   uint64  `toml:"seed"`
	Offset float32 `toml:"offset"`
}

// Default returns the built-in configuration.
//
// Returns:
//   - Config: the default settings
func Default() Config {
	return Config{
		Window: Window{
			Title:       "meshview",
			Width:       800,
			Height:      800,
			MinWidth:    200,
			MinHeight:   200,
			VSync:       true,
			Samples:     4,
			ClearColor:  [4]float32{0.1, 0.1, 0.1, 1},
			StatusTitle: true,
		},
		Shaders: Shaders{
			Vertex:    "shaders/main.vert.glsl",
			Fragment:  "shaders/main.frag.glsl",
			HotReload: true,
		},
		Camera: Camera{
			Projection: ProjectionPerspective,
			FOV:        45,
			Near:       0.1,
			Far:        100,
			OrthoScale: 1,
		},
		Controls: Controls{
			Step:        0.1,
			Sensitivity: 0.1,
		},
		Mesh: Mesh{
			Shape: "quad",
		},
	}
}

// LoadFile decodes a TOML file over base. Keys absent from the file keep
// their value from base; unknown keys are an error.
//
// Parameters:
//   - path: the TOML file to read
//   - base: the configuration to start from
//
// Returns:
//   - Config: the merged configuration
//   - error: error if the file cannot be read or decoded
func LoadFile(path string, base Config) (Config, error) {
	fp, err := os.Open(path)
	if err != nil {
		return base, fmt.Errorf("config: %w", err)
	}
	defer fp.Close()

	cfg := base
	dec := toml.NewDecoder(bufio.NewReader(fp)).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return base, fmt.Errorf("config: %s: unknown keys:\n%s", path, strict.String())
		}
		return base, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Marshal encodes c as TOML.
//
// Returns:
//   - []byte: the TOML document
//   - error: error if encoding fails
func (c Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf).SetIndentTables(true)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes c to path as TOML.
//
// Parameters:
//   - path: destination file
//
// Returns:
//   - error: error if encoding or writing fails
func (c Config) Save(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate reports every setting the viewer cannot start with.
//
// Returns:
//   - error: the joined problems, each wrapping ErrInvalid, or nil
func (c Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...)))
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		bad("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Window.MinWidth < 0 || c.Window.MinHeight < 0 {
		bad("minimum window size must not be negative, got %dx%d", c.Window.MinWidth, c.Window.MinHeight)
	}
	if c.Window.Samples < 0 {
		bad("samples must not be negative, got %d", c.Window.Samples)
	}
	for _, v := range c.Window.ClearColor {
		if v < 0 || v > 1 {
			bad("clear_color components must be in [0, 1], got %v", c.Window.ClearColor)
			break
		}
	}
	if c.Shaders.Vertex == "" {
		bad("vertex shader path is empty")
	}
	if c.Shaders.Fragment == "" {
		bad("fragment shader path is empty")
	}
	switch c.Camera.Projection {
	case ProjectionPerspective:
		if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
			bad("fov must be in (0, 180) degrees, got %g", c.Camera.FOV)
		}
	case ProjectionOrthographic:
		if c.Camera.OrthoScale <= 0 {
			bad("ortho_scale must be positive, got %g", c.Camera.OrthoScale)
		}
	default:
		bad("unknown projection %q", c.Camera.Projection)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		bad("clip planes must satisfy 0 < near < far, got near=%g far=%g", c.Camera.Near, c.Camera.Far)
	}
	if c.Controls.Step < 0 {
		bad("step must not be negative, got %g", c.Controls.Step)
	}
	if c.FrameLimit < 0 {
		bad("frame_limit must not be negative, got %g", c.FrameLimit)
	}
	return errors.Join(errs...)
}

// WindowTitle returns the configured title, falling back to the program name.
func (c Config) WindowTitle() string {
	return common.Coalesce(c.Window.Title, "meshview")
}
