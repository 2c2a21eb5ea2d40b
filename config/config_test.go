package config

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "meshview.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, float32(0.1), cfg.Controls.Step)
	assert.Equal(t, float32(0.1), cfg.Controls.Sensitivity)
	assert.Equal(t, ProjectionPerspective, cfg.Camera.Projection)
	assert.Equal(t, "shaders/main.vert.glsl", cfg.Shaders.Vertex)
	assert.Equal(t, "shaders/main.frag.glsl", cfg.Shaders.Fragment)
	assert.Equal(t, 4, cfg.Window.Samples)
	assert.Equal(t, [4]float32{0.1, 0.1, 0.1, 1}, cfg.Window.ClearColor)
	assert.True(t, cfg.Window.StatusTitle)
}

func TestLoadFileKeepsUnsetKeys(t *testing.T) {
	path := writeFile(t, `
profiling = true

[window]
title = "cube"
width = 1024

[mesh]
shape = "cube"
seed = 7
`)
	cfg, err := LoadFile(path, Default())
	require.NoError(t, err)

	assert.Equal(t, "cube", cfg.Window.Title)
	assert.Equal(t, 1024, cfg.Window.Width)
	assert.Equal(t, 800, cfg.Window.Height)
	assert.Equal(t, "cube", cfg.Mesh.Shape)
	assert.Equal(t, uint64(7), cfg.Mesh.Seed)
	assert.True(t, cfg.Profiling)
	assert.Equal(t, Default().Shaders, cfg.Shaders)
}

func TestLoadFileRejectsUnknownKeys(t *testing.T) {
	path := writeFile(t, "[window]\ntitel = \"typo\"\n")
	cfg, err := LoadFile(path, Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "titel")
	assert.Equal(t, Default(), cfg)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.toml"), Default())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Window.Title = "saved"
	cfg.Camera.Projection = ProjectionOrthographic
	cfg.Mesh.Offset = 0.25
	cfg.Window.ClearColor = [4]float32{0, 0.5, 1, 1}
	cfg.Window.MinWidth = 320

	path := filepath.Join(t.TempDir(), "out.toml")
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadFile(path, Config{})
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"zero width":       func(c *Config) { c.Window.Width = 0 },
		"negative height":  func(c *Config) { c.Window.Height = -1 },
		"no vertex":        func(c *Config) { c.Shaders.Vertex = "" },
		"no fragment":      func(c *Config) { c.Shaders.Fragment = "" },
		"bad projection":   func(c *Config) { c.Camera.Projection = "fisheye" },
		"zero fov":         func(c *Config) { c.Camera.FOV = 0 },
		"far before near":  func(c *Config) { c.Camera.Far = 0.05 },
		"zero ortho scale": func(c *Config) { c.Camera.Projection = ProjectionOrthographic; c.Camera.OrthoScale = 0 },
		"negative step":    func(c *Config) { c.Controls.Step = -1 },
		"negative fps":     func(c *Config) { c.FrameLimit = -30 },
		"negative samples": func(c *Config) { c.Window.Samples = -2 },
		"negative min":     func(c *Config) { c.Window.MinHeight = -1 },
		"clear color > 1":  func(c *Config) { c.Window.ClearColor[2] = 1.5 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestValidateJoinsProblems(t *testing.T) {
	cfg := Default()
	cfg.Window.Width = 0
	cfg.Shaders.Fragment = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "window size")
	assert.Contains(t, err.Error(), "fragment shader path")
}

func TestParseDefaults(t *testing.T) {
	opts, err := Parse("meshview", nil, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, Default(), opts.Config)
	assert.Empty(t, opts.Path)
}

func TestParsePrecedence(t *testing.T) {
	path := writeFile(t, `
[window]
width = 1024
height = 768

[controls]
step = 0.5
`)
	opts, err := Parse("meshview", []string{"-config", path, "-height", "600", "-sensitivity", "0.2"}, &bytes.Buffer{})
	require.NoError(t, err)

	cfg := opts.Config
	assert.Equal(t, path, opts.Path)
	assert.Equal(t, 1024, cfg.Window.Width, "file overrides default")
	assert.Equal(t, 600, cfg.Window.Height, "flag overrides file")
	assert.Equal(t, float32(0.5), cfg.Controls.Step, "unset flag keeps file value")
	assert.Equal(t, float32(0.2), cfg.Controls.Sensitivity)
}

func TestParseExplicitDefaultStillOverridesFile(t *testing.T) {
	path := writeFile(t, "[mesh]\nshape = \"cube\"\n")
	opts, err := Parse("meshview", []string{"-config", path, "-shape", "quad"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "quad", opts.Config.Mesh.Shape)
}

func TestParseWindowSettings(t *testing.T) {
	path := writeFile(t, `
[window]
samples = 8
clear_color = [1.0, 1.0, 1.0, 1.0]
min_width = 300
`)
	opts, err := Parse("meshview", []string{"-config", path, "-samples", "0", "-status-title=false"}, &bytes.Buffer{})
	require.NoError(t, err)

	w := opts.Config.Window
	assert.Equal(t, 0, w.Samples, "flag overrides file")
	assert.False(t, w.StatusTitle)
	assert.Equal(t, [4]float32{1, 1, 1, 1}, w.ClearColor)
	assert.Equal(t, 300, w.MinWidth)
	assert.Equal(t, 200, w.MinHeight)
}

func TestParseWriteConfig(t *testing.T) {
	out := filepath.Join(t.TempDir(), "written.toml")
	opts, err := Parse("meshview", []string{"-write-config", out, "-shape", "cube"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, out, opts.WriteConfig)

	require.NoError(t, opts.Config.Save(out))
	loaded, err := Parse("meshview", []string{"-config", out}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, opts.Config, loaded.Config)
}

func TestParseErrors(t *testing.T) {
	var out bytes.Buffer
	_, err := Parse("meshview", []string{"-h"}, &out)
	assert.ErrorIs(t, err, flag.ErrHelp)
	assert.Contains(t, out.String(), "-hot-reload")

	_, err = Parse("meshview", []string{"-fov", "wide"}, &bytes.Buffer{})
	assert.Error(t, err)

	_, err = Parse("meshview", []string{"-width", "0"}, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = Parse("meshview", []string{"extra"}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestWindowTitle(t *testing.T) {
	cfg := Default()
	cfg.Window.Title = ""
	assert.Equal(t, "meshview", cfg.WindowTitle())
	cfg.Window.Title = "mesh"
	assert.Equal(t, "mesh", cfg.WindowTitle())
}
