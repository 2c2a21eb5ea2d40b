package config

import (
	"flag"
	"fmt"
	"io"
)

// Options is the result of parsing the command line.
type Options struct {
	Config Config
	// Path is the config file that was loaded, or empty.
	Path string
	// DumpConfig asks the program to print the effective configuration and exit.
	DumpConfig bool
	// WriteConfig names a file the effective configuration is saved to before
	// exiting, or is empty.
	WriteConfig string
}

// Parse builds the configuration from args (without the program name):
// defaults, then the file named by -config, then every flag set explicitly.
//
// Parameters:
//   - name: program name used in usage output
//   - args: command line arguments
//   - output: destination for usage and flag errors
//
// Returns:
//   - Options: the parsed options
//   - error: a flag, file or validation error; flag.ErrHelp for -h
func Parse(name string, args []string, output io.Writer) (Options, error) {
	def := Default()
	flags := def

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)

	var opts Options
	fs.StringVar(&opts.Path, "config", "", "TOML config file")
	fs.BoolVar(&opts.DumpConfig, "dump-config", false, "print the effective config as TOML and exit")
	fs.StringVar(&opts.WriteConfig, "write-config", "", "save the effective config as TOML to this file and exit")

	fs.StringVar(&flags.Window.Title, "title", def.Window.Title, "window title")
	fs.IntVar(&flags.Window.Width, "width", def.Window.Width, "window width")
	fs.IntVar(&flags.Window.Height, "height", def.Window.Height, "window height")
	fs.BoolVar(&flags.Window.VSync, "vsync", def.Window.VSync, "wait for display refresh on swap")
	fs.IntVar(&flags.Window.Samples, "samples", def.Window.Samples, "multisample anti-aliasing samples (0 = off)")
	fs.BoolVar(&flags.Window.StatusTitle, "status-title", def.Window.StatusTitle, "show camera position and held keys in the title")
	fs.StringVar(&flags.Shaders.Vertex, "vert", def.Shaders.Vertex, "vertex shader source")
	fs.StringVar(&flags.Shaders.Fragment, "frag", def.Shaders.Fragment, "fragment shader source")
	fs.BoolVar(&flags.Shaders.HotReload, "hot-reload", def.Shaders.HotReload, "rebuild the pipeline when shader sources change")
	fs.StringVar(&flags.Camera.Projection, "projection", def.Camera.Projection, "perspective or orthographic")
	float32Var(fs, &flags.Camera.FOV, "fov", def.Camera.FOV, "vertical field of view in degrees")
	float32Var(fs, &flags.Controls.Step, "step", def.Controls.Step, "distance moved per frame per held key")
	float32Var(fs, &flags.Controls.Sensitivity, "sensitivity", def.Controls.Sensitivity, "degrees of rotation per pixel of drag")
	fs.StringVar(&flags.Mesh.Shape, "shape", def.Mesh.Shape, "built-in mesh: quad or cube")
	fs.Uint64Var(&flags.Mesh.Seed, "seed", def.Mesh.Seed, "triangle color seed (0 = random)")
	float32Var(fs, &flags.Mesh.Offset, "offset", def.Mesh.Offset, "value of the u_Offset uniform")
	fs.BoolVar(&flags.Profiling, "profile", def.Profiling, "log frame statistics every second")
	fs.Float64Var(&flags.FrameLimit, "fps", def.FrameLimit, "frame rate cap (0 = uncapped)")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	cfg := def
	if opts.Path != "" {
		var err error
		if cfg, err = LoadFile(opts.Path, def); err != nil {
			return opts, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		override(&cfg, &flags, f.Name)
	})
	opts.Config = cfg
	return opts, cfg.Validate()
}

// override copies the field bound to the named flag from src into dst.
func override(dst, src *Config, name string) {
	switch name {
	case "title":
		dst.Window.Title = src.Window.Title
	case "width":
		dst.Window.Width = src.Window.Width
	case "height":
		dst.Window.Height = src.Window.Height
	case "vsync":
		dst.Window.VSync = src.Window.VSync
	case "samples":
		dst.Window.Samples = src.Window.Samples
	case "status-title":
		dst.Window.StatusTitle = src.Window.StatusTitle
	case "vert":
		dst.Shaders.Vertex = src.Shaders.Vertex
	case "frag":
		dst.Shaders.Fragment = src.Shaders.Fragment
	case "hot-reload":
		dst.Shaders.HotReload = src.Shaders.HotReload
	case "projection":
		dst.Camera.Projection = src.Camera.Projection
	case "fov":
		dst.Camera.FOV = src.Camera.FOV
	case "step":
		dst.Controls.Step = src.Controls.Step
	case "sensitivity":
		dst.Controls.Sensitivity = src.Controls.Sensitivity
	case "shape":
		dst.Mesh.Shape = src.Mesh.Shape
	case "seed":
		dst.Mesh.Seed = src.Mesh.Seed
	case "offset":
		dst.Mesh.Offset = src.Mesh.Offset
	case "profile":
		dst.Profiling = src.Profiling
	case "fps":
		dst.FrameLimit = src.FrameLimit
	}
}

// float32Value adapts a float32 field to flag.Value.
type float32Value struct{ p *float32 }

func (v float32Value) String() string {
	if v.p == nil {
		return "0"
	}
	return fmt.Sprint(*v.p)
}

func (v float32Value) Set(s string) error {
	var f float32
	if _, err := fmt.Sscan(s, &f); err != nil {
		return fmt.Errorf("parse %q as float: %w", s, err)
	}
	*v.p = f
	return nil
}

func float32Var(fs *flag.FlagSet, p *float32, name string, value float32, usage string) {
	*p = value
	fs.Var(float32Value{p}, name, usage)
}
