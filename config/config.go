// Package config holds the runtime settings of the snowflake viewer.
//
// Settings come from three layers, later ones winning: built-in defaults, an optional
// TOML or YAML file (-config), and command-line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"snowflake/internal/logging"
	"snowflake/koch"
	"snowflake/render"
)

const (
	BackendEbiten   = "ebiten"
	BackendGL       = "gl"
	BackendHeadless = "headless"
)

var ErrInvalid = errors.New("invalid config")

// Config is the complete viewer configuration.
type Config struct {
	Backend  string         `toml:"backend" yaml:"backend"`
	Window   Window         `toml:"window" yaml:"window"`
	Curve    Curve          `toml:"curve" yaml:"curve"`
	Color    Color          `toml:"color" yaml:"color"`
	Shader   Shader         `toml:"shader" yaml:"shader"`
	Headless Headless       `toml:"headless" yaml:"headless"`
	Log      logging.Config `toml:"log" yaml:"log"`
}

type Window struct {
	Width     int     `toml:"width" yaml:"width"`
	Height    int     `toml:"height" yaml:"height"`
	Title     string  `toml:"title" yaml:"title"`
	VSync     bool    `toml:"vsync" yaml:"vsync"`
	LineWidth float32 `toml:"line_width" yaml:"line_width"`
	HUD       bool    `toml:"hud" yaml:"hud"`
}

type Curve struct {
	Depth    int `toml:"depth" yaml:"depth"`
	MaxDepth int `toml:"max_depth" yaml:"max_depth"`
	// Anchors are the snowflake corners in NDC, walked in order.
	Anchors [3][2]float32 `toml:"anchors" yaml:"anchors"`
}

// Color describes the oscillating line color. The blue channel starts at Start and
// moves by Step every frame, bouncing between Min and Max.
type Color struct {
	R     float32 `toml:"r" yaml:"r"`
	G     float32 `toml:"g" yaml:"g"`
	A     float32 `toml:"a" yaml:"a"`
	Start float32 `toml:"start" yaml:"start"`
	Min   float32 `toml:"min" yaml:"min"`
	Max   float32 `toml:"max" yaml:"max"`
	Step  float32 `toml:"step" yaml:"step"`
}

type Shader struct {
	// Path to a combined shader file; empty uses the built-in one.
	Path  string `toml:"path" yaml:"path"`
	Watch bool   `toml:"watch" yaml:"watch"`
}

type Headless struct {
	Hz       int    `toml:"hz" yaml:"hz"`
	Frames   uint64 `toml:"frames" yaml:"frames"`
	Keys     string `toml:"keys" yaml:"keys"`
	Snapshot string `toml:"snapshot" yaml:"snapshot"`
}

// Default matches the classic viewer: a 600x600 "Fractal" window at depth 0 with the
// blue channel pulsing between 0.6 and 1.0.
func Default() Config {
	t := koch.DefaultTriangle
	return Config{
		Backend: BackendEbiten,
		Window: Window{
			Width:     600,
			Height:    600,
			Title:     "Fractal",
			VSync:     true,
			LineWidth: 1,
			HUD:       true,
		},
		Curve: Curve{
			Depth:    0,
			MaxDepth: 8,
			Anchors: [3][2]float32{
				{t[0].X, t[0].Y},
				{t[1].X, t[1].Y},
				{t[2].X, t[2].Y},
			},
		},
		Color: Color{
			R:     0,
			G:     0,
			A:     1,
			Start: 1,
			Min:   0.6,
			Max:   1,
			Step:  0.01,
		},
		Headless: Headless{Hz: 60},
		Log:      logging.Config{Level: "info", Encoding: "console"},
	}
}

// Triangle returns the anchors as a koch.Triangle.
func (c Config) Triangle() koch.Triangle {
	var t koch.Triangle
	for i, a := range c.Curve.Anchors {
		t[i] = koch.P(a[0], a[1])
	}
	return t
}

// BaseColor returns the color at the first frame.
func (c Config) BaseColor() render.ColorF {
	return render.ColorF{R: c.Color.R, G: c.Color.G, B: c.Color.Start, A: c.Color.A}
}

// Validate reports every problem found, wrapped in ErrInvalid.
func (c Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	switch c.Backend {
	case BackendEbiten, BackendGL, BackendHeadless:
	default:
		add("backend %q (want %s, %s or %s)", c.Backend, BackendEbiten, BackendGL, BackendHeadless)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		add("window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Window.LineWidth <= 0 {
		add("line width %g", c.Window.LineWidth)
	}
	if c.Curve.MaxDepth < 0 || c.Curve.MaxDepth > koch.MaxDepth {
		add("max depth %d (want 0..%d)", c.Curve.MaxDepth, koch.MaxDepth)
	}
	if c.Curve.Depth < 0 || c.Curve.Depth > c.Curve.MaxDepth {
		add("depth %d (want 0..%d)", c.Curve.Depth, c.Curve.MaxDepth)
	}
	if c.Color.Step <= 0 {
		add("color step %g", c.Color.Step)
	}
	if c.Color.Min >= c.Color.Max {
		add("color range %g..%g", c.Color.Min, c.Color.Max)
	}
	if c.Headless.Hz <= 0 {
		add("headless hz %d", c.Headless.Hz)
	}
	if c.Headless.Snapshot != "" {
		if _, err := render.FormatFromPath(c.Headless.Snapshot); err != nil {
			add("snapshot: %v", err)
		}
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		add("%v", err)
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// Load reads a TOML or YAML file over the defaults. Unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config %q: %w", path, err)
	}
	defer f.Close()

	if err := Decode(f, filepath.Ext(path), &cfg); err != nil {
		return cfg, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

// Decode reads r into cfg. ext selects the format: .toml, .yaml or .yml.
func Decode(r io.Reader, ext string, cfg *Config) error {
	switch strings.ToLower(ext) {
	case ".toml":
		return toml.NewDecoder(r).DisallowUnknownFields().Decode(cfg)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
}

// FromArgs builds the configuration for a command line. The -config file, when given,
// replaces the defaults; every flag set explicitly overrides both.
func FromArgs(name string, args []string, output io.Writer) (Config, error) {
	// First pass only locates -config.
	pre := flag.NewFlagSet(name, flag.ContinueOnError)
	pre.SetOutput(io.Discard)
	pre.Usage = func() {}
	path := pre.String("config", "", "")
	probe := Default()
	bind(pre, &probe)
	if err := pre.Parse(args); err != nil && !errors.Is(err, flag.ErrHelp) {
		// Report parse errors from the real pass below.
		*path = ""
	}

	cfg := Default()
	if *path != "" {
		var err error
		if cfg, err = Load(*path); err != nil {
			return cfg, err
		}
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	if output != nil {
		fs.SetOutput(output)
	}
	fs.String("config", *path, "TOML or YAML config file.")
	bind(fs, &cfg)
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if fs.NArg() > 0 {
		return cfg, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return cfg, cfg.Validate()
}

func bind(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.Backend, "backend", cfg.Backend, "Renderer: ebiten, gl or headless.")
	fs.BoolFunc("headless", "Run without a window (same as -backend headless).", func(string) error {
		cfg.Backend = BackendHeadless
		return nil
	})
	fs.IntVar(&cfg.Window.Width, "width", cfg.Window.Width, "Window width in pixels.")
	fs.IntVar(&cfg.Window.Height, "height", cfg.Window.Height, "Window height in pixels.")
	fs.StringVar(&cfg.Window.Title, "title", cfg.Window.Title, "Window title.")
	fs.BoolVar(&cfg.Window.VSync, "vsync", cfg.Window.VSync, "Wait for vertical sync.")
	fs.BoolVar(&cfg.Window.HUD, "hud", cfg.Window.HUD, "Show the depth overlay.")
	fs.Func("line-width", fmt.Sprintf("Line width in pixels (default %g).", cfg.Window.LineWidth), func(s string) error {
		var v float32
		if _, err := fmt.Sscan(s, &v); err != nil {
			return err
		}
		cfg.Window.LineWidth = v
		return nil
	})
	fs.IntVar(&cfg.Curve.Depth, "depth", cfg.Curve.Depth, "Initial recursion depth.")
	fs.IntVar(&cfg.Curve.MaxDepth, "max-depth", cfg.Curve.MaxDepth, "Highest reachable recursion depth.")
	fs.StringVar(&cfg.Shader.Path, "shader", cfg.Shader.Path, "Combined shader file (empty uses the built-in one).")
	fs.BoolVar(&cfg.Shader.Watch, "watch", cfg.Shader.Watch, "Reload the shader file when it changes.")
	fs.IntVar(&cfg.Headless.Hz, "hz", cfg.Headless.Hz, "Frame rate in headless mode.")
	fs.Uint64Var(&cfg.Headless.Frames, "frames", cfg.Headless.Frames, "Stop after N frames in headless mode (0 = run until quit).")
	fs.StringVar(&cfg.Headless.Keys, "keys", cfg.Headless.Keys, "Scripted key presses for headless mode, e.g. \"right,right,left,esc\".")
	fs.StringVar(&cfg.Headless.Snapshot, "snapshot", cfg.Headless.Snapshot, "Write the last headless frame to this .png, .bmp or .tiff file.")
	fs.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "Log level: debug, info, warn or error.")
	fs.StringVar(&cfg.Log.Encoding, "log-encoding", cfg.Log.Encoding, "Log encoding: console or json.")
}
