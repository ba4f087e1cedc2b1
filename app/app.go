// Package app is the snowflake render driver.
//
// It owns the current recursion depth and the animated color. Every frame it reacts to
// key presses, rebuilds and re-uploads the mesh when the depth changes, applies shader
// reloads and pushes the next color to the GPU.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"snowflake/hal"
	"snowflake/koch"
	"snowflake/render"
	"snowflake/shaders"
)

// Config is the driver configuration.
type Config struct {
	Depth    int
	MaxDepth int
	Triangle koch.Triangle

	// Color is the first frame's color; its blue channel oscillates between
	// ColorMin and ColorMax by ColorStep per frame.
	Color     render.ColorF
	ColorMin  float32
	ColorMax  float32
	ColorStep float32

	ShaderPath  string
	WatchShader bool
	ShowHUD     bool
}

// DefaultConfig mirrors config.Default.
func DefaultConfig() Config {
	return Config{
		MaxDepth:  8,
		Triangle:  koch.DefaultTriangle,
		Color:     render.ColorF{B: 1, A: 1},
		ColorMin:  0.6,
		ColorMax:  1,
		ColorStep: 0.01,
		ShowHUD:   true,
	}
}

// Driver is the per-frame state machine.
type Driver struct {
	h   hal.HAL
	log *zap.Logger
	cfg Config

	depth int
	mesh  *render.LineMesh
	color render.ColorF
	inc   float32
	hud   bool

	watcher *shaders.Watcher
	frames  uint64
}

// New loads the shader program, uploads the mesh for cfg.Depth and, if asked, starts
// watching the shader file. The watcher stops when ctx is done or Close is called.
func New(ctx context.Context, h hal.HAL, cfg Config) (*Driver, error) {
	cfg.MaxDepth = clamp(cfg.MaxDepth, 0, koch.MaxDepth)
	if cfg.ColorStep <= 0 {
		cfg.ColorStep = 0.01
	}

	d := &Driver{
		h:     h,
		log:   h.Logger().Named("driver"),
		cfg:   cfg,
		depth: clamp(cfg.Depth, 0, cfg.MaxDepth),
		color: cfg.Color,
		inc:   -cfg.ColorStep,
		hud:   cfg.ShowHUD,
	}

	src, err := shaders.Load(cfg.ShaderPath)
	if err != nil {
		return nil, err
	}
	if err := h.GPU().LoadProgram(src); err != nil {
		return nil, fmt.Errorf("load shader program: %w", err)
	}
	if err := d.rebuild(d.depth); err != nil {
		return nil, err
	}

	if cfg.WatchShader && cfg.ShaderPath != "" {
		w, err := shaders.NewWatcher(h.Logger().Named("shaders"), cfg.ShaderPath, shaders.DefaultDebounce)
		if err != nil {
			return nil, err
		}
		w.Start(ctx)
		d.watcher = w
	}

	d.log.Info("driver ready",
		zap.String("gpu", h.GPU().Name()),
		zap.Int("depth", d.depth),
		zap.Int("max_depth", cfg.MaxDepth))
	return d, nil
}

// Step runs one frame. It returns hal.ErrQuit when escape was pressed.
func (d *Driver) Step() error {
	d.frames++
	if err := d.handleInput(); err != nil {
		return err
	}
	d.applyReloads()
	d.animate()
	return nil
}

// Close stops the shader watcher.
func (d *Driver) Close() error {
	if d.watcher == nil {
		return nil
	}
	err := d.watcher.Close()
	d.watcher = nil
	return err
}

func (d *Driver) Depth() int             { return d.depth }
func (d *Driver) Mesh() *render.LineMesh { return d.mesh }
func (d *Driver) Color() render.ColorF   { return d.color }
func (d *Driver) Frames() uint64         { return d.frames }

func (d *Driver) handleInput() error {
	in := d.h.Input()
	if in == nil || in.Keyboard() == nil {
		return nil
	}
	events := in.Keyboard().Events()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !ev.Press {
				continue
			}
			if err := d.handleKey(ev.Code); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (d *Driver) handleKey(code hal.KeyCode) error {
	switch code {
	case hal.KeyEscape:
		d.log.Info("quit requested", zap.Uint64("frames", d.frames))
		return hal.ErrQuit
	case hal.KeyRight, hal.KeyUp:
		return d.setDepth(d.depth + 1)
	case hal.KeyLeft, hal.KeyDown:
		return d.setDepth(d.depth - 1)
	case hal.KeyHome:
		return d.setDepth(0)
	case hal.KeyEnd:
		return d.setDepth(d.cfg.MaxDepth)
	case hal.KeyF1:
		d.hud = !d.hud
		d.updateHUD()
	}
	return nil
}

func (d *Driver) setDepth(n int) error {
	n = clamp(n, 0, d.cfg.MaxDepth)
	if n == d.depth {
		d.log.Debug("depth unchanged", zap.Int("depth", n))
		return nil
	}
	return d.rebuild(n)
}

// rebuild uploads the mesh for depth and makes it current. On error the previous depth
// and mesh stay in place.
func (d *Driver) rebuild(depth int) error {
	start := time.Now()
	m := render.BuildLineMesh(depth, d.cfg.Triangle)
	if err := d.h.GPU().Upload(m); err != nil {
		return fmt.Errorf("upload depth %d: %w", depth, err)
	}
	d.depth = depth
	d.mesh = m
	d.log.Info("render",
		zap.Int("indices", m.IndexCount()),
		zap.Int("depth", d.depth),
		zap.Int("segments", koch.SegmentCount(d.depth)),
		zap.Int("vertices", m.VertexCount()),
		zap.Duration("took", time.Since(start)))
	d.updateHUD()
	return nil
}

func (d *Driver) applyReloads() {
	if d.watcher == nil {
		return
	}
	select {
	case src := <-d.watcher.Updates():
		if err := d.h.GPU().LoadProgram(src); err != nil {
			d.log.Warn("shader reload rejected, keeping previous program", zap.Error(err))
			return
		}
		d.log.Info("shader program reloaded")
	default:
	}
}

// animate sends the current color, then advances the blue channel and reverses
// direction once it leaves [ColorMin, ColorMax].
func (d *Driver) animate() {
	d.h.GPU().SetColor(d.color)
	d.color.B += d.inc
	if d.color.B >= d.cfg.ColorMax || d.color.B <= d.cfg.ColorMin {
		d.inc = -d.inc
	}
}

func (d *Driver) updateHUD() {
	if !d.hud {
		d.h.GPU().SetHUD(nil)
		return
	}
	d.h.GPU().SetHUD([]string{
		fmt.Sprintf("depth %d/%d", d.depth, d.cfg.MaxDepth),
		fmt.Sprintf("%d segments", koch.SegmentCount(d.depth)),
	})
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
