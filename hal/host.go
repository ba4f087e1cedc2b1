package hal

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

type hostHAL struct {
	logger *zap.Logger
	kbd    Keyboard
	gpu    GPU
}

// New assembles a HAL from its parts. It is exported for tests and embedders; the Run*
// functions build their own.
func New(logger *zap.Logger, kbd Keyboard, gpu GPU) HAL {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &hostHAL{logger: logger, kbd: kbd, gpu: gpu}
}

func (h *hostHAL) Logger() *zap.Logger { return h.logger }
func (h *hostHAL) Input() Input        { return hostInput{kbd: h.kbd} }
func (h *hostHAL) GPU() GPU            { return h.gpu }

type hostInput struct {
	kbd Keyboard
}

func (in hostInput) Keyboard() Keyboard { return in.kbd }

// WindowConfig describes a desktop window.
type WindowConfig struct {
	Width     int
	Height    int
	Title     string
	VSync     bool
	LineWidth float32
}

func (c WindowConfig) withDefaults() WindowConfig {
	if c.Width <= 0 {
		c.Width = 600
	}
	if c.Height <= 0 {
		c.Height = 600
	}
	if c.Title == "" {
		c.Title = "Fractal"
	}
	if c.LineWidth <= 0 {
		c.LineWidth = 1
	}
	return c
}

// stepFrame runs one frame of a window loop. done reports that the loop must stop;
// ErrQuit and a cancelled ctx stop it without an error.
func stepFrame(ctx context.Context, step func() error) (done bool, err error) {
	if ctx.Err() != nil {
		return true, nil
	}
	if err := step(); err != nil {
		if errors.Is(err, ErrQuit) {
			return true, nil
		}
		return true, err
	}
	return false, nil
}
