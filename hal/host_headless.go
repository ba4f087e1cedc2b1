package hal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"snowflake/render"
)

// HeadlessConfig controls the no-window runner.
type HeadlessConfig struct {
	Width  int
	Height int
	Hz     int
	// Frames stops the loop after N frames (0 = run until quit or ctx is done).
	Frames uint64
	// Keys is replayed one key per frame.
	Keys []KeyCode
	// Snapshot, when set, receives the last frame as an image.
	Snapshot string
}

// RunHeadless runs the app without opening a window, rendering in software.
func RunHeadless(ctx context.Context, cfg HeadlessConfig, logger *zap.Logger, newApp NewApp) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = 600, 600
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}

	gpu := NewSoftGPU(cfg.Width, cfg.Height)
	kbd := newScriptKeyboard(cfg.Keys)
	step, err := newApp(New(logger, kbd, gpu))
	if err != nil {
		return err
	}

	runErr := runTicks(ctx, d, cfg.Frames, func() error {
		kbd.poll()
		return step()
	})
	if errors.Is(runErr, ErrQuit) {
		runErr = nil
	}

	logger.Info("headless run finished",
		zap.Uint64("frames", gpu.Frames()),
		zap.Int("depth", gpu.Depth()))

	if cfg.Snapshot != "" {
		if err := render.WriteImage(cfg.Snapshot, gpu.Render().Img); err != nil {
			return errors.Join(runErr, err)
		}
		logger.Info("snapshot written", zap.String("path", cfg.Snapshot))
	}
	return runErr
}

func runTicks(ctx context.Context, d time.Duration, frames uint64, step func() error) error {
	t := time.NewTicker(d)
	defer t.Stop()

	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if err := step(); err != nil {
				return err
			}
			tick++
			if frames > 0 && tick >= frames {
				return nil
			}
		}
	}
}
