package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"snowflake/app"
	"snowflake/config"
	"snowflake/hal"
	"snowflake/internal/buildinfo"
	"snowflake/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := run(ctx, os.Args[0], os.Args[1:], os.Stderr)
	switch {
	case err == nil, errors.Is(err, context.Canceled):
	case errors.Is(err, flag.ErrHelp):
	default:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, name string, args []string, stderr io.Writer) error {
	cfg, err := config.FromArgs(name, args, stderr)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting",
		zap.String("version", buildinfo.Short()),
		zap.String("backend", cfg.Backend),
		zap.Int("depth", cfg.Curve.Depth))

	var driver *app.Driver
	defer func() {
		if driver != nil {
			_ = driver.Close()
		}
	}()
	newApp := func(h hal.HAL) (func() error, error) {
		d, err := app.New(ctx, h, driverConfig(cfg))
		if err != nil {
			return nil, err
		}
		driver = d
		return d.Step, nil
	}

	win := hal.WindowConfig{
		Width:     cfg.Window.Width,
		Height:    cfg.Window.Height,
		Title:     cfg.Window.Title,
		VSync:     cfg.Window.VSync,
		LineWidth: cfg.Window.LineWidth,
	}

	switch cfg.Backend {
	case config.BackendGL:
		return hal.RunGL(ctx, win, logger, newApp)
	case config.BackendHeadless:
		keys, err := hal.ParseKeys(cfg.Headless.Keys)
		if err != nil {
			return fmt.Errorf("-keys: %w", err)
		}
		return hal.RunHeadless(ctx, hal.HeadlessConfig{
			Width:    cfg.Window.Width,
			Height:   cfg.Window.Height,
			Hz:       cfg.Headless.Hz,
			Frames:   cfg.Headless.Frames,
			Keys:     keys,
			Snapshot: cfg.Headless.Snapshot,
		}, logger, newApp)
	default:
		return hal.RunWindow(ctx, win, logger, newApp)
	}
}

func driverConfig(cfg config.Config) app.Config {
	return app.Config{
		Depth:       cfg.Curve.Depth,
		MaxDepth:    cfg.Curve.MaxDepth,
		Triangle:    cfg.Triangle(),
		Color:       cfg.BaseColor(),
		ColorMin:    cfg.Color.Min,
		ColorMax:    cfg.Color.Max,
		ColorStep:   cfg.Color.Step,
		ShaderPath:  cfg.Shader.Path,
		WatchShader: cfg.Shader.Watch,
		ShowHUD:     cfg.Window.HUD,
	}
}
