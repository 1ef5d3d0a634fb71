package main

import (
	"context"
	"fmt"

	"emaktab-snapshot/config"
	"emaktab-snapshot/internal/capture"
	"emaktab-snapshot/internal/capture/pwdriver"
	"emaktab-snapshot/internal/capture/roddriver"
	"emaktab-snapshot/pkg/log"
)

type driverHandle struct {
	driver capture.Driver
	close  func()
}

func openCaptureDriver(ctx context.Context, cfg *config.Config, logger log.Logger) (*driverHandle, error) {
	switch cfg.Capture.Driver {
	case config.CaptureDriverRod:
		logger.Info(ctx, "Capture driver: go-rod")
		return &driverHandle{
			driver: roddriver.New(roddriver.Config{
				NavigationTimeout: cfg.Capture.NavigationTimeout,
				ViewportWidth:     cfg.Capture.ViewportWidth,
				ViewportHeight:    cfg.Capture.ViewportHeight,
			}, logger),
			close: func() {},
		}, nil

	default:
		d, err := pwdriver.New(ctx, pwdriver.Config{
			InstallBrowsers:   cfg.Capture.InstallBrowsers,
			NavigationTimeout: cfg.Capture.NavigationTimeout,
			ViewportWidth:     cfg.Capture.ViewportWidth,
			ViewportHeight:    cfg.Capture.ViewportHeight,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("start playwright: %w", err)
		}
		logger.Info(ctx, "Capture driver: playwright")
		return &driverHandle{
			driver: d,
			close: func() {
				if err := d.Shutdown(); err != nil {
					logger.Warnf(ctx, "Stop playwright: %v", err)
				}
			},
		}, nil
	}
}
