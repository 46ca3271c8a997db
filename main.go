package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/soocke/pose-smoother-go/app"
	"github.com/soocke/pose-smoother-go/app/runner"
	"github.com/soocke/pose-smoother-go/config"
	"github.com/soocke/pose-smoother-go/debug"
)

func main() {
	cli, err := config.ParseCLI(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}
	// Defaults < file < env < flags
	cfg, loadErr := config.Load(cli.ConfigPath)
	cli.Apply(cfg)

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := NewLogger(level)
	if loadErr != nil {
		logger.Warn("config load failed, using defaults", "path", cli.ConfigPath, "error", loadErr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.Debug {
		debug.StartMemLogger(ctx, 2*time.Second, logger)
		debug.StartGoroutineLogger(ctx, time.Second, logger)
	}

	if cli.Headless {
		if err := runHeadless(ctx, cfg, logger); err != nil {
			logger.Error("headless run failed", "error", err)
			stop()
			os.Exit(1)
		}
		return
	}

	application, err := app.NewApp("Pose Smoother", 900, 760, cfg, cli.ConfigPath, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		stop()
		os.Exit(1)
	}
	application.Start()
}

func runHeadless(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	p, err := runner.Build(cfg, logger)
	if err != nil {
		return err
	}
	_, err = runner.RunHeadless(ctx, p)
	return errors.Join(err, p.Close())
}
