package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/hometown/storefront/app"
	"github.com/hometown/storefront/app/observability"
	"github.com/hometown/storefront/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		return err
	}

	logger, err := observability.NewLogger(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	a, err := app.New(cfg, logger, nil)
	if err != nil {
		logger.Error("init storefront", zap.Error(err))
		return err
	}

	logger.Info("application is running", zap.String("env", cfg.Server.AppEnv))
	if err := a.Run(ctx); err != nil {
		logger.Error("storefront stopped", zap.Error(err))
		return err
	}
	logger.Info("application is closed")
	return nil
}
