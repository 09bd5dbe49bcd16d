package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"govtjobs/internal/app"
	"govtjobs/internal/config"
	"govtjobs/internal/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info", false).WithError(err).Error("failed to load config")
		return 1
	}
	log := logger.New(cfg.App.LogLevel, cfg.App.IsProduction())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server, cleanup, err := app.Bootstrap(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Error("failed to bootstrap app")
		return 1
	}
	defer func() {
		if err := cleanup(); err != nil {
			log.WithError(err).Warn("cleanup error")
		}
	}()

	addr, err := app.ListenAddr(cfg.App.HTTPPort)
	if err != nil {
		log.WithError(err).Error("invalid HTTP port")
		return 1
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("[HTTP] listening")
		errCh <- server.Fiber.Listen(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.WithError(err).Error("server error")
			return 1
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Fiber.ShutdownWithContext(shutdownCtx); err != nil {
			log.WithError(err).Warn("shutdown error")
		}
		log.Info("[HTTP] stopped")
	}
	return 0
}
