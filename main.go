package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/freekieb7/hello/filesystem"
	"github.com/freekieb7/hello/http"
	"github.com/freekieb7/hello/site"
	"github.com/freekieb7/hello/telemetry"
)

const (
	serviceName     = "hello"
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := defaultConfig()
	if err != nil {
		log.Fatalln(err)
	}

	if err := run(cfg); err != nil {
		log.Fatalln(err)
	}
}

func run(cfg Config) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	stderr := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(stderr))

	if cfg.Telemetry {
		shutdownTelemetry, setupErr := telemetry.Setup(ctx, serviceName)
		if setupErr != nil {
			return setupErr
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			err = errors.Join(err, shutdownTelemetry(shutdownCtx))
		}()
		slog.SetDefault(telemetry.NewLogger(serviceName, level, stderr))
	}

	fs := filesystem.NewLocalFileSystem(cfg.Root)
	if err := site.CheckResources(fs); err != nil {
		// Missing pages only break the exchanges that need them.
		slog.Warn("site resources missing", "root", cfg.Root, "error", err)
	}

	srv := http.NewServer(serviceName, site.NewRouter(fs, cfg.SleepDelay).Handler())
	srv.MaxConcurrency = cfg.MaxConcurrency

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe(cfg.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		stop()
	}

	slog.Info("shutting down", "timeout", shutdownTimeout)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
