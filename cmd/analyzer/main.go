package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/FrenchMajesty/text-analyzer/internal/api"
	"github.com/FrenchMajesty/text-analyzer/internal/app"
	"github.com/FrenchMajesty/text-analyzer/internal/config"
	"github.com/FrenchMajesty/text-analyzer/internal/logging"
)

const loadTimeout = 2 * time.Minute

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logging.Configure(cfg.Log.Level)

	a, err := app.NewAnalyzer(cfg)
	if err != nil {
		slog.Error("failed to build classifiers", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	loadCtx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	err = a.Load(loadCtx)
	cancel()
	if err != nil {
		slog.Error("failed to load classifiers", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, api.NewServer(a), cfg.Server.Port, cfg.Server.ShutdownTimeout); err != nil {
		slog.Error("server error", "error", err)
		a.Close()
		os.Exit(1)
	}
}

// serve runs server until ctx is cancelled or it fails to start or serve
func serve(ctx context.Context, server *api.Server, addr string, shutdownTimeout time.Duration) error {
	errc := make(chan error, 1)
	go func() {
		errc <- server.Start(addr)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
