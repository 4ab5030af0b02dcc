package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blackmichael/redproxy/internal/config"
	"github.com/blackmichael/redproxy/internal/domain"
	"github.com/blackmichael/redproxy/internal/httpserver"
	"github.com/blackmichael/redproxy/internal/live"
	"github.com/blackmichael/redproxy/internal/reddit"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	// malformed upstream fields are reported through the default logger
	slog.SetDefault(logger)

	client := reddit.NewClient(cfg.UpstreamURL, cfg.UserAgent, cfg.FetchTimeout)
	listings := domain.NewListingService(client, nil, logger, domain.ServiceConfig{
		Parse:   domain.ParseOptions{RemovedFrontend: cfg.RemovedFrontend},
		Workers: cfg.ParseWorkers,
	})
	subscriber := live.NewSubscriber(logger)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	server := httpserver.NewServer(cfg, listings, subscriber, logger)
	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	logger.Info("server started", "port", cfg.Port, "hostname", cfg.Hostname, "upstream", cfg.UpstreamURL, "sfw_only", cfg.SFWOnly)

	select {
	case sig := <-sigCh:
		logger.Info("received signal, shutting down", "signal", sig)
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("error shutting down http server", "error", err)
	}

	return nil
}
