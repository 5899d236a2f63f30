package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"synclist-hub/internal/app"
	"synclist-hub/internal/config"
)

const shutdownTimeout = 15 * time.Second

// runServe serves the API and runs the task reaper until ctx is canceled or
// either fails.
func runServe(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	st := &cliState{cfg: cfg, logger: logger}
	return withApp(ctx, st, func(a *app.App) error {
		if cfg.SeedFile != "" {
			if err := seedFromFile(ctx, a, cfg.SeedFile, logger); err != nil {
				return fmt.Errorf("seed %s: %w", cfg.SeedFile, err)
			}
		}

		srv := &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           a.Router(ctx),
			ReadHeaderTimeout: 10 * time.Second,
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			logger.Info("HTTP API listening", "addr", cfg.ListenAddr,
				"try", fmt.Sprintf("curl -H 'Authorization: Bearer <jwt>' http://%s/v1/my-synclists", curlHostForListenAddr(cfg.ListenAddr)))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			if err := a.Reaper.Start(); err != nil {
				return err
			}
			<-gctx.Done()
			a.Reaper.Stop()
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			logger.Info("shutting down HTTP API")
			return srv.Shutdown(shutdownCtx)
		})
		return g.Wait()
	})
}

// curlHostForListenAddr turns a listen address into a host:port usable in
// an example curl command.
func curlHostForListenAddr(listenAddr string) string {
	addr := strings.TrimSpace(listenAddr)
	if addr == "" {
		return "localhost:8080"
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	switch host {
	case "", "0.0.0.0", "::":
		host = "localhost"
	}
	return net.JoinHostPort(host, port)
}
