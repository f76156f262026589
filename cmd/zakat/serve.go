package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v2"

	"github.com/mtlprog/zakat/internal/api"
	"github.com/mtlprog/zakat/internal/config"
	"github.com/mtlprog/zakat/internal/database"
	"github.com/mtlprog/zakat/internal/domain"
	"github.com/mtlprog/zakat/internal/metrics"
	"github.com/mtlprog/zakat/internal/pricefeed"
	"github.com/mtlprog/zakat/internal/session"
	"github.com/mtlprog/zakat/internal/worker"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func serveCommand(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API and the price refresh worker",
		Action: func(c *cli.Context) error {
			return serve(c.Context, cfg, c.String("prices"))
		},
	}
}

func serve(parent context.Context, cfg config.Config, pricesFile string) error {
	ctx, stop := context.WithCancel(parent)
	defer stop()

	// Stored tables are only a fallback, so the database is optional.
	var repo pricefeed.Repository
	if cfg.DatabaseURL != "" {
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()

		migrationsSub, err := fs.Sub(migrationsFS, "migrations")
		if err != nil {
			return fmt.Errorf("creating migrations sub-fs: %w", err)
		}
		if err := database.RunMigrations(ctx, pool, migrationsSub); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		repo = pricefeed.NewPgRepository(pool)
	} else {
		slog.Warn("DATABASE_URL not set, stored price fallback disabled")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.New(reg)

	var (
		fetcher pricefeed.Fetcher
		key     string
	)
	if pricesFile != "" {
		fetcher, key = pricefeed.FileFetcher(pricesFile), pricesFile
	} else {
		client := pricefeed.NewClient(cfg.PriceFeedURL, cfg.FeedTimeout, cfg.FeedRetryBaseDelay, cfg.FeedRetryMax)
		fetcher, key = client, client.URL()
	}
	prices := pricefeed.NewService(fetcher, key, repo, cfg.PriceCacheTTL, collector)

	refreshWorker := worker.NewRefreshWorker(prices, cfg.RefreshInterval)
	go refreshWorker.Run(ctx)

	if cfg.AdminAPIKey == "" {
		slog.Warn("ADMIN_API_KEY not set, price refresh endpoint is unprotected")
	}

	ledgers := session.NewStore(cfg.SessionMaxLedgers, cfg.SessionIdleTTL)
	handler := api.NewHandler(prices, ledgers, collector, domain.NormalizeCurrency(cfg.DefaultCurrency))
	srv := api.NewServer(cfg.HTTPPort, handler, reg, cfg.AdminAPIKey)

	go func() {
		slog.Info("HTTP server listening", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
