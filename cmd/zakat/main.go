package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mtlprog/zakat/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	setupLogging(cfg)

	app := &cli.App{
		Name:  "zakat",
		Usage: "compute Nisab thresholds and Zakat due on gold, silver and cash",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "prices",
				Usage: "read prices from a feed document on disk instead of PRICE_FEED_URL",
			},
		},
		Commands: []*cli.Command{
			serveCommand(cfg),
			nisabCommand(cfg),
			valueCommand(cfg),
			combinedCommand(cfg),
			ledgerCommand(cfg),
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatalf("zakat: %v", err)
	}
}

// setupLogging logs text to stderr, or JSON to a rotating file when LOG_FILE is set.
func setupLogging(cfg config.Config) {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}

	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.LogFile != "" {
		handler = slog.NewJSONHandler(&lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		}, opts)
	}

	slog.SetDefault(slog.New(handler))
}
