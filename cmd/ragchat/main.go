// Command ragchat is a terminal client for a document question-answering
// service.
//
// Usage:
//
//	ragchat [flags]                    interactive chat
//	ragchat [flags] docs               list uploaded documents
//	ragchat [flags] upload PATTERN...  upload files (globs such as docs/**/*.pdf)
//	ragchat [flags] delete ID...       delete documents
//
// Flags:
//
//	-api-url string      Service base URL (default: $RAGCHAT_API_URL or http://localhost:8000/api)
//	-log-file string     Log file path (default: $RAGCHAT_LOG_FILE, logging disabled if empty)
//	-debug               Log at debug level
//	-history int         Prior turns sent with each query (default 6)
//	-timeout duration    Per-request timeout, 0 for none
//	-poll duration       Document listing refresh interval (default 5s)
//	-stop-on-error       End an answer at the first service error
//
// A .env file in the working directory is loaded before flags are read.
// Traces are exported when OTEL_EXPORTER_OTLP_ENDPOINT is set.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"

	"github.com/fwojciec/ragchat"
	"github.com/fwojciec/ragchat/backend"
	bt "github.com/fwojciec/ragchat/bubbletea"
	"github.com/fwojciec/ragchat/gocache"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ragchat: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	var f flagValues
	flag.StringVar(&f.apiURL, "api-url", "", "Service base URL")
	flag.StringVar(&f.logFile, "log-file", "", "Log file path")
	flag.BoolVar(&f.debug, "debug", false, "Log at debug level")
	flag.IntVar(&f.history, "history", ragchat.DefaultHistoryWindow, "Prior turns sent with each query")
	flag.DurationVar(&f.timeout, "timeout", 0, "Per-request timeout, 0 for none")
	flag.DurationVar(&f.poll, "poll", gocache.DefaultTTL, "Document listing refresh interval")
	flag.BoolVar(&f.stopOnError, "stop-on-error", false, "End an answer at the first service error")
	flag.Parse()

	// Env vars are read here and passed as values.
	cfg, err := resolveConfig(f, envValues{
		apiURL:       os.Getenv("RAGCHAT_API_URL"),
		logFile:      os.Getenv("RAGCHAT_LOG_FILE"),
		otlpEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	})
	if err != nil {
		return err
	}

	// Handle OS signals for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger, err := newLogger(cfg.logFile, cfg.debug)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	shutdown, err := setupTracing(ctx, cfg.otlpEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Warn("trace shutdown", zap.Error(err))
		}
	}()

	client := backend.New(cfg.apiURL,
		backend.WithLogger(logger),
		backend.WithTimeout(cfg.timeout),
	)

	args := flag.Args()
	if len(args) == 0 {
		return chat(ctx, cfg, client, logger)
	}
	switch args[0] {
	case "docs":
		return listDocuments(ctx, client, os.Stdout)
	case "upload":
		return uploadDocuments(ctx, client, args[1:], os.Stdout)
	case "delete":
		return deleteDocuments(ctx, client, args[1:], os.Stdout)
	default:
		return fmt.Errorf("unknown subcommand %q", args[0])
	}
}

func chat(ctx context.Context, cfg config, client *backend.Client, logger *zap.Logger) error {
	feed := bt.NewFeed()
	session := ragchat.NewSession(client,
		ragchat.WithLogger(logger),
		ragchat.WithObserver(feed.Publish),
		ragchat.WithHistoryWindow(cfg.history),
		ragchat.WithStopOnError(cfg.stopOnError),
	)
	docs := gocache.New(client,
		gocache.WithTTL(cfg.poll),
		gocache.WithLogger(logger),
	)

	logger.Info("starting chat", zap.String("api_url", cfg.apiURL))
	m := bt.New(session, feed, ragchat.DefaultTheme(),
		bt.WithDocuments(docs),
		bt.WithPollInterval(cfg.poll),
	)
	if err := bt.Run(ctx, m); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}
	return nil
}
