package main

import (
	"chat-widget/contract"
	"chat-widget/infrastructure/storage"
	"chat-widget/internal"
	"chat-widget/runtime"
	"chat-widget/runtime/workers"
	"chat-widget/services"
	"chat-widget/sink"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Chat terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the session lifecycle, and centralizes error reporting.
// Returning instead of exiting keeps every defer (database close) running.
func run() (int, error) {
	// 1. Configuration & Logger
	config, err := internal.LoadConfig()
	if err != nil {
		return exitConfig, err
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	// 2. Session, before anything touches the disk: a missing collection is fatal
	session, err := services.NewSession(logger, config.SessionOptions(), time.Now())
	if err != nil {
		return exitConfig, err
	}

	// 3. Database (BadgerDB)
	ctx := context.Background()
	db, err := badger.Open(buildBadgerOpts(config, logger, ctx))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	remote := storage.NewBadgerLog(logger, storage.NewMessageRepository(db, logger, config.LimitMessages), config.BufferSize)
	defer remote.Close()

	// 4. Engine and presentation
	outbox := services.NewOutbox(logger, remote, config.OutboxOptions(session.Collection()))
	// Rendering first, the chime only rings once the message is on screen
	sinks := []contract.EventSink{sink.NewTerminalSink(os.Stdout, time.Local)}
	if config.WithSound {
		sinks = append(sinks, sink.NewChimeSink(os.Stdout))
	}
	engine := runtime.NewEngine(logger, remote, session, outbox,
		workers.NewSupervisor(logger, config.RestartInterval),
		runtime.EngineOptions{BufferSize: config.BufferSize, SinkTimeout: config.SinkTimeout},
		sinks...,
	)

	// 5. Context & Signals
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		logger.Info("Starting session", "collection", session.Collection(), "user", config.User)
		if err := engine.Start(ctx); err != nil {
			errChan <- fmt.Errorf("engine error: %w", err)
		}
	}()

	// 6. Read gestures from stdin until EOF, /quit or a signal
	prompt := newPrompt(logger, engine, config.ExportDir, os.Stdin, os.Stdout)
	inputDone := make(chan error, 1)
	go func() { inputDone <- prompt.Run(ctx) }()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errChan:
		return exitRuntime, err
	case err := <-inputDone:
		if err != nil {
			return exitRuntime, err
		}
	}

	engine.Stop()
	logger.Info("Program stopped cleanly")
	return exitOK, nil
}

func buildBadgerOpts(config internal.Config, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)

	if logger.Enabled(ctx, slog.LevelDebug) {
		options = options.WithLoggingLevel(badger.DEBUG)
	} else {
		options = options.WithLoggingLevel(badger.WARNING)
	}

	return options
}
