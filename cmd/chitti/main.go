// Command chitti is the terminal entrypoint: it wires configuration,
// observability, the Interaction Client and Brain Adapter, the built-in
// tool registry, the terminal UI Bridge, and the Conductor, then runs the
// interactive loop until /exit or a fatal signal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aravindhsampath/chitti/bridge"
	"github.com/aravindhsampath/chitti/brain"
	"github.com/aravindhsampath/chitti/conductor"
	"github.com/aravindhsampath/chitti/config"
	"github.com/aravindhsampath/chitti/internal/observability"
	"github.com/aravindhsampath/chitti/internal/observability/slogobs"
	"github.com/aravindhsampath/chitti/tool"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "chitti: configuration error: %v\n", err)
		os.Exit(1)
	}

	observer := slogobs.New(
		slogobs.WithLevel(slogobs.ParseLogLevel(cfg.LogLevel)),
		slogobs.WithFormat(slogobs.GetFormatFromEnv()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = observability.ContextWithObserver(ctx, observer)

	if err := run(ctx, cfg, observer); err != nil {
		observer.Error(ctx, "chitti exited with error", observability.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, observer observability.Provider) error {
	registry := tool.NewRegistry()
	registry.Register(tool.NewShell())
	registry.Register(tool.NewFile())
	registry.Register(tool.NewWeb())

	client := brain.NewClient(geminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel)
	adapter := brain.NewAdapter(client, registry)

	tui := bridge.New(os.Stdout, os.Stderr)

	events := make(chan conductor.UserEvent, 16)
	state := conductor.NewSessionState(cfg.GeminiModel, "high", true, true, cfg.DevMode)

	c := conductor.New(adapter, tui, registry, events, state)

	// The producer owns events and is the only goroutine that closes it: it
	// stops reading stdin (and closes) whenever RunInputLoop returns, for any
	// reason (EOF, ctx cancellation, or the /exit or /quit line it reads
	// itself). Closing from the consumer side instead would race a send on a
	// still-reading producer and could panic.
	errCh := make(chan error, 1)
	go func() {
		defer close(events)
		errCh <- tui.RunInputLoop(ctx, os.Stdin, events)
	}()

	observer.Info(ctx, "chitti starting",
		observability.String("model", cfg.GeminiModel),
		observability.Bool("dev_mode", cfg.DevMode),
	)

	runErr := c.Run(ctx)

	if inputErr := <-errCh; inputErr != nil && runErr == nil {
		runErr = inputErr
	}

	if runErr != nil && runErr != context.Canceled {
		return runErr
	}
	return nil
}
