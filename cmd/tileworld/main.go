package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/zeusync/tileworld/internal/core/config"
	"github.com/zeusync/tileworld/internal/core/observability/log"
	"github.com/zeusync/tileworld/internal/injector"
)

var (
	configPath = flag.String("config", "", "Path to a YAML config file; defaults are used when empty")
	schemaOnly = flag.Bool("schema", false, "Print the config JSON schema and exit")
)

func main() {
	flag.Parse()

	if *schemaOnly {
		data, err := config.SchemaJSON()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error building schema:", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadFile(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, "Error loading config:", err)
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	rt, cleanup, err := injector.InitializeRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()
	defer func() { _ = rt.Logger.Sync() }()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go rt.Source.Listen(rt.Screen)
	go func() {
		select {
		case <-rt.Source.Quit():
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := rt.App.Setup(); err != nil {
		return fmt.Errorf("setup: %w", err)
	}

	rt.Logger.Info("Tileworld started",
		log.String("level", rt.App.Level()),
		log.Int("tick_rate", cfg.TickRate),
	)
	if err := rt.App.Run(ctx, rt.Renderer); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	rt.Collision.LogStats()
	rt.Events.LogStats(rt.App.World().Bus())
	rt.Logger.Info("Tileworld stopped")
	return nil
}
