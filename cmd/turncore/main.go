// Package main is the entry point for the turncore battle simulator.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/samdwyer/turncore/internal/config"
	"github.com/samdwyer/turncore/internal/rng"
	"github.com/samdwyer/turncore/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		slog.Error("turncore failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Not fatal: variables may be set directly.
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	level, _ := cfg.Level()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	if envErr != nil {
		slog.Debug(".env file not loaded", "error", envErr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if cfg.Telemetry {
		shutdown, err := telemetry.Setup(ctx, telemetry.Options{
			APIKey:  cfg.HoneycombAPIKey,
			Dataset: cfg.HoneycombDataset,
		})
		if err != nil {
			slog.Warn("telemetry setup failed, running without traces", "error", err)
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					slog.Warn("telemetry shutdown", "error", err)
				}
			}()
		}
	}

	seed := cfg.Seed
	if seed == 0 {
		if seed, err = rng.NewSeed(); err != nil {
			return fmt.Errorf("draw seed: %w", err)
		}
	}

	r, err := loadRoster()
	if err != nil {
		return err
	}
	slog.Info("simulating", "battles", cfg.Battles, "workers", cfg.Workers, "seed", seed)

	results, err := simulateAll(ctx, r, seed, cfg.Battles, cfg.Workers, cfg.MaxTicks)
	if err != nil {
		return err
	}
	report(os.Stdout, results)

	if cfg.SavePath != "" {
		if err := persist(ctx, cfg.SavePath, results); err != nil {
			return err
		}
		slog.Info("snapshots saved", "path", cfg.SavePath, "count", len(results))
	}
	return nil
}
