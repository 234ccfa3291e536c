package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"cafe-site/internal/config"
	"cafe-site/internal/docstore"
	"cafe-site/internal/fallback"
	"cafe-site/internal/model"
	"cafe-site/internal/store"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func runSeed(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	force, _ := cmd.Flags().GetBool("force")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	cfg := config.Read()
	if err := cfg.ValidateAdapter(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger := config.NewLogger(cfg.Logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if file == "" {
		file = cfg.Fallback.Path
	}
	ds, err := loadDataset(ctx, file, logger)
	if err != nil {
		return err
	}

	adapter, closeAdapter, err := docstore.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to open document store: %w", err)
	}
	defer closeAdapter()

	report, err := store.Seed(ctx, adapter, ds, store.SeedOptions{Force: force, DryRun: dryRun}, logger)
	if err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}

	printReport(cmd, report, dryRun)
	return nil
}

func loadDataset(ctx context.Context, file string, logger zerolog.Logger) (model.Dataset, error) {
	if file == "" {
		return fallback.Builtin(), nil
	}

	ds, err := fallback.NewFileLoader(logger).Load(ctx, file)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("failed to load dataset: %w", err)
	}
	return ds, nil
}

func printReport(cmd *cobra.Command, report store.SeedReport, dryRun bool) {
	out := cmd.OutOrStdout()

	verb := "Wrote"
	if dryRun {
		verb = "Would write"
	}

	names := make([]string, 0, len(report.Written))
	for name := range report.Written {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(out, "%s %d document(s) to %s\n", verb, report.Written[name], name)
	}
	for _, name := range report.Skipped {
		fmt.Fprintf(out, "Skipped %s (not empty, use --force to overwrite)\n", name)
	}
}
