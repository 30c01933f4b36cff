package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matchontv/reconcile/internal/app"
	"github.com/matchontv/reconcile/internal/config"
	"github.com/matchontv/reconcile/internal/observability"
	"github.com/matchontv/reconcile/internal/platform/logging"
	"github.com/matchontv/reconcile/internal/platform/report"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "broadcastreport:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		recompute = flag.Bool("recompute-primaries", false, "rewrite the primary broadcaster on every fixture with broadcast rows")
		workers   = flag.Int("workers", 0, "recompute worker pool size (default from RECOMPUTE_MAX_WORKERS)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.NewJSON(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return fmt.Errorf("init uptrace: %w", err)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = application.Close() }()

	coverage, err := application.Broadcast.MappingCoverage(ctx)
	if err != nil {
		return err
	}

	b := report.NewBuilder("broadcast mapping coverage")
	b.Section("stations").
		Line("mapped", coverage.MappedStations).
		Line("unmapped", coverage.UnmappedStations).
		Line("unmapped rows", coverage.UnmappedRows)
	if len(coverage.Unmapped) > 0 {
		b.Section("unmapped stations")
		for _, station := range coverage.Unmapped {
			b.Linef("station", "%d (%s): %d rows", station.StationID, station.Channel, station.RowCount)
		}
	}
	fmt.Print(b.String())

	if !*recompute {
		return nil
	}

	poolSize := *workers
	if poolSize <= 0 {
		poolSize = cfg.RecomputeMaxWorkers
	}

	result, err := application.Broadcast.RecomputePrimaries(ctx, poolSize)
	if err != nil {
		return err
	}

	rb := report.NewBuilder("primary broadcaster recompute")
	rb.Section("fixtures").
		Line("total", result.Fixtures).
		Line("updated", result.Updated).
		Line("cleared", result.Cleared).
		Line("failed", result.Failed).
		Line("workers", result.Workers)
	fmt.Print(rb.String())
	return nil
}
