package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/matchontv/reconcile/internal/app"
	"github.com/matchontv/reconcile/internal/config"
	"github.com/matchontv/reconcile/internal/observability"
	"github.com/matchontv/reconcile/internal/platform/logging"
	"github.com/matchontv/reconcile/internal/platform/report"
	"github.com/matchontv/reconcile/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "mergeteams:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		dryRun   = flag.Bool("dry-run", false, "list duplicate pairs without merging")
		pairsRaw = flag.String("pairs", "", "explicit keep:delete pairs, comma separated (default: detected duplicates)")
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

	if *dryRun {
		return listDuplicates(ctx, application)
	}

	pairs, err := resolvePairs(ctx, application, *pairsRaw)
	if err != nil {
		return err
	}
	if len(pairs) == 0 {
		fmt.Println("no duplicate teams detected")
		return nil
	}

	result, err := application.Merge.MergePairs(ctx, pairs)
	if err != nil {
		return err
	}

	b := report.NewBuilder("merge teams")
	b.Section("pairs").
		Line("merged", result.Merged).
		Line("failed", result.Failed)
	for _, rep := range result.Reports {
		if rep.Err != nil {
			b.Linef("pair", "keep=%d delete=%d failed: %v", rep.Pair.KeepID, rep.Pair.DeleteID, rep.Err)
			continue
		}
		b.Linef("pair", "keep=%d delete=%d home=%d away=%d fixtures=%d",
			rep.Pair.KeepID, rep.Pair.DeleteID, rep.HomeRewritten, rep.AwayRewritten, rep.KeepFixtures)
	}
	fmt.Print(b.String())
	return nil
}

func listDuplicates(ctx context.Context, application *app.App) error {
	duplicates, err := application.Merge.DetectDuplicates(ctx)
	if err != nil {
		return err
	}

	if len(duplicates) == 0 {
		fmt.Println("no duplicate teams detected")
		return nil
	}

	b := report.NewBuilder("duplicate teams (dry run)")
	for _, pair := range duplicates {
		b.Linef("external", "%d: keep %d (%s), delete %d (%s)",
			pair.ExternalID, pair.KeepID, pair.KeepSlug, pair.DeleteID, pair.DeleteSlug)
	}
	fmt.Print(b.String())
	return nil
}

func resolvePairs(ctx context.Context, application *app.App, raw string) ([]usecase.MergePair, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		duplicates, err := application.Merge.DetectDuplicates(ctx)
		if err != nil {
			return nil, err
		}
		pairs := make([]usecase.MergePair, 0, len(duplicates))
		for _, pair := range duplicates {
			pairs = append(pairs, usecase.MergePair{KeepID: pair.KeepID, DeleteID: pair.DeleteID})
		}
		return pairs, nil
	}

	var pairs []usecase.MergePair
	for _, token := range strings.Split(raw, ",") {
		keepRaw, deleteRaw, found := strings.Cut(strings.TrimSpace(token), ":")
		if !found {
			return nil, fmt.Errorf("invalid pair %q: expected keep:delete", token)
		}
		keepID, err := strconv.ParseInt(strings.TrimSpace(keepRaw), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid keep id %q: %w", keepRaw, err)
		}
		deleteID, err := strconv.ParseInt(strings.TrimSpace(deleteRaw), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid delete id %q: %w", deleteRaw, err)
		}
		pairs = append(pairs, usecase.MergePair{KeepID: keepID, DeleteID: deleteID})
	}
	return pairs, nil
}
