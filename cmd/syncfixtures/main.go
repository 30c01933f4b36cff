package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/matchontv/reconcile/internal/app"
	"github.com/matchontv/reconcile/internal/config"
	"github.com/matchontv/reconcile/internal/observability"
	"github.com/matchontv/reconcile/internal/platform/logging"
	"github.com/matchontv/reconcile/internal/platform/report"
	"github.com/matchontv/reconcile/internal/usecase"
)

const dateLayout = "2006-01-02"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "syncfixtures:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		competition       = flag.String("competition", "", "competition slug to synchronize (default: every visible competition)")
		fromRaw           = flag.String("from", "", "range start, YYYY-MM-DD (default today)")
		toRaw             = flag.String("to", "", "range end inclusive, YYYY-MM-DD (default from+13d)")
		includeBroadcasts = flag.Bool("include-broadcasts", true, "ingest tvstation rows and recompute the primary broadcaster")
		backfillTeams     = flag.Bool("backfill-teams", false, "link provider team ids to canonical teams by name before syncing")
	)
	flag.Parse()

	from, to, err := resolveRange(*fromRaw, *toRaw)
	if err != nil {
		return err
	}

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

	stopProfiler, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		return fmt.Errorf("init pyroscope: %w", err)
	}
	defer func() { _ = stopProfiler() }()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = application.Close() }()

	input := usecase.SyncInput{
		CompetitionSlug:   *competition,
		From:              from,
		To:                to,
		IncludeBroadcasts: *includeBroadcasts,
		BackfillTeams:     *backfillTeams,
	}

	if *competition == "" {
		outcomes, err := application.Sync.SyncVisible(ctx, input)
		if err != nil {
			return err
		}
		for _, outcome := range outcomes {
			if outcome.Err != nil {
				fmt.Fprintf(os.Stderr, "sync %s failed: %v\n", outcome.Slug, outcome.Err)
				continue
			}
			fmt.Print(renderSummary(outcome.Slug, from, to, outcome.Result))
		}
		return nil
	}

	result, err := application.Sync.SyncRange(ctx, input)
	if err != nil {
		return err
	}

	fmt.Print(renderSummary(*competition, from, to, result))
	return nil
}

func resolveRange(fromRaw, toRaw string) (time.Time, time.Time, error) {
	from := time.Now().UTC().Truncate(24 * time.Hour)
	if fromRaw != "" {
		parsed, err := time.Parse(dateLayout, fromRaw)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid -from %q: %w", fromRaw, err)
		}
		from = parsed
	}

	to := from.AddDate(0, 0, 13)
	if toRaw != "" {
		parsed, err := time.Parse(dateLayout, toRaw)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid -to %q: %w", toRaw, err)
		}
		to = parsed
	}

	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("-to %s is before -from %s", to.Format(dateLayout), from.Format(dateLayout))
	}

	return from, to, nil
}

func renderSummary(competition string, from, to time.Time, result usecase.SyncResult) string {
	b := report.NewBuilder(fmt.Sprintf("sync %s %s..%s", competition, from.Format(dateLayout), to.Format(dateLayout)))
	b.Section("windows").
		Line("ok", result.WindowsOK).
		Line("failed", result.WindowsFailed)
	b.Section("fixtures").
		Line("inserted", result.Inserted).
		Line("updated", result.Updated).
		Line("skipped", result.Skipped).
		Line("failed", result.Failed)
	b.Section("broadcasts").
		Line("inserted", result.BroadcastsInserted).
		Line("unmapped", result.BroadcastsUnmapped)

	if len(result.SkippedFixtures) > 0 {
		b.Section("skipped fixture ids")
		for _, id := range result.SkippedFixtures {
			b.Line("external", id)
		}
	}
	if len(result.FailedWindows) > 0 {
		b.Section("failed windows")
		for _, failure := range result.FailedWindows {
			b.Linef("window", "%s..%s: %v",
				failure.Start.Format(dateLayout), failure.End.Format(dateLayout), failure.Err)
		}
	}

	return b.String()
}
