package briefing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"MarketBriefing/internal/collector"
	"MarketBriefing/internal/logger"
	"MarketBriefing/internal/notifier"
	"MarketBriefing/internal/ranker"
	"MarketBriefing/internal/universe"
)

// Sender delivers a rendered briefing.
type Sender interface {
	Send(ctx context.Context, subject, text, html string) error
}

// UniverseBuilder produces the symbol universe for a run.
type UniverseBuilder interface {
	Build(ctx context.Context) (*universe.Snapshot, []universe.IndexSummary, error)
}

// Runner executes one briefing: universe, prices, ranking, rendering, delivery.
type Runner struct {
	Universe UniverseBuilder
	Fallback []string
	Resolver *collector.Resolver
	TopK     int
	Sender   Sender    // nil only in dry-run mode
	Out      io.Writer // dry-run output
	DryRun   bool
	JSON     bool
	Now      func() time.Time
	Logger   *zap.Logger
}

// Run performs a single linear run. Any batch-level failure aborts the run
// before anything is sent.
func (r *Runner) Run(ctx context.Context) error {
	runID := uuid.NewString()
	log := logger.OrNop(r.Logger).With(zap.String("run_id", runID))
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	if !r.DryRun && r.Sender == nil {
		return errors.New("no sender configured")
	}
	log.Info("briefing run starting", zap.Bool("dry_run", r.DryRun))

	sep := r.Resolver.Fetcher.Separator()
	snap, indices, err := r.Universe.Build(ctx)
	fallback := false
	if err != nil {
		var ferr *universe.FetchError
		if !errors.As(err, &ferr) {
			return fmt.Errorf("build universe: %w", err)
		}
		log.Warn("universe unavailable, using fallback list", zap.Error(err), zap.Int("fallback", len(r.Fallback)))
		snap = universe.Fallback(r.Fallback, sep)
		fallback = true
	}
	log.Info("universe ready", zap.Int("symbols", snap.Len()), zap.Bool("fallback", fallback))

	res, err := r.Resolver.Resolve(ctx, snap)
	if err != nil {
		return fmt.Errorf("resolve prices: %w", err)
	}
	for _, d := range res.Dropped {
		log.Debug("symbol dropped", zap.String("symbol", d.Symbol), zap.String("reason", d.Reason), zap.Error(d.Err))
	}

	report := ranker.Rank(res.Series, r.TopK)
	log.Info("movers ranked",
		zap.Int("valid", report.Valid),
		zap.Int("gainers", len(report.Gainers)),
		zap.Int("losers", len(report.Losers)))

	b := &notifier.Briefing{
		Date:     now(),
		RunID:    runID,
		Window:   r.Resolver.Lookback,
		Indices:  indices,
		Fallback: fallback,
		Universe: snap.Len(),
		Dropped:  len(res.Dropped),
		Report:   report,
	}

	if r.DryRun {
		return r.print(b)
	}

	text := notifier.FormatText(b)
	html, err := notifier.FormatHTML(b)
	if err != nil {
		return err
	}
	if err := r.Sender.Send(ctx, b.Subject(), text, html); err != nil {
		return err
	}
	log.Info("briefing run finished")
	return nil
}

func (r *Runner) print(b *notifier.Briefing) error {
	if r.JSON {
		out, err := notifier.FormatJSON(b)
		if err != nil {
			return err
		}
		_, err = r.Out.Write(out)
		return err
	}
	_, err := io.WriteString(r.Out, notifier.FormatText(b))
	return err
}
