package universe

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"MarketBriefing/internal/logger"
)

// IndexSummary reports what one source contributed to the universe.
type IndexSummary struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Err   string `json:"error,omitempty"`
}

// Entry pairs a source with the exchange suffix its symbols need.
type Entry struct {
	Source Source
	Suffix string
}

// Builder assembles a Snapshot from several index sources.
type Builder struct {
	Entries   []Entry
	Separator rune
	Logger    *zap.Logger
}

// NewBuilder creates a Builder normalizing symbols with sep.
func NewBuilder(sep rune, log *zap.Logger, entries ...Entry) *Builder {
	return &Builder{Entries: entries, Separator: sep, Logger: logger.OrNop(log)}
}

// Build fetches every source. A failing source is logged and summarized but
// does not stop the others. If no source yields a symbol, Build returns a *FetchError.
func (b *Builder) Build(ctx context.Context) (*Snapshot, []IndexSummary, error) {
	snap := NewSnapshot()
	summaries := make([]IndexSummary, 0, len(b.Entries))
	var errs []error

	for _, e := range b.Entries {
		raw, err := e.Source.Fetch(ctx)
		if err != nil {
			b.Logger.Warn("index fetch failed", zap.String("index", e.Source.Name()), zap.Error(err))
			summaries = append(summaries, IndexSummary{Name: e.Source.Name(), Err: err.Error()})
			errs = append(errs, err)
			continue
		}
		before := snap.Len()
		for _, r := range raw {
			snap.Add(Qualify(r, b.Separator, e.Suffix))
		}
		b.Logger.Info("index fetched",
			zap.String("index", e.Source.Name()),
			zap.Int("listed", len(raw)),
			zap.Int("added", snap.Len()-before))
		summaries = append(summaries, IndexSummary{Name: e.Source.Name(), Count: len(raw)})
	}

	if snap.Len() == 0 {
		if len(errs) == 0 {
			errs = append(errs, fmt.Errorf("%d sources returned no symbols", len(b.Entries)))
		}
		return nil, summaries, &FetchError{Errs: errs}
	}
	return snap, summaries, nil
}

// Fallback builds a snapshot from a static list.
func Fallback(symbols []string, sep rune) *Snapshot {
	snap := NewSnapshot()
	for _, s := range symbols {
		snap.Add(Normalize(s, sep))
	}
	return snap
}
