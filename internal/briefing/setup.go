package briefing

import (
	"io"

	"go.uber.org/zap"

	"MarketBriefing/internal/collector"
	"MarketBriefing/internal/config"
	"MarketBriefing/internal/notifier"
	"MarketBriefing/internal/universe"
)

// Options are the command-line switches that shape a run.
type Options struct {
	DryRun bool
	JSON   bool
	Out    io.Writer
}

// NewFetcher picks the price provider named in the config.
func NewFetcher(cfg *config.Config, log *zap.Logger) collector.Fetcher {
	ds := cfg.DataSource
	if ds.Provider == "alpaca" {
		return collector.NewAlpacaFetcher(ds.APIKey, ds.APISecret, ds.BaseURL, ds.FetchTimeout, log)
	}
	f := collector.NewYahooFetcher(ds.FetchTimeout, cfg.Proxy, ds.Concurrency, log)
	if ds.BaseURL != "" {
		f.BaseURL = ds.BaseURL
	}
	return f
}

// NewUniverseBuilder creates one Wikipedia source per enabled index.
func NewUniverseBuilder(cfg *config.Config, sep rune, log *zap.Logger) *universe.Builder {
	client := universe.NewRestyClient(cfg.DataSource.FetchTimeout, cfg.Proxy)
	var entries []universe.Entry
	for _, idx := range cfg.Universe.Indices {
		if idx.Disabled {
			continue
		}
		entries = append(entries, universe.Entry{
			Source: &universe.WikipediaSource{
				Label:  idx.Name,
				URL:    idx.URL,
				Table:  idx.Table,
				Column: idx.Column,
				Client: client,
			},
			Suffix: idx.Suffix,
		})
	}
	return universe.NewBuilder(sep, log, entries...)
}

// New wires a Runner from configuration. Outside dry-run mode the mail
// credentials are checked first, so a run without them never fetches or sends.
func New(cfg *config.Config, opts Options, log *zap.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var sender Sender
	if !opts.DryRun {
		m, err := notifier.NewMailer(cfg.Mail, log)
		if err != nil {
			return nil, err
		}
		sender = m
	}

	fetcher := NewFetcher(cfg, log)
	return &Runner{
		Universe: NewUniverseBuilder(cfg, fetcher.Separator(), log),
		Fallback: cfg.Universe.Fallback,
		Resolver: collector.NewResolver(fetcher, cfg.DataSource.Lookback, cfg.DataSource.BatchTimeout, log),
		TopK:     cfg.Report.TopK,
		Sender:   sender,
		Out:      opts.Out,
		DryRun:   opts.DryRun,
		JSON:     opts.JSON,
		Logger:   log,
	}, nil
}
