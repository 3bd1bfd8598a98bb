package collector

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"MarketBriefing/internal/calculator"
	"MarketBriefing/internal/logger"
	"MarketBriefing/internal/model"
	"MarketBriefing/internal/universe"
)

// ErrEmptyUniverse is returned when Resolve is called with no symbols.
var ErrEmptyUniverse = errors.New("universe snapshot is empty")

// Resolution is the outcome of one Resolve call.
type Resolution struct {
	Series  map[string]model.PriceSeries
	Dropped []*SymbolError
}

// Resolver turns a universe snapshot into price series, dropping symbols
// whose data is missing, short, or malformed.
type Resolver struct {
	Fetcher  Fetcher
	Lookback int
	Timeout  time.Duration
	Logger   *zap.Logger
}

// NewResolver creates a Resolver fetching lookback sessions per symbol.
// timeout bounds the whole batch call; zero means no extra bound.
func NewResolver(fetcher Fetcher, lookback int, timeout time.Duration, log *zap.Logger) *Resolver {
	return &Resolver{Fetcher: fetcher, Lookback: lookback, Timeout: timeout, Logger: logger.OrNop(log)}
}

// Resolve performs one batch retrieval. A failed batch returns a *RetrievalError
// and no mapping; per-symbol problems are collected in Resolution.Dropped.
func (r *Resolver) Resolve(ctx context.Context, snap *universe.Snapshot) (*Resolution, error) {
	if snap == nil || snap.Len() == 0 {
		return nil, ErrEmptyUniverse
	}
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	symbols := snap.Symbols()
	start := time.Now()
	raw, err := r.Fetcher.FetchSeries(ctx, symbols, r.Lookback)
	if err != nil {
		return nil, &RetrievalError{Provider: r.Fetcher.Name(), Err: err}
	}

	res := &Resolution{Series: make(map[string]model.PriceSeries, len(symbols))}
	for _, sym := range symbols {
		result, ok := raw[sym]
		if !ok {
			result.Err = ErrNoData
		}
		series, serr := r.check(sym, result)
		if serr != nil {
			res.Dropped = append(res.Dropped, serr)
			continue
		}
		res.Series[sym] = series
	}

	r.Logger.Info("prices resolved",
		zap.String("provider", r.Fetcher.Name()),
		zap.Int("requested", len(symbols)),
		zap.Int("resolved", len(res.Series)),
		zap.Int("dropped", len(res.Dropped)),
		zap.Duration("elapsed", time.Since(start)))
	return res, nil
}

func (r *Resolver) check(sym string, result model.SeriesResult) (model.PriceSeries, *SymbolError) {
	if result.Err != nil {
		return model.PriceSeries{}, &SymbolError{Symbol: sym, Reason: ReasonFetch, Err: result.Err}
	}
	series := calculator.Tail(result.Series, r.Lookback)
	series.Symbol = sym
	if series.Len() < 2 {
		return model.PriceSeries{}, &SymbolError{Symbol: sym, Reason: ReasonShort, Err: calculator.ErrShortSeries}
	}
	if err := calculator.ValidateSeries(series); err != nil {
		return model.PriceSeries{}, &SymbolError{Symbol: sym, Reason: ReasonMalformed, Err: err}
	}
	return series, nil
}
