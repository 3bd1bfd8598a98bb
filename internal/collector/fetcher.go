package collector

import (
	"context"

	"MarketBriefing/internal/model"
)

// Fetcher retrieves recent daily closes for a batch of symbols.
//
// A returned error means the batch as a whole failed. Problems with a single
// symbol are reported in that symbol's SeriesResult instead.
type Fetcher interface {
	FetchSeries(ctx context.Context, symbols []string, sessions int) (map[string]model.SeriesResult, error)
	// Separator is the class separator the provider expects in symbols (BRK-B vs BRK.B).
	Separator() rune
	Name() string
}
