package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"go.uber.org/zap"

	"MarketBriefing/internal/logger"
	"MarketBriefing/internal/model"
)

// ErrNoData is reported for a symbol the provider returned nothing for.
var ErrNoData = errors.New("no data returned")

// barsClient is the subset of the Alpaca market data client used here.
type barsClient interface {
	GetMultiBars(symbols []string, req marketdata.GetBarsRequest) (map[string][]marketdata.Bar, error)
}

// AlpacaFetcher implements Fetcher with a single batched Alpaca bars request.
type AlpacaFetcher struct {
	Client barsClient
	Now    func() time.Time
	Logger *zap.Logger
}

// NewAlpacaFetcher creates a fetcher for the Alpaca market data API.
// timeout bounds each HTTP call made by the client.
func NewAlpacaFetcher(apiKey, apiSecret, baseURL string, timeout time.Duration, log *zap.Logger) *AlpacaFetcher {
	client := marketdata.NewClient(marketdata.ClientOpts{
		APIKey:     apiKey,
		APISecret:  apiSecret,
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: timeout},
	})
	return &AlpacaFetcher{Client: client, Now: time.Now, Logger: logger.OrNop(log)}
}

func (f *AlpacaFetcher) Name() string { return "alpaca" }

func (f *AlpacaFetcher) Separator() rune { return '.' }

// FetchSeries asks for enough calendar days to cover sessions trading days,
// then keeps the latest sessions bars per symbol.
func (f *AlpacaFetcher) FetchSeries(ctx context.Context, symbols []string, sessions int) (map[string]model.SeriesResult, error) {
	end := f.Now()
	// Weekends and holidays: two calendar days per session plus a week of slack.
	start := end.AddDate(0, 0, -(sessions*2 + 7))
	req := marketdata.GetBarsRequest{
		TimeFrame:  marketdata.OneDay,
		Adjustment: marketdata.Split,
		Start:      start,
		End:        end,
	}

	type reply struct {
		bars map[string][]marketdata.Bar
		err  error
	}
	// GetMultiBars takes no context. On cancellation the goroutine outlives
	// this call until the HTTP client times out; the buffered channel lets it exit.
	ch := make(chan reply, 1)
	go func() {
		bars, err := f.Client.GetMultiBars(symbols, req)
		ch <- reply{bars: bars, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("alpaca batch: %w", ctx.Err())
	case r := <-ch:
		if r.err != nil {
			return nil, fmt.Errorf("alpaca batch: %w", r.err)
		}
		logger.OrNop(f.Logger).Debug("alpaca bars received", zap.Int("symbols", len(r.bars)))
		return barsToResults(symbols, r.bars, sessions), nil
	}
}

// barsToResults converts an Alpaca bars response into one result per requested symbol.
func barsToResults(symbols []string, bars map[string][]marketdata.Bar, sessions int) map[string]model.SeriesResult {
	results := make(map[string]model.SeriesResult, len(symbols))
	for _, sym := range symbols {
		raw, ok := bars[sym]
		if !ok || len(raw) == 0 {
			results[sym] = model.SeriesResult{Series: model.PriceSeries{Symbol: sym}, Err: ErrNoData}
			continue
		}
		if len(raw) > sessions {
			raw = raw[len(raw)-sessions:]
		}
		points := make([]model.PricePoint, len(raw))
		for i, b := range raw {
			points[i] = model.PricePoint{Time: b.Timestamp.UTC(), Close: b.Close}
		}
		results[sym] = model.SeriesResult{Series: model.PriceSeries{Symbol: sym, Points: points}}
	}
	return results
}
