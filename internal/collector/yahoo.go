package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"MarketBriefing/internal/logger"
	"MarketBriefing/internal/model"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements Fetcher using the Yahoo Finance public chart API.
// Symbols are requested one per call, at most Concurrency at a time.
type YahooFetcher struct {
	BaseURL     string
	Client      *resty.Client
	Concurrency int
	Logger      *zap.Logger
}

// NewYahooFetcher creates a Yahoo fetcher. timeout bounds each HTTP call.
func NewYahooFetcher(timeout time.Duration, proxyURL string, concurrency int, log *zap.Logger) *YahooFetcher {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", "Mozilla/5.0")
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &YahooFetcher{
		BaseURL:     yahooBaseURL,
		Client:      client,
		Concurrency: concurrency,
		Logger:      logger.OrNop(log),
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) Separator() rune { return '-' }

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []interface{} `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// toFloat reads a close value; JSON null decodes to nil and yields 0.
func toFloat(v interface{}) float64 {
	n, _ := v.(float64)
	return n
}

// chartRange picks the smallest Yahoo range covering the requested sessions.
func chartRange(sessions int) string {
	switch {
	case sessions <= 15:
		return "1mo"
	case sessions <= 60:
		return "3mo"
	case sessions <= 120:
		return "6mo"
	case sessions <= 250:
		return "1y"
	default:
		return "2y"
	}
}

// transportError marks failures that never got an HTTP response.
type transportError struct{ err error }

func (e *transportError) Error() string { return e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }

// statusError marks a response outside the 2xx range.
type statusError struct {
	code int
	err  error
}

func (e *statusError) Error() string { return e.err.Error() }
func (e *statusError) Unwrap() error { return e.err }

// FetchSeries requests every symbol concurrently. The batch fails if the
// context ends or no request gets a 2xx answer from Yahoo.
func (f *YahooFetcher) FetchSeries(ctx context.Context, symbols []string, sessions int) (map[string]model.SeriesResult, error) {
	results := make(map[string]model.SeriesResult, len(symbols))
	var mu sync.Mutex
	var answered int
	var firstBatchErr error

	g := new(errgroup.Group)
	g.SetLimit(f.Concurrency)
	for _, sym := range symbols {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			series, err := f.fetchChart(ctx, sym, sessions)
			mu.Lock()
			defer mu.Unlock()
			results[sym] = model.SeriesResult{Series: series, Err: err}
			var te *transportError
			var se *statusError
			switch {
			case errors.As(err, &te), errors.As(err, &se):
				if firstBatchErr == nil {
					firstBatchErr = err
				}
			default:
				answered++
			}
			if err != nil {
				f.Logger.Debug("symbol fetch failed", zap.String("symbol", sym), zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("yahoo batch: %w", err)
	}
	if len(symbols) > 0 && answered == 0 {
		return nil, fmt.Errorf("yahoo batch: no request succeeded: %w", firstBatchErr)
	}
	return results, nil
}

func (f *YahooFetcher) fetchChart(ctx context.Context, symbol string, sessions int) (model.PriceSeries, error) {
	series := model.PriceSeries{Symbol: symbol}

	resp, err := f.Client.R().
		SetContext(ctx).
		SetPathParam("symbol", symbol).
		SetQueryParams(map[string]string{
			"interval": "1d",
			"range":    chartRange(sessions),
		}).
		Get(f.BaseURL + "/v8/finance/chart/{symbol}")
	if err != nil {
		return series, &transportError{err: fmt.Errorf("yahoo fetch: %w", err)}
	}

	var chart yahooChart
	decodeErr := json.Unmarshal(resp.Body(), &chart)
	if code := resp.StatusCode(); code < http.StatusOK || code >= http.StatusMultipleChoices {
		err := fmt.Errorf("yahoo: status %d", code)
		if decodeErr == nil && chart.Chart.Error != nil {
			err = fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
		}
		return series, &statusError{code: code, err: err}
	}
	if decodeErr != nil {
		return series, fmt.Errorf("yahoo decode: %w", decodeErr)
	}
	if chart.Chart.Error != nil {
		return series, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return series, fmt.Errorf("yahoo: no data returned")
	}

	result := chart.Chart.Result[0]
	closes := result.Indicators.Quote[0].Close
	points := make([]model.PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) {
			break
		}
		c := toFloat(closes[i])
		if c == 0 {
			continue // skip null bars (holidays etc.)
		}
		points = append(points, model.PricePoint{Time: time.Unix(ts, 0).UTC(), Close: c})
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Time.Before(points[j].Time) })
	if len(points) > sessions {
		points = points[len(points)-sessions:]
	}
	series.Points = points
	return series, nil
}
